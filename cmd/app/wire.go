//go:build wireinject
// +build wireinject

package main

import (
	"github.com/google/wire"

	"github.com/yanqian/support-bot/internal/bootstrap"
	"github.com/yanqian/support-bot/internal/domain/support"
	"github.com/yanqian/support-bot/internal/infra/config"
	httpiface "github.com/yanqian/support-bot/internal/interface/http"
	"github.com/yanqian/support-bot/pkg/logger"
)

func initializeApp() (*bootstrap.App, error) {
	wire.Build(
		config.Load,
		logger.New,
		provideSupportConfig,
		provideMatcher,
		provideStore,
		provideGenerator,
		support.NewService,
		httpiface.NewHandler,
		httpiface.NewRouter,
		bootstrap.NewApp,
	)
	return nil, nil
}

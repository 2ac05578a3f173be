package fallback

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/pkoukk/tiktoken-go"

	"github.com/yanqian/support-bot/internal/domain/support"
	"github.com/yanqian/support-bot/internal/infra/llm/chatgpt"
	"github.com/yanqian/support-bot/pkg/metrics"
)

// ChatClient is the subset of the ChatGPT client the generator needs.
type ChatClient interface {
	CreateChatCompletion(ctx context.Context, req chatgpt.ChatCompletionRequest) (chatgpt.ChatCompletionResponse, error)
}

// Config holds the LLM generator settings.
type Config struct {
	Model       string
	Temperature float32
	Prompt      string
}

// LLM asks a chat model for a reply, grounded in the session's recent
// questions.
type LLM struct {
	cfg     Config
	client  ChatClient
	encoder *tiktoken.Tiktoken
	logger  *slog.Logger
}

// NewLLM constructs the generator. Token accounting degrades gracefully when
// no encoding is known for the model.
func NewLLM(cfg Config, client ChatClient, logger *slog.Logger) *LLM {
	encoder, err := tiktoken.EncodingForModel(cfg.Model)
	if err != nil {
		encoder, err = tiktoken.GetEncoding("cl100k_base")
		if err != nil {
			encoder = nil
		}
	}
	return &LLM{
		cfg:     cfg,
		client:  client,
		encoder: encoder,
		logger:  logger.With("component", "fallback.llm"),
	}
}

// Generate implements support.Generator.
func (g *LLM) Generate(ctx context.Context, question string, session support.Session) (support.Reply, error) {
	messages := g.buildMessages(question, session)

	resp, err := g.client.CreateChatCompletion(ctx, chatgpt.ChatCompletionRequest{
		Model:       g.cfg.Model,
		Messages:    messages,
		Temperature: g.cfg.Temperature,
	})
	if err != nil {
		return support.Reply{}, fmt.Errorf("chatgpt request failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return support.Reply{}, errors.New("chatgpt returned no choices")
	}
	answer := strings.TrimSpace(resp.Choices[0].Message.Content)
	if answer == "" {
		return support.Reply{}, errors.New("chatgpt response empty")
	}

	usage := g.resolveUsage(resp.Usage, messages, answer)
	return support.Reply{Text: answer, Usage: usage}, nil
}

func (g *LLM) buildMessages(question string, session support.Session) []chatgpt.Message {
	messages := []chatgpt.Message{
		{Role: "system", Content: g.cfg.Prompt},
	}
	// earlier questions, excluding the current turn
	if recent := session.LastQuestions; len(recent) > 1 {
		previous := recent[:len(recent)-1]
		messages = append(messages, chatgpt.Message{
			Role:    "system",
			Content: "Earlier in this conversation the user asked: " + strings.Join(previous, " | "),
		})
	}
	messages = append(messages, chatgpt.Message{
		Role:    "user",
		Content: fmt.Sprintf("Question: %s\nAnswer concisely in 3 sentences or less.", question),
	})
	return messages
}

// resolveUsage prefers the API-reported counts and falls back to local
// tiktoken counting when the API omits them.
func (g *LLM) resolveUsage(apiUsage chatgpt.Usage, messages []chatgpt.Message, answer string) *metrics.TokenUsage {
	if apiUsage.TotalTokens > 0 {
		usage := metrics.TokenUsage{
			PromptTokens:     apiUsage.PromptTokens,
			CompletionTokens: apiUsage.CompletionTokens,
			TotalTokens:      apiUsage.TotalTokens,
		}
		return &usage
	}
	if g.encoder == nil {
		return nil
	}
	prompt := 0
	for _, msg := range messages {
		prompt += len(g.encoder.Encode(msg.Content, nil, nil))
	}
	completion := len(g.encoder.Encode(answer, nil, nil))
	usage := metrics.NewTokenUsage(prompt, completion)
	return &usage
}

var _ support.Generator = (*LLM)(nil)

package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yanqian/support-bot/internal/domain/support"
	apperrors "github.com/yanqian/support-bot/pkg/errors"
)

// Handler wires the HTTP transport to the support service.
type Handler struct {
	svc    support.Service
	logger *slog.Logger
}

// NewHandler constructs the root HTTP handler.
func NewHandler(svc support.Service, logger *slog.Logger) *Handler {
	return &Handler{
		svc:    svc,
		logger: logger.With("component", "http.handler"),
	}
}

// Ask answers a support question from the FAQ catalog or the fallback.
func (h *Handler) Ask(c *gin.Context) {
	var req support.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}

	resp, err := h.svc.Answer(c.Request.Context(), req)
	if err != nil {
		status := http.StatusInternalServerError
		code := "answer_failed"
		switch {
		case apperrors.IsCode(err, "invalid_input"):
			status = http.StatusBadRequest
			code = "invalid_request"
		case apperrors.IsCode(err, "fallback_error"):
			status = http.StatusBadGateway
			code = "fallback_error"
		}
		abortWithError(c, NewHTTPError(status, code, errMessage(err), err))
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Trending returns the most frequently asked questions.
func (h *Handler) Trending(c *gin.Context) {
	queries, err := h.svc.Trending(c.Request.Context())
	if err != nil {
		abortWithError(c, NewHTTPError(http.StatusInternalServerError, "trending_failed", errMessage(err), err))
		return
	}
	if queries == nil {
		queries = []support.TrendingQuery{}
	}
	c.JSON(http.StatusOK, gin.H{"queries": queries})
}

// GetSession exposes the per-conversation memory.
func (h *Handler) GetSession(c *gin.Context) {
	session, ok, err := h.svc.Session(c.Request.Context(), c.Param("id"))
	if err != nil {
		status := http.StatusInternalServerError
		code := "session_failed"
		if apperrors.IsCode(err, "invalid_input") {
			status = http.StatusBadRequest
			code = "invalid_request"
		}
		abortWithError(c, NewHTTPError(status, code, errMessage(err), err))
		return
	}
	if !ok {
		abortWithError(c, NewHTTPError(http.StatusNotFound, "session_not_found", "session not found", nil))
		return
	}
	c.JSON(http.StatusOK, session)
}

// ResetSession clears the memory for one conversation.
func (h *Handler) ResetSession(c *gin.Context) {
	if err := h.svc.ResetSession(c.Request.Context(), c.Param("id")); err != nil {
		status := http.StatusInternalServerError
		code := "session_failed"
		if apperrors.IsCode(err, "invalid_input") {
			status = http.StatusBadRequest
			code = "invalid_request"
		}
		abortWithError(c, NewHTTPError(status, code, errMessage(err), err))
		return
	}
	c.Status(http.StatusNoContent)
}

// Health reports liveness.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func errMessage(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

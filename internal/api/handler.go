// Package api exposes the interview engine over HTTP.
package api

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/voxlab/interviewd/internal/archive"
	"github.com/voxlab/interviewd/internal/domain"
	"github.com/voxlab/interviewd/internal/engine"
	"github.com/voxlab/interviewd/internal/extract"
)

// maxResumeBytes caps the uploaded résumé size.
const maxResumeBytes = 10 << 20 // 10 MiB

// ArchiveReader lists archived interviews for the review endpoints.
type ArchiveReader interface {
	List(ctx context.Context, limit int) ([]archive.Summary, error)
	Transcript(ctx context.Context, sessionID string) ([]domain.Message, error)
}

// Handler handles HTTP requests.
type Handler struct {
	engine    *engine.Engine
	extractor extract.Extractor
	archive   ArchiveReader // nil when archiving is disabled
	log       *zap.Logger
}

// NewHandler creates a new handler.
func NewHandler(eng *engine.Engine, extractor extract.Extractor, archiveReader ArchiveReader, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{
		engine:    eng,
		extractor: extractor,
		archive:   archiveReader,
		log:       log,
	}
}

// RegisterRoutes registers routes with the echo server. The two POST
// paths match the original frontend contract.
func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.POST("/start-interview", h.StartInterview)
	e.POST("/answer", h.Answer)

	e.GET("/v1/interviews/:session_id/messages", h.GetInterviewMessages)
	e.GET("/v1/archive/interviews", h.ListArchivedInterviews)
	e.GET("/v1/archive/interviews/:session_id/messages", h.GetArchivedMessages)

	e.GET("/health", h.Health)
}

// Health returns health status.
func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status":  "healthy",
		"version": "0.1.0",
	})
}

package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/voxlab/interviewd/internal/store"
)

// GetInterviewMessages returns a live session's transcript.
// GET /v1/interviews/:session_id/messages
func (h *Handler) GetInterviewMessages(c echo.Context) error {
	ctx := c.Request().Context()
	sessionID := c.Param("session_id")

	transcript, concluded, err := h.engine.Transcript(ctx, sessionID)
	if err != nil {
		if errors.Is(err, store.ErrSessionNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": sessionExpiredMsg})
		}
		h.log.Error("failed to load transcript", zap.String("session_id", sessionID), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to get messages"})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"messages":  transcript,
		"concluded": concluded,
	})
}

// ListArchivedInterviews returns archived interviews, newest first.
// GET /v1/archive/interviews
func (h *Handler) ListArchivedInterviews(c echo.Context) error {
	if h.archive == nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "archive is disabled"})
	}

	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	interviews, err := h.archive.List(c.Request().Context(), limit)
	if err != nil {
		h.log.Error("failed to list archived interviews", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to list interviews"})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{"interviews": interviews})
}

// GetArchivedMessages returns the transcript of an archived interview.
// GET /v1/archive/interviews/:session_id/messages
func (h *Handler) GetArchivedMessages(c echo.Context) error {
	if h.archive == nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "archive is disabled"})
	}

	sessionID := c.Param("session_id")
	msgs, err := h.archive.Transcript(c.Request().Context(), sessionID)
	if err != nil {
		h.log.Error("failed to load archived transcript", zap.String("session_id", sessionID), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to get messages"})
	}
	if len(msgs) == 0 {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "interview not found"})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{"messages": msgs})
}

package api

import (
	"errors"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/voxlab/interviewd/internal/engine"
	"github.com/voxlab/interviewd/internal/extract"
	"github.com/voxlab/interviewd/internal/llm"
	"github.com/voxlab/interviewd/internal/store"
)

const (
	sessionExpiredMsg     = "Session expired. Please start a new interview."
	providerUnavailable   = "The interviewer is unavailable right now. Please try again."
	interviewConcludedMsg = "This interview has already concluded. Please start a new interview."
)

// StartInterview ingests the résumé, derives interview context and opens
// a session.
// POST /start-interview (multipart form: job_role, candidate_name, resume)
func (h *Handler) StartInterview(c echo.Context) error {
	ctx := c.Request().Context()

	jobRole := c.FormValue("job_role")
	if jobRole == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "job_role is required"})
	}
	candidateName := c.FormValue("candidate_name")
	if candidateName == "" {
		candidateName = "Candidate"
	}

	fileHeader, err := c.FormFile("resume")
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "resume file is required"})
	}
	if fileHeader.Size > maxResumeBytes {
		return c.JSON(http.StatusRequestEntityTooLarge, map[string]string{"error": "resume file too large"})
	}
	file, err := fileHeader.Open()
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "could not read resume file"})
	}
	defer file.Close()
	data, err := io.ReadAll(io.LimitReader(file, maxResumeBytes+1))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "could not read resume file"})
	}
	if len(data) > maxResumeBytes {
		return c.JSON(http.StatusRequestEntityTooLarge, map[string]string{"error": "resume file too large"})
	}

	resumeText, err := h.extractor.Extract(ctx, data, fileHeader.Header.Get("Content-Type"))
	if err != nil {
		h.log.Warn("resume extraction failed",
			zap.String("filename", fileHeader.Filename),
			zap.Error(err))
		if errors.Is(err, extract.ErrUnsupportedFormat) || errors.Is(err, extract.ErrNoText) {
			return c.JSON(http.StatusUnprocessableEntity,
				map[string]string{"error": "could not extract text from the resume"})
		}
		return c.JSON(http.StatusBadGateway,
			map[string]string{"error": "could not extract text from the resume"})
	}

	sessionID, greeting, err := h.engine.StartInterview(ctx, jobRole, candidateName, resumeText)
	if err != nil {
		return h.interviewError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]string{
		"message":    greeting,
		"session_id": sessionID,
	})
}

// Answer submits the candidate's answer and returns the interviewer's
// next turn.
// POST /answer (form: session_id, user_answer)
func (h *Handler) Answer(c echo.Context) error {
	ctx := c.Request().Context()

	sessionID := c.FormValue("session_id")
	if sessionID == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "session_id is required"})
	}
	answer := c.FormValue("user_answer")
	if answer == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "user_answer is required"})
	}

	reply, err := h.engine.Advance(ctx, sessionID, answer)
	if err != nil {
		return h.interviewError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]string{"reply": reply})
}

// interviewError maps engine errors to user-actionable responses. A
// missing session and a failed provider are never conflated, and
// provider detail never leaks to the candidate.
func (h *Handler) interviewError(c echo.Context, err error) error {
	var admission *engine.AdmissionError

	switch {
	case errors.Is(err, store.ErrSessionNotFound):
		return c.JSON(http.StatusNotFound, map[string]string{"error": sessionExpiredMsg})
	case errors.Is(err, engine.ErrInterviewConcluded):
		return c.JSON(http.StatusConflict, map[string]string{"error": interviewConcludedMsg})
	case errors.As(err, &admission):
		return c.JSON(http.StatusUnprocessableEntity, map[string]string{"error": admission.Reason})
	case errors.Is(err, llm.ErrTimeout):
		h.log.Error("completion timed out", zap.Error(err))
		return c.JSON(http.StatusGatewayTimeout, map[string]string{"error": providerUnavailable})
	default:
		h.log.Error("interview request failed", zap.Error(err))
		return c.JSON(http.StatusBadGateway, map[string]string{"error": providerUnavailable})
	}
}

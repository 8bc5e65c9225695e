package applies

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"jobpilot-backend/internal/normalize"
	"jobpilot-backend/internal/shared/server/middleware"
	"jobpilot-backend/internal/shared/server/respond"
)

// Handler wires HTTP handlers to the apply service.
type Handler struct {
	Svc *Service
	// DevRoutes enables destructive dev-only endpoints.
	DevRoutes bool
}

func NewHandler(svc *Service, devRoutes bool) *Handler {
	return &Handler{Svc: svc, DevRoutes: devRoutes}
}

// RegisterRoutes attaches apply routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/jobs/:id/apply", h.apply)
	rg.GET("/applications", h.history)
	rg.GET("/usage", h.usage)
	if h.DevRoutes {
		rg.POST("/dev/usage/reset", h.resetUsage)
	}
}

type applyRequest struct {
	ResumeID    string `json:"resumeId,omitempty"`
	CoverLetter string `json:"coverLetter,omitempty"`
}

func (h *Handler) apply(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	jobID := c.Param("id")

	var req applyRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respond.Error(c, http.StatusBadRequest, "validation_error", "invalid json body", nil)
			return
		}
	}

	attempt, err := h.Svc.Apply(c.Request.Context(), userID, jobID, req.ResumeID, req.CoverLetter)
	if err != nil {
		switch {
		case errors.Is(err, ErrQuotaExceeded):
			respond.Error(c, http.StatusTooManyRequests, "quota_exceeded", "daily submission quota exceeded", nil)
		case errors.Is(err, ErrNoResume):
			respond.Error(c, http.StatusNotFound, "not_found", "no resume on file", nil)
		case errors.Is(err, ErrResumeLimit):
			respond.Error(c, http.StatusConflict, "resume_limit_exceeded", "stored resumes exceed your plan limit", nil)
		case errors.Is(err, ErrJobNotFound):
			respond.Error(c, http.StatusNotFound, "job_not_found", "job not found", nil)
		case errors.Is(err, ErrBelowThreshold):
			// The attempt was recorded; the caller learns why it stopped.
			respond.JSON(c, http.StatusOK, toResponse(attempt))
		case errors.Is(err, ErrUpstreamTimeout):
			respond.Error(c, http.StatusGatewayTimeout, "upstream_timeout", "job provider timed out", nil)
		case errors.Is(err, ErrPreparationFailed):
			respond.Error(c, http.StatusBadGateway, "application_preparation_failed", "job provider rejected the application", nil)
		case errors.Is(err, normalize.ErrUnsupportedFormat):
			respond.Error(c, http.StatusUnsupportedMediaType, "unsupported_format", "stored resume has an unsupported format", nil)
		case errors.Is(err, normalize.ErrParseFailure):
			respond.Error(c, http.StatusUnprocessableEntity, "parse_failure", "stored resume could not be parsed", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to apply", nil)
		}
		return
	}

	respond.JSON(c, http.StatusCreated, toResponse(attempt))
}

func (h *Handler) history(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	limit := 20
	offset := 0
	if v := c.Query("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			limit = parsed
		}
	}
	if limit < 0 {
		limit = 0
	}
	if limit > 50 {
		limit = 50
	}
	if v := c.Query("offset"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			offset = parsed
		}
	}
	if offset < 0 {
		offset = 0
	}

	list, err := h.Svc.History(c.Request.Context(), userID, limit, offset)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to list applications", nil)
		return
	}

	resp := make([]AttemptResponse, 0, len(list))
	for _, attempt := range list {
		resp = append(resp, toResponse(attempt))
	}
	respond.JSON(c, http.StatusOK, resp)
}

func (h *Handler) usage(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	usage, err := h.Svc.Usage(c.Request.Context(), userID)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to compute usage", nil)
		return
	}
	respond.JSON(c, http.StatusOK, usage)
}

func (h *Handler) resetUsage(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	deleted, err := h.Svc.ResetToday(c.Request.Context(), userID)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to reset usage", nil)
		return
	}
	respond.JSON(c, http.StatusOK, gin.H{"deleted": deleted})
}

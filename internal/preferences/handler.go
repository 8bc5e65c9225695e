package preferences

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"jobpilot-backend/internal/shared/server/middleware"
	"jobpilot-backend/internal/shared/server/respond"
)

// Handler exposes preference endpoints.
type Handler struct {
	Svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches preference routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/preferences", h.get)
	rg.PUT("/preferences", h.set)
}

type setPreferencesRequest struct {
	JobType     string `json:"jobType"`
	LocationZip string `json:"locationZip"`
	JobPosition string `json:"jobPosition"`
}

func (h *Handler) set(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	var req setPreferencesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid json body", nil)
		return
	}

	pref := JobPreference{
		JobType:     JobType(req.JobType),
		LocationZip: req.LocationZip,
		JobPosition: req.JobPosition,
	}
	if err := h.Svc.Set(c.Request.Context(), userID, pref); err != nil {
		if errors.Is(err, ErrValidation) {
			respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to save preferences", nil)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *Handler) get(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	pref, err := h.Svc.Get(c.Request.Context(), userID)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "preferences not set", nil)
		case errors.Is(err, ErrValidation):
			respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to load preferences", nil)
		}
		return
	}

	respond.JSON(c, http.StatusOK, pref)
}

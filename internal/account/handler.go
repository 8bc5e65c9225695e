package account

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"jobpilot-backend/internal/pending"
	"jobpilot-backend/internal/shared/server/middleware"
	"jobpilot-backend/internal/shared/server/respond"
	"jobpilot-backend/internal/users"
)

// Handler exposes the deferred account action endpoints.
type Handler struct {
	Coord *pending.Coordinator
	Users *users.Service
	Claim *Service
}

func NewHandler(coord *pending.Coordinator, userSvc *users.Service, claim *Service) *Handler {
	return &Handler{Coord: coord, Users: userSvc, Claim: claim}
}

// RegisterRoutes attaches account action routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/account/actions", h.requestAction)
	rg.POST("/account/confirm", h.confirm)
	rg.POST("/account/claim-guest", h.claimGuest)
}

type actionRequest struct {
	Kind        string `json:"kind"`
	NewPassword string `json:"newPassword,omitempty"`
	Email       string `json:"email,omitempty"`
	FullName    string `json:"fullName,omitempty"`
}

type actionResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

func (h *Handler) requestAction(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	var req actionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid json body", nil)
		return
	}
	kind, err := pending.ParseKind(req.Kind)
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "unknown action kind", nil)
		return
	}

	payload, recipient, err := h.buildPayload(c, kind, req)
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
		return
	}

	token, expiresAt, err := h.Coord.Request(c.Request.Context(), userID, recipient, kind, payload)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to stage account action", nil)
		return
	}

	respond.JSON(c, http.StatusAccepted, actionResponse{Token: token, ExpiresAt: expiresAt})
}

// buildPayload validates the request for its kind and resolves the address
// the confirmation token is delivered to.
func (h *Handler) buildPayload(c *gin.Context, kind pending.Kind, req actionRequest) (any, string, error) {
	currentEmail := h.currentEmail(c)

	switch kind {
	case pending.KindPasswordReset:
		hash, err := users.HashPassword(req.NewPassword)
		if err != nil {
			return nil, "", err
		}
		if currentEmail == "" {
			return nil, "", errors.New("no email on record for this account")
		}
		return PasswordResetPayload{NewPasswordHash: hash}, currentEmail, nil

	case pending.KindConfirmEmail:
		email := strings.TrimSpace(req.Email)
		if email == "" {
			email = currentEmail
		}
		if email == "" {
			return nil, "", errors.New("email is required")
		}
		return ConfirmEmailPayload{Email: email}, email, nil

	case pending.KindProfileUpdate:
		fullName := strings.TrimSpace(req.FullName)
		email := strings.TrimSpace(req.Email)
		if fullName == "" && email == "" {
			return nil, "", errors.New("at least one of fullName or email is required")
		}
		if currentEmail == "" {
			return nil, "", errors.New("no email on record for this account")
		}
		return ProfileUpdatePayload{FullName: fullName, Email: email}, currentEmail, nil

	default:
		return nil, "", pending.ErrUnknownKind
	}
}

// currentEmail prefers the stored profile address over the token claim.
func (h *Handler) currentEmail(c *gin.Context) string {
	userID := middleware.UserIDFromContext(c)
	if user, err := h.Users.GetByID(c.Request.Context(), userID); err == nil && user.Email != "" {
		return user.Email
	}
	return middleware.UserEmailFromContext(c)
}

type confirmRequest struct {
	Token string `json:"token"`
}

func (h *Handler) confirm(c *gin.Context) {
	var req confirmRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Token) == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "token is required", nil)
		return
	}

	result, err := h.Coord.Confirm(c.Request.Context(), req.Token)
	if err != nil {
		if errors.Is(err, pending.ErrInvalidToken) {
			respond.Error(c, http.StatusGone, "invalid_or_expired_token", "token is invalid, expired, or already used", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to apply account action", nil)
		return
	}

	respond.JSON(c, http.StatusOK, result)
}

type claimGuestRequest struct {
	GuestID string `json:"guestId"`
}

// claimGuest moves a guest identity's resumes and attempts into the
// authenticated account. Guests cannot claim.
func (h *Handler) claimGuest(c *gin.Context) {
	if isGuest, ok := c.Get("isGuest"); ok {
		if guest, ok2 := isGuest.(bool); ok2 && guest {
			respond.Error(c, http.StatusUnauthorized, "login_required", "login required to claim guest data", nil)
			return
		}
	}
	if h.Claim == nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "claim service unavailable", nil)
		return
	}

	var req claimGuestRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.GuestID) == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "guestId is required", nil)
		return
	}

	userID := middleware.UserIDFromContext(c)
	result, err := h.Claim.ClaimGuest(c.Request.Context(), "guest:"+strings.TrimSpace(req.GuestID), userID)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to claim guest data", nil)
		return
	}
	respond.JSON(c, http.StatusOK, result)
}

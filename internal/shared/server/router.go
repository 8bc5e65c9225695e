package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"jobpilot-backend/internal/account"
	"jobpilot-backend/internal/applies"
	googleauth "jobpilot-backend/internal/auth"
	"jobpilot-backend/internal/preferences"
	"jobpilot-backend/internal/resumes"
	"jobpilot-backend/internal/shared/config"
	"jobpilot-backend/internal/shared/metrics"
	"jobpilot-backend/internal/shared/server/middleware"
	"jobpilot-backend/internal/shared/server/respond"
	"jobpilot-backend/internal/users"
)

// RouterDeps carries the handlers the router mounts.
type RouterDeps struct {
	Config            config.Config
	AccountHandler    *account.Handler
	PreferenceHandler *preferences.Handler
	ResumeHandler     *resumes.Handler
	ApplyHandler      *applies.Handler
	UserHandler       *users.Handler
	GoogleAuth        *googleauth.GoogleService
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
		middleware.Auth(deps.Config.Env),
		middleware.RateLimit(rateLimits()),
	)

	r.GET("/metrics", metrics.Handler())

	api := r.Group("/api/v1")
	api.GET("/health", func(c *gin.Context) {
		respond.JSON(c, http.StatusOK, gin.H{"ok": true})
	})

	if deps.GoogleAuth != nil {
		deps.GoogleAuth.RegisterRoutes(api)
	}
	if deps.AccountHandler != nil {
		deps.AccountHandler.RegisterRoutes(api)
	}
	if deps.PreferenceHandler != nil {
		deps.PreferenceHandler.RegisterRoutes(api)
	}
	if deps.ResumeHandler != nil {
		deps.ResumeHandler.RegisterRoutes(api)
	}
	if deps.ApplyHandler != nil {
		deps.ApplyHandler.RegisterRoutes(api)
	}
	if deps.UserHandler != nil {
		deps.UserHandler.RegisterRoutes(api)
	}

	return r
}

// rateLimits shapes traffic per principal: submissions and account actions
// are slow paths, reads get headroom.
func rateLimits() middleware.RateLimitConfig {
	return middleware.RateLimitConfig{
		Rules: map[string]middleware.RateLimitRule{
			"WRITE":   {RPS: 2, Burst: 5},
			"DEFAULT": {RPS: 10, Burst: 20},
		},
		DefaultGroup: "DEFAULT",
		GroupFor: func(c *gin.Context) string {
			if c.Request.Method == http.MethodPost || c.Request.Method == http.MethodPut {
				return "WRITE"
			}
			return "DEFAULT"
		},
		Store: middleware.NewLimiterStore(10 * time.Minute),
	}
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}

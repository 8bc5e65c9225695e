package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"jobpilot-backend/internal/account"
	"jobpilot-backend/internal/applies"
	googleauth "jobpilot-backend/internal/auth"
	"jobpilot-backend/internal/jobs"
	"jobpilot-backend/internal/notify"
	"jobpilot-backend/internal/pending"
	"jobpilot-backend/internal/preferences"
	"jobpilot-backend/internal/resumes"
	"jobpilot-backend/internal/shared/config"
	"jobpilot-backend/internal/shared/server"
	"jobpilot-backend/internal/shared/storage/db"
	"jobpilot-backend/internal/shared/storage/object"
	localstore "jobpilot-backend/internal/shared/storage/object/local"
	s3store "jobpilot-backend/internal/shared/storage/object/s3"
	"jobpilot-backend/internal/users"
)

// App holds shared dependencies for the API and worker processes.
type App struct {
	Config config.Config
	Router *gin.Engine
	DB     *sql.DB
	Redis  *redis.Client
	Store  object.ObjectStore

	UsersRepo   users.Repo
	PendingRepo pending.Repo
	ResumesRepo resumes.Repo
	PrefsRepo   preferences.Repo
	AppliesRepo applies.Repo

	UsersService   *users.Service
	ResumesService *resumes.Service
	PrefsService   *preferences.Service
	ApplyService   *applies.Service
	ClaimService   *account.Service
	Coordinator    *pending.Coordinator
	JobsClient     jobs.Client
	Notifier       notify.Notifier

	AccountHandler    *account.Handler
	PreferenceHandler *preferences.Handler
	ResumeHandler     *resumes.Handler
	ApplyHandler      *applies.Handler
	UsersHandler      *users.Handler
	GoogleAuth        *googleauth.GoogleService
}

// Build prepares shared dependencies and the router.
func Build(cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	if strings.TrimSpace(cfg.ObjectStoreType) == "" {
		cfg.ObjectStoreType = "local"
	}
	ctx := context.Background()

	sqlDB, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	rdb, err := buildRedis(ctx, cfg)
	if err != nil {
		return nil, err
	}

	store, err := buildStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	app := &App{
		Config: cfg,
		DB:     sqlDB,
		Redis:  rdb,
		Store:  store,
	}
	if err := buildServices(ctx, app); err != nil {
		return nil, err
	}

	app.Router = server.NewRouter(server.RouterDeps{
		Config:            app.Config,
		AccountHandler:    app.AccountHandler,
		PreferenceHandler: app.PreferenceHandler,
		ResumeHandler:     app.ResumeHandler,
		ApplyHandler:      app.ApplyHandler,
		UserHandler:       app.UsersHandler,
		GoogleAuth:        app.GoogleAuth,
	})
	return app, nil
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: DATABASE_URL empty; using in-memory repositories")
			return nil, nil
		}
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	opts := db.OptionsFromEnv(db.DefaultServerOptions())
	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, opts)
	if err != nil {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: database connect failed; using in-memory repositories: %v", err)
			return nil, nil
		}
		return nil, err
	}
	return sqlDB, nil
}

func buildRedis(ctx context.Context, cfg config.Config) (*redis.Client, error) {
	if strings.TrimSpace(cfg.RedisURL) == "" {
		return nil, nil
	}
	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("parse REDIS_URL: %w", err)
	}
	rdb := redis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: redis unreachable; pending actions fall back to the database: %v", err)
			return nil, nil
		}
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return rdb, nil
}

func buildStore(ctx context.Context, cfg config.Config) (object.ObjectStore, error) {
	switch cfg.ObjectStoreType {
	case "s3":
		return s3store.New(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix, cfg.SSEKMSKeyID)
	default:
		return localstore.New(cfg.LocalStoreDir), nil
	}
}

func buildNotifier(ctx context.Context, cfg config.Config) (notify.Notifier, error) {
	switch cfg.NotifierType {
	case "smtp":
		port, err := strconv.Atoi(cfg.SMTPPort)
		if err != nil {
			return nil, fmt.Errorf("invalid SMTP_PORT %q", cfg.SMTPPort)
		}
		return notify.NewSMTPNotifier(cfg.SMTPHost, port, cfg.SMTPUsername, cfg.SMTPPassword, cfg.SMTPFrom, cfg.ConfirmationBase)
	case "queue":
		return notify.NewSQSNotifier(ctx, cfg.NotifyQueueURL, cfg.AWSRegion, cfg.ConfirmationBase)
	default:
		return notify.LogNotifier{}, nil
	}
}

func isDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local":
		return true
	default:
		return false
	}
}

func buildServices(ctx context.Context, app *App) error {
	if app.DB != nil {
		app.UsersRepo = &users.PGRepo{DB: app.DB}
		app.PendingRepo = pending.NewPGRepo(app.DB)
		app.ResumesRepo = &resumes.PGRepo{DB: app.DB}
		app.PrefsRepo = &preferences.PGRepo{DB: app.DB}
		app.AppliesRepo = &applies.PGRepo{DB: app.DB}
	} else {
		app.UsersRepo = users.NewMemoryRepo()
		app.PendingRepo = pending.NewMemoryRepo()
		app.ResumesRepo = resumes.NewMemoryRepo()
		app.PrefsRepo = preferences.NewMemoryRepo()
		app.AppliesRepo = applies.NewMemoryRepo()
	}
	// Redis, when configured, takes over the pending ledger: key TTLs
	// expire tokens without the reaper.
	if app.Redis != nil {
		app.PendingRepo = pending.NewRedisRepo(app.Redis)
	}

	notifier, err := buildNotifier(ctx, app.Config)
	if err != nil {
		return err
	}
	app.Notifier = notifier

	app.UsersService = users.NewService(app.UsersRepo)
	app.PrefsService = preferences.NewService(app.PrefsRepo)
	app.ResumesService = &resumes.Service{
		Store: app.Store,
		Repo:  app.ResumesRepo,
		Plans: app.UsersService,
	}

	if strings.TrimSpace(app.Config.JobProviderURL) != "" {
		client, err := jobs.NewHTTPClient(app.Config.JobProviderURL, app.Config.JobProviderAPIKey)
		if err != nil {
			return err
		}
		app.JobsClient = client
	} else {
		if !isDevLike(app.Config.Env) {
			return fmt.Errorf("JOB_PROVIDER_URL is required")
		}
		log.Printf("bootstrap: JOB_PROVIDER_URL empty; using in-memory job provider")
		app.JobsClient = jobs.NewMemoryClient()
	}

	app.Coordinator = pending.NewCoordinator(app.PendingRepo, app.Notifier)
	account.RegisterHandlers(app.Coordinator, app.UsersRepo)

	app.ApplyService = applies.NewService(
		app.AppliesRepo,
		app.ResumesService,
		app.PrefsService,
		app.UsersService,
		app.JobsClient,
		app.UsersService,
		app.Notifier,
	)
	app.ClaimService = account.NewService(app.ResumesRepo, app.AppliesRepo)

	app.AccountHandler = account.NewHandler(app.Coordinator, app.UsersService, app.ClaimService)
	app.PreferenceHandler = preferences.NewHandler(app.PrefsService)
	app.ResumeHandler = resumes.NewHandler(app.ResumesService)
	app.ApplyHandler = applies.NewHandler(app.ApplyService, isDevLike(app.Config.Env))
	app.UsersHandler = users.NewHandler(app.UsersService)
	app.GoogleAuth = googleauth.NewGoogleService(
		app.Config.GoogleClientID,
		app.Config.GoogleClientSecret,
		app.Config.GoogleRedirectURL,
		app.Config.UIRedirectURL,
		app.UsersService,
	)
	return nil
}

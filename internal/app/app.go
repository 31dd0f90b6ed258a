package app

import (
	"net/http"

	"credops-backend/internal/auth"
	"credops-backend/internal/config"
	"credops-backend/internal/database"
	"credops-backend/internal/emails"
	"credops-backend/internal/health"
	"credops-backend/internal/middleware"
	"credops-backend/internal/numbering"
	"credops-backend/internal/operations"
	"credops-backend/internal/partners"
	"credops-backend/internal/uploads"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// gormPinger adapts *gorm.DB to the health check.
type gormPinger struct{ db *gorm.DB }

func (p *gormPinger) Ping() error {
	sqlDB, err := p.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

// CreateApp builds the Fiber app with all global middleware and routes.
func CreateApp(cfg *config.Config) (*fiber.App, *gorm.DB, *redis.Client, error) {
	app := fiber.New(fiber.Config{
		DisableStartupMessage:   true,
		ErrorHandler:            middleware.ErrorHandler,
		EnableTrustedProxyCheck: true,
	})

	// CORS (before session)
	app.Use(middleware.CORS(middleware.CORSConfig{
		AllowedSuffix: cfg.FrontendURLEndsWith,
		DevPassword:   cfg.DevPassword,
	}))

	sessionCfg := middleware.SessionConfig{
		Secret:            cfg.SessionSecret,
		RedisURL:          cfg.RedisURL,
		AllowCrossSiteDev: cfg.AllowCrossSiteDev,
		IsProduction:      cfg.Env == "production",
	}
	sessionHandler, rdb, err := middleware.Session(sessionCfg)
	if err != nil {
		return nil, nil, nil, err
	}
	app.Use(sessionHandler)

	app.Use(middleware.Tracing())
	app.Use(middleware.RouteLogger())

	var db *gorm.DB
	if cfg.DatabaseURL != "" {
		db, err = database.Open(cfg.DatabaseURL)
		if err != nil {
			return nil, nil, nil, err
		}
		if err := database.AutoMigrate(db); err != nil {
			return nil, nil, nil, err
		}
	}

	// Health (no auth)
	healthHandlers := &health.Handlers{Rdb: rdb}
	if db != nil {
		healthHandlers.DB = &gormPinger{db: db}
	}
	app.Get("/health/json", healthHandlers.JSON)

	// Auth (no auth middleware)
	var mail emails.Sender = &emails.BrevoClient{APIKey: cfg.BrevoAPIKey, MailFrom: cfg.MailFrom}
	var userFinder auth.UserFinder
	if db != nil {
		userFinder = &auth.GormUserFinder{DB: db}
	}
	authHandlers := &auth.Handlers{
		DB:         db,
		UserFinder: userFinder,
		Rdb:        rdb,
		Config:     sessionCfg,
		Mail:       mail,
		Notifier:   &auth.Notifier{},
		Reset:      &auth.ResetService{DB: db, Rdb: rdb, Mail: mail, BaseURL: cfg.ResetBaseURL},
	}
	authGroup := app.Group("/api/v1/auth")
	authGroup.Post("/register", authHandlers.Register)
	authGroup.Post("/login", authHandlers.Login)
	authGroup.Get("/me", authHandlers.Me)
	authGroup.Delete("/logout", authHandlers.Logout)
	authGroup.Post("/password-reset", authHandlers.RequestPasswordReset)
	authGroup.Post("/password-reset/confirm", authHandlers.ConfirmPasswordReset)
	authProtected := app.Group("/api/v1/auth", middleware.RequireAuth())
	authProtected.Patch("/profile", authHandlers.UpdateProfile)
	authProtected.Patch("/password", authHandlers.ChangePassword)

	// --- Protected modules (auth required) ---
	if db != nil && rdb != nil {
		operationsService := &operations.Service{
			DB:      db,
			Numbers: &numbering.Service{DB: db, Rdb: rdb},
		}
		operationsHandlers := &operations.Handlers{Service: operationsService}
		opsGroup := app.Group("/api/v1/operations", middleware.RequireAuth())
		opsGroup.Get("/", operationsHandlers.List)
		opsGroup.Post("/", operationsHandlers.Create)
		opsGroup.Put("/", operationsHandlers.Update)
		opsGroup.Delete("/", operationsHandlers.Delete)
		opsGroup.Get("/:id/display", operationsHandlers.Display)

		partnersService := &partners.Service{DB: db}
		partnersHandlers := &partners.Handlers{Service: partnersService}
		partnersGroup := app.Group("/api/v1/partners", middleware.RequireAuth())
		partnersGroup.Get("/", partnersHandlers.List)
		partnersGroup.Post("/", partnersHandlers.Create)
		partnersGroup.Put("/", partnersHandlers.Update)
		partnersGroup.Delete("/", partnersHandlers.Delete)
		partnersGroup.Get("/:id/display", partnersHandlers.Display)

		storageClient := &uploads.HTTPClient{
			BaseURL:   cfg.StorageURL,
			SecretKey: cfg.StorageSecretKey,
		}
		uploadService := &uploads.Service{Client: storageClient, Bucket: cfg.StorageBucket}
		uploadHandlers := &uploads.Handlers{Service: uploadService, Linker: operationsService}
		uploadGroup := app.Group("/api/v1/uploads", middleware.RequireAuth())
		uploadGroup.Post("/", uploadHandlers.Upload)
	}

	return app, db, rdb, nil
}

// Handler returns the Fiber app as a net/http handler.
func Handler(app *fiber.App) http.Handler {
	return adaptor.FiberApp(app)
}

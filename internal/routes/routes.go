package routes

import (
	"fmt"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/wiseeconomy/strabo/internal/config"
	"github.com/wiseeconomy/strabo/internal/middleware"
	"github.com/wiseeconomy/strabo/internal/token"
	"github.com/wiseeconomy/strabo/internal/user"
	"github.com/wiseeconomy/strabo/internal/verifier"
)

// Deps aggregates shared dependencies required to wire routes.
type Deps struct {
	Cfg    config.Config
	DB     *pgxpool.Pool
	Cache  *redis.Client
	Logger *slog.Logger
}

// Setup configures middlewares and all application routes.
func Setup(app *fiber.App, d Deps) error {
	// Enforce DB/Redis presence outside of dev, even though main also checks.
	if !d.Cfg.IsDev() {
		if d.DB == nil {
			return fmt.Errorf("database is required when APP_ENV=%s", d.Cfg.AppEnv)
		}
		if d.Cache == nil {
			return fmt.Errorf("redis is required when APP_ENV=%s", d.Cfg.AppEnv)
		}
	}

	app.Use(recover.New())
	app.Use(middleware.RequestID())
	app.Use(middleware.Audit(d.Logger))

	RegisterHealthRoutes(app, d)

	var userRepo user.Repository
	if d.DB != nil {
		userRepo = user.NewPostgresRepository(d.DB)
	} else {
		userRepo = user.NewMemoryRepository()
	}

	var tokenStore token.Store
	if d.DB != nil {
		tokenStore = token.NewPostgresStore(d.DB)
	} else {
		tokenStore = token.NewInMemory()
	}

	v, err := buildVerifier(d)
	if err != nil {
		return err
	}

	userSvc := user.NewService(userRepo, d.Logger)
	manager := token.NewManager(userRepo, tokenStore, d.Logger)
	userHandler := user.NewHandler(userSvc, v)
	tokenHandler := token.NewHandler(manager, userSvc, v)

	v1 := app.Group("/api/v1")
	rateLimiter := middleware.AccessTokenRateLimit(d.Cache, user.AccessTokenHeader, d.Cfg.AuthRatePerMin)

	RegisterUserRoutes(v1, userHandler, rateLimiter)
	RegisterTokenRoutes(v1, tokenHandler, rateLimiter)

	return nil
}

func buildVerifier(d Deps) (verifier.Verifier, error) {
	var v verifier.Verifier
	switch d.Cfg.Verifier {
	case config.VerifierGoogle:
		v = verifier.NewGoogle(d.Cfg.TokeninfoURL, nil)
	case config.VerifierStatic:
		v = verifier.NewStatic()
	default:
		return nil, fmt.Errorf("unknown verifier %q", d.Cfg.Verifier)
	}
	if d.Cache != nil {
		v = verifier.NewCached(v, d.Cache, d.Cfg.VerifierCacheTTL, d.Logger)
	}
	return v, nil
}

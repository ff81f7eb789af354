package app

import (
	"log/slog"

	"github.com/SafalBhandari12/multi-vendor-backend/internal/cache"
	"github.com/SafalBhandari12/multi-vendor-backend/internal/config"
	"github.com/SafalBhandari12/multi-vendor-backend/internal/handlers"
	jwtlib "github.com/SafalBhandari12/multi-vendor-backend/internal/lib/jwt"
	"github.com/SafalBhandari12/multi-vendor-backend/internal/otp"
	"github.com/SafalBhandari12/multi-vendor-backend/internal/repo"
	"github.com/SafalBhandari12/multi-vendor-backend/internal/routes"
	"github.com/SafalBhandari12/multi-vendor-backend/internal/services"
	"github.com/SafalBhandari12/multi-vendor-backend/internal/storage"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func NewApp(cfg *config.Config, logger *slog.Logger) (*gin.Engine, error) {
	database, err := storage.Open(cfg.DB)
	if err != nil {
		return nil, err
	}

	repository := repo.NewRepository(database)

	issuer := jwtlib.NewIssuer(cfg.AccessSecret, cfg.RefreshSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
	provider := otp.NewClient(cfg.OTP)

	redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddress})
	limiter := cache.NewRateLimiter(redisClient, logger)

	auth := services.NewAuth(logger, repository, repository, repository, provider, issuer,
		cfg.RefreshTokenTTL, cfg.OTP.DefaultCountryCode)

	handler := handlers.NewAuthHandler(auth, cfg.AccessTokenTTL, cfg.RefreshTokenTTL, cfg.IsProduction())

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.Default()
	authGroup := r.Group("/auth")
	routes.RegisterRoutes(authGroup, handler, issuer, limiter, cfg.RateLimit)

	return r, nil
}

package routes

import (
	"github.com/SafalBhandari12/multi-vendor-backend/internal/cache"
	"github.com/SafalBhandari12/multi-vendor-backend/internal/config"
	"github.com/SafalBhandari12/multi-vendor-backend/internal/handlers"
	jwtlib "github.com/SafalBhandari12/multi-vendor-backend/internal/lib/jwt"
	"github.com/SafalBhandari12/multi-vendor-backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(rg *gin.RouterGroup, handler *handlers.AuthHandler, issuer *jwtlib.Issuer, limiter *cache.RateLimiter, rl config.RateLimitConfig) {
	rg.Use(middleware.RateLimit(limiter, "rl:auth", rl.Max, rl.Window))

	// OTP endpoints get a tighter budget on top of the group-wide one.
	otpLimit := middleware.RateLimit(limiter, "rl:otp", rl.OtpMax, rl.OtpWindow)
	rg.POST("/send-otp", otpLimit, handler.SendOtp)
	rg.POST("/verify-otp", otpLimit, handler.VerifyOtp)

	// Cookie-authenticated; no bearer token required.
	rg.POST("/refresh", handler.Refresh)
	rg.POST("/logout", handler.Logout)

	protected := rg.Group("/")
	protected.Use(middleware.RequireAuth(issuer))
	protected.GET("/me", handler.Me)
}

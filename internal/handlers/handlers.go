package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/SafalBhandari12/multi-vendor-backend/internal/middleware"
	"github.com/SafalBhandari12/multi-vendor-backend/internal/otp"
	"github.com/SafalBhandari12/multi-vendor-backend/internal/services"
	"github.com/gin-gonic/gin"
)

const refreshCookieName = "refreshToken"

type AuthHandler struct {
	auth            *services.Auth
	accessTokenTTL  time.Duration
	refreshTokenTTL time.Duration
	secureCookies   bool
}

func NewAuthHandler(auth *services.Auth, accessTokenTTL, refreshTokenTTL time.Duration, secureCookies bool) *AuthHandler {
	return &AuthHandler{
		auth:            auth,
		accessTokenTTL:  accessTokenTTL,
		refreshTokenTTL: refreshTokenTTL,
		secureCookies:   secureCookies,
	}
}

func (h *AuthHandler) SendOtp(ctx *gin.Context) {
	var req struct {
		Phone       string `json:"phone" binding:"required,min=10,max=15"`
		CountryCode string `json:"countryCode" binding:"omitempty,numeric,min=1,max=4"`
		Purpose     string `json:"purpose" binding:"required,oneof=LOGIN REGISTER"`
	}

	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"ok": false, "message": err.Error()})
		return
	}

	result, err := h.auth.SendOtp(ctx.Request.Context(), req.Phone, req.CountryCode, req.Purpose)
	if err != nil {
		status, message := providerStatus(err)
		ctx.JSON(status, gin.H{"ok": false, "message": message})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"ok":             true,
		"verificationId": result.VerificationID,
		"timeout":        result.TimeoutSeconds,
	})
}

func (h *AuthHandler) VerifyOtp(ctx *gin.Context) {
	var req struct {
		Phone          string `json:"phone" binding:"required,min=10,max=15"`
		CountryCode    string `json:"countryCode" binding:"omitempty,numeric,min=1,max=4"`
		VerificationID string `json:"verificationId" binding:"required,min=2,max=100"`
		Code           string `json:"code" binding:"required,min=4,max=8"`
	}

	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"ok": false, "message": err.Error()})
		return
	}

	result, err := h.auth.VerifyOtp(ctx.Request.Context(),
		req.Phone, req.CountryCode, req.VerificationID, req.Code,
		ctx.ClientIP(), ctx.GetHeader("User-Agent"))
	if err != nil {
		if errors.Is(err, services.ErrInvalidOtp) {
			ctx.JSON(http.StatusBadRequest, gin.H{"ok": false, "message": "Invalid OTP"})
			return
		}
		status, message := providerStatus(err)
		ctx.JSON(status, gin.H{"ok": false, "message": message})
		return
	}

	h.setRefreshCookie(ctx, result.RefreshToken)

	ctx.JSON(http.StatusOK, gin.H{
		"accessToken": result.AccessToken,
		"expiresIn":   int(h.accessTokenTTL.Seconds()),
		"user": gin.H{
			"id":    result.User.ID,
			"phone": result.User.Phone,
			"role":  result.User.Role,
		},
	})
}

func (h *AuthHandler) Refresh(ctx *gin.Context) {
	raw, err := ctx.Cookie(refreshCookieName)
	if err != nil || raw == "" {
		ctx.JSON(http.StatusUnauthorized, gin.H{"message": "No refresh token provided"})
		return
	}

	result, err := h.auth.Refresh(ctx.Request.Context(), raw, ctx.ClientIP(), ctx.GetHeader("User-Agent"))
	if err != nil {
		// Expired, revoked, rotated, and forged tokens all look the same here.
		ctx.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid refresh token"})
		return
	}

	h.setRefreshCookie(ctx, result.RefreshToken)

	ctx.JSON(http.StatusOK, gin.H{
		"accessToken": result.AccessToken,
		"expiresIn":   int(h.accessTokenTTL.Seconds()),
	})
}

func (h *AuthHandler) Logout(ctx *gin.Context) {
	if raw, err := ctx.Cookie(refreshCookieName); err == nil && raw != "" {
		// Best effort: an unknown or already-revoked token still logs out cleanly.
		_ = h.auth.Logout(ctx.Request.Context(), raw)
	}

	h.clearRefreshCookie(ctx)
	ctx.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *AuthHandler) Me(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{
		"user": gin.H{
			"sub":  ctx.GetString(middleware.CtxUserID),
			"role": ctx.GetString(middleware.CtxUserRole),
		},
	})
}

func (h *AuthHandler) setRefreshCookie(ctx *gin.Context, raw string) {
	ctx.SetSameSite(http.SameSiteStrictMode)
	ctx.SetCookie(refreshCookieName, raw, int(h.refreshTokenTTL.Seconds()), "/auth", "", h.secureCookies, true)
}

func (h *AuthHandler) clearRefreshCookie(ctx *gin.Context) {
	ctx.SetSameSite(http.SameSiteStrictMode)
	ctx.SetCookie(refreshCookieName, "", -1, "/auth", "", h.secureCookies, true)
}

// providerStatus maps upstream OTP provider failures to the provider's own
// status where available, everything else to a 500.
func providerStatus(err error) (int, string) {
	var pe *otp.ProviderError
	if errors.As(err, &pe) && pe.StatusCode >= 400 {
		return pe.StatusCode, "OTP provider error"
	}
	return http.StatusInternalServerError, "Internal server error"
}

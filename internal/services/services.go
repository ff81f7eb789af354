package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/SafalBhandari12/multi-vendor-backend/internal/entity"
	jwtlib "github.com/SafalBhandari12/multi-vendor-backend/internal/lib/jwt"
	"github.com/SafalBhandari12/multi-vendor-backend/internal/lib/token"
	"github.com/SafalBhandari12/multi-vendor-backend/internal/otp"
	"github.com/SafalBhandari12/multi-vendor-backend/internal/repo"
)

var (
	ErrInvalidOtp          = errors.New("invalid otp")
	ErrInvalidRefreshToken = errors.New("invalid or expired refresh token")
	ErrUserNotFound        = errors.New("user not found")
)

type UserRepository interface {
	SaveUser(ctx context.Context, user *entity.User) error
	UserByPhone(ctx context.Context, phone string) (entity.User, error)
	UserByID(ctx context.Context, id string) (entity.User, error)
	MarkPhoneVerified(ctx context.Context, id string) error
}

type OtpRepository interface {
	CreateVerification(ctx context.Context, v *entity.OtpVerification) error
	VerificationByID(ctx context.Context, verificationID, phone string) (entity.OtpVerification, error)
	RecordVerificationResult(ctx context.Context, id uint, verified bool) error
}

type TokenRepository interface {
	SaveToken(ctx context.Context, t *entity.RefreshToken) error
	RotateToken(ctx context.Context, userID, oldHash string, next *entity.RefreshToken) error
	RevokeByHash(ctx context.Context, hash string) error
}

type OtpProvider interface {
	Send(ctx context.Context, phone, countryCode string) (otp.SendResult, error)
	Validate(ctx context.Context, phone, countryCode, verificationID, code string) (bool, error)
}

type Auth struct {
	log                *slog.Logger
	userRepo           UserRepository
	otpRepo            OtpRepository
	tokenRepo          TokenRepository
	provider           OtpProvider
	issuer             *jwtlib.Issuer
	refreshTokenTTL    time.Duration
	defaultCountryCode string
}

func NewAuth(log *slog.Logger,
	userRepo UserRepository,
	otpRepo OtpRepository,
	tokenRepo TokenRepository,
	provider OtpProvider,
	issuer *jwtlib.Issuer,
	refreshTokenTTL time.Duration,
	defaultCountryCode string) *Auth {
	return &Auth{
		log:                log,
		userRepo:           userRepo,
		otpRepo:            otpRepo,
		tokenRepo:          tokenRepo,
		provider:           provider,
		issuer:             issuer,
		refreshTokenTTL:    refreshTokenTTL,
		defaultCountryCode: defaultCountryCode,
	}
}

type SendOtpResult struct {
	VerificationID string
	TimeoutSeconds int
}

type UserSummary struct {
	ID    string
	Phone string
	Role  string
}

type LoginResult struct {
	AccessToken  string
	RefreshToken string
	User         UserSummary
}

type RefreshResult struct {
	AccessToken  string
	RefreshToken string
}

// SendOtp triggers an SMS challenge through the provider and records a PENDING
// verification. Provider failures are passed through untouched; the caller
// decides whether to retry.
func (auth *Auth) SendOtp(ctx context.Context, phone, countryCode, purpose string) (SendOtpResult, error) {
	const op = "auth.SendOtp"

	log := auth.log.With(slog.String("op", op), slog.String("phone", phone))
	log.Info("sending otp")

	if countryCode == "" {
		countryCode = auth.defaultCountryCode
	}

	result, err := auth.provider.Send(ctx, phone, countryCode)
	if err != nil {
		log.Warn("otp provider send failed", "error", err)
		return SendOtpResult{}, err
	}

	record := entity.OtpVerification{
		Phone:          phone,
		CountryCode:    countryCode,
		VerificationID: result.VerificationID,
		Status:         entity.OtpStatusPending,
		Purpose:        purpose,
		ExpiresAt:      time.Now().Add(time.Duration(result.TimeoutSeconds) * time.Second),
	}

	if err := auth.otpRepo.CreateVerification(ctx, &record); err != nil {
		log.Error("failed to record otp verification", "error", err)
		return SendOtpResult{}, fmt.Errorf("%s: %w", op, err)
	}

	return SendOtpResult{VerificationID: result.VerificationID, TimeoutSeconds: result.TimeoutSeconds}, nil
}

// VerifyOtp validates a submitted code, records the verification outcome, and
// on success upserts the user and mints a session. A provider-side success with
// no matching local record fails closed: every issued session must be backed by
// an audit row.
func (auth *Auth) VerifyOtp(ctx context.Context, phone, countryCode, verificationID, code, ip, userAgent string) (LoginResult, error) {
	const op = "auth.VerifyOtp"

	log := auth.log.With(slog.String("op", op), slog.String("phone", phone))
	log.Info("verifying otp")

	if countryCode == "" {
		countryCode = auth.defaultCountryCode
	}

	ok, err := auth.provider.Validate(ctx, phone, countryCode, verificationID, code)
	if err != nil {
		log.Warn("otp provider validate failed", "error", err)
		return LoginResult{}, err
	}

	local, err := auth.otpRepo.VerificationByID(ctx, verificationID, phone)
	if err != nil {
		if errors.Is(err, repo.ErrVerificationNotFound) {
			log.Warn("no local verification record, failing closed",
				slog.String("verification_id", verificationID), slog.Bool("provider_ok", ok))
			return LoginResult{}, ErrInvalidOtp
		}
		log.Error("failed to look up verification", "error", err)
		return LoginResult{}, fmt.Errorf("%s: %w", op, err)
	}

	if err := auth.otpRepo.RecordVerificationResult(ctx, local.ID, ok); err != nil {
		log.Error("failed to record verification result", "error", err)
		return LoginResult{}, fmt.Errorf("%s: %w", op, err)
	}

	if !ok {
		log.Info("otp rejected by provider")
		return LoginResult{}, ErrInvalidOtp
	}

	user, err := auth.upsertUser(ctx, phone, countryCode)
	if err != nil {
		log.Error("failed to upsert user", "error", err)
		return LoginResult{}, fmt.Errorf("%s: %w", op, err)
	}

	accessToken, refreshRaw, err := auth.mintSession(ctx, user, ip, userAgent)
	if err != nil {
		log.Error("failed to mint session", "error", err)
		return LoginResult{}, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("user logged in", slog.String("user_id", user.ID))

	return LoginResult{
		AccessToken:  accessToken,
		RefreshToken: refreshRaw,
		User:         UserSummary{ID: user.ID, Phone: user.Phone, Role: user.Role},
	}, nil
}

// Refresh rotates a presented refresh token into a new one and issues a fresh
// access token carrying the user's current role, not the role baked into the
// old payload. All failure causes collapse to ErrInvalidRefreshToken so the
// response never reveals which check failed.
func (auth *Auth) Refresh(ctx context.Context, rawRefresh, ip, userAgent string) (RefreshResult, error) {
	const op = "auth.Refresh"

	log := auth.log.With(slog.String("op", op))
	log.Info("refreshing tokens")

	claims, err := auth.issuer.VerifyRefreshToken(rawRefresh)
	if err != nil {
		log.Warn("refresh token failed verification", "error", err)
		return RefreshResult{}, ErrInvalidRefreshToken
	}
	userID := claims.Subject

	user, err := auth.userRepo.UserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repo.ErrUserNotFound) {
			log.Warn("refresh for unknown user", slog.String("user_id", userID))
			return RefreshResult{}, ErrInvalidRefreshToken
		}
		log.Error("failed to load user", "error", err)
		return RefreshResult{}, fmt.Errorf("%s: %w", op, err)
	}

	newRaw, err := auth.issuer.SignRefreshToken(userID, token.RandomID())
	if err != nil {
		log.Error("failed to sign refresh token", "error", err)
		return RefreshResult{}, fmt.Errorf("%s: %w", op, err)
	}

	next := entity.RefreshToken{
		UserID:    userID,
		TokenHash: token.Hash(newRaw),
		ExpiresAt: time.Now().Add(auth.refreshTokenTTL),
		IP:        ip,
		UserAgent: userAgent,
	}

	if err := auth.tokenRepo.RotateToken(ctx, userID, token.Hash(rawRefresh), &next); err != nil {
		if errors.Is(err, repo.ErrTokenNotFound) {
			log.Warn("refresh token not active", slog.String("user_id", userID))
			return RefreshResult{}, ErrInvalidRefreshToken
		}
		log.Error("failed to rotate refresh token", "error", err)
		return RefreshResult{}, fmt.Errorf("%s: %w", op, err)
	}

	accessToken, err := auth.issuer.SignAccessToken(userID, user.Role)
	if err != nil {
		log.Error("failed to sign access token", "error", err)
		return RefreshResult{}, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("tokens rotated", slog.String("user_id", userID))

	return RefreshResult{AccessToken: accessToken, RefreshToken: newRaw}, nil
}

// Logout revokes the presented refresh token's active row.
func (auth *Auth) Logout(ctx context.Context, rawRefresh string) error {
	const op = "auth.Logout"

	log := auth.log.With(slog.String("op", op))

	if err := auth.tokenRepo.RevokeByHash(ctx, token.Hash(rawRefresh)); err != nil {
		if errors.Is(err, repo.ErrTokenNotFound) {
			return ErrInvalidRefreshToken
		}
		log.Error("failed to revoke refresh token", "error", err)
		return fmt.Errorf("%s: %w", op, err)
	}

	log.Info("refresh token revoked")
	return nil
}

func (auth *Auth) upsertUser(ctx context.Context, phone, countryCode string) (entity.User, error) {
	user, err := auth.userRepo.UserByPhone(ctx, phone)
	switch {
	case err == nil:
		if !user.PhoneVerified {
			if err := auth.userRepo.MarkPhoneVerified(ctx, user.ID); err != nil {
				return entity.User{}, err
			}
			user.PhoneVerified = true
			user.Status = entity.StatusActive
		}
		return user, nil

	case errors.Is(err, repo.ErrUserNotFound):
		user = entity.User{
			ID:            token.RandomID(),
			Phone:         phone,
			CountryCode:   countryCode,
			PhoneVerified: true,
			Status:        entity.StatusActive,
			Role:          entity.RoleCustomer,
		}
		if createErr := auth.userRepo.SaveUser(ctx, &user); createErr != nil {
			// Lost a create race with a concurrent verify for the same phone.
			if errors.Is(createErr, repo.ErrUserAlreadyExists) {
				return auth.userRepo.UserByPhone(ctx, phone)
			}
			return entity.User{}, createErr
		}
		return user, nil

	default:
		return entity.User{}, err
	}
}

func (auth *Auth) mintSession(ctx context.Context, user entity.User, ip, userAgent string) (access, refreshRaw string, err error) {
	access, err = auth.issuer.SignAccessToken(user.ID, user.Role)
	if err != nil {
		return "", "", err
	}

	refreshRaw, err = auth.issuer.SignRefreshToken(user.ID, token.RandomID())
	if err != nil {
		return "", "", err
	}

	record := entity.RefreshToken{
		UserID:    user.ID,
		TokenHash: token.Hash(refreshRaw),
		ExpiresAt: time.Now().Add(auth.refreshTokenTTL),
		IP:        ip,
		UserAgent: userAgent,
	}
	if err = auth.tokenRepo.SaveToken(ctx, &record); err != nil {
		return "", "", err
	}

	return access, refreshRaw, nil
}

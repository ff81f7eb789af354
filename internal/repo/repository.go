package repo

import (
	"context"
	"errors"
	"time"

	"github.com/SafalBhandari12/multi-vendor-backend/internal/entity"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

var (
	ErrUserNotFound         = errors.New("user not found")
	ErrUserAlreadyExists    = errors.New("user already exists")
	ErrTokenNotFound        = errors.New("active refresh token not found")
	ErrVerificationNotFound = errors.New("otp verification not found")
)

type Repo struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repo {
	return &Repo{db: db}
}

// SaveUser creates a new user. Returns ErrUserAlreadyExists when the phone is taken.
func (r *Repo) SaveUser(ctx context.Context, user *entity.User) error {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		if isUniqueViolation(err) {
			return ErrUserAlreadyExists
		}
		return err
	}
	return nil
}

func (r *Repo) UserByPhone(ctx context.Context, phone string) (entity.User, error) {
	var user entity.User
	if err := r.db.WithContext(ctx).Where("phone = ?", phone).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entity.User{}, ErrUserNotFound
		}
		return entity.User{}, err
	}
	return user, nil
}

func (r *Repo) UserByID(ctx context.Context, id string) (entity.User, error) {
	var user entity.User
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entity.User{}, ErrUserNotFound
		}
		return entity.User{}, err
	}
	return user, nil
}

// MarkPhoneVerified flips phone_verified and activates the account.
func (r *Repo) MarkPhoneVerified(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Model(&entity.User{}).Where("id = ?", id).
		Updates(map[string]interface{}{"phone_verified": true, "status": entity.StatusActive})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

// CreateVerification records a new PENDING OTP challenge.
func (r *Repo) CreateVerification(ctx context.Context, v *entity.OtpVerification) error {
	return r.db.WithContext(ctx).Create(v).Error
}

func (r *Repo) VerificationByID(ctx context.Context, verificationID, phone string) (entity.OtpVerification, error) {
	var v entity.OtpVerification
	err := r.db.WithContext(ctx).
		Where("verification_id = ? AND phone = ?", verificationID, phone).
		First(&v).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entity.OtpVerification{}, ErrVerificationNotFound
		}
		return entity.OtpVerification{}, err
	}
	return v, nil
}

// RecordVerificationResult increments the attempt counter and, when the record
// is still PENDING, stamps the outcome. An already-decided record keeps its
// outcome: PENDING -> VERIFIED|FAILED happens at most once.
func (r *Repo) RecordVerificationResult(ctx context.Context, id uint, verified bool) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&entity.OtpVerification{}).Where("id = ?", id).
			Update("attempts", gorm.Expr("attempts + 1"))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrVerificationNotFound
		}

		outcome := map[string]interface{}{"status": entity.OtpStatusFailed}
		if verified {
			now := time.Now()
			outcome = map[string]interface{}{"status": entity.OtpStatusVerified, "verified_at": &now}
		}

		return tx.Model(&entity.OtpVerification{}).
			Where("id = ? AND status = ?", id, entity.OtpStatusPending).
			Updates(outcome).Error
	})
}

// SaveToken persists a new refresh-token row. Always additive; existing rows
// are never overwritten, so concurrent sessions per user are allowed.
func (r *Repo) SaveToken(ctx context.Context, token *entity.RefreshToken) error {
	return r.db.WithContext(ctx).Create(token).Error
}

// RotateToken revokes the active row matching (userID, oldHash) and stores the
// successor inside one transaction. The conditional UPDATE is the single-winner
// primitive: of N concurrent rotations of the same token, exactly one sees
// RowsAffected == 1; the rest get ErrTokenNotFound. Revocation runs before the
// mint so a crash in between costs a re-login, never a double-valid token.
func (r *Repo) RotateToken(ctx context.Context, userID, oldHash string, next *entity.RefreshToken) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := time.Now()
		res := tx.Model(&entity.RefreshToken{}).
			Where("user_id = ? AND token_hash = ? AND is_revoked = ? AND expires_at > ?", userID, oldHash, false, now).
			Updates(map[string]interface{}{"is_revoked": true, "revoked_at": &now})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrTokenNotFound
		}

		return tx.Create(next).Error
	})
}

// RevokeByHash revokes the active row with this hash (logout path). Fails with
// ErrTokenNotFound when the row is already revoked, expired, or unknown.
func (r *Repo) RevokeByHash(ctx context.Context, hash string) error {
	now := time.Now()
	res := r.db.WithContext(ctx).Model(&entity.RefreshToken{}).
		Where("token_hash = ? AND is_revoked = ? AND expires_at > ?", hash, false, now).
		Updates(map[string]interface{}{"is_revoked": true, "revoked_at": &now})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrTokenNotFound
	}
	return nil
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

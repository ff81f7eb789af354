package entity

import "time"

const (
	OtpStatusPending  = "PENDING"
	OtpStatusVerified = "VERIFIED"
	OtpStatusFailed   = "FAILED"

	OtpPurposeLogin    = "LOGIN"
	OtpPurposeRegister = "REGISTER"
)

// OtpVerification is the local ledger entry for one OTP challenge. Status only
// ever moves PENDING -> VERIFIED or PENDING -> FAILED; records are kept for
// audit history.
type OtpVerification struct {
	ID             uint   `gorm:"primaryKey"`
	Phone          string `gorm:"index;not null"`
	CountryCode    string `gorm:"not null"`
	VerificationID string `gorm:"index;not null"`
	Status         string `gorm:"not null"`
	Purpose        string `gorm:"not null"`
	ExpiresAt      time.Time `gorm:"not null"`
	Attempts       int       `gorm:"not null;default:0"`
	VerifiedAt     *time.Time
	CreatedAt      time.Time
}

package entity

import "time"

// RefreshToken stores only the hash of an issued refresh credential; the raw
// token lives in the client's cookie. Rows are revoked, never deleted.
type RefreshToken struct {
	ID        uint   `gorm:"primaryKey"`
	UserID    string `gorm:"index;not null"`
	User      User   `gorm:"foreignKey:UserID;references:ID;constraint:OnDelete:CASCADE"`
	TokenHash string `gorm:"uniqueIndex;type:text;not null"`
	ExpiresAt time.Time `gorm:"not null"`
	IsRevoked bool      `gorm:"not null;default:false"`
	RevokedAt *time.Time
	IP        string
	UserAgent string
	CreatedAt time.Time
}

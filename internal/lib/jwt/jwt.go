package jwt

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)

type AccessClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

type RefreshClaims struct {
	TokenID string `json:"token_id"`
	jwt.RegisteredClaims
}

// Issuer signs and verifies access and refresh tokens with independent
// secrets, so leaking one secret does not compromise the other token class.
type Issuer struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
}

func NewIssuer(accessSecret, refreshSecret string, accessTTL, refreshTTL time.Duration) *Issuer {
	return &Issuer{
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
	}
}

func (i *Issuer) SignAccessToken(subject, role string) (string, error) {
	claims := AccessClaims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(i.accessTTL)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS512, claims)
	return token.SignedString(i.accessSecret)
}

func (i *Issuer) SignRefreshToken(subject, tokenID string) (string, error) {
	claims := RefreshClaims{
		TokenID: tokenID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(i.refreshTTL)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS512, claims)
	return token.SignedString(i.refreshSecret)
}

func (i *Issuer) VerifyAccessToken(tokenStr string) (*AccessClaims, error) {
	var claims AccessClaims
	if err := i.parse(tokenStr, &claims, i.accessSecret); err != nil {
		return nil, err
	}
	return &claims, nil
}

func (i *Issuer) VerifyRefreshToken(tokenStr string) (*RefreshClaims, error) {
	var claims RefreshClaims
	if err := i.parse(tokenStr, &claims, i.refreshSecret); err != nil {
		return nil, err
	}
	return &claims, nil
}

func (i *Issuer) parse(tokenStr string, claims jwt.Claims, secret []byte) error {
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return ErrTokenExpired
		}
		return ErrInvalidToken
	}

	if !token.Valid {
		return ErrInvalidToken
	}

	return nil
}

package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/quillnotes/server/internal/config"
	"github.com/quillnotes/server/internal/models"
)

// SessionCookie names the cookie carrying the signed session token.
const SessionCookie = "token"

const sessionTTL = 24 * time.Hour

// Claims is the session token payload. Identity travels with the
// request in this token, never in shared process state.
type Claims struct {
	UserID   string `json:"userId"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// NewSessionToken signs a session token for user, valid for 24 hours.
func NewSessionToken(user *models.User) (string, time.Time, error) {
	expiration := time.Now().Add(sessionTTL)
	claims := &Claims{
		UserID:   user.ID.String(),
		Username: user.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiration),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(config.Envs.JWTSecret))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign session token: %w", err)
	}
	return signed, expiration, nil
}

// ParseSessionToken validates a session token and returns the user id
// it was issued for.
func ParseSessionToken(tokenStr string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(config.Envs.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return "", errors.New("invalid session token")
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || claims.UserID == "" {
		return "", errors.New("invalid session token")
	}
	return claims.UserID, nil
}

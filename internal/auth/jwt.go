package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/arahman1700/nit-logistics-portal/internal/models"
)

// Claims is what the identity provider signs: sub is the user id.
type Claims struct {
	Role models.Role `json:"role"`
	Name string      `json:"name"`
	jwt.RegisteredClaims
}

// Session is the current user as seen by every operation.
type Session struct {
	UserID string      `json:"id"`
	Role   models.Role `json:"role"`
	Name   string      `json:"full_name"`
}

var ErrInvalidToken = errors.New("invalid or expired token")

func GenerateToken(secret string, s Session, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := &Claims{
		Role: s.Role,
		Name: s.Name,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   s.UserID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

func ParseToken(secret, raw string) (Session, error) {
	token, err := jwt.ParseWithClaims(raw, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return Session{}, ErrInvalidToken
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || claims.Subject == "" || !claims.Role.Valid() {
		return Session{}, ErrInvalidToken
	}
	return Session{UserID: claims.Subject, Role: claims.Role, Name: claims.Name}, nil
}

package jwt

import (
	"errors"
	"time"

	"Pharmetix/models"

	"github.com/golang-jwt/jwt/v5"
)

const TokenTypeAccess = "access"

var ErrTokenType = errors.New("invalid token type")

type Claims struct {
	UserID int64             `json:"user_id"`
	Role   models.Role       `json:"role"`
	Status models.UserStatus `json:"status"`
	Type   string            `json:"type"`
	jwt.RegisteredClaims
}

func ShouldRotateToken(claims *Claims, refreshBuffer time.Duration) bool {
	if claims.ExpiresAt == nil {
		return false
	}
	return time.Until(claims.ExpiresAt.Time) <= refreshBuffer
}

// GenerateToken tokens are normally issued by the auth service; used here for rotation and tests.
func GenerateToken(secret []byte, userID int64, role models.Role, status models.UserStatus, tokenType string, expire time.Duration) (string, error) {
	claims := Claims{
		UserID: userID,
		Role:   role,
		Status: status,
		Type:   tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(expire)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

func ParseToken(secret []byte, expectedType string, tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return secret, nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}
	if claims.Type != expectedType {
		return nil, ErrTokenType
	}

	return claims, nil
}

package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/etell/placement-backend/pkg/response"
)

const subjectKey = "auth.subject"

// ErrTokenInvalid is returned for tokens that fail signature, expiry or claim checks
var ErrTokenInvalid = errors.New("invalid token")

// Claims are the bearer token claims accepted by the API
type Claims struct {
	jwt.RegisteredClaims
	DeviceName string `json:"device,omitempty"`
}

// IssueToken signs an HS256 token for subject valid for ttl
func IssueToken(subject, device, secret string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        uuid.NewString(),
		},
		DeviceName: device,
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}
	return signed, nil
}

// ParseToken validates a token and returns its claims
func ParseToken(tokenString, secret string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(_ *jwt.Token) (any, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTokenInvalid, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrTokenInvalid
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: missing subject", ErrTokenInvalid)
	}
	return claims, nil
}

// Auth requires a valid bearer token when enabled
func Auth(secret string, enabled bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !enabled {
			c.Next()
			return
		}

		header := c.GetHeader("Authorization")
		raw, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || raw == "" {
			response.Error(c, http.StatusUnauthorized, "missing bearer token", nil)
			return
		}

		claims, err := ParseToken(raw, secret)
		if err != nil {
			response.Error(c, http.StatusUnauthorized, "invalid bearer token", err)
			return
		}

		c.Set(subjectKey, claims.Subject)
		c.Next()
	}
}

// SubjectFrom returns the authenticated subject, or "" when unauthenticated
func SubjectFrom(c *gin.Context) string {
	return c.GetString(subjectKey)
}

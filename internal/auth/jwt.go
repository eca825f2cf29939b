package auth

import (
	"errors"
	"fmt"
	"time"

	"scale-monitor-backend/internal/access"
	"scale-monitor-backend/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)

// Claims is the session token payload. BranchIDs is frozen at login.
type Claims struct {
	Email     string          `json:"email"`
	Role      models.UserRole `json:"role"`
	BranchIDs []string        `json:"branchIds"`
	jwt.RegisteredClaims
}

// Actor converts verified claims into the request actor.
func (c *Claims) Actor() *access.Actor {
	ids := c.BranchIDs
	if ids == nil {
		ids = []string{}
	}
	return &access.Actor{
		UserID:    c.Subject,
		Email:     c.Email,
		Role:      c.Role,
		BranchIDs: ids,
	}
}

type TokenManager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenManager(secret string, ttl time.Duration) *TokenManager {
	return &TokenManager{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Generate signs an HS256 token for user carrying branchIDs.
func (m *TokenManager) Generate(user *models.User, branchIDs []string) (string, error) {
	now := m.now()
	claims := &Claims{
		Email:     user.Email,
		Role:      user.Role,
		BranchIDs: branchIDs,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			ID:        uuid.NewString(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}
	return signed, nil
}

// Parse verifies signature and expiry and returns the claims.
func (m *TokenManager) Parse(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return m.secret, nil
	}, jwt.WithTimeFunc(m.now))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.Subject == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

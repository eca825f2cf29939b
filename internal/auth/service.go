package auth

import (
	"context"
	"fmt"
	"strings"

	"scale-monitor-backend/internal/access"
	"scale-monitor-backend/internal/apperr"
	"scale-monitor-backend/internal/models"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const invalidCredentials = "Invalid credentials"

// UserStore is the credential lookup the auth service needs. Both methods
// return (nil, nil) when no user matches.
type UserStore interface {
	FindUserByEmail(ctx context.Context, email string) (*models.User, error)
	FindUserByID(ctx context.Context, id string) (*models.User, error)
}

type UserSummary struct {
	ID        string          `json:"id"`
	Email     string          `json:"email"`
	Role      models.UserRole `json:"role"`
	Name      string          `json:"name"`
	BranchIDs []string        `json:"branchIds"`
}

type LoginResult struct {
	AccessToken string      `json:"accessToken"`
	User        UserSummary `json:"user"`
}

type Service struct {
	users  UserStore
	tokens *TokenManager
	log    *zap.Logger
}

func NewService(users UserStore, tokens *TokenManager, log *zap.Logger) *Service {
	return &Service{users: users, tokens: tokens, log: log}
}

// Login checks the password and issues a session token. Unknown email and
// wrong password fail identically.
func (s *Service) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.users.FindUserByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("loading user: %w", err)
	}
	if user == nil {
		return nil, apperr.Unauthorized(invalidCredentials)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		s.log.Debug("login rejected", zap.String("user_id", user.ID))
		return nil, apperr.Unauthorized(invalidCredentials)
	}

	branchIDs := user.GrantedBranchIDs()
	token, err := s.tokens.Generate(user, branchIDs)
	if err != nil {
		return nil, err
	}

	s.log.Info("user logged in",
		zap.String("user_id", user.ID),
		zap.String("role", string(user.Role)),
		zap.Int("branches", len(branchIDs)),
	)

	return &LoginResult{
		AccessToken: token,
		User: UserSummary{
			ID:        user.ID,
			Email:     user.Email,
			Role:      user.Role,
			Name:      user.Name,
			BranchIDs: branchIDs,
		},
	}, nil
}

// Me describes the token holder. Branch ids come from the token, not from
// current grants.
func (s *Service) Me(ctx context.Context, actor *access.Actor) (*UserSummary, error) {
	user, err := s.users.FindUserByID(ctx, actor.UserID)
	if err != nil {
		return nil, fmt.Errorf("loading user: %w", err)
	}
	if user == nil {
		return nil, apperr.Unauthorized("User no longer exists")
	}
	return &UserSummary{
		ID:        user.ID,
		Email:     user.Email,
		Role:      actor.Role,
		Name:      user.Name,
		BranchIDs: actor.BranchIDs,
	}, nil
}

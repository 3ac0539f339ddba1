package auth

import (
	"context"
	"errors"

	"golang.org/x/crypto/bcrypt"

	"flavorfi/internal/adapter/logger"
	"flavorfi/internal/domain"
	"flavorfi/internal/interfaces"
)

// TokenIssuer signs access tokens for authenticated users.
type TokenIssuer interface {
	Issue(userID int) (string, error)
}

// Service handles registration, login and profile lookup.
type Service struct {
	users  interfaces.UserRepository
	tokens TokenIssuer
	logger logger.Logger
}

func NewService(users interfaces.UserRepository, tokens TokenIssuer, logger logger.Logger) *Service {
	return &Service{
		users:  users,
		tokens: tokens,
		logger: logger,
	}
}

func (s *Service) Register(ctx context.Context, cmd interfaces.RegisterCommand) (*domain.User, error) {
	if cmd.Name == "" || cmd.Email == "" || cmd.Password == "" {
		return nil, domain.Validationf("Missing required fields")
	}

	if cmd.Role == "" {
		cmd.Role = string(domain.RoleCustomer)
	}
	role, err := domain.ParseRole(cmd.Role)
	if err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cmd.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Name:         cmd.Name,
		Email:        cmd.Email,
		PasswordHash: string(hash),
		Role:         role,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Debug("user_registered", "User registered", "", map[string]interface{}{
		"user_id": user.ID,
		"role":    string(user.Role),
	})
	return user, nil
}

func (s *Service) Login(ctx context.Context, cmd interfaces.LoginCommand) (*interfaces.LoginResult, error) {
	if cmd.Email == "" || cmd.Password == "" {
		return nil, domain.Validationf("Missing email or password")
	}

	user, err := s.users.FindByEmail(ctx, cmd.Email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.Authenticationf("Bad email or password")
		}
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(cmd.Password)) != nil {
		return nil, domain.Authenticationf("Bad email or password")
	}

	tokenString, err := s.tokens.Issue(user.ID)
	if err != nil {
		s.logger.Error("token_issue_failed", "Failed to issue access token", "", nil, err)
		return nil, err
	}

	return &interfaces.LoginResult{User: user, Token: tokenString}, nil
}

func (s *Service) Profile(ctx context.Context, userID int) (*domain.User, error) {
	return s.users.FindByID(ctx, userID)
}

var _ interfaces.AuthService = (*Service)(nil)

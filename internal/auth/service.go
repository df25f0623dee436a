package auth

import (
	"context"
	"errors"

	"golang.org/x/crypto/bcrypt"

	"github.com/texfolio/stockroom/internal/models"
	"github.com/texfolio/stockroom/internal/repo"
)

// ErrInvalidCredentials hides whether the username or the password was
// wrong.
var ErrInvalidCredentials = errors.New("invalid credentials")

// Service authenticates operators against the operator store.
type Service struct {
	operators repo.OperatorRepository
}

func NewService(operators repo.OperatorRepository) *Service {
	return &Service{operators: operators}
}

// Login verifies the password and mints an access token.
func (s *Service) Login(ctx context.Context, username, password string) (string, error) {
	op, err := s.operators.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repo.ErrOperatorNotFound) {
			return "", ErrInvalidCredentials
		}
		return "", err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(op.PasswordHash), []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}
	return GenerateToken(op)
}

// Register creates an operator with a bcrypt-hashed password.
func (s *Service) Register(ctx context.Context, username, password string) (models.Operator, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return models.Operator{}, err
	}
	return s.operators.Create(ctx, models.Operator{
		Username:     username,
		PasswordHash: string(hash),
	})
}

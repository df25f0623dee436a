package repo

import (
	"context"

	"github.com/texfolio/stockroom/internal/models"
)

// OperatorRepository looks up back-office users for login.
type OperatorRepository interface {
	Create(ctx context.Context, op models.Operator) (models.Operator, error)
	GetByUsername(ctx context.Context, username string) (models.Operator, error)
}

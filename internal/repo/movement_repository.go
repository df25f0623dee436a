package repo

import (
	"context"

	"github.com/texfolio/stockroom/internal/models"
)

// MovementRepository audits stock changes.
type MovementRepository interface {
	Log(ctx context.Context, productID, delta int, reason string) error
	GetByProductID(ctx context.Context, productID int, mf MovementFilter) ([]models.Movement, int, error)
}

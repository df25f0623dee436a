package repo

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/texfolio/stockroom/internal/models"
)

type InMemoryMovementRepository struct {
	mu        sync.Mutex
	movements []models.Movement
	nextID    int
}

func NewInMemoryMovementRepository() *InMemoryMovementRepository {
	return &InMemoryMovementRepository{
		movements: []models.Movement{},
		nextID:    1,
	}
}

func (r *InMemoryMovementRepository) Log(_ context.Context, productID, delta int, reason string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.movements = append(r.movements, models.Movement{
		ID:        r.nextID,
		ProductID: productID,
		Delta:     delta,
		Reason:    reason,
		CreatedAt: time.Now().UTC(),
	})
	r.nextID++
	return nil
}

func (r *InMemoryMovementRepository) GetByProductID(_ context.Context, productID int, mf MovementFilter) ([]models.Movement, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var filtered []models.Movement
	for _, m := range r.movements {
		if m.ProductID != productID {
			continue
		}
		if mf.Since != nil && m.CreatedAt.Before(*mf.Since) {
			continue
		}
		if mf.Until != nil && m.CreatedAt.After(*mf.Until) {
			continue
		}
		filtered = append(filtered, m)
	}
	sort.SliceStable(filtered, func(i, j int) bool {
		return filtered[i].CreatedAt.After(filtered[j].CreatedAt)
	})

	total := len(filtered)
	start := 0
	if mf.Offset != nil {
		start = clamp(*mf.Offset, 0, total)
	}
	end := total
	if mf.Limit != nil && *mf.Limit > 0 {
		end = clamp(start+*mf.Limit, start, total)
	}
	return filtered[start:end], total, nil
}

// Clear removes every movement. Test helper.
func (r *InMemoryMovementRepository) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.movements = []models.Movement{}
	r.nextID = 1
}

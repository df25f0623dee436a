package repo

import (
	"context"
	"sync"

	"github.com/texfolio/stockroom/internal/models"
)

type InMemoryOperatorRepository struct {
	mu        sync.RWMutex
	operators []models.Operator
	nextID    int
}

func NewInMemoryOperatorRepository() *InMemoryOperatorRepository {
	return &InMemoryOperatorRepository{nextID: 1}
}

func (r *InMemoryOperatorRepository) Create(_ context.Context, op models.Operator) (models.Operator, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	op.ID = r.nextID
	r.nextID++
	r.operators = append(r.operators, op)
	return op, nil
}

func (r *InMemoryOperatorRepository) GetByUsername(_ context.Context, username string) (models.Operator, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, op := range r.operators {
		if op.Username == username {
			return op, nil
		}
	}
	return models.Operator{}, ErrOperatorNotFound
}

package repo

import (
	"context"
	"database/sql"
	"errors"

	"github.com/texfolio/stockroom/internal/models"
)

type PostgresOperatorRepository struct {
	db *sql.DB
}

func NewPostgresOperatorRepository(db *sql.DB) *PostgresOperatorRepository {
	return &PostgresOperatorRepository{db: db}
}

func (r *PostgresOperatorRepository) Create(ctx context.Context, op models.Operator) (models.Operator, error) {
	query := `INSERT INTO operators (username, password_hash) VALUES ($1, $2) RETURNING id`
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	err := r.db.QueryRowContext(ctx, query, op.Username, op.PasswordHash).Scan(&op.ID)
	return op, err
}

func (r *PostgresOperatorRepository) GetByUsername(ctx context.Context, username string) (models.Operator, error) {
	query := `SELECT id, username, password_hash FROM operators WHERE username = $1`
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var op models.Operator
	err := r.db.QueryRowContext(ctx, query, username).Scan(&op.ID, &op.Username, &op.PasswordHash)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Operator{}, ErrOperatorNotFound
	}
	return op, err
}

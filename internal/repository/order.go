package repository

import (
	"context"
	"fmt"

	"gorodskoybaton/bot/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
)

// OrderRepository archives completed orders.
type OrderRepository interface {
	SaveOrder(ctx context.Context, order *domain.Order) error
}

type orderRepository struct {
	db *pgxpool.Pool
}

// NewOrderRepository creates a Postgres-backed order archive.
func NewOrderRepository(db *pgxpool.Pool) OrderRepository {
	return &orderRepository{
		db: db,
	}
}

func (r *orderRepository) SaveOrder(ctx context.Context, order *domain.Order) error {
	query := `
	INSERT INTO orders (id, placed_at, data)
	VALUES ($1, $2, $3)
	ON CONFLICT (id)
	DO NOTHING`
	_, err := r.db.Exec(ctx, query, order.ID, order.PlacedAt, order)
	if err != nil {
		return fmt.Errorf("failed to save order: %w", err)
	}

	return nil
}

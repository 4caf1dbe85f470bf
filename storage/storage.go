package storage

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"truckboard/pkg/models"
)

type IStorage interface {
	Order() IOrderStorage
	Close()
	GetPool() *pgxpool.Pool
}

// IOrderStorage is the data provider contract: one read returning the full
// denormalized order list, most recent pickup first.
type IOrderStorage interface {
	QueryOrders(ctx context.Context) ([]models.Order, error)
}

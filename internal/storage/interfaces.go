package storage

import (
	"context"

	"grocery-report/internal/domain"
)

// OrderArchive stores fetched order details so analyses can run offline.
// Archived orders are immutable: a delivered order never changes.
type OrderArchive interface {
	// Insert adds a new order. Returns ErrDuplicateKey if the order id exists
	// and ErrInvalidInput if the order has no id.
	Insert(ctx context.Context, o *domain.OrderDetail) error

	// GetByID retrieves an order with its line items in original order.
	// Returns ErrNotFound if not exists.
	GetByID(ctx context.Context, orderID string) (*domain.OrderDetail, error)

	// ListRecent returns up to limit orders, newest first by date, then by id descending.
	ListRecent(ctx context.Context, limit int) ([]domain.OrderSummary, error)

	// Count returns the number of archived orders.
	Count(ctx context.Context) (int, error)
}

package storage

import (
	"context"
	"errors"

	"grocery-report/internal/domain"
)

// ArchiveLoader reads order history from an OrderArchive.
type ArchiveLoader struct {
	archive OrderArchive
}

// NewArchiveLoader creates a history loader backed by archive.
func NewArchiveLoader(archive OrderArchive) *ArchiveLoader {
	return &ArchiveLoader{archive: archive}
}

// ListRecentOrders returns the count most recent archived orders.
func (l *ArchiveLoader) ListRecentOrders(ctx context.Context, count int) ([]domain.OrderSummary, error) {
	return l.archive.ListRecent(ctx, count)
}

// GetOrderDetail returns an archived order, or nil, nil when it is not archived.
func (l *ArchiveLoader) GetOrderDetail(ctx context.Context, orderID string) (*domain.OrderDetail, error) {
	o, err := l.archive.GetByID(ctx, orderID)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	return o, err
}

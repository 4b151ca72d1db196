package memory

import (
	"context"
	"sort"
	"sync"

	"grocery-report/internal/domain"
	"grocery-report/internal/storage"
)

// OrderArchive is an in-memory implementation of storage.OrderArchive.
type OrderArchive struct {
	mu   sync.RWMutex
	data map[string]*domain.OrderDetail // keyed by order id
}

// NewOrderArchive creates a new in-memory order archive.
func NewOrderArchive() *OrderArchive {
	return &OrderArchive{
		data: make(map[string]*domain.OrderDetail),
	}
}

// Insert adds a new order. Returns ErrDuplicateKey if the order id exists.
func (s *OrderArchive) Insert(_ context.Context, o *domain.OrderDetail) error {
	if o == nil || o.ID == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[o.ID]; exists {
		return storage.ErrDuplicateKey
	}

	// Store a copy to prevent external mutation
	orderCopy := o.Clone()
	s.data[o.ID] = &orderCopy
	return nil
}

// GetByID retrieves an order by its ID. Returns ErrNotFound if not exists.
func (s *OrderArchive) GetByID(_ context.Context, orderID string) (*domain.OrderDetail, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	o, exists := s.data[orderID]
	if !exists {
		return nil, storage.ErrNotFound
	}

	orderCopy := o.Clone()
	return &orderCopy, nil
}

// ListRecent returns up to limit orders, newest first.
func (s *OrderArchive) ListRecent(_ context.Context, limit int) ([]domain.OrderSummary, error) {
	if limit <= 0 {
		return nil, nil
	}

	s.mu.RLock()
	orders := make([]*domain.OrderDetail, 0, len(s.data))
	for _, o := range s.data {
		orders = append(orders, o)
	}
	s.mu.RUnlock()

	// Sort by date DESC, id DESC
	sort.Slice(orders, func(i, j int) bool {
		if orders[i].Date != orders[j].Date {
			return orders[i].Date > orders[j].Date
		}
		return orders[i].ID > orders[j].ID
	})

	if len(orders) > limit {
		orders = orders[:limit]
	}
	result := make([]domain.OrderSummary, len(orders))
	for i, o := range orders {
		result[i] = domain.OrderSummary{ID: o.ID}
	}
	return result, nil
}

// Count returns the number of archived orders.
func (s *OrderArchive) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data), nil
}

// Verify interface compliance at compile time.
var _ storage.OrderArchive = (*OrderArchive)(nil)

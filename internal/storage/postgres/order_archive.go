package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"

	"grocery-report/internal/domain"
	"grocery-report/internal/storage"
)

// OrderArchive implements storage.OrderArchive using PostgreSQL.
type OrderArchive struct {
	pool *Pool
}

// NewOrderArchive creates a new OrderArchive.
func NewOrderArchive(pool *Pool) *OrderArchive {
	return &OrderArchive{pool: pool}
}

// Compile-time interface check.
var _ storage.OrderArchive = (*OrderArchive)(nil)

// Insert adds an order and its line items atomically. Returns ErrDuplicateKey if the order id exists.
func (s *OrderArchive) Insert(ctx context.Context, o *domain.OrderDetail) error {
	if o == nil || o.ID == "" {
		return storage.ErrInvalidInput
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		INSERT INTO archived_orders (order_id, order_date, item_count)
		VALUES ($1, $2, $3)
	`, o.ID, o.Date, len(o.Items))
	if err != nil {
		return storageErr("insert order", err)
	}

	if len(o.Items) > 0 {
		batch := &pgx.Batch{}
		for i, li := range o.Items {
			categories, err := json.Marshal(nonNilCategories(li.Categories))
			if err != nil {
				return fmt.Errorf("marshal categories: %w", err)
			}
			batch.Queue(`
				INSERT INTO archived_order_items (
					order_id, position, product_id, product_name, brand, quantity, price, categories
				) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			`, o.ID, i, li.ProductID, li.ProductName, li.Brand, li.Quantity, li.Price, categories)
		}
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return fmt.Errorf("insert order items: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// GetByID retrieves an order with its items. Returns ErrNotFound if not exists.
func (s *OrderArchive) GetByID(ctx context.Context, orderID string) (*domain.OrderDetail, error) {
	o := &domain.OrderDetail{}
	var itemCount int
	err := s.pool.QueryRow(ctx, `
		SELECT order_id, order_date, item_count
		FROM archived_orders
		WHERE order_id = $1
	`, orderID).Scan(&o.ID, &o.Date, &itemCount)
	if err != nil {
		return nil, storageErr("get order by id", err)
	}

	rows, err := s.pool.Query(ctx, `
		SELECT product_id, product_name, brand, quantity, price, categories
		FROM archived_order_items
		WHERE order_id = $1
		ORDER BY position ASC
	`, orderID)
	if err != nil {
		return nil, fmt.Errorf("get order items: %w", err)
	}
	defer rows.Close()

	o.Items = make([]domain.LineItem, 0, itemCount)
	for rows.Next() {
		var (
			li         domain.LineItem
			categories []byte
		)
		if err := rows.Scan(&li.ProductID, &li.ProductName, &li.Brand, &li.Quantity, &li.Price, &categories); err != nil {
			return nil, fmt.Errorf("scan order item: %w", err)
		}
		if err := json.Unmarshal(categories, &li.Categories); err != nil {
			return nil, fmt.Errorf("decode categories: %w", err)
		}
		if len(li.Categories) == 0 {
			li.Categories = nil
		}
		o.Items = append(o.Items, li)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate order items: %w", err)
	}
	return o, nil
}

// ListRecent returns up to limit orders, newest first.
func (s *OrderArchive) ListRecent(ctx context.Context, limit int) ([]domain.OrderSummary, error) {
	if limit <= 0 {
		return nil, nil
	}

	rows, err := s.pool.Query(ctx, `
		SELECT order_id
		FROM archived_orders
		ORDER BY order_date DESC, order_id DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("list recent orders: %w", err)
	}
	defer rows.Close()

	var result []domain.OrderSummary
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan order id: %w", err)
		}
		result = append(result, domain.OrderSummary{ID: id})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate orders: %w", err)
	}
	return result, nil
}

// Count returns the number of archived orders.
func (s *OrderArchive) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.pool.QueryRow(ctx, `SELECT count(*) FROM archived_orders`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count orders: %w", err)
	}
	return n, nil
}

func nonNilCategories(c []domain.CategoryTag) []domain.CategoryTag {
	if c == nil {
		return []domain.CategoryTag{}
	}
	return c
}

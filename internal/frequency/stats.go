// Package frequency reconstructs per-product purchase statistics from order
// history and ranks products overall and per category.
package frequency

import "grocery-report/internal/domain"

// ProductStats is a mapping from product id to its running statistic that
// also remembers first-seen order, which is the tie-break for rankings.
type ProductStats struct {
	index map[string]int
	items []*domain.ProductStat
}

// NewProductStats creates an empty accumulator.
func NewProductStats() *ProductStats {
	return &ProductStats{index: make(map[string]int)}
}

// Upsert folds one order-occurrence of a product into the statistics.
// The caller guarantees item.Usable().
//
// Update rule for an existing product:
//   - Frequency and TotalQuantity always grow;
//   - AveragePrice = (AveragePrice*(Frequency-1) + price) / Frequency, only when
//     the occurrence carries a non-zero price (Frequency is the incremented value);
//   - LastOrderDate is replaced only by a strictly greater, non-empty date;
//   - Category and CategoryID are never touched after the first occurrence.
func (s *ProductStats) Upsert(item domain.LineItem, orderDate string) {
	if i, ok := s.index[item.ProductID]; ok {
		st := s.items[i]
		st.Frequency++
		st.TotalQuantity += item.EffectiveQuantity()
		if item.HasPrice() {
			st.AveragePrice = (st.AveragePrice*float64(st.Frequency-1) + *item.Price) / float64(st.Frequency)
		}
		if orderDate != "" && (st.LastOrderDate == "" || orderDate > st.LastOrderDate) {
			st.LastOrderDate = orderDate
		}
		return
	}

	catID, catName := item.MainCategory()
	s.index[item.ProductID] = len(s.items)
	s.items = append(s.items, &domain.ProductStat{
		ProductID:     item.ProductID,
		ProductName:   item.ProductName,
		Brand:         item.Brand,
		Frequency:     1,
		TotalQuantity: item.EffectiveQuantity(),
		AveragePrice:  item.PriceOrZero(),
		LastOrderDate: orderDate,
		Category:      catName,
		CategoryID:    catID,
	})
}

// AddQuantity adds units to an already known product without counting a new
// order-occurrence. Unknown ids are ignored.
func (s *ProductStats) AddQuantity(productID string, qty float64) {
	if i, ok := s.index[productID]; ok {
		s.items[i].TotalQuantity += qty
	}
}

// Get returns a copy of the statistic for productID.
func (s *ProductStats) Get(productID string) (domain.ProductStat, bool) {
	i, ok := s.index[productID]
	if !ok {
		return domain.ProductStat{}, false
	}
	return *s.items[i], true
}

// Len returns the number of distinct products.
func (s *ProductStats) Len() int {
	return len(s.items)
}

// All returns copies of every statistic in first-seen order.
func (s *ProductStats) All() []domain.ProductStat {
	out := make([]domain.ProductStat, len(s.items))
	for i, st := range s.items {
		out[i] = *st
	}
	return out
}

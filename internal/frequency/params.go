package frequency

import (
	"errors"
	"fmt"
)

// ErrInvalidParams is returned when analysis parameters are out of range.
var ErrInvalidParams = errors.New("invalid analysis parameters")

// Parameter bounds and defaults.
const (
	MinOrdersToAnalyze     = 1
	MaxOrdersToAnalyze     = 20
	DefaultOrdersToAnalyze = 5

	MinTopItems     = 3
	MaxTopItems     = 30
	DefaultTopItems = 10

	MinTopPerCategory     = 1
	MaxTopPerCategory     = 20
	DefaultTopPerCategory = 10
)

// Params controls one frequency analysis.
type Params struct {
	OrdersToAnalyze int
	TopItems        int
	TopPerCategory  int
	ShowCategories  bool
}

// DefaultParams returns the default analysis parameters.
func DefaultParams() Params {
	return Params{
		OrdersToAnalyze: DefaultOrdersToAnalyze,
		TopItems:        DefaultTopItems,
		TopPerCategory:  DefaultTopPerCategory,
		ShowCategories:  true,
	}
}

// Validate checks every parameter against its bounds.
func (p Params) Validate() error {
	if err := checkRange("orders_to_analyze", p.OrdersToAnalyze, MinOrdersToAnalyze, MaxOrdersToAnalyze); err != nil {
		return err
	}
	if err := checkRange("top_items", p.TopItems, MinTopItems, MaxTopItems); err != nil {
		return err
	}
	return checkRange("top_per_category", p.TopPerCategory, MinTopPerCategory, MaxTopPerCategory)
}

func checkRange(name string, v, lo, hi int) error {
	if v < lo || v > hi {
		return fmt.Errorf("%w: %s must be between %d and %d, got %d", ErrInvalidParams, name, lo, hi, v)
	}
	return nil
}

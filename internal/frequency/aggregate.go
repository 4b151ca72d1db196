package frequency

import (
	"errors"

	"grocery-report/internal/domain"
)

// Skip reasons recorded for orders that did not contribute to the statistics.
const (
	SkipMissingID   = "missing_id"
	SkipFetchFailed = "fetch_failed"
	SkipNotFound    = "not_found"
	SkipEmpty       = "empty"
)

var (
	// ErrOrderNotFound marks an order whose detail the loader could not resolve.
	ErrOrderNotFound = errors.New("order detail not found")

	// ErrMissingOrderID marks a history entry that carried neither id nor order number.
	ErrMissingOrderID = errors.New("order summary has no id")
)

// FetchOutcome is the result-or-skip of fetching one order detail.
type FetchOutcome struct {
	OrderID string
	Detail  *domain.OrderDetail
	Err     error
}

// SkippedOrder describes an order excluded from aggregation.
type SkippedOrder struct {
	OrderID string
	Reason  string
	Err     error
}

// Result is the partial-success outcome of folding a batch of orders.
type Result struct {
	Stats                *ProductStats
	ProcessedOrders      int
	TotalLineOccurrences int
	Skipped              []SkippedOrder
}

// Aggregate folds fetch outcomes into product statistics, strictly in the
// order given. Failed, missing and empty orders are recorded in Skipped and
// never abort the fold.
func Aggregate(outcomes []FetchOutcome) *Result {
	res := &Result{Stats: NewProductStats()}

	for _, o := range outcomes {
		switch {
		case errors.Is(o.Err, ErrMissingOrderID):
			res.skip(o.OrderID, SkipMissingID, o.Err)
		case errors.Is(o.Err, ErrOrderNotFound):
			res.skip(o.OrderID, SkipNotFound, o.Err)
		case o.Err != nil:
			res.skip(o.OrderID, SkipFetchFailed, o.Err)
		case o.Detail == nil:
			res.skip(o.OrderID, SkipNotFound, nil)
		case len(o.Detail.Items) == 0:
			res.skip(o.OrderID, SkipEmpty, nil)
		default:
			res.add(o.Detail)
		}
	}

	return res
}

// AggregateDetails folds already-fetched order details.
func AggregateDetails(details []domain.OrderDetail) *Result {
	outcomes := make([]FetchOutcome, len(details))
	for i := range details {
		outcomes[i] = FetchOutcome{OrderID: details[i].ID, Detail: &details[i]}
	}
	return Aggregate(outcomes)
}

func (r *Result) add(detail *domain.OrderDetail) {
	r.ProcessedOrders++
	seen := make(map[string]struct{}, len(detail.Items))
	for _, item := range detail.Items {
		if !item.Usable() {
			continue
		}
		r.TotalLineOccurrences++
		// A product listed twice in one order is still one order-occurrence.
		if _, dup := seen[item.ProductID]; dup {
			r.Stats.AddQuantity(item.ProductID, item.EffectiveQuantity())
			continue
		}
		seen[item.ProductID] = struct{}{}
		r.Stats.Upsert(item, detail.Date)
	}
}

func (r *Result) skip(orderID, reason string, err error) {
	r.Skipped = append(r.Skipped, SkippedOrder{OrderID: orderID, Reason: reason, Err: err})
}

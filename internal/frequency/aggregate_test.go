package frequency

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"grocery-report/internal/domain"
)

func TestAggregate_ThreeOrdersScenario(t *testing.T) {
	details := []domain.OrderDetail{
		order("o1", "2024-05-03", item("P1", "Apples", 2, 50)),
		order("o2", "2024-05-02", item("P1", "Apples", 2, 50), item("P2", "Milk", 1, 10, dairy)),
		order("o3", "2024-05-01", item("P1", "Apples", 2, 50)),
	}

	res := AggregateDetails(details)

	assert.Equal(t, 3, res.ProcessedOrders)
	assert.Equal(t, 4, res.TotalLineOccurrences)
	assert.Empty(t, res.Skipped)

	p1, ok := res.Stats.Get("P1")
	require.True(t, ok)
	assert.Equal(t, 3, p1.Frequency)
	assert.Equal(t, 6.0, p1.TotalQuantity)
	assert.Equal(t, 50.0, p1.AveragePrice)
	assert.Equal(t, "2024-05-03", p1.LastOrderDate)

	p2, ok := res.Stats.Get("P2")
	require.True(t, ok)
	assert.Equal(t, 1, p2.Frequency)
	assert.Equal(t, 1.0, p2.TotalQuantity)
	assert.Equal(t, 10.0, p2.AveragePrice)
	assert.Equal(t, int64(5), p2.CategoryID)
}

func TestAggregate_MissingPriceKeepsMean(t *testing.T) {
	res := AggregateDetails([]domain.OrderDetail{
		order("A", "", item("P1", "Apples", 1, 50)),
		order("B", "", item("P1", "Apples", 4, -1)),
	})

	p1, _ := res.Stats.Get("P1")
	assert.Equal(t, 2, p1.Frequency)
	assert.Equal(t, 50.0, p1.AveragePrice)
	assert.Equal(t, 5.0, p1.TotalQuantity)
}

func TestAggregate_SkipsUnusableItems(t *testing.T) {
	noID := item("", "Nameless id", 1, 1)
	noName := item("p9", "", 1, 1)

	res := AggregateDetails([]domain.OrderDetail{
		order("o1", "", noID, noName, item("p1", "Tea", 1, 3)),
	})

	assert.Equal(t, 1, res.ProcessedOrders)
	assert.Equal(t, 1, res.TotalLineOccurrences)
	assert.Equal(t, 1, res.Stats.Len())
}

func TestAggregate_SkipReasons(t *testing.T) {
	good := order("ok", "", item("p1", "Tea", 1, 3))
	empty := order("empty", "")

	res := Aggregate([]FetchOutcome{
		{OrderID: "", Err: ErrMissingOrderID},
		{OrderID: "boom", Err: errors.New("connection reset")},
		{OrderID: "gone", Err: ErrOrderNotFound},
		{OrderID: "nil"},
		{OrderID: "empty", Detail: &empty},
		{OrderID: "ok", Detail: &good},
	})

	assert.Equal(t, 1, res.ProcessedOrders)
	require.Len(t, res.Skipped, 5)

	reasons := make([]string, len(res.Skipped))
	for i, s := range res.Skipped {
		reasons[i] = s.Reason
	}
	assert.Equal(t, []string{SkipMissingID, SkipFetchFailed, SkipNotFound, SkipNotFound, SkipEmpty}, reasons)
	assert.EqualError(t, res.Skipped[1].Err, "connection reset")
}

func TestAggregate_DuplicateLineInOneOrder(t *testing.T) {
	res := AggregateDetails([]domain.OrderDetail{
		order("o1", "", item("p1", "Beer", 6, 20), item("p1", "Beer", 4, 99)),
		order("o2", "", item("p1", "Beer", 2, 30)),
	})

	p1, _ := res.Stats.Get("p1")
	assert.Equal(t, 2, p1.Frequency, "one order-occurrence per order")
	assert.Equal(t, 12.0, p1.TotalQuantity)
	assert.Equal(t, 25.0, p1.AveragePrice)
	assert.Equal(t, 3, res.TotalLineOccurrences)
}

func TestAggregate_Invariants(t *testing.T) {
	details := []domain.OrderDetail{
		order("o1", "2024-01-03", item("a", "A", 3, 1), item("b", "B", 1, -1), item("c", "C", 2, 4)),
		order("o2", "2024-01-02", item("a", "A", 1, 2), item("c", "C", 0, -1)),
		order("o3", "2024-01-01", item("a", "A", 1, -1), item("d", "D", 1, 9), item("", "x", 1, 1)),
		order("o4", ""),
	}

	res := AggregateDetails(details)

	sum := 0
	for _, st := range res.Stats.All() {
		sum += st.Frequency
		assert.GreaterOrEqual(t, st.Frequency, 1)
		assert.LessOrEqual(t, st.Frequency, res.ProcessedOrders)
		assert.GreaterOrEqual(t, st.TotalQuantity, 1.0)
	}
	assert.LessOrEqual(t, sum, res.TotalLineOccurrences)
	assert.Equal(t, 3, res.ProcessedOrders)
}

func TestAggregate_Idempotent(t *testing.T) {
	details := []domain.OrderDetail{
		order("o1", "2024-01-02", item("a", "A", 1, 10, dairy), item("b", "B", 2, -1, fruit)),
		order("o2", "2024-01-01", item("a", "A", 1, -1, bakery), item("b", "B", 1, 5)),
	}

	first := AggregateDetails(details).Stats.All()
	second := AggregateDetails(details).Stats.All()
	assert.Equal(t, first, second)
}

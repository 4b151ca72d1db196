package tools

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"grocery-report/internal/domain"
	"grocery-report/internal/fixtures"
	"grocery-report/internal/frequency"
	"grocery-report/internal/observability"
	"grocery-report/internal/storage"
	"grocery-report/internal/storage/memory"
)

func demoRegistry(t *testing.T, opts ...RegistryOption) *Registry {
	t.Helper()
	ctx := context.Background()

	archive := memory.NewOrderArchive()
	require.NoError(t, fixtures.LoadOrders(ctx, archive))

	reg, err := NewDefaultRegistry(Deps{
		Analyzer: frequency.NewAnalyzer(storage.NewArchiveLoader(archive)),
		Account:  fixtures.NewAccount(),
		Currency: "CZK",
	}, opts...)
	require.NoError(t, err)
	return reg
}

// failingAccount fails every call.
type failingAccount struct{ err error }

func (f failingAccount) GetAccountData(context.Context) (*domain.AccountData, error) {
	return nil, f.err
}

func (f failingAccount) GetDeliverySlots(context.Context) (*domain.DeliverySlots, error) {
	return nil, f.err
}

func (f failingAccount) GetDeliveryInfo(context.Context) (*domain.DeliveryInfo, error) {
	return nil, f.err
}

func (f failingAccount) GetPremiumInfo(context.Context) (*domain.PremiumInfo, error) {
	return nil, f.err
}

func (f failingAccount) GetReusableBagsInfo(context.Context) (*domain.ReusableBags, error) {
	return nil, f.err
}

// stubAnalyzer returns a fixed report and records the params it got.
type stubAnalyzer struct {
	report *frequency.Report
	err    error
	got    frequency.Params
}

func (s *stubAnalyzer) Analyze(_ context.Context, p frequency.Params) (*frequency.Report, error) {
	s.got = p
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return s.report, s.err
}

func TestRegistry_List(t *testing.T) {
	reg := demoRegistry(t)

	var names []string
	for _, tool := range reg.List() {
		names = append(names, tool.Name)
	}

	assert.Equal(t, []string{
		AccountDataTool,
		DeliveryInfoTool,
		DeliverySlotsTool,
		FrequentItemsTool,
		PremiumInfoTool,
		ReusableBagsTool,
	}, names)

	freq, ok := reg.Get(FrequentItemsTool)
	require.True(t, ok)
	assert.Equal(t, "Get Frequent Items", freq.Title)
	assert.Len(t, freq.Params, 5)
}

func TestRegistry_RegisterDuplicate(t *testing.T) {
	reg := NewRegistry()
	tool := Tool{Name: "echo", Handler: func(context.Context, json.RawMessage) Result { return TextResult("hi") }}

	require.NoError(t, reg.Register(tool))
	assert.Error(t, reg.Register(tool))
	assert.Error(t, reg.Register(Tool{Name: "no-handler"}))
}

func TestRegistry_UnknownTool(t *testing.T) {
	reg := demoRegistry(t)

	_, err := reg.Invoke(context.Background(), "add_to_cart", nil)
	assert.ErrorIs(t, err, ErrUnknownTool)
}

func TestRegistry_PanicBecomesErrorResult(t *testing.T) {
	metrics := observability.NewMetrics("test")
	reg := NewRegistry(WithMetrics(metrics))
	require.NoError(t, reg.Register(Tool{
		Name:    "explode",
		Handler: func(context.Context, json.RawMessage) Result { panic("boom") },
	}))

	res, err := reg.Invoke(context.Background(), "explode", nil)
	require.NoError(t, err)
	assert.True(t, res.IsError)
	assert.Contains(t, res.Text, "boom")
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.ToolInvocations.WithLabelValues("explode", "error")))
}

func TestFrequentItems_Defaults(t *testing.T) {
	metrics := observability.NewMetrics("test")
	reg := demoRegistry(t, WithMetrics(metrics))

	res, err := reg.Invoke(context.Background(), FrequentItemsTool, nil)
	require.NoError(t, err)
	require.False(t, res.IsError, res.Text)

	assert.True(t, strings.HasPrefix(res.Text, "Frequent items (5 orders, 17 products):\n\n1. Milk 1.5% 1 l [Dairy] — 3x, ~25 CZK, id:1353051"), res.Text)
	assert.Contains(t, res.Text, "\n\nBy category:\n\nDairy:\n1. Milk 1.5% 1 l — 3x")
	assert.Contains(t, res.Text, "\n\nUncategorized:\n1. Free-range eggs 10 pcs — 2x")
	assert.True(t, strings.HasSuffix(res.Text, "Use product IDs with add_to_cart to reorder."))
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.ToolInvocations.WithLabelValues(FrequentItemsTool, "ok")))
}

func TestFrequentItems_Arguments(t *testing.T) {
	reg := demoRegistry(t)
	ctx := context.Background()

	res, err := reg.Invoke(ctx, FrequentItemsTool, json.RawMessage(`{"orders_to_analyze": 1, "top_items": 3, "show_categories": false}`))
	require.NoError(t, err)
	require.False(t, res.IsError, res.Text)

	assert.True(t, strings.HasPrefix(res.Text, "Frequent items (1 orders, 4 products):"), res.Text)
	assert.NotContains(t, res.Text, "By category:")
	assert.Equal(t, 3, strings.Count(res.Text, " id:"))
}

func TestFrequentItems_Formats(t *testing.T) {
	reg := demoRegistry(t)
	ctx := context.Background()

	md, err := reg.Invoke(ctx, FrequentItemsTool, json.RawMessage(`{"format": "markdown"}`))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(md.Text, "# Frequent Items Report"))

	csv, err := reg.Invoke(ctx, FrequentItemsTool, json.RawMessage(`{"format": "csv", "top_items": 3}`))
	require.NoError(t, err)
	assert.Equal(t, 4, strings.Count(csv.Text, "\n"))
	assert.True(t, strings.HasPrefix(csv.Text, "rank,product_id"))

	bad, err := reg.Invoke(ctx, FrequentItemsTool, json.RawMessage(`{"format": "xml"}`))
	require.NoError(t, err)
	assert.True(t, bad.IsError)
}

func TestFrequentItems_InvalidArguments(t *testing.T) {
	tests := []struct {
		name string
		args string
		want string
	}{
		{name: "orders above range", args: `{"orders_to_analyze": 21}`, want: "orders_to_analyze must be between 1 and 20, got 21"},
		{name: "top items below range", args: `{"top_items": 2}`, want: "top_items must be between 3 and 30, got 2"},
		{name: "per category zero", args: `{"top_per_category": 0}`, want: "top_per_category must be between 1 and 20, got 0"},
		{name: "fractional", args: `{"top_items": 4.5}`, want: "top_items must be an integer"},
		{name: "wrong type", args: `{"show_categories": "yes"}`, want: "invalid arguments"},
		{name: "huge", args: `{"orders_to_analyze": 1e12}`, want: "orders_to_analyze out of range"},
		{name: "not an object", args: `[1, 2]`, want: "invalid arguments"},
	}

	stub := &stubAnalyzer{}
	reg, err := NewDefaultRegistry(Deps{Analyzer: stub, Currency: "CZK"})
	require.NoError(t, err)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := reg.Invoke(context.Background(), FrequentItemsTool, json.RawMessage(tt.args))
			require.NoError(t, err)
			assert.True(t, res.IsError)
			assert.Contains(t, res.Text, tt.want)
		})
	}
}

func TestFrequentItems_DecodesDefaults(t *testing.T) {
	stub := &stubAnalyzer{report: &frequency.Report{Outcome: frequency.OutcomeNoHistory}}
	reg, err := NewDefaultRegistry(Deps{Analyzer: stub, Currency: "CZK"})
	require.NoError(t, err)

	res, err := reg.Invoke(context.Background(), FrequentItemsTool, json.RawMessage(`{"top_per_category": 4.0}`))
	require.NoError(t, err)

	assert.False(t, res.IsError)
	assert.Equal(t, "No order history found. You need to have past orders to analyze frequent items.", res.Text)
	assert.Equal(t, frequency.Params{OrdersToAnalyze: 5, TopItems: 10, TopPerCategory: 4, ShowCategories: true}, stub.got)
}

func TestFrequentItems_AnalyzerError(t *testing.T) {
	stub := &stubAnalyzer{err: errors.New("list recent orders: unauthorized")}
	reg, err := NewDefaultRegistry(Deps{Analyzer: stub})
	require.NoError(t, err)

	res, err := reg.Invoke(context.Background(), FrequentItemsTool, nil)
	require.NoError(t, err)
	assert.Equal(t, Result{Text: "list recent orders: unauthorized", IsError: true}, res)
}

func TestAccountTools_Fixtures(t *testing.T) {
	reg := demoRegistry(t)
	ctx := context.Background()

	cases := map[string]string{
		AccountDataTool:   "Cart: 4 items, 187.5 CZK, can order: yes",
		DeliverySlotsTool: "Express: 15:30-16:30",
		DeliveryInfoTool:  "Next delivery: 2024-06-15 18:00",
		PremiumInfoTool:   "Status: active",
		ReusableBagsTool:  "Bags: 4/20",
	}
	for name, want := range cases {
		res, err := reg.Invoke(ctx, name, json.RawMessage(`{}`))
		require.NoError(t, err, name)
		assert.False(t, res.IsError, name)
		assert.Contains(t, res.Text, want, name)
	}
}

func TestAccountTools_Errors(t *testing.T) {
	reg, err := NewDefaultRegistry(Deps{Account: failingAccount{err: errors.New("get premium info: unauthorized")}})
	require.NoError(t, err)

	_, ok := reg.Get(FrequentItemsTool)
	assert.False(t, ok, "frequency tool needs an analyzer")

	for _, tool := range reg.List() {
		res, err := reg.Invoke(context.Background(), tool.Name, nil)
		require.NoError(t, err)
		assert.True(t, res.IsError, tool.Name)
		assert.Equal(t, "get premium info: unauthorized", res.Text)
	}
}

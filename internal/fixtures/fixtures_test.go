package fixtures

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"grocery-report/internal/frequency"
	"grocery-report/internal/storage"
	"grocery-report/internal/storage/memory"
)

func TestLoadOrders(t *testing.T) {
	ctx := context.Background()
	archive := memory.NewOrderArchive()

	require.NoError(t, LoadOrders(ctx, archive))

	n, err := archive.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 6, n)

	// Loading twice hits the immutable archive
	err = LoadOrders(ctx, archive)
	assert.ErrorIs(t, err, storage.ErrDuplicateKey)
}

func TestDemoHistoryAnalysis(t *testing.T) {
	ctx := context.Background()
	archive := memory.NewOrderArchive()
	require.NoError(t, LoadOrders(ctx, archive))

	analyzer := frequency.NewAnalyzer(storage.NewArchiveLoader(archive))
	report, err := analyzer.Analyze(ctx, frequency.DefaultParams())
	require.NoError(t, err)

	assert.Equal(t, frequency.OutcomeOK, report.Outcome)
	assert.Equal(t, 5, report.OrdersListed)
	assert.Equal(t, 5, report.ProcessedOrders)
	assert.Equal(t, 7, report.DistinctProducts)

	require.Len(t, report.TopItems, 7)
	names := make([]string, 0, 3)
	for _, p := range report.TopItems[:3] {
		assert.Equal(t, 3, p.Frequency)
		names = append(names, p.ProductName)
	}
	assert.Equal(t, []string{"Milk 1.5% 1 l", "Rye bread 500 g", "Bananas"}, names)

	milk := report.TopItems[0]
	assert.Equal(t, 7.0, milk.TotalQuantity)
	assert.Equal(t, "Dairy", milk.Category)
	assert.Equal(t, "2024-06-14T18:20:00+02:00", milk.LastOrderDate)

	require.NotEmpty(t, report.Categories)
	assert.Equal(t, "Dairy", report.Categories[0].CategoryName)
	assert.Equal(t, 7, report.Categories[0].TotalFrequency)
}

func TestAccountFixtures(t *testing.T) {
	ctx := context.Background()
	acc := NewAccount()

	data, err := acc.GetAccountData(ctx)
	require.NoError(t, err)
	require.NotNil(t, data.Cart)
	assert.Equal(t, 4, data.Cart.TotalItems)
	assert.True(t, data.NextOrder.IsArray)

	slots, err := acc.GetDeliverySlots(ctx)
	require.NoError(t, err)
	assert.False(t, slots.IsList)
	assert.Len(t, slots.Days, 2)

	info, err := acc.GetDeliveryInfo(ctx)
	require.NoError(t, err)
	require.NotNil(t, info.DeliveryFee)
	assert.Equal(t, 29.0, *info.DeliveryFee)

	premium, err := acc.GetPremiumInfo(ctx)
	require.NoError(t, err)
	assert.Len(t, premium.Benefits, 2)

	bags, err := acc.GetReusableBagsInfo(ctx)
	require.NoError(t, err)
	require.NotNil(t, bags.Max)
	assert.Equal(t, 20, *bags.Max)
}

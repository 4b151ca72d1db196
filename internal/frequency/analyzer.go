package frequency

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"grocery-report/internal/domain"
	"grocery-report/internal/observability"
)

// HistoryLoader retrieves order history. Implementations own transport,
// timeouts and retries.
type HistoryLoader interface {
	// ListRecentOrders returns up to count most recent orders, newest first.
	ListRecentOrders(ctx context.Context, count int) ([]domain.OrderSummary, error)

	// GetOrderDetail resolves one order. A nil detail with nil error means
	// the order is unavailable.
	GetOrderDetail(ctx context.Context, orderID string) (*domain.OrderDetail, error)
}

// Outcome classifies a finished analysis.
type Outcome string

const (
	// OutcomeOK means at least one product was found.
	OutcomeOK Outcome = "ok"
	// OutcomeNoHistory means the history listing was empty.
	OutcomeNoHistory Outcome = "no_history"
	// OutcomeNoProducts means history existed but yielded no usable products.
	OutcomeNoProducts Outcome = "no_products"
)

// Report is the result of one frequency analysis.
type Report struct {
	RunID       string
	GeneratedAt time.Time
	Params      Params
	Outcome     Outcome

	OrdersListed         int
	ProcessedOrders      int
	TotalLineOccurrences int
	DistinctProducts     int
	SkippedOrders        []SkippedOrder

	TopItems   []domain.ProductStat   // sorted by frequency, truncated to Params.TopItems
	Categories []domain.CategoryGroup // nil unless Params.ShowCategories
}

// Analyzer runs the history → aggregate → rank pipeline.
type Analyzer struct {
	loader      HistoryLoader
	logger      *zap.Logger
	metrics     *observability.Metrics
	concurrency int
	now         func() time.Time
}

// AnalyzerOption configures an Analyzer.
type AnalyzerOption func(*Analyzer)

// WithLogger sets the logger used for skipped orders and run summaries.
func WithLogger(l *zap.Logger) AnalyzerOption {
	return func(a *Analyzer) {
		if l != nil {
			a.logger = l
		}
	}
}

// WithMetrics sets the metrics sink.
func WithMetrics(m *observability.Metrics) AnalyzerOption {
	return func(a *Analyzer) {
		a.metrics = m
	}
}

// WithConcurrency sets how many order details are fetched in parallel.
// Values below 1 mean sequential fetching.
func WithConcurrency(n int) AnalyzerOption {
	return func(a *Analyzer) {
		if n < 1 {
			n = 1
		}
		a.concurrency = n
	}
}

// WithClock sets a custom clock function for deterministic output.
func WithClock(now func() time.Time) AnalyzerOption {
	return func(a *Analyzer) {
		a.now = now
	}
}

// NewAnalyzer creates an analyzer over loader.
func NewAnalyzer(loader HistoryLoader, opts ...AnalyzerOption) *Analyzer {
	a := &Analyzer{
		loader:      loader,
		logger:      zap.NewNop(),
		concurrency: 1,
		now:         func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Analyze lists recent orders, fetches their details and ranks products.
// Per-order failures are reported in Report.SkippedOrders; only invalid
// params, a failed history listing or a cancelled context return an error.
func (a *Analyzer) Analyze(ctx context.Context, p Params) (*Report, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	start := time.Now()
	report := &Report{
		RunID:       uuid.NewString(),
		GeneratedAt: a.now(),
		Params:      p,
	}
	log := a.logger.With(zap.String("run_id", report.RunID))

	summaries, err := a.loader.ListRecentOrders(ctx, p.OrdersToAnalyze)
	if err != nil {
		return nil, fmt.Errorf("list recent orders: %w", err)
	}
	a.metrics.RecordOrdersListed(len(summaries))
	report.OrdersListed = len(summaries)

	if len(summaries) == 0 {
		report.Outcome = OutcomeNoHistory
		a.finish(log, report, start)
		return report, nil
	}

	outcomes, err := a.fetchAll(ctx, summaries)
	if err != nil {
		return nil, err
	}

	res := Aggregate(outcomes)
	for _, s := range res.Skipped {
		log.Warn("skipping order",
			zap.String("order_id", s.OrderID),
			zap.String("reason", s.Reason),
			zap.Error(s.Err),
		)
	}

	report.ProcessedOrders = res.ProcessedOrders
	report.TotalLineOccurrences = res.TotalLineOccurrences
	report.DistinctProducts = res.Stats.Len()
	report.SkippedOrders = res.Skipped

	if res.Stats.Len() == 0 {
		report.Outcome = OutcomeNoProducts
		a.finish(log, report, start)
		return report, nil
	}

	all := res.Stats.All()
	report.Outcome = OutcomeOK
	report.TopItems = TopItems(all, p.TopItems)
	if p.ShowCategories {
		report.Categories = GroupByCategory(all, p.TopPerCategory)
	}

	a.finish(log, report, start)
	return report, nil
}

// fetchAll fetches every detail, at most a.concurrency at a time. Outcomes
// are stored by listing position so the fold sees the loader's order, not
// completion order.
func (a *Analyzer) fetchAll(ctx context.Context, summaries []domain.OrderSummary) ([]FetchOutcome, error) {
	outcomes := make([]FetchOutcome, len(summaries))

	var g errgroup.Group
	g.SetLimit(a.concurrency)

	for i, s := range summaries {
		outcomes[i].OrderID = s.ID
		if s.ID == "" {
			outcomes[i].Err = ErrMissingOrderID
			continue
		}
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				outcomes[i].Err = err
				return nil
			}
			detail, err := a.loader.GetOrderDetail(ctx, s.ID)
			outcomes[i].Detail = detail
			outcomes[i].Err = err
			a.metrics.RecordOrderFetch(fetchResult(detail, err))
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return outcomes, nil
}

func (a *Analyzer) finish(log *zap.Logger, r *Report, start time.Time) {
	elapsed := time.Since(start)
	a.metrics.RecordAnalysis(string(r.Outcome), elapsed.Seconds(), r.DistinctProducts)
	log.Info("frequency analysis finished",
		zap.String("outcome", string(r.Outcome)),
		zap.Int("orders_listed", r.OrdersListed),
		zap.Int("processed_orders", r.ProcessedOrders),
		zap.Int("skipped_orders", len(r.SkippedOrders)),
		zap.Int("line_occurrences", r.TotalLineOccurrences),
		zap.Int("distinct_products", r.DistinctProducts),
		zap.Duration("duration", elapsed),
	)
}

func fetchResult(detail *domain.OrderDetail, err error) string {
	switch {
	case err != nil:
		return "failed"
	case detail == nil:
		return "not_found"
	default:
		return "ok"
	}
}

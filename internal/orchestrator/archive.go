package orchestrator

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"grocery-report/internal/frequency"
	"grocery-report/internal/observability"
	"grocery-report/internal/storage"
)

// ArchiveResult contains the results of an archive run.
type ArchiveResult struct {
	Listed          int
	Archived        int
	AlreadyArchived int
	Skipped         []frequency.SkippedOrder
}

// Archiver copies order details from a history loader into an archive.
type Archiver struct {
	src     frequency.HistoryLoader
	dst     storage.OrderArchive
	logger  *zap.Logger
	metrics *observability.Metrics

	// Progress is called once per listed order, after it has been handled.
	Progress func()
}

// NewArchiver creates an Archiver. logger and metrics may be nil.
func NewArchiver(src frequency.HistoryLoader, dst storage.OrderArchive, logger *zap.Logger, metrics *observability.Metrics) *Archiver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Archiver{src: src, dst: dst, logger: logger, metrics: metrics}
}

// Run archives the count most recent orders. Orders already in the archive are
// counted, not rewritten. Unavailable orders are skipped; a failed listing or
// a storage failure aborts the run.
func (a *Archiver) Run(ctx context.Context, count int) (*ArchiveResult, error) {
	summaries, err := a.src.ListRecentOrders(ctx, count)
	if err != nil {
		return nil, fmt.Errorf("list recent orders: %w", err)
	}

	result := &ArchiveResult{Listed: len(summaries)}
	for _, s := range summaries {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		if err := a.archiveOne(ctx, s.ID, result); err != nil {
			return result, err
		}
		if a.Progress != nil {
			a.Progress()
		}
	}

	a.logger.Info("archive run complete",
		zap.Int("listed", result.Listed),
		zap.Int("archived", result.Archived),
		zap.Int("already_archived", result.AlreadyArchived),
		zap.Int("skipped", len(result.Skipped)),
	)
	return result, nil
}

func (a *Archiver) archiveOne(ctx context.Context, orderID string, result *ArchiveResult) error {
	if orderID == "" {
		result.Skipped = append(result.Skipped, frequency.SkippedOrder{Reason: frequency.SkipMissingID, Err: frequency.ErrMissingOrderID})
		return nil
	}

	if _, err := a.dst.GetByID(ctx, orderID); err == nil {
		result.AlreadyArchived++
		return nil
	} else if !errors.Is(err, storage.ErrNotFound) {
		return fmt.Errorf("check archived order %s: %w", orderID, err)
	}

	detail, err := a.src.GetOrderDetail(ctx, orderID)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		a.logger.Warn("skipping order", zap.String("order_id", orderID), zap.Error(err))
		result.Skipped = append(result.Skipped, frequency.SkippedOrder{OrderID: orderID, Reason: frequency.SkipFetchFailed, Err: err})
		return nil
	}
	if detail == nil {
		result.Skipped = append(result.Skipped, frequency.SkippedOrder{OrderID: orderID, Reason: frequency.SkipNotFound})
		return nil
	}

	if err := a.dst.Insert(ctx, detail); err != nil {
		if errors.Is(err, storage.ErrDuplicateKey) {
			result.AlreadyArchived++
			return nil
		}
		return fmt.Errorf("archive order %s: %w", orderID, err)
	}
	a.metrics.RecordArchived()
	result.Archived++
	return nil
}

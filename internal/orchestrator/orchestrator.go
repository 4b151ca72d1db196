// Package orchestrator assembles the history source, cache, analyzer and tool
// registry from configuration, and runs the order archive job.
package orchestrator

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"grocery-report/internal/config"
	"grocery-report/internal/fixtures"
	"grocery-report/internal/frequency"
	"grocery-report/internal/grocery"
	"grocery-report/internal/locale"
	"grocery-report/internal/observability"
	"grocery-report/internal/storage"
	"grocery-report/internal/storage/memory"
	"grocery-report/internal/storage/migrations"
	"grocery-report/internal/storage/postgres"
	"grocery-report/internal/storage/rediscache"
	"grocery-report/internal/tools"
)

// History sources.
const (
	SourceAPI      = "api"
	SourcePostgres = "postgres"
)

// ErrArchiveUnavailable is returned when an archive is required but no
// PostgreSQL DSN is configured.
var ErrArchiveUnavailable = errors.New("order archive unavailable: POSTGRES_DSN is not set")

// Options for creating a Runtime.
type Options struct {
	Config *config.Config

	// Source selects where order history is read from: SourceAPI (default) or
	// SourcePostgres. Ignored in fixtures mode.
	Source string

	// UseRedis wraps the API history loader in the Redis order cache.
	UseRedis bool

	// OpenArchive opens the PostgreSQL archive even when reading from the API.
	OpenArchive bool

	Logger  *zap.Logger
	Metrics *observability.Metrics
}

// Runtime holds the assembled components. Close releases their connections.
type Runtime struct {
	Client   *grocery.Client // nil in fixtures mode
	Loader   frequency.HistoryLoader
	Account  tools.AccountService
	Analyzer *frequency.Analyzer
	Registry *tools.Registry
	Archive  storage.OrderArchive // nil unless opened
	Currency string

	closers []func()
}

// New builds a Runtime. On error every connection opened so far is closed.
func New(ctx context.Context, opts Options) (_ *Runtime, err error) {
	if opts.Config == nil {
		return nil, errors.New("orchestrator: config is required")
	}
	cfg := opts.Config
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	source := opts.Source
	if source == "" {
		source = SourceAPI
	}
	if source != SourceAPI && source != SourcePostgres {
		return nil, fmt.Errorf("unknown history source %q (want %s or %s)", source, SourceAPI, SourcePostgres)
	}

	rt := &Runtime{Currency: cfg.Currency()}
	defer func() {
		if err != nil {
			rt.Close()
		}
	}()

	if cfg.UseFixtures {
		archive := memory.NewOrderArchive()
		if err := fixtures.LoadOrders(ctx, archive); err != nil {
			return nil, fmt.Errorf("load fixtures: %w", err)
		}
		rt.Archive = archive
		rt.Loader = storage.NewArchiveLoader(archive)
		rt.Account = fixtures.NewAccount()
		logger.Info("using demo fixtures")
	} else {
		rt.Client = grocery.NewClient(cfg.Grocery.BaseURL,
			grocery.WithTimeout(cfg.Grocery.Timeout),
			grocery.WithMaxRetries(cfg.Grocery.MaxRetries),
			grocery.WithCredentials(cfg.Grocery.Username, cfg.Grocery.Password),
			grocery.WithAcceptLanguage(locale.AcceptLanguage(cfg.Grocery.BaseURL)),
			grocery.WithLogger(logger),
			grocery.WithMetrics(opts.Metrics),
		)
		rt.Account = rt.Client
		rt.Loader = rt.Client

		if source == SourcePostgres || opts.OpenArchive {
			archive, err := rt.openArchive(ctx, cfg, logger)
			if err != nil {
				return nil, err
			}
			rt.Archive = archive
		}
		if source == SourcePostgres {
			rt.Loader = storage.NewArchiveLoader(rt.Archive)
		} else if opts.UseRedis {
			cache, err := rt.openCache(ctx, cfg, logger, opts.Metrics)
			if err != nil {
				return nil, err
			}
			rt.Loader = cache
		}
	}

	rt.Analyzer = frequency.NewAnalyzer(rt.Loader,
		frequency.WithLogger(logger),
		frequency.WithMetrics(opts.Metrics),
		frequency.WithConcurrency(cfg.Grocery.FetchConcurrency),
	)

	rt.Registry, err = tools.NewDefaultRegistry(tools.Deps{
		Analyzer: rt.Analyzer,
		Account:  rt.Account,
		Currency: rt.Currency,
	}, tools.WithLogger(logger), tools.WithMetrics(opts.Metrics))
	if err != nil {
		return nil, fmt.Errorf("register tools: %w", err)
	}

	return rt, nil
}

func (rt *Runtime) openArchive(ctx context.Context, cfg *config.Config, logger *zap.Logger) (storage.OrderArchive, error) {
	if cfg.Postgres.DSN == "" {
		return nil, ErrArchiveUnavailable
	}
	pool, err := postgres.NewPool(ctx, cfg.Postgres.DSN, postgres.WithMaxConns(int32(cfg.Postgres.MaxConns)))
	if err != nil {
		return nil, err
	}
	rt.closers = append(rt.closers, pool.Close)

	applied, err := migrations.RunPostgresMigrations(ctx, pool)
	if err != nil {
		return nil, err
	}
	logger.Info("postgres archive ready", zap.Strings("migrations", applied))
	return postgres.NewOrderArchive(pool), nil
}

func (rt *Runtime) openCache(ctx context.Context, cfg *config.Config, logger *zap.Logger, m *observability.Metrics) (*rediscache.OrderCache, error) {
	if !cfg.Redis.Enabled() {
		return nil, errors.New("order cache requested but REDIS_ADDR is not set")
	}
	rdb, err := rediscache.Connect(ctx, rediscache.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	}, logger)
	if err != nil {
		return nil, err
	}
	rt.closers = append(rt.closers, func() { _ = rdb.Close() })

	return rediscache.NewOrderCache(rt.Loader, rdb,
		rediscache.WithTTL(cfg.Redis.TTL),
		rediscache.WithLogger(logger),
		rediscache.WithMetrics(m),
	), nil
}

// Close releases connections in reverse opening order.
func (rt *Runtime) Close() {
	for i := len(rt.closers) - 1; i >= 0; i-- {
		rt.closers[i]()
	}
	rt.closers = nil
}

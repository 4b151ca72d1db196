// Command report runs one grocery report tool and prints its text result, or
// archives recent order history into PostgreSQL.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/schollz/progressbar/v3"
	"go.uber.org/zap"

	"grocery-report/internal/config"
	"grocery-report/internal/logging"
	"grocery-report/internal/orchestrator"
	"grocery-report/internal/tools"
)

// Exit codes.
const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

// toolCommands maps argument-less subcommands to tool names.
var toolCommands = map[string]string{
	"account":        tools.AccountDataTool,
	"delivery-slots": tools.DeliverySlotsTool,
	"delivery-info":  tools.DeliveryInfoTool,
	"premium":        tools.PremiumInfoTool,
	"bags":           tools.ReusableBagsTool,
}

const usage = `Usage: report [global flags] <command> [flags]

Commands:
  frequent-items   rank the most frequently purchased products
  account          account overview
  delivery-slots   available delivery slots
  delivery-info    delivery conditions
  premium          premium membership
  bags             reusable bags
  tools            list the available tools
  archive          copy recent order details into PostgreSQL

Global flags:
`

func main() {
	if err := config.LoadEnvFile(".env"); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(exitError)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitError
	}

	fs := flag.NewFlagSet("report", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprint(stderr, usage)
		fs.PrintDefaults()
	}
	useFixtures := fs.Bool("use-fixtures", cfg.UseFixtures, "Use embedded demo data instead of the grocery service")
	source := fs.String("source", orchestrator.SourceAPI, "Order history source: api or postgres")
	useRedis := fs.Bool("redis", cfg.Redis.Enabled(), "Cache order details in Redis (requires REDIS_ADDR)")
	logLevel := fs.String("log-level", cfg.Log.Level, "Log level: debug, info, warn, error")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		return exitUsage
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return exitUsage
	}

	cfg.UseFixtures = *useFixtures
	cfg.Log.Level = *logLevel
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitError
	}

	logger, err := logging.NewLogger(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitError
	}
	defer func() { _ = logger.Sync() }()

	command, rest := fs.Arg(0), fs.Args()[1:]
	opts := orchestrator.Options{
		Config:      cfg,
		Source:      *source,
		UseRedis:    *useRedis,
		OpenArchive: command == "archive",
		Logger:      logger,
	}

	switch command {
	case "frequent-items":
		return runFrequentItems(ctx, opts, rest, stdout, stderr)
	case "tools":
		return withRuntime(ctx, opts, stderr, func(rt *orchestrator.Runtime) int {
			for _, t := range rt.Registry.List() {
				fmt.Fprintf(stdout, "%-24s %s\n", t.Name, t.Description)
			}
			return exitOK
		})
	case "archive":
		return runArchive(ctx, opts, rest, stdout, stderr)
	}

	name, ok := toolCommands[command]
	if !ok {
		fmt.Fprintf(stderr, "Error: unknown command %q\n\n", command)
		fs.Usage()
		return exitUsage
	}
	return invokeTool(ctx, opts, name, nil, stdout, stderr)
}

func runFrequentItems(ctx context.Context, opts orchestrator.Options, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("frequent-items", flag.ContinueOnError)
	fs.SetOutput(stderr)
	orders := fs.Int("orders", 5, "Number of recent orders to analyze (1-20)")
	top := fs.Int("top", 10, "Number of top items overall (3-30)")
	perCategory := fs.Int("per-category", 10, "Number of top items per category (1-20)")
	categories := fs.Bool("categories", true, "Show the per-category breakdown")
	format := fs.String("format", tools.FormatText, "Output format: text, markdown or csv")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		return exitUsage
	}

	raw, err := json.Marshal(map[string]any{
		"orders_to_analyze": *orders,
		"top_items":         *top,
		"top_per_category":  *perCategory,
		"show_categories":   *categories,
		"format":            *format,
	})
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitError
	}
	return invokeTool(ctx, opts, tools.FrequentItemsTool, raw, stdout, stderr)
}

func invokeTool(ctx context.Context, opts orchestrator.Options, name string, args json.RawMessage, stdout, stderr io.Writer) int {
	return withRuntime(ctx, opts, stderr, func(rt *orchestrator.Runtime) int {
		res, err := rt.Registry.Invoke(ctx, name, args)
		if err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return exitError
		}
		if res.IsError {
			fmt.Fprintf(stderr, "Error: %s\n", res.Text)
			return exitError
		}
		fmt.Fprintln(stdout, res.Text)
		return exitOK
	})
}

func runArchive(ctx context.Context, opts orchestrator.Options, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("archive", flag.ContinueOnError)
	fs.SetOutput(stderr)
	orders := fs.Int("orders", 20, "Number of recent orders to archive")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		return exitUsage
	}
	if *orders < 1 {
		fmt.Fprintf(stderr, "Error: --orders must be at least 1, got %d\n", *orders)
		return exitUsage
	}

	// Archive from the live source, never from the archive itself.
	opts.Source = orchestrator.SourceAPI

	return withRuntime(ctx, opts, stderr, func(rt *orchestrator.Runtime) int {
		bar := progressbar.NewOptions(*orders,
			progressbar.OptionSetWriter(stderr),
			progressbar.OptionSetDescription("archiving orders"),
			progressbar.OptionShowCount(),
		)
		archiver := orchestrator.NewArchiver(rt.Loader, rt.Archive, opts.Logger, nil)
		archiver.Progress = func() { _ = bar.Add(1) }

		result, err := archiver.Run(ctx, *orders)
		_ = bar.Finish()
		fmt.Fprintln(stderr)
		if err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return exitError
		}

		fmt.Fprintf(stdout, "Archived %d of %d listed orders (%d already archived, %d skipped)\n",
			result.Archived, result.Listed, result.AlreadyArchived, len(result.Skipped))
		for _, s := range result.Skipped {
			opts.Logger.Warn("order not archived", zap.String("order_id", s.OrderID), zap.String("reason", s.Reason))
		}
		return exitOK
	})
}

func withRuntime(ctx context.Context, opts orchestrator.Options, stderr io.Writer, fn func(*orchestrator.Runtime) int) int {
	rt, err := orchestrator.New(ctx, opts)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitError
	}
	defer rt.Close()
	return fn(rt)
}

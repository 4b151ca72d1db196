package tools

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math"

	"grocery-report/internal/domain"
	"grocery-report/internal/frequency"
	"grocery-report/internal/reporting"
)

// Tool names.
const (
	FrequentItemsTool = "get_frequent_items"
	AccountDataTool   = "get_account_data"
	DeliverySlotsTool = "get_delivery_slots"
	DeliveryInfoTool  = "get_delivery_info"
	PremiumInfoTool   = "get_premium_info"
	ReusableBagsTool  = "get_reusable_bags_info"
)

// Output formats of the frequent items tool.
const (
	FormatText     = "text"
	FormatMarkdown = "markdown"
	FormatCSV      = "csv"
)

// FrequencyAnalyzer runs a purchase frequency analysis.
type FrequencyAnalyzer interface {
	Analyze(ctx context.Context, p frequency.Params) (*frequency.Report, error)
}

// AccountService provides the account, delivery, premium and bag data.
type AccountService interface {
	GetAccountData(ctx context.Context) (*domain.AccountData, error)
	GetDeliverySlots(ctx context.Context) (*domain.DeliverySlots, error)
	GetDeliveryInfo(ctx context.Context) (*domain.DeliveryInfo, error)
	GetPremiumInfo(ctx context.Context) (*domain.PremiumInfo, error)
	GetReusableBagsInfo(ctx context.Context) (*domain.ReusableBags, error)
}

// Deps are the collaborators of the default tool set.
type Deps struct {
	Analyzer FrequencyAnalyzer
	Account  AccountService
	Currency string
}

// NewDefaultRegistry creates a registry holding every tool whose dependency is set.
func NewDefaultRegistry(d Deps, opts ...RegistryOption) (*Registry, error) {
	r := NewRegistry(opts...)
	if err := RegisterDefaults(r, d); err != nil {
		return nil, err
	}
	return r, nil
}

// RegisterDefaults registers the frequent items tool when an analyzer is given
// and the account tools when an account service is given.
func RegisterDefaults(r *Registry, d Deps) error {
	var all []Tool
	if d.Analyzer != nil {
		all = append(all, frequentItems(d.Analyzer, d.Currency))
	}
	if d.Account != nil {
		all = append(all, accountTools(d.Account, d.Currency)...)
	}
	for _, t := range all {
		if err := r.Register(t); err != nil {
			return err
		}
	}
	return nil
}

func intPtr(v int) *int { return &v }

type frequentItemsArgs struct {
	OrdersToAnalyze *float64 `json:"orders_to_analyze"`
	TopItems        *float64 `json:"top_items"`
	TopPerCategory  *float64 `json:"top_per_category"`
	ShowCategories  *bool    `json:"show_categories"`
	Format          *string  `json:"format"`
}

func frequentItems(analyzer FrequencyAnalyzer, currency string) Tool {
	return Tool{
		Name:        FrequentItemsTool,
		Title:       "Get Frequent Items",
		Description: "Analyze your order history to find the most frequently purchased items",
		Params: []ParamSpec{
			{
				Name: "orders_to_analyze", Type: "integer", Default: frequency.DefaultOrdersToAnalyze,
				Min: intPtr(frequency.MinOrdersToAnalyze), Max: intPtr(frequency.MaxOrdersToAnalyze),
				Description: "Number of recent orders to analyze (1-20, default: 5)",
			},
			{
				Name: "top_items", Type: "integer", Default: frequency.DefaultTopItems,
				Min: intPtr(frequency.MinTopItems), Max: intPtr(frequency.MaxTopItems),
				Description: "Number of top items to return overall (3-30, default: 10)",
			},
			{
				Name: "top_per_category", Type: "integer", Default: frequency.DefaultTopPerCategory,
				Min: intPtr(frequency.MinTopPerCategory), Max: intPtr(frequency.MaxTopPerCategory),
				Description: "Number of top items to show per category (1-20, default: 10)",
			},
			{
				Name: "show_categories", Type: "boolean", Default: true,
				Description: "Whether to show per-category breakdown (default: true)",
			},
			{
				Name: "format", Type: "string", Default: FormatText,
				Enum:        []string{FormatText, FormatMarkdown, FormatCSV},
				Description: "Output format (default: text)",
			},
		},
		Handler: func(ctx context.Context, raw json.RawMessage) Result {
			p, format, err := decodeFrequentItemsArgs(raw)
			if err != nil {
				return ErrorResult(err)
			}
			report, err := analyzer.Analyze(ctx, p)
			if err != nil {
				return ErrorResult(err)
			}
			switch format {
			case FormatMarkdown:
				return TextResult(reporting.RenderMarkdown(report, currency))
			case FormatCSV:
				return TextResult(reporting.RenderCSV(report.TopItems))
			default:
				return TextResult(reporting.RenderFrequentItems(report, currency))
			}
		},
	}
}

// decodeFrequentItemsArgs applies defaults for missing arguments. Range checks
// are left to Params.Validate.
func decodeFrequentItemsArgs(raw json.RawMessage) (frequency.Params, string, error) {
	p := frequency.DefaultParams()
	format := FormatText

	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return p, format, nil
	}

	var args frequentItemsArgs
	if err := json.Unmarshal(raw, &args); err != nil {
		return p, format, fmt.Errorf("invalid arguments: %w", err)
	}

	fields := []struct {
		name string
		src  *float64
		dst  *int
	}{
		{"orders_to_analyze", args.OrdersToAnalyze, &p.OrdersToAnalyze},
		{"top_items", args.TopItems, &p.TopItems},
		{"top_per_category", args.TopPerCategory, &p.TopPerCategory},
	}
	for _, f := range fields {
		if f.src == nil {
			continue
		}
		if *f.src != math.Trunc(*f.src) {
			return p, format, fmt.Errorf("invalid arguments: %s must be an integer, got %s", f.name, domain.FormatNumber(*f.src))
		}
		if math.Abs(*f.src) > math.MaxInt32 {
			return p, format, fmt.Errorf("%w: %s out of range, got %s", frequency.ErrInvalidParams, f.name, domain.FormatNumber(*f.src))
		}
		*f.dst = int(*f.src)
	}
	if args.ShowCategories != nil {
		p.ShowCategories = *args.ShowCategories
	}
	if args.Format != nil {
		switch *args.Format {
		case FormatText, FormatMarkdown, FormatCSV:
			format = *args.Format
		default:
			return p, format, fmt.Errorf("invalid arguments: unsupported format %q", *args.Format)
		}
	}
	return p, format, nil
}

// fetchTool builds an argument-less tool that fetches a payload and renders it.
func fetchTool[T any](name, title, description string, fetch func(context.Context) (*T, error), render func(*T) string) Tool {
	return Tool{
		Name:        name,
		Title:       title,
		Description: description,
		Params:      []ParamSpec{},
		Handler: func(ctx context.Context, _ json.RawMessage) Result {
			v, err := fetch(ctx)
			if err != nil {
				return ErrorResult(err)
			}
			return TextResult(render(v))
		},
	}
}

func accountTools(svc AccountService, currency string) []Tool {
	return []Tool{
		fetchTool(AccountDataTool, "Get Account Data",
			"Get comprehensive account information including delivery details, orders, announcements, cart, and more",
			svc.GetAccountData,
			func(d *domain.AccountData) string { return reporting.RenderAccount(d, currency) }),
		fetchTool(DeliverySlotsTool, "Get Delivery Slots",
			"Get available delivery time slots for your address",
			svc.GetDeliverySlots,
			func(s *domain.DeliverySlots) string { return reporting.RenderDeliverySlots(s, currency) }),
		fetchTool(DeliveryInfoTool, "Get Delivery Info",
			"Get current delivery information and available time slots",
			svc.GetDeliveryInfo,
			func(d *domain.DeliveryInfo) string { return reporting.RenderDeliveryInfo(d, currency) }),
		fetchTool(PremiumInfoTool, "Get Premium Info",
			"Get information about your Premium subscription",
			svc.GetPremiumInfo,
			func(p *domain.PremiumInfo) string { return reporting.RenderPremium(p, currency) }),
		fetchTool(ReusableBagsTool, "Get Reusable Bags Info",
			"Get information about your reusable bags and environmental impact",
			svc.GetReusableBagsInfo,
			reporting.RenderBags),
	}
}

package reporting

import (
	"fmt"
	"strings"
	"time"

	"grocery-report/internal/domain"
	"grocery-report/internal/frequency"
)

// RenderMarkdown renders a frequency report as a Markdown document.
func RenderMarkdown(r *frequency.Report, currency string) string {
	var sb strings.Builder

	// Header
	sb.WriteString("# Frequent Items Report\n\n")
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", r.GeneratedAt.Format(time.RFC3339)))
	sb.WriteString(fmt.Sprintf("Run: %s | Outcome: %s\n\n", r.RunID, r.Outcome))

	// Summary
	sb.WriteString("## Summary\n\n")
	sb.WriteString("| Metric | Value |\n")
	sb.WriteString("|--------|-------|\n")
	sb.WriteString(fmt.Sprintf("| Orders Requested | %d |\n", r.Params.OrdersToAnalyze))
	sb.WriteString(fmt.Sprintf("| Orders Listed | %d |\n", r.OrdersListed))
	sb.WriteString(fmt.Sprintf("| Orders Processed | %d |\n", r.ProcessedOrders))
	sb.WriteString(fmt.Sprintf("| Orders Skipped | %d |\n", len(r.SkippedOrders)))
	sb.WriteString(fmt.Sprintf("| Line Occurrences | %d |\n", r.TotalLineOccurrences))
	sb.WriteString(fmt.Sprintf("| Distinct Products | %d |\n", r.DistinctProducts))
	sb.WriteString("\n")

	// Top items
	sb.WriteString("## Top Items\n\n")
	if len(r.TopItems) > 0 {
		writeItemTable(&sb, r.TopItems, currency, true)
	} else {
		sb.WriteString("No products found.\n")
	}
	sb.WriteString("\n")

	// Categories
	if len(r.Categories) > 0 {
		sb.WriteString("## By Category\n\n")
		for _, group := range r.Categories {
			sb.WriteString(fmt.Sprintf("### %s (%d)\n\n", escapeCell(group.CategoryName), group.TotalFrequency))
			writeItemTable(&sb, group.Products, currency, false)
			sb.WriteString("\n")
		}
	}

	// Skipped orders (always shown if present)
	if len(r.SkippedOrders) > 0 {
		sb.WriteString("## Skipped Orders\n\n")
		sb.WriteString("| Order | Reason | Error |\n")
		sb.WriteString("|-------|--------|-------|\n")
		for _, s := range r.SkippedOrders {
			errText := ""
			if s.Err != nil {
				errText = s.Err.Error()
			}
			sb.WriteString(fmt.Sprintf("| %s | %s | %s |\n", escapeCell(s.OrderID), s.Reason, escapeCell(errText)))
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

func writeItemTable(sb *strings.Builder, items []domain.ProductStat, currency string, showCategory bool) {
	if showCategory {
		sb.WriteString("| # | Product | Brand | Category | Orders | Quantity | Avg Price | Last Order | ID |\n")
		sb.WriteString("|---|---------|-------|----------|--------|----------|-----------|------------|----|\n")
	} else {
		sb.WriteString("| # | Product | Brand | Orders | Quantity | Avg Price | Last Order | ID |\n")
		sb.WriteString("|---|---------|-------|--------|----------|-----------|------------|----|\n")
	}
	for i, p := range items {
		price := unknownPrice
		if p.AveragePrice != 0 {
			price = fmt.Sprintf("%.2f %s", p.AveragePrice, currency)
		}
		category := ""
		if showCategory {
			category = escapeCell(p.Category) + " | "
		}
		sb.WriteString(fmt.Sprintf("| %d | %s | %s | %s%d | %s | %s | %s | %s |\n",
			i+1, escapeCell(p.ProductName), escapeCell(p.Brand), category,
			p.Frequency, formatQuantity(p.TotalQuantity), price, p.LastOrderDate, p.ProductID))
	}
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}

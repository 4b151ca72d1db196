// Package reporting renders analysis results and account data as plain text,
// Markdown and CSV.
package reporting

import (
	"fmt"
	"math"
	"strings"

	"grocery-report/internal/domain"
	"grocery-report/internal/frequency"
)

// Messages for the degenerate analysis outcomes.
const (
	NoHistoryMessage     = "No order history found. You need to have past orders to analyze frequent items."
	noProductsMessageFmt = "Analyzed %d orders but found no products. This might be due to API changes or data format issues."
	reorderFooter        = "Use product IDs with add_to_cart to reorder."
	unknownPrice         = "?"
)

// RenderFrequentItems renders a frequency report as the text summary shown to users.
func RenderFrequentItems(r *frequency.Report, currency string) string {
	switch r.Outcome {
	case frequency.OutcomeNoHistory:
		return NoHistoryMessage
	case frequency.OutcomeNoProducts:
		return fmt.Sprintf(noProductsMessageFmt, r.ProcessedOrders)
	}

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Frequent items (%d orders, %d products):\n\n", r.ProcessedOrders, r.TotalLineOccurrences))
	for i, item := range r.TopItems {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(formatItem(item, i, currency, true))
	}

	if len(r.Categories) > 0 {
		sb.WriteString("\n\nBy category:")
		for _, group := range r.Categories {
			sb.WriteString(fmt.Sprintf("\n\n%s:\n", group.CategoryName))
			for i, item := range group.Products {
				if i > 0 {
					sb.WriteString("\n")
				}
				sb.WriteString(formatItem(item, i, currency, false))
			}
		}
	}

	sb.WriteString("\n\n")
	sb.WriteString(reorderFooter)
	return sb.String()
}

// formatItem renders one numbered ranking line. A zero average price prints as "?".
func formatItem(item domain.ProductStat, i int, currency string, showCategory bool) string {
	price := unknownPrice
	if item.AveragePrice != 0 {
		price = fmt.Sprintf("%s %s", domain.FormatNumber(math.Round(item.AveragePrice)), currency)
	}
	category := ""
	if showCategory && item.Category != "" {
		category = fmt.Sprintf(" [%s]", item.Category)
	}
	return fmt.Sprintf("%d. %s%s — %dx, ~%s, id:%s", i+1, item.ProductName, category, item.Frequency, price, item.ProductID)
}

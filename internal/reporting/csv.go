package reporting

import (
	"encoding/csv"
	"strconv"
	"strings"

	"grocery-report/internal/domain"
)

var csvHeader = []string{
	"rank", "product_id", "product_name", "brand", "category_id", "category",
	"frequency", "total_quantity", "average_price", "last_order_date",
}

// RenderCSV renders product statistics as CSV, one row per product in the given order.
func RenderCSV(items []domain.ProductStat) string {
	var sb strings.Builder
	w := csv.NewWriter(&sb)

	// Header
	_ = w.Write(csvHeader)

	// Rows
	for i, p := range items {
		_ = w.Write([]string{
			strconv.Itoa(i + 1),
			p.ProductID,
			p.ProductName,
			p.Brand,
			strconv.FormatInt(p.CategoryID, 10),
			p.Category,
			strconv.Itoa(p.Frequency),
			formatQuantity(p.TotalQuantity),
			strconv.FormatFloat(p.AveragePrice, 'f', 6, 64),
			p.LastOrderDate,
		})
	}

	w.Flush()
	return sb.String()
}

// formatQuantity renders whole quantities without a fraction and weighed ones as measured.
func formatQuantity(q float64) string {
	return strconv.FormatFloat(q, 'f', -1, 64)
}

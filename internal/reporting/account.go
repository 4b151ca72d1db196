package reporting

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"grocery-report/internal/domain"
)

// RenderAccount renders the account overview, one line per known section.
func RenderAccount(d *domain.AccountData, currency string) string {
	if d == nil {
		return "No account data available"
	}

	var sections []string

	if c := d.Cart; c != nil {
		sections = append(sections, fmt.Sprintf("Cart: %d items, %s %s, can order: %s",
			c.TotalItems, domain.FormatNumber(c.TotalPrice), currency, yesNo(c.CanMakeOrder)))
	}

	if del := d.Delivery; del != nil {
		kind := orDefault(del.DeliveryType, "unknown")
		text := ""
		if del.FirstDeliveryText != nil {
			text = del.FirstDeliveryText.Default
		}
		line := fmt.Sprintf("Delivery: %s (%s)", kind, text)
		if del.DeliveryLocationText != "" {
			line += ", " + del.DeliveryLocationText
		}
		sections = append(sections, line)
	}

	if d.NextDeliverySlot != nil && d.NextDeliverySlot.ExpressSlot != nil {
		s := d.NextDeliverySlot.ExpressSlot
		window := s.TimeWindow
		if window == "" {
			window = s.Since + "–" + s.Till
		}
		price := 0.0
		if s.Price != nil {
			price = *s.Price
		}
		line := fmt.Sprintf("Express: %s, %s %s", window, domain.FormatNumber(price), currency)
		if msg := s.CapacityMessage(); msg != "" {
			line += fmt.Sprintf(" (%s)", msg)
		}
		sections = append(sections, line)
	}

	// An upcoming order is a single object; a list (even empty) means none is scheduled.
	if d.NextOrder.Present && !d.NextOrder.IsArray && len(d.NextOrder.Items) > 0 {
		sections = append(sections, fmt.Sprintf("Upcoming order: #%s", orDefault(d.NextOrder.Items[0].ID.String(), "unknown")))
	} else {
		sections = append(sections, "Upcoming order: none")
	}

	if d.LastOrder.Present && len(d.LastOrder.Items) > 0 {
		o := d.LastOrder.Items[0]
		items := "?"
		if o.ItemsCount != nil && *o.ItemsCount != 0 {
			items = strconv.Itoa(*o.ItemsCount)
		}
		total := "?"
		if amount, ok := o.TotalAmount(); ok {
			total = domain.FormatNumber(amount)
		}
		sections = append(sections, fmt.Sprintf("Last order: #%s, %s items, %s %s, %s",
			orDefault(o.ID.String(), "unknown"), items, total, currency, formatOrderDate(o.OrderTime)))
	}

	if p := d.PremiumProfile; p != nil {
		line := "Premium: active"
		if label := firstLabel(p.Prices); label != "" {
			line += fmt.Sprintf(" (%s)", label)
		}
		sections = append(sections, line)
	}

	if d.Announcements != nil && len(d.Announcements.Announcements) > 0 {
		texts := make([]string, 0, len(d.Announcements.Announcements))
		for _, a := range d.Announcements.Announcements {
			switch {
			case a.Text != "":
				texts = append(texts, a.Text)
			case a.Title != "":
				texts = append(texts, a.Title)
			default:
				texts = append(texts, a.Raw)
			}
		}
		sections = append(sections, "Announcements: "+strings.Join(texts, "; "))
	}

	if b := d.Bags; b != nil {
		sections = append(sections, fmt.Sprintf("Reusable bags: %s/%s", intOrUnknown(b.Current), intOrUnknown(b.Max)))
	}

	return strings.Join(sections, "\n")
}

// formatOrderDate renders an RFC 3339 timestamp as its calendar date.
// Unparseable values are shown as received.
func formatOrderDate(s string) string {
	if s == "" {
		return "unknown"
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return s
	}
	return t.Format(time.DateOnly)
}

func firstLabel(prices []domain.PriceLabel) string {
	for _, p := range prices {
		if p.Label != "" {
			return p.Label
		}
	}
	return ""
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

func intOrUnknown(v *int) string {
	if v == nil {
		return "?"
	}
	return strconv.Itoa(*v)
}

func numberOrUnknown(v *float64) string {
	if v == nil {
		return "?"
	}
	return domain.FormatNumber(*v)
}

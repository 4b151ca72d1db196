package reporting

import (
	"fmt"
	"strings"

	"grocery-report/internal/domain"
)

// RenderPremium renders the premium membership profile.
func RenderPremium(p *domain.PremiumInfo, currency string) string {
	if p == nil {
		return "No premium information available."
	}

	var lines []string

	if p.IsActive != nil {
		status := "inactive"
		if *p.IsActive {
			status = "active"
		}
		lines = append(lines, "Status: "+status)
	}

	if s := p.Subscription; s != nil {
		price := "?"
		if s.Price != nil && *s.Price != 0 {
			price = domain.FormatNumber(*s.Price)
		}
		lines = append(lines, fmt.Sprintf("Subscription: %s, %s – %s, %s %s",
			orDefault(s.Type, "?"), orDefault(s.StartDate, "?"), orDefault(s.EndDate, "?"), price, currency))
	}

	if p.Benefits != nil {
		names := make([]string, 0, len(p.Benefits))
		for _, b := range p.Benefits {
			names = append(names, b.Name)
		}
		lines = append(lines, "Benefits: "+strings.Join(names, ", "))
	}

	if p.TotalSavings != nil {
		lines = append(lines, fmt.Sprintf("Total savings: %s %s", domain.FormatNumber(*p.TotalSavings), currency))
	}
	if p.FreeDeliveryCount != nil {
		lines = append(lines, fmt.Sprintf("Free deliveries used: %d", *p.FreeDeliveryCount))
	}

	// Raw profile shape: card, prices and stats.
	if len(lines) == 0 {
		if c := p.Card; c != nil {
			lines = append(lines, fmt.Sprintf("Card: %s, exp %s", orDefault(c.MaskedCln, "?"), orDefault(c.Expiration, "?")))
		}
		if label := firstLabel(p.Prices); label != "" {
			lines = append(lines, "Next payment: "+label)
		}
		if s := p.Stats; s != nil {
			if s.SavedHours != nil {
				lines = append(lines, "Saved hours: "+domain.FormatNumber(*s.SavedHours))
			}
			if s.SavedOnDelivery != nil {
				lines = append(lines, fmt.Sprintf("Saved on delivery: %s %s", domain.FormatNumber(*s.SavedOnDelivery), currency))
			}
		}
	}

	if len(lines) == 0 {
		return "Premium info returned but no recognizable fields."
	}
	return "Premium:\n" + strings.Join(lines, "\n")
}

// RenderBags renders reusable bag usage.
func RenderBags(b *domain.ReusableBags) string {
	if b == nil {
		return "No reusable bags information available."
	}

	var lines []string

	if b.Current != nil && b.Max != nil {
		lines = append(lines, fmt.Sprintf("Bags: %d/%d", *b.Current, *b.Max))
	}
	if b.TotalBags != nil {
		lines = append(lines, fmt.Sprintf("Total bags: %d", *b.TotalBags))
	}
	if b.AvailableBags != nil {
		lines = append(lines, fmt.Sprintf("Available: %d", *b.AvailableBags))
	}
	if b.PlasticSaved != nil {
		lines = append(lines, fmt.Sprintf("Plastic saved: %sg", domain.FormatNumber(*b.PlasticSaved)))
	}
	if b.CO2Saved != nil {
		lines = append(lines, fmt.Sprintf("CO2 saved: %sg", domain.FormatNumber(*b.CO2Saved)))
	}
	if b.Deposit != nil {
		lines = append(lines, "Deposit: "+numberOrUnknown(b.Deposit))
	}

	if len(lines) == 0 {
		return "Bags: no details available"
	}
	return strings.Join(lines, "\n")
}

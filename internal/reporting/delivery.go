package reporting

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"grocery-report/internal/domain"
)

const (
	maxListedSlots  = 20
	maxShownDays    = 5
	maxSlotsPerDay  = 6
	soldOutCapacity = "RED"
	soldOutMessage  = "Vyprodáno"
)

// deliveryInfoFallbackKeys are shown when the payload has none of the structured fields.
var deliveryInfoFallbackKeys = []string{"deliveryType", "firstDeliveryText", "deliveryLocationText", "earlierDelivery"}

// RenderDeliverySlots renders available delivery slots.
func RenderDeliverySlots(s *domain.DeliverySlots, currency string) string {
	if s == nil {
		return "No delivery slots available."
	}

	var lines []string

	if s.IsList {
		lines = append(lines, "Available slots:")
		for i, slot := range s.List {
			if i == maxListedSlots {
				break
			}
			lines = append(lines, fmt.Sprintf("  %s %s", slot.Date, formatSlot(slot, currency)))
		}
		if len(s.List) > maxListedSlots {
			lines = append(lines, fmt.Sprintf("  ... and %d more", len(s.List)-maxListedSlots))
		}
		return strings.Join(lines, "\n")
	}

	if s.ExpressSlot != nil {
		lines = append(lines, "Express: "+formatSlot(*s.ExpressSlot, currency))
	}

	for _, ps := range s.PreselectedSlots {
		var parts []string
		for _, p := range []string{ps.Title, ps.Subtitle} {
			if p != "" {
				parts = append(parts, p)
			}
		}
		value := "unavailable"
		if ps.Slot != nil {
			value = formatSlot(*ps.Slot, currency)
		}
		lines = append(lines, fmt.Sprintf("%s: %s", strings.Join(parts, " "), value))
	}

	shown := 0
	for _, day := range s.Days {
		if shown >= maxShownDays {
			lines = append(lines, fmt.Sprintf("... and %d more days", len(s.Days)-maxShownDays))
			break
		}
		slots := day.AllSlots()
		if len(slots) == 0 {
			continue
		}

		var available []domain.Slot
		for _, slot := range slots {
			if slot.Capacity != soldOutCapacity && slot.CapacityMessage() != soldOutMessage {
				available = append(available, slot)
			}
		}

		if len(available) == 0 {
			lines = append(lines, day.Label()+": all slots full")
		} else {
			lines = append(lines, fmt.Sprintf("%s (%d/%d available):", day.Label(), len(available), len(slots)))
			for i, slot := range available {
				if i == maxSlotsPerDay {
					break
				}
				lines = append(lines, "  "+formatSlot(slot, currency))
			}
			if len(available) > maxSlotsPerDay {
				lines = append(lines, fmt.Sprintf("  ... +%d more", len(available)-maxSlotsPerDay))
			}
		}
		shown++
	}

	if len(lines) == 0 {
		return "Delivery slots data returned but no recognizable slots found."
	}
	return strings.Join(lines, "\n")
}

// formatSlot renders "window, price[ (capacity)]". A slot without a price is free.
func formatSlot(s domain.Slot, currency string) string {
	window := s.TimeWindow
	if window == "" {
		if s.Since != "" && s.Till != "" {
			window = s.Since + "–" + s.Till
		} else {
			window = "?"
		}
	}
	price := "free"
	if s.Price != nil {
		price = fmt.Sprintf("%s %s", domain.FormatNumber(*s.Price), currency)
	}
	out := window + ", " + price
	if msg := s.CapacityMessage(); msg != "" {
		out += fmt.Sprintf(" (%s)", msg)
	}
	return out
}

// RenderDeliveryInfo renders delivery conditions.
func RenderDeliveryInfo(d *domain.DeliveryInfo, currency string) string {
	if d == nil {
		return "No delivery information available."
	}

	var lines []string

	if next := d.NextAvailableDelivery; next != nil {
		lines = append(lines, strings.TrimRight(fmt.Sprintf("Next delivery: %s %s", orDefault(next.Date, "?"), next.Time), " "))
	}
	if d.DeliveryFee != nil {
		lines = append(lines, fmt.Sprintf("Delivery fee: %s %s", domain.FormatNumber(*d.DeliveryFee), currency))
	}
	if d.MinimumOrder != nil {
		lines = append(lines, fmt.Sprintf("Minimum order: %s %s", domain.FormatNumber(*d.MinimumOrder), currency))
	}
	if d.DeliveryArea != "" {
		lines = append(lines, "Area: "+d.DeliveryArea)
	}

	if len(lines) == 0 {
		for _, key := range deliveryInfoFallbackKeys {
			raw, ok := d.Raw[key]
			if !ok {
				continue
			}
			lines = append(lines, fmt.Sprintf("%s: %s", key, rawValueText(raw)))
		}
	}

	if len(lines) == 0 {
		return "No delivery details found."
	}
	return strings.Join(lines, "\n")
}

// rawValueText renders a JSON value for display: strings unquoted, objects by
// their default translation when they carry one, everything else compacted.
func rawValueText(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return ""
	}
	switch raw[0] {
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			return s
		}
	case '{':
		var text domain.LocalizedText
		if err := json.Unmarshal(raw, &text); err == nil && text.Default != "" {
			return text.Default
		}
	}
	var compact bytes.Buffer
	if err := json.Compact(&compact, raw); err != nil {
		return string(raw)
	}
	return compact.String()
}

package domain

import (
	"bytes"
	"encoding/json"
)

// Subscription describes the premium subscription period.
type Subscription struct {
	Type      string   `json:"type,omitempty"`
	StartDate string   `json:"startDate,omitempty"`
	EndDate   string   `json:"endDate,omitempty"`
	Price     *float64 `json:"price,omitempty"`
}

// Benefit is a premium benefit. The service sends either a bare string or an object with a name.
type Benefit struct {
	Name string `json:"name"`
}

// UnmarshalJSON implements json.Unmarshaler.
func (b *Benefit) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		return json.Unmarshal(data, &b.Name)
	}
	type plain Benefit
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*b = Benefit(p)
	return nil
}

// PremiumCard is the payment card of the subscription.
type PremiumCard struct {
	MaskedCln  string `json:"maskedCln,omitempty"`
	Expiration string `json:"expiration,omitempty"`
}

// PremiumStats are the savings statistics of a premium member.
type PremiumStats struct {
	SavedHours      *float64 `json:"savedHours,omitempty"`
	SavedOnDelivery *float64 `json:"savedOnDelivery,omitempty"`
}

// PremiumInfo covers both the structured and the raw premium profile shapes.
type PremiumInfo struct {
	IsActive          *bool         `json:"isActive,omitempty"`
	Subscription      *Subscription `json:"subscription,omitempty"`
	Benefits          []Benefit     `json:"benefits,omitempty"`
	TotalSavings      *float64      `json:"totalSavings,omitempty"`
	FreeDeliveryCount *int          `json:"freeDeliveryCount,omitempty"`

	Card   *PremiumCard  `json:"card,omitempty"`
	Prices []PriceLabel  `json:"prices,omitempty"`
	Stats  *PremiumStats `json:"stats,omitempty"`
}

// ReusableBags describes reusable bag usage.
type ReusableBags struct {
	Current       *int     `json:"current,omitempty"`
	Max           *int     `json:"max,omitempty"`
	TotalBags     *int     `json:"totalBags,omitempty"`
	AvailableBags *int     `json:"availableBags,omitempty"`
	PlasticSaved  *float64 `json:"plasticSaved,omitempty"`
	CO2Saved      *float64 `json:"co2Saved,omitempty"`
	Deposit       *float64 `json:"deposit,omitempty"`
}

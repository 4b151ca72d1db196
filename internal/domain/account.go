package domain

import (
	"bytes"
	"encoding/json"
)

// LocalizedText is a translatable string; only the default rendering is used.
type LocalizedText struct {
	Default string `json:"default"`
}

// SlotCapacity carries the human capacity message of a delivery slot.
type SlotCapacity struct {
	CapacityMessage string `json:"capacityMessage"`
}

// Slot is a delivery time slot.
type Slot struct {
	Date                string        `json:"date,omitempty"`
	TimeWindow          string        `json:"timeWindow,omitempty"`
	Since               string        `json:"since,omitempty"`
	Till                string        `json:"till,omitempty"`
	Price               *float64      `json:"price,omitempty"`
	Capacity            string        `json:"capacity,omitempty"`
	TimeSlotCapacityDTO *SlotCapacity `json:"timeSlotCapacityDTO,omitempty"`
}

// CapacityMessage returns the capacity message or empty.
func (s Slot) CapacityMessage() string {
	if s.TimeSlotCapacityDTO == nil {
		return ""
	}
	return s.TimeSlotCapacityDTO.CapacityMessage
}

// Cart summarises the current shopping cart.
type Cart struct {
	TotalItems   int     `json:"total_items"`
	TotalPrice   float64 `json:"total_price"`
	CanMakeOrder bool    `json:"can_make_order"`
}

// DeliverySummary is the account's delivery configuration.
type DeliverySummary struct {
	DeliveryType         string         `json:"deliveryType,omitempty"`
	FirstDeliveryText    *LocalizedText `json:"firstDeliveryText,omitempty"`
	DeliveryLocationText string         `json:"deliveryLocationText,omitempty"`
}

// NextDeliverySlot holds the express slot offered for the next delivery.
type NextDeliverySlot struct {
	ExpressSlot *Slot `json:"expressSlot,omitempty"`
}

// Amount is a monetary amount.
type Amount struct {
	Amount *float64 `json:"amount,omitempty"`
}

// PriceComposition breaks down an order price.
type PriceComposition struct {
	Total *Amount `json:"total,omitempty"`
}

// OrderRef is a short reference to an upcoming or past order.
type OrderRef struct {
	ID               FlexString        `json:"id,omitempty"`
	ItemsCount       *int              `json:"itemsCount,omitempty"`
	OrderTime        string            `json:"orderTime,omitempty"`
	PriceComposition *PriceComposition `json:"priceComposition,omitempty"`
}

// TotalAmount returns the order total when present.
func (o OrderRef) TotalAmount() (float64, bool) {
	if o.PriceComposition == nil || o.PriceComposition.Total == nil || o.PriceComposition.Total.Amount == nil {
		return 0, false
	}
	return *o.PriceComposition.Total.Amount, true
}

// PriceLabel is a premium price entry; only labelled entries are shown.
type PriceLabel struct {
	Label string `json:"label,omitempty"`
}

// PremiumProfile is the premium section of the account overview.
type PremiumProfile struct {
	Prices []PriceLabel `json:"prices,omitempty"`
}

// Announcement is a service announcement. Raw keeps the original payload
// so announcements without text or title can still be shown.
type Announcement struct {
	Text  string `json:"text,omitempty"`
	Title string `json:"title,omitempty"`
	Raw   string `json:"-"`
}

// UnmarshalJSON implements json.Unmarshaler.
func (a *Announcement) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		*a = Announcement{Raw: string(data)}
		return nil
	}
	type plain Announcement
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*a = Announcement(p)
	var compact bytes.Buffer
	if err := json.Compact(&compact, data); err == nil {
		a.Raw = compact.String()
	} else {
		a.Raw = string(data)
	}
	return nil
}

// Announcements wraps the announcement list.
type Announcements struct {
	Announcements []Announcement `json:"announcements,omitempty"`
}

// BagsCount is the reusable bag counter shown in the account overview.
type BagsCount struct {
	Current *int `json:"current,omitempty"`
	Max     *int `json:"max,omitempty"`
}

// AccountData is the combined account overview. Every section is optional.
type AccountData struct {
	Cart             *Cart               `json:"cart,omitempty"`
	Delivery         *DeliverySummary    `json:"delivery,omitempty"`
	NextDeliverySlot *NextDeliverySlot   `json:"next_delivery_slot,omitempty"`
	NextOrder        OneOrMany[OrderRef] `json:"next_order"`
	LastOrder        OneOrMany[OrderRef] `json:"last_order"`
	PremiumProfile   *PremiumProfile     `json:"premium_profile,omitempty"`
	Announcements    *Announcements      `json:"announcements,omitempty"`
	Bags             *BagsCount          `json:"bags,omitempty"`
}

package domain

import (
	"bytes"
	"encoding/json"
)

// PreselectedSlot is a quick-pick slot offered above the calendar.
type PreselectedSlot struct {
	Title    string `json:"title,omitempty"`
	Subtitle string `json:"subtitle,omitempty"`
	Slot     *Slot  `json:"slot,omitempty"`
}

// SlotDay is one calendar day of slots. The service uses either date or day,
// and either slots or timeSlots.
type SlotDay struct {
	Date      string `json:"date,omitempty"`
	Day       string `json:"day,omitempty"`
	Slots     []Slot `json:"slots,omitempty"`
	TimeSlots []Slot `json:"timeSlots,omitempty"`
}

// Label returns the day label, or "?" when absent.
func (d SlotDay) Label() string {
	switch {
	case d.Date != "":
		return d.Date
	case d.Day != "":
		return d.Day
	default:
		return "?"
	}
}

// AllSlots returns whichever slot list the service populated.
func (d SlotDay) AllSlots() []Slot {
	if len(d.Slots) > 0 {
		return d.Slots
	}
	return d.TimeSlots
}

// DeliverySlots is either a flat slot list (IsList) or a structured calendar.
type DeliverySlots struct {
	IsList           bool
	List             []Slot
	ExpressSlot      *Slot
	PreselectedSlots []PreselectedSlot
	Days             []SlotDay
}

type deliverySlotsObject struct {
	ExpressSlot      *Slot             `json:"expressSlot,omitempty"`
	PreselectedSlots []PreselectedSlot `json:"preselectedSlots,omitempty"`
	Data             []SlotDay         `json:"data,omitempty"`
}

// UnmarshalJSON implements json.Unmarshaler.
func (d *DeliverySlots) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	*d = DeliverySlots{}
	if len(data) > 0 && data[0] == '[' {
		d.IsList = true
		return json.Unmarshal(data, &d.List)
	}
	var obj deliverySlotsObject
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	d.ExpressSlot = obj.ExpressSlot
	d.PreselectedSlots = obj.PreselectedSlots
	d.Days = obj.Data
	return nil
}

// MarshalJSON implements json.Marshaler.
func (d DeliverySlots) MarshalJSON() ([]byte, error) {
	if d.IsList {
		return json.Marshal(d.List)
	}
	return json.Marshal(deliverySlotsObject{
		ExpressSlot:      d.ExpressSlot,
		PreselectedSlots: d.PreselectedSlots,
		Data:             d.Days,
	})
}

// NextDelivery is the next available delivery window.
type NextDelivery struct {
	Date string `json:"date,omitempty"`
	Time string `json:"time,omitempty"`
}

// DeliveryInfo describes delivery conditions. Raw keeps every top-level key
// of the payload for the fallback rendering.
type DeliveryInfo struct {
	NextAvailableDelivery *NextDelivery `json:"nextAvailableDelivery,omitempty"`
	DeliveryFee           *float64      `json:"deliveryFee,omitempty"`
	MinimumOrder          *float64      `json:"minimumOrder,omitempty"`
	DeliveryArea          string        `json:"deliveryArea,omitempty"`

	Raw map[string]json.RawMessage `json:"-"`
}

// UnmarshalJSON implements json.Unmarshaler.
func (d *DeliveryInfo) UnmarshalJSON(data []byte) error {
	type plain DeliveryInfo
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*d = DeliveryInfo(p)
	return json.Unmarshal(data, &d.Raw)
}

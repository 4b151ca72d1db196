package domain

// UncategorizedName is the category name used when a product carries no usable category tag.
const UncategorizedName = "Uncategorized"

// OrderSummary identifies a past order returned by the order history listing.
type OrderSummary struct {
	ID string `json:"id"` // order id, or order number when the id is absent
}

// CategoryTag is one category a product is filed under.
// Level is the hierarchy depth: 0 = leaf, 1 = mid-level grouping.
type CategoryTag struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Level int    `json:"level"`
}

// LineItem is a single purchased product within an order.
type LineItem struct {
	ProductID   string        `json:"product_id"`
	ProductName string        `json:"product_name"`
	Brand       string        `json:"brand,omitempty"`
	Quantity    *float64      `json:"quantity,omitempty"` // nil when the payload carried no quantity; weighed goods are fractional
	Price       *float64      `json:"price,omitempty"`    // unit price; nil when the payload carried no price
	Categories  []CategoryTag `json:"categories,omitempty"`
}

// Usable reports whether the item can be attributed to a product.
func (li LineItem) Usable() bool {
	return li.ProductID != "" && li.ProductName != ""
}

// EffectiveQuantity returns the purchased quantity, defaulting to 1 when absent or zero.
func (li LineItem) EffectiveQuantity() float64 {
	if li.Quantity == nil || *li.Quantity == 0 {
		return 1
	}
	return *li.Quantity
}

// HasPrice reports whether this occurrence carries a price sample.
// A zero price is treated like a missing one.
func (li LineItem) HasPrice() bool {
	return li.Price != nil && *li.Price != 0
}

// PriceOrZero returns the unit price, or 0 when absent.
func (li LineItem) PriceOrZero() float64 {
	if li.Price == nil {
		return 0
	}
	return *li.Price
}

// MainCategory selects the category used for grouping: the first level-1 tag,
// else the first tag, else Uncategorized with id 0.
func (li LineItem) MainCategory() (int64, string) {
	if len(li.Categories) == 0 {
		return 0, UncategorizedName
	}
	main := li.Categories[0]
	for _, c := range li.Categories {
		if c.Level == 1 {
			main = c
			break
		}
	}
	name := main.Name
	if name == "" {
		name = UncategorizedName
	}
	return main.ID, name
}

// OrderDetail is one fully resolved order.
type OrderDetail struct {
	ID    string     `json:"id"`
	Date  string     `json:"date,omitempty"` // delivery time, else creation time, else empty
	Items []LineItem `json:"items"`
}

// Clone returns a deep copy of the order.
func (o OrderDetail) Clone() OrderDetail {
	out := o
	if o.Items != nil {
		out.Items = make([]LineItem, len(o.Items))
		for i, li := range o.Items {
			out.Items[i] = li.clone()
		}
	}
	return out
}

func (li LineItem) clone() LineItem {
	out := li
	if li.Quantity != nil {
		q := *li.Quantity
		out.Quantity = &q
	}
	if li.Price != nil {
		p := *li.Price
		out.Price = &p
	}
	if li.Categories != nil {
		out.Categories = append([]CategoryTag(nil), li.Categories...)
	}
	return out
}

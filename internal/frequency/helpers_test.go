package frequency

import "grocery-report/internal/domain"

func ptr[T any](v T) *T {
	return &v
}

// item builds a line item; price < 0 means "no price", qty 0 means "no quantity".
func item(id, name string, qty, price float64, cats ...domain.CategoryTag) domain.LineItem {
	li := domain.LineItem{
		ProductID:   id,
		ProductName: name,
		Categories:  cats,
	}
	if qty != 0 {
		li.Quantity = ptr(qty)
	}
	if price >= 0 {
		li.Price = ptr(price)
	}
	return li
}

func order(id, date string, items ...domain.LineItem) domain.OrderDetail {
	return domain.OrderDetail{ID: id, Date: date, Items: items}
}

var (
	dairy  = domain.CategoryTag{ID: 5, Name: "Dairy", Level: 1}
	bakery = domain.CategoryTag{ID: 7, Name: "Bakery", Level: 1}
	fruit  = domain.CategoryTag{ID: 9, Name: "Fruit", Level: 1}
)

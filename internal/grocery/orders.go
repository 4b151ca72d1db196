package grocery

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strconv"

	"grocery-report/internal/domain"
	"grocery-report/internal/frequency"
)

// Compile-time interface check.
var _ frequency.HistoryLoader = (*Client)(nil)

// orderSummaryDTO is one entry of the delivered-orders listing.
type orderSummaryDTO struct {
	ID          domain.FlexString `json:"id"`
	OrderNumber domain.FlexString `json:"orderNumber"`
}

func (d orderSummaryDTO) toDomain() domain.OrderSummary {
	id := d.ID.String()
	if id == "" {
		id = d.OrderNumber.String()
	}
	return domain.OrderSummary{ID: id}
}

// priceDTO accepts a bare number or an object carrying an amount.
type priceDTO struct {
	Value *float64
}

func (p *priceDTO) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	p.Value = nil
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}
	if data[0] == '{' {
		var obj struct {
			Amount *float64 `json:"amount"`
		}
		if err := json.Unmarshal(data, &obj); err != nil {
			return err
		}
		p.Value = obj.Amount
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	p.Value = &v
	return nil
}

type categoryDTO struct {
	ID    domain.FlexString `json:"id"`
	Name  string            `json:"name"`
	Level int               `json:"level"`
}

// lineItemDTO tolerates both field spellings the service uses.
type lineItemDTO struct {
	ProductID   domain.FlexString `json:"productId"`
	ID          domain.FlexString `json:"id"`
	ProductName string            `json:"productName"`
	Name        string            `json:"name"`
	Brand       string            `json:"brand"`
	Quantity    *float64          `json:"quantity"`
	Price       priceDTO          `json:"price"`
	Categories  []categoryDTO     `json:"categories"`
}

func (d lineItemDTO) toDomain() domain.LineItem {
	li := domain.LineItem{
		ProductID:   d.ProductID.String(),
		ProductName: d.ProductName,
		Brand:       d.Brand,
		Price:       d.Price.Value,
	}
	if li.ProductID == "" {
		li.ProductID = d.ID.String()
	}
	if li.ProductName == "" {
		li.ProductName = d.Name
	}
	if d.Quantity != nil {
		// Weighed goods report fractional quantities; keep them as measured.
		q := *d.Quantity
		li.Quantity = &q
	}
	for _, c := range d.Categories {
		id, _ := strconv.ParseInt(c.ID.String(), 10, 64)
		li.Categories = append(li.Categories, domain.CategoryTag{ID: id, Name: c.Name, Level: c.Level})
	}
	return li
}

type orderDetailDTO struct {
	ID          domain.FlexString `json:"id"`
	OrderNumber domain.FlexString `json:"orderNumber"`
	DeliveredAt string            `json:"deliveredAt"`
	CreatedAt   string            `json:"createdAt"`
	Products    []lineItemDTO     `json:"products"`
	Items       []lineItemDTO     `json:"items"`
}

func (d orderDetailDTO) toDomain(fallbackID string) domain.OrderDetail {
	detail := domain.OrderDetail{
		ID:   d.ID.String(),
		Date: d.DeliveredAt,
	}
	if detail.ID == "" {
		detail.ID = d.OrderNumber.String()
	}
	if detail.ID == "" {
		detail.ID = fallbackID
	}
	if detail.Date == "" {
		detail.Date = d.CreatedAt
	}
	items := d.Products
	if items == nil {
		items = d.Items
	}
	detail.Items = make([]domain.LineItem, 0, len(items))
	for _, it := range items {
		detail.Items = append(detail.Items, it.toDomain())
	}
	return detail
}

// ListRecentOrders returns up to count delivered orders, newest first.
func (c *Client) ListRecentOrders(ctx context.Context, count int) ([]domain.OrderSummary, error) {
	q := url.Values{}
	q.Set("offset", "0")
	q.Set("limit", strconv.Itoa(count))

	list, err := getJSON[domain.OneOrMany[orderSummaryDTO]](ctx, c, "orders_delivered", "/api/v3/orders/delivered?"+q.Encode())
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get order history: %w", err)
	}
	if list == nil {
		return nil, nil
	}

	out := make([]domain.OrderSummary, 0, len(list.Items))
	for _, s := range list.Items {
		out = append(out, s.toDomain())
	}
	return out, nil
}

// GetOrderDetail resolves one order. Unknown orders yield nil, nil.
func (c *Client) GetOrderDetail(ctx context.Context, orderID string) (*domain.OrderDetail, error) {
	dto, err := getJSON[orderDetailDTO](ctx, c, "order_detail", "/api/v3/orders/"+url.PathEscape(orderID))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get order %s: %w", orderID, err)
	}
	if dto == nil {
		return nil, nil
	}
	detail := dto.toDomain(orderID)
	return &detail, nil
}

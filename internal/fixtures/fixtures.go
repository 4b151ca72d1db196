// Package fixtures provides demo order history and account payloads for
// running the tools without a service account.
package fixtures

import (
	"context"
	"embed"
	"encoding/json"
	"fmt"

	"grocery-report/internal/domain"
	"grocery-report/internal/storage"
)

//go:embed data/*.json
var dataFS embed.FS

func decode[T any](name string) (*T, error) {
	data, err := dataFS.ReadFile("data/" + name)
	if err != nil {
		return nil, fmt.Errorf("read fixture %s: %w", name, err)
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("decode fixture %s: %w", name, err)
	}
	return &v, nil
}

// Orders returns the demo order history, newest first.
func Orders() ([]domain.OrderDetail, error) {
	orders, err := decode[[]domain.OrderDetail]("orders.json")
	if err != nil {
		return nil, err
	}
	return *orders, nil
}

// LoadOrders inserts the demo order history into archive.
func LoadOrders(ctx context.Context, archive storage.OrderArchive) error {
	orders, err := Orders()
	if err != nil {
		return err
	}
	for i := range orders {
		if err := archive.Insert(ctx, &orders[i]); err != nil {
			return fmt.Errorf("insert fixture order %s: %w", orders[i].ID, err)
		}
	}
	return nil
}

// Account serves the demo account, delivery, premium and bag payloads.
type Account struct{}

// NewAccount creates the demo account service.
func NewAccount() *Account {
	return &Account{}
}

// GetAccountData returns the demo account overview.
func (Account) GetAccountData(context.Context) (*domain.AccountData, error) {
	return decode[domain.AccountData]("account.json")
}

// GetDeliverySlots returns the demo delivery calendar.
func (Account) GetDeliverySlots(context.Context) (*domain.DeliverySlots, error) {
	return decode[domain.DeliverySlots]("delivery_slots.json")
}

// GetDeliveryInfo returns the demo delivery conditions.
func (Account) GetDeliveryInfo(context.Context) (*domain.DeliveryInfo, error) {
	return decode[domain.DeliveryInfo]("delivery_info.json")
}

// GetPremiumInfo returns the demo premium profile.
func (Account) GetPremiumInfo(context.Context) (*domain.PremiumInfo, error) {
	return decode[domain.PremiumInfo]("premium.json")
}

// GetReusableBagsInfo returns the demo bag usage.
func (Account) GetReusableBagsInfo(context.Context) (*domain.ReusableBags, error) {
	return decode[domain.ReusableBags]("bags.json")
}

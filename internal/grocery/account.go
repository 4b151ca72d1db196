package grocery

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"grocery-report/internal/domain"
)

// Service endpoints used by the account and delivery tools.
const (
	cartPath          = "/services/frontend-service/v2/cart"
	firstDeliveryPath = "/services/frontend-service/first-delivery?reasonableDeliveryTime=true"
	nextSlotPath      = "/services/frontend-service/timeslots-api/"
	slotsPath         = "/services/frontend-service/timeslots-api/0"
	upcomingPath      = "/api/v3/orders/upcoming"
	lastOrderPath     = "/api/v3/orders/delivered?offset=0&limit=1"
	premiumPath       = "/services/frontend-service/premium/profile"
	announcementsPath = "/services/frontend-service/announcements/top"
	bagsPath          = "/api/v1/reusable-bags/user-info"
)

// ErrNoAccountData is returned when every account section failed.
var ErrNoAccountData = errors.New("no account section could be fetched")

// fetchSection loads one optional section into dst.
func fetchSection[T any](ctx context.Context, c *Client, endpoint, path string, dst **T) error {
	v, err := getJSON[T](ctx, c, endpoint, path)
	if err != nil {
		return err
	}
	*dst = v
	return nil
}

// GetAccountData fetches the account overview. Sections are fetched concurrently;
// a failed section is logged and left empty.
func (c *Client) GetAccountData(ctx context.Context) (*domain.AccountData, error) {
	var (
		data      domain.AccountData
		nextOrder *domain.OneOrMany[domain.OrderRef]
		lastOrder *domain.OneOrMany[domain.OrderRef]
		mu        sync.Mutex
		failed    int
		firstErr  error
	)

	sections := []struct {
		name  string
		fetch func(context.Context) error
	}{
		{"cart", func(ctx context.Context) error { return fetchSection(ctx, c, "cart", cartPath, &data.Cart) }},
		{"delivery", func(ctx context.Context) error {
			return fetchSection(ctx, c, "first_delivery", firstDeliveryPath, &data.Delivery)
		}},
		{"next_delivery_slot", func(ctx context.Context) error {
			return fetchSection(ctx, c, "next_delivery_slot", nextSlotPath, &data.NextDeliverySlot)
		}},
		{"next_order", func(ctx context.Context) error {
			return fetchSection(ctx, c, "orders_upcoming", upcomingPath, &nextOrder)
		}},
		{"last_order", func(ctx context.Context) error {
			return fetchSection(ctx, c, "orders_delivered", lastOrderPath, &lastOrder)
		}},
		{"premium_profile", func(ctx context.Context) error {
			return fetchSection(ctx, c, "premium_profile", premiumPath, &data.PremiumProfile)
		}},
		{"announcements", func(ctx context.Context) error {
			return fetchSection(ctx, c, "announcements", announcementsPath, &data.Announcements)
		}},
		{"bags", func(ctx context.Context) error { return fetchSection(ctx, c, "reusable_bags", bagsPath, &data.Bags) }},
	}

	// Each section writes a distinct field, so only the failure tally needs the lock.
	var g errgroup.Group
	for _, s := range sections {
		g.Go(func() error {
			if err := s.fetch(ctx); err != nil {
				c.logger.Warn("account section unavailable",
					zap.String("section", s.name),
					zap.Error(err),
				)
				mu.Lock()
				failed++
				if firstErr == nil {
					firstErr = err
				}
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if failed == len(sections) {
		return nil, fmt.Errorf("%w: %w", ErrNoAccountData, firstErr)
	}

	if nextOrder != nil {
		data.NextOrder = *nextOrder
	}
	if lastOrder != nil {
		data.LastOrder = *lastOrder
	}
	return &data, nil
}

// GetDeliverySlots returns the delivery slot calendar, or nil when the service has none.
func (c *Client) GetDeliverySlots(ctx context.Context) (*domain.DeliverySlots, error) {
	slots, err := getJSON[domain.DeliverySlots](ctx, c, "delivery_slots", slotsPath)
	if err != nil {
		return nil, fmt.Errorf("get delivery slots: %w", err)
	}
	return slots, nil
}

// GetDeliveryInfo returns delivery conditions for the account address.
func (c *Client) GetDeliveryInfo(ctx context.Context) (*domain.DeliveryInfo, error) {
	info, err := getJSON[domain.DeliveryInfo](ctx, c, "first_delivery", firstDeliveryPath)
	if err != nil {
		return nil, fmt.Errorf("get delivery info: %w", err)
	}
	return info, nil
}

// GetPremiumInfo returns the premium membership profile.
func (c *Client) GetPremiumInfo(ctx context.Context) (*domain.PremiumInfo, error) {
	info, err := getJSON[domain.PremiumInfo](ctx, c, "premium_profile", premiumPath)
	if err != nil {
		return nil, fmt.Errorf("get premium info: %w", err)
	}
	return info, nil
}

// GetReusableBagsInfo returns reusable bag usage.
func (c *Client) GetReusableBagsInfo(ctx context.Context) (*domain.ReusableBags, error) {
	bags, err := getJSON[domain.ReusableBags](ctx, c, "reusable_bags", bagsPath)
	if err != nil {
		return nil, fmt.Errorf("get reusable bags info: %w", err)
	}
	return bags, nil
}

package party

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"

	"github.com/fastbite/party-service/internal/models"
	"github.com/fastbite/party-service/internal/notify"
	"github.com/fastbite/party-service/internal/store"
	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"
)

// Catalog resolves product ids into dishes for the aggregated cart view.
type Catalog interface {
	DishesByIDs(ctx context.Context, ids []int64) ([]models.Dish, error)
}

// CartView is what getParty/getCart return: the raw occurrence list the
// clients map over, plus the catalog-resolved aggregate with duplicates
// collapsed into quantities.
type CartView struct {
	PartyID    uuid.UUID          `json:"partyId"`
	OrderItems []int64            `json:"orderItems"`
	Items      []models.OrderItem `json:"items"`
}

// CartService mutates the shared cart record. Every successful mutation
// is followed by a group broadcast so other members refresh their view.
type CartService struct {
	store    store.Store
	catalog  Catalog
	notifier notify.Notifier
	locks    *Locks
	sfg      singleflight.Group // coalesces concurrent fetches per party
}

func NewCartService(st store.Store, catalog Catalog, notifier notify.Notifier, locks *Locks) *CartService {
	return &CartService{store: st, catalog: catalog, notifier: notifier, locks: locks}
}

// AddItem appends one occurrence of productID to the party's cart,
// creating the cart record lazily on first use.
func (s *CartService) AddItem(ctx context.Context, partyID uuid.UUID, productID int64) error {
	unlock := s.locks.Lock(partyID.String())
	defer unlock()

	cart, err := s.loadCart(ctx, partyID)
	if err != nil {
		return err
	}

	cart.Items = append(cart.Items, productID)
	if err := s.store.PutCart(ctx, cart); err != nil {
		return fmt.Errorf("add item: %w", err)
	}

	s.notifyCartUpdated(ctx, partyID)
	return nil
}

// RemoveItem removes exactly one occurrence of productID. Removing an
// item that is not in the cart is a no-op, not an error.
func (s *CartService) RemoveItem(ctx context.Context, partyID uuid.UUID, productID int64) error {
	unlock := s.locks.Lock(partyID.String())
	defer unlock()

	cart, err := s.loadCart(ctx, partyID)
	if err != nil {
		return err
	}

	for i, id := range cart.Items {
		if id == productID {
			cart.Items = append(cart.Items[:i], cart.Items[i+1:]...)
			break
		}
	}

	if err := s.store.PutCart(ctx, cart); err != nil {
		return fmt.Errorf("remove item: %w", err)
	}

	s.notifyCartUpdated(ctx, partyID)
	return nil
}

// Clear deletes the cart record outright.
func (s *CartService) Clear(ctx context.Context, partyID uuid.UUID) error {
	unlock := s.locks.Lock(partyID.String())
	defer unlock()

	exists, err := s.store.PartyExists(ctx, partyID)
	if err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}
	if !exists {
		return ErrPartyNotFound
	}

	if err := s.store.DeleteCart(ctx, partyID); err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}

	s.notifyCartUpdated(ctx, partyID)
	return nil
}

// GetCart returns the current cart contents. A party that never added
// anything gets an empty cart, not an error. Product ids missing from
// the catalog stay in the raw list but are skipped in the aggregate.
func (s *CartService) GetCart(ctx context.Context, partyID uuid.UUID) (*CartView, error) {
	v, err, _ := s.sfg.Do(partyID.String(), func() (interface{}, error) {
		exists, err := s.store.PartyExists(ctx, partyID)
		if err != nil {
			return nil, fmt.Errorf("get cart: %w", err)
		}
		if !exists {
			return nil, ErrPartyNotFound
		}

		cart, err := s.store.GetCart(ctx, partyID)
		if errors.Is(err, store.ErrNotFound) {
			cart = &models.PartyCart{PartyID: partyID}
		} else if err != nil {
			return nil, fmt.Errorf("get cart: %w", err)
		}

		items, err := s.aggregate(ctx, cart.Items)
		if err != nil {
			return nil, fmt.Errorf("get cart: %w", err)
		}

		return &CartView{
			PartyID:    partyID,
			OrderItems: cart.Items,
			Items:      items,
		}, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*CartView), nil
}

// aggregate collapses repeated product ids into quantities and
// cross-references the dish catalog for display data.
func (s *CartService) aggregate(ctx context.Context, productIDs []int64) ([]models.OrderItem, error) {
	if len(productIDs) == 0 {
		return []models.OrderItem{}, nil
	}

	counts := make(map[int64]int)
	for _, id := range productIDs {
		counts[id]++
	}

	distinct := make([]int64, 0, len(counts))
	for id := range counts {
		distinct = append(distinct, id)
	}
	sort.Slice(distinct, func(i, j int) bool { return distinct[i] < distinct[j] })

	dishes, err := s.catalog.DishesByIDs(ctx, distinct)
	if err != nil {
		return nil, err
	}

	byID := make(map[int64]models.Dish, len(dishes))
	for _, d := range dishes {
		byID[d.ID] = d
	}

	items := make([]models.OrderItem, 0, len(distinct))
	for _, id := range distinct {
		dish, ok := byID[id]
		if !ok {
			continue
		}
		items = append(items, models.OrderItem{
			ProductID: id,
			Name:      dish.Name,
			Price:     dish.Price,
			Quantity:  counts[id],
		})
	}
	return items, nil
}

// loadCart fetches the cart for a live party, lazily starting an empty
// one when no record exists yet.
func (s *CartService) loadCart(ctx context.Context, partyID uuid.UUID) (*models.PartyCart, error) {
	exists, err := s.store.PartyExists(ctx, partyID)
	if err != nil {
		return nil, fmt.Errorf("load cart: %w", err)
	}
	if !exists {
		return nil, ErrPartyNotFound
	}

	cart, err := s.store.GetCart(ctx, partyID)
	if errors.Is(err, store.ErrNotFound) {
		return &models.PartyCart{PartyID: partyID}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load cart: %w", err)
	}
	return cart, nil
}

func (s *CartService) notifyCartUpdated(ctx context.Context, partyID uuid.UUID) {
	if err := s.notifier.PartyCartUpdated(ctx, partyID); err != nil {
		log.Printf("notify cart updated error: %v", err)
	}
}

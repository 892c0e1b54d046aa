package party

import (
	"context"
	"testing"

	"github.com/fastbite/party-service/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockCatalog struct {
	dishes map[int64]models.Dish
}

func (m *mockCatalog) DishesByIDs(_ context.Context, ids []int64) ([]models.Dish, error) {
	var out []models.Dish
	for _, id := range ids {
		if d, ok := m.dishes[id]; ok {
			out = append(out, d)
		}
	}
	return out, nil
}

func newTestCartService(st *mockStore) (*CartService, *mockNotifier) {
	n := &mockNotifier{}
	cat := &mockCatalog{dishes: map[int64]models.Dish{
		1: {ID: 1, Name: "Margherita", Price: 9.5},
		2: {ID: 2, Name: "Carbonara", Price: 11.0},
	}}
	return NewCartService(st, cat, n, NewLocks()), n
}

func seedParty(t *testing.T, st *mockStore) uuid.UUID {
	t.Helper()
	party := &models.Party{
		PartyID:   uuid.New(),
		PartyCode: "cafe0042",
		TableID:   3,
		MemberIDs: []uuid.UUID{uuid.New()},
	}
	require.NoError(t, st.PutParty(context.Background(), party))
	return party.PartyID
}

func TestAddItem_CreatesCartLazily(t *testing.T) {
	st := newMockStore()
	sut, notifier := newTestCartService(st)
	partyID := seedParty(t, st)

	require.NoError(t, sut.AddItem(context.Background(), partyID, 1))

	cart := st.storedCart(partyID)
	require.NotNil(t, cart)
	assert.Equal(t, []int64{1}, cart.Items)
	assert.Equal(t, 1, notifier.cartCount())
}

func TestAddItem_PartyNotFound(t *testing.T) {
	st := newMockStore()
	sut, notifier := newTestCartService(st)

	err := sut.AddItem(context.Background(), uuid.New(), 1)
	assert.ErrorIs(t, err, ErrPartyNotFound)
	assert.Equal(t, 0, notifier.cartCount())
}

func TestAddRemoveRoundTrip(t *testing.T) {
	st := newMockStore()
	sut, _ := newTestCartService(st)
	partyID := seedParty(t, st)
	ctx := context.Background()

	require.NoError(t, sut.AddItem(ctx, partyID, 2))
	require.NoError(t, sut.RemoveItem(ctx, partyID, 2))

	cart := st.storedCart(partyID)
	require.NotNil(t, cart)
	assert.Empty(t, cart.Items)
}

func TestRemoveItem_RemovesOneOccurrence(t *testing.T) {
	st := newMockStore()
	sut, _ := newTestCartService(st)
	partyID := seedParty(t, st)
	ctx := context.Background()

	require.NoError(t, st.PutCart(ctx, &models.PartyCart{
		PartyID: partyID,
		Items:   []int64{1, 1, 2},
	}))

	require.NoError(t, sut.RemoveItem(ctx, partyID, 1))

	cart := st.storedCart(partyID)
	assert.Equal(t, []int64{1, 2}, cart.Items)
}

func TestRemoveItem_AbsentIsNoOp(t *testing.T) {
	st := newMockStore()
	sut, notifier := newTestCartService(st)
	partyID := seedParty(t, st)
	ctx := context.Background()

	require.NoError(t, st.PutCart(ctx, &models.PartyCart{
		PartyID: partyID,
		Items:   []int64{2},
	}))

	require.NoError(t, sut.RemoveItem(ctx, partyID, 99))

	cart := st.storedCart(partyID)
	assert.Equal(t, []int64{2}, cart.Items)
	// Still broadcast: the mutation sequence completed.
	assert.Equal(t, 1, notifier.cartCount())
}

func TestClear(t *testing.T) {
	st := newMockStore()
	sut, notifier := newTestCartService(st)
	partyID := seedParty(t, st)
	ctx := context.Background()

	require.NoError(t, st.PutCart(ctx, &models.PartyCart{
		PartyID: partyID,
		Items:   []int64{1, 2},
	}))

	require.NoError(t, sut.Clear(ctx, partyID))
	assert.Nil(t, st.storedCart(partyID))
	assert.Equal(t, 1, notifier.cartCount())
}

func TestClear_PartyNotFound(t *testing.T) {
	st := newMockStore()
	sut, _ := newTestCartService(st)

	err := sut.Clear(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrPartyNotFound)
}

func TestGetCart_EmptyWhenNoRecord(t *testing.T) {
	st := newMockStore()
	sut, _ := newTestCartService(st)
	partyID := seedParty(t, st)

	view, err := sut.GetCart(context.Background(), partyID)
	require.NoError(t, err)
	assert.Empty(t, view.OrderItems)
	assert.Empty(t, view.Items)
}

func TestGetCart_PartyNotFound(t *testing.T) {
	st := newMockStore()
	sut, _ := newTestCartService(st)

	_, err := sut.GetCart(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrPartyNotFound)
}

func TestGetCart_AggregatesAgainstCatalog(t *testing.T) {
	st := newMockStore()
	sut, _ := newTestCartService(st)
	partyID := seedParty(t, st)
	ctx := context.Background()

	// Two units of dish 1, one of dish 2, and one id the catalog does
	// not know.
	require.NoError(t, st.PutCart(ctx, &models.PartyCart{
		PartyID: partyID,
		Items:   []int64{1, 2, 1, 99},
	}))

	view, err := sut.GetCart(ctx, partyID)
	require.NoError(t, err)

	assert.Equal(t, []int64{1, 2, 1, 99}, view.OrderItems)
	require.Len(t, view.Items, 2)
	assert.Equal(t, models.OrderItem{ProductID: 1, Name: "Margherita", Price: 9.5, Quantity: 2}, view.Items[0])
	assert.Equal(t, models.OrderItem{ProductID: 2, Name: "Carbonara", Price: 11.0, Quantity: 1}, view.Items[1])
}

func TestAddItem_NoBroadcastOnStoreError(t *testing.T) {
	st := newMockStore()
	sut, notifier := newTestCartService(st)
	partyID := seedParty(t, st)

	st.err = assert.AnError
	err := sut.AddItem(context.Background(), partyID, 1)
	require.Error(t, err)
	assert.Equal(t, 0, notifier.cartCount())
}

package poller

import (
	"context"
	"encoding/json"
	"sync"
	"testing"

	"github.com/fastbite/party-service/internal/party"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockClearer struct {
	m       sync.Mutex
	cleared []uuid.UUID
	err     error
}

func (m *mockClearer) Clear(_ context.Context, partyID uuid.UUID) error {
	m.m.Lock()
	defer m.m.Unlock()
	if m.err != nil {
		return m.err
	}
	m.cleared = append(m.cleared, partyID)
	return nil
}

func (m *mockClearer) clearedIDs() []uuid.UUID {
	m.m.Lock()
	defer m.m.Unlock()
	return append([]uuid.UUID(nil), m.cleared...)
}

func TestHandleMessage_ClearsCart(t *testing.T) {
	clearer := &mockClearer{}
	sut := &Poller{cart: clearer}

	partyID := uuid.New()
	msg, err := json.Marshal(map[string]string{"party_id": partyID.String()})
	require.NoError(t, err)

	sut.handleMessage(context.Background(), msg)

	assert.Equal(t, []uuid.UUID{partyID}, clearer.clearedIDs())
}

func TestHandleMessage_MalformedPayload(t *testing.T) {
	clearer := &mockClearer{}
	sut := &Poller{cart: clearer}

	sut.handleMessage(context.Background(), []byte("{not json"))
	sut.handleMessage(context.Background(), []byte(`{"party_id": "not-a-uuid"}`))
	sut.handleMessage(context.Background(), []byte(`{"other": "field"}`))

	assert.Empty(t, clearer.clearedIDs())
}

func TestHandleMessage_PartyAlreadyGone(t *testing.T) {
	clearer := &mockClearer{err: party.ErrPartyNotFound}
	sut := &Poller{cart: clearer}

	msg, err := json.Marshal(map[string]string{"party_id": uuid.New().String()})
	require.NoError(t, err)

	// A party deleted before its order event arrives is skipped, not
	// retried.
	sut.handleMessage(context.Background(), msg)
	assert.Empty(t, clearer.clearedIDs())
}

package store

import (
	"context"
	"errors"

	"github.com/fastbite/party-service/internal/models"
	"github.com/google/uuid"
)

// ErrNotFound is returned when no record is stored under the requested
// key. Corrupted records are reported the same way.
var ErrNotFound = errors.New("record not found")

// Store is the key-value persistence for party and cart records.
// Consumers define this interface, not the Redis implementation.
type Store interface {
	PartyExists(ctx context.Context, partyID uuid.UUID) (bool, error)
	GetParty(ctx context.Context, partyID uuid.UUID) (*models.Party, error)
	PutParty(ctx context.Context, party *models.Party) error

	// DeletePartyAndCart removes the party record, its cart record and
	// its party-code index entry in a single transaction, so that no
	// cart outlives its party.
	DeletePartyAndCart(ctx context.Context, partyID uuid.UUID, partyCode string) error

	GetCart(ctx context.Context, partyID uuid.UUID) (*models.PartyCart, error)
	PutCart(ctx context.Context, cart *models.PartyCart) error
	DeleteCart(ctx context.Context, partyID uuid.UUID) error

	// ResolvePartyCode maps the short code diners exchange back to the
	// party id. The index entry is written by PutParty and removed by
	// DeletePartyAndCart.
	ResolvePartyCode(ctx context.Context, partyCode string) (uuid.UUID, error)
}

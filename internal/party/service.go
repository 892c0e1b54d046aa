package party

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log"

	"github.com/fastbite/party-service/internal/models"
	"github.com/fastbite/party-service/internal/notify"
	"github.com/fastbite/party-service/internal/store"
	"github.com/google/uuid"
)

// Service owns the party lifecycle: a party record exists exactly while
// it has members. The last member leaving deletes the party together
// with its cart; no cart outlives its party.
type Service struct {
	store    store.Store
	notifier notify.Notifier
	locks    *Locks
}

func NewService(st store.Store, notifier notify.Notifier, locks *Locks) *Service {
	return &Service{store: st, notifier: notifier, locks: locks}
}

func generatePartyCode() string {
	b := make([]byte, 4)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}

// CreateParty mints a fresh party for a table with the owner as its
// only member. Party ids are never reused: every creation gets a new
// UUID.
func (s *Service) CreateParty(ctx context.Context, ownerID uuid.UUID, tableID int) (*models.Party, error) {
	party := &models.Party{
		PartyID:   uuid.New(),
		PartyCode: generatePartyCode(),
		TableID:   tableID,
		MemberIDs: []uuid.UUID{ownerID},
	}

	if err := s.store.PutParty(ctx, party); err != nil {
		return nil, fmt.Errorf("create party: %w", err)
	}
	return party, nil
}

// JoinParty resolves the code diners exchange and adds the user to the
// member set. Joining a party you are already in is a no-op.
func (s *Service) JoinParty(ctx context.Context, partyCode string, userID uuid.UUID) (*models.Party, error) {
	partyID, err := s.store.ResolvePartyCode(ctx, partyCode)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrPartyNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("join party: %w", err)
	}

	unlock := s.locks.Lock(partyID.String())
	defer unlock()

	party, err := s.store.GetParty(ctx, partyID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrPartyNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("join party: %w", err)
	}

	party.AddMember(userID)
	if err := s.store.PutParty(ctx, party); err != nil {
		return nil, fmt.Errorf("join party: %w", err)
	}

	s.notifyPartyUpdated(ctx, partyID)
	return party, nil
}

func (s *Service) GetParty(ctx context.Context, partyID uuid.UUID) (*models.Party, error) {
	party, err := s.store.GetParty(ctx, partyID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrPartyNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get party: %w", err)
	}
	return party, nil
}

// LeaveParty removes userID from the party. Removing a non-member is a
// silent no-op; when the computed member set comes out empty the party
// and its cart are deleted together. The bool reports whether the
// sequence completed: false means the party was not found.
func (s *Service) LeaveParty(ctx context.Context, partyID, userID uuid.UUID) (bool, error) {
	unlock := s.locks.Lock(partyID.String())
	defer unlock()

	exists, err := s.store.PartyExists(ctx, partyID)
	if err != nil {
		return false, fmt.Errorf("leave party: %w", err)
	}
	if !exists {
		log.Printf("party %s does not exist", partyID)
		return false, nil
	}

	party, err := s.store.GetParty(ctx, partyID)
	if errors.Is(err, store.ErrNotFound) {
		// Deleted or corrupted between the exists check and the load.
		log.Printf("party %s not found on load", partyID)
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("leave party: %w", err)
	}

	party.RemoveMember(userID)

	if len(party.MemberIDs) == 0 {
		if err := s.store.DeletePartyAndCart(ctx, partyID, party.PartyCode); err != nil {
			return false, fmt.Errorf("leave party: %w", err)
		}
	} else {
		if err := s.store.PutParty(ctx, party); err != nil {
			return false, fmt.Errorf("leave party: %w", err)
		}
		s.notifyPartyUpdated(ctx, partyID)
	}

	return true, nil
}

func (s *Service) notifyPartyUpdated(ctx context.Context, partyID uuid.UUID) {
	if err := s.notifier.PartyUpdated(ctx, partyID); err != nil {
		log.Printf("notify party updated error: %v", err)
	}
}

package models

import (
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Party is the shared session record for one table. It is stored as a
// JSON blob in Redis under the party id.
type Party struct {
	PartyID   uuid.UUID   `json:"partyId"`
	PartyCode string      `json:"partyCode"`
	TableID   int         `json:"tableId"`
	MemberIDs []uuid.UUID `json:"memberIds"`
}

func (p *Party) HasMember(userID uuid.UUID) bool {
	for _, id := range p.MemberIDs {
		if id == userID {
			return true
		}
	}
	return false
}

// AddMember keeps memberIds a set: adding an existing member is a no-op.
func (p *Party) AddMember(userID uuid.UUID) {
	if p.HasMember(userID) {
		return
	}
	p.MemberIDs = append(p.MemberIDs, userID)
}

// RemoveMember removes userID if present. Removing a non-member is a
// no-op, not an error.
func (p *Party) RemoveMember(userID uuid.UUID) {
	for i, id := range p.MemberIDs {
		if id == userID {
			p.MemberIDs = append(p.MemberIDs[:i], p.MemberIDs[i+1:]...)
			return
		}
	}
}

// PartyCart is the shared cart record, stored separately from its party
// under party_cart:<partyId>. Items is a raw occurrence list: adding a
// dish twice appends its id twice.
type PartyCart struct {
	PartyID uuid.UUID `json:"partyId"`
	Items   []int64   `json:"items"`
}

// OrderItem is the fetch-time aggregated view of cart occurrences,
// resolved against the dish catalog.
type OrderItem struct {
	ProductID int64   `json:"productId"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
}

type Dish struct {
	bun.BaseModel `bun:"table:dishes,alias:d"`

	ID          int64   `bun:"id,pk,autoincrement"          json:"id"`
	Name        string  `bun:"name,notnull"                 json:"name"`
	Description string  `bun:"description"                  json:"description"`
	Price       float64 `bun:"price,notnull"                json:"price"`
	Category    string  `bun:"category"                     json:"category"`
	Available   bool    `bun:"available,notnull,default:1"  json:"available"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

package poller

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/fastbite/party-service/internal/party"
	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
)

// CartClearer is the slice of the cart manager the poller needs.
type CartClearer interface {
	Clear(ctx context.Context, partyID uuid.UUID) error
}

// Poller consumes order-completed events and clears the finished
// party's shared cart, so the group's next fetch starts empty.
type Poller struct {
	cart   CartClearer
	reader *kafka.Reader
}

func NewPoller(cart CartClearer, brokers ...string) *Poller {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  brokers,
		Topic:    "order-completed",
		GroupID:  "party-service-consumer",
		MaxBytes: 10e6, // 10MB
	})
	return &Poller{cart: cart, reader: reader}
}

func (p *Poller) Run(ctx context.Context) {
	for {
		if ctx.Err() != nil {
			return
		}

		m, err := p.reader.ReadMessage(ctx)
		if err != nil {
			fmt.Printf("error reading message: %v\n", err)
			continue
		}

		p.handleMessage(ctx, m.Value)
	}
}

func (p *Poller) Close() {
	if err := p.reader.Close(); err != nil {
		fmt.Printf("error closing reader: %v\n", err)
	}
}

// handleMessage clears the cart named by the payload. Malformed
// payloads and already-gone parties are skipped, not retried.
func (p *Poller) handleMessage(ctx context.Context, value []byte) {
	var payload struct {
		PartyID string `json:"party_id"`
	}
	if err := json.Unmarshal(value, &payload); err != nil {
		fmt.Printf("error parsing message: %v\n", err)
		return
	}

	partyID, err := uuid.Parse(payload.PartyID)
	if err != nil {
		fmt.Printf("missing or invalid party_id: %v\n", err)
		return
	}

	errClear := p.cart.Clear(ctx, partyID)
	if errClear != nil && !errors.Is(errClear, party.ErrPartyNotFound) {
		fmt.Printf("failed to clear party cart: %v\n", errClear)
	}
}

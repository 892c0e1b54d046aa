package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Event names mirror the hub methods the clients listen on.
const (
	EventPartyUpdated     = "PartyUpdated"
	EventPartyCartUpdated = "PartyCartUpdated"
)

type Event struct {
	Type    string `json:"type"`
	PartyID string `json:"partyId"`
}

// Notifier fans out "shared state changed" signals to every client
// subscribed to a party's group. Delivery is best-effort at-most-once:
// a disconnected client misses the event and re-fetches on reconnect.
type Notifier interface {
	PartyUpdated(ctx context.Context, partyID uuid.UUID) error
	PartyCartUpdated(ctx context.Context, partyID uuid.UUID) error
}

// RedisNotifier publishes group events on a per-party pub/sub channel.
type RedisNotifier struct {
	client *redis.Client
}

func NewRedisNotifier(client *redis.Client) *RedisNotifier {
	return &RedisNotifier{client: client}
}

func (n *RedisNotifier) PartyUpdated(ctx context.Context, partyID uuid.UUID) error {
	return n.publish(ctx, Event{Type: EventPartyUpdated, PartyID: partyID.String()})
}

func (n *RedisNotifier) PartyCartUpdated(ctx context.Context, partyID uuid.UUID) error {
	return n.publish(ctx, Event{Type: EventPartyCartUpdated, PartyID: partyID.String()})
}

func (n *RedisNotifier) publish(ctx context.Context, ev Event) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal event failed: %w", err)
	}
	if err := n.client.Publish(ctx, groupChannel(ev.PartyID), data).Err(); err != nil {
		return fmt.Errorf("redis publish failed: %w", err)
	}
	return nil
}

// Subscribe joins a party's group and returns its event stream. The
// returned close func leaves the group; the event channel closes after
// it is called or when the subscription drops.
func (n *RedisNotifier) Subscribe(ctx context.Context, partyID uuid.UUID) (<-chan Event, func()) {
	pubsub := n.client.Subscribe(ctx, groupChannel(partyID.String()))

	events := make(chan Event)
	go func() {
		defer close(events)
		for msg := range pubsub.Channel() {
			var ev Event
			if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
				log.Printf("malformed group event on %s: %v", msg.Channel, err)
				continue
			}
			select {
			case events <- ev:
			case <-ctx.Done():
				return
			}
		}
	}()

	return events, func() {
		if err := pubsub.Close(); err != nil {
			log.Printf("error leaving party group %s: %v", partyID, err)
		}
	}
}

func groupChannel(partyID string) string {
	return fmt.Sprintf("party_events:%s", partyID)
}

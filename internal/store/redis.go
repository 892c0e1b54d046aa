package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/fastbite/party-service/internal/models"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// RedisStore persists party and cart records as JSON blobs with no TTL:
// a record lives until the membership manager deletes it.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (r *RedisStore) PartyExists(ctx context.Context, partyID uuid.UUID) (bool, error) {
	n, err := r.client.Exists(ctx, partyKey(partyID)).Result()
	if err != nil {
		return false, fmt.Errorf("redis exists failed: %w", err)
	}
	return n > 0, nil
}

func (r *RedisStore) GetParty(ctx context.Context, partyID uuid.UUID) (*models.Party, error) {
	data, err := r.client.Get(ctx, partyKey(partyID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get failed: %w", err)
	}

	var party models.Party
	if err2 := json.Unmarshal(data, &party); err2 != nil {
		// Corrupted record: log and treat as not found.
		log.Printf("corrupted party record %s: %v", partyID, err2)
		return nil, ErrNotFound
	}

	return &party, nil
}

func (r *RedisStore) PutParty(ctx context.Context, party *models.Party) error {
	data, err := json.Marshal(party)
	if err != nil {
		return fmt.Errorf("marshal party failed: %w", err)
	}

	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, partyKey(party.PartyID), string(data), 0)
		pipe.Set(ctx, codeKey(party.PartyCode), party.PartyID.String(), 0)
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (r *RedisStore) DeletePartyAndCart(ctx context.Context, partyID uuid.UUID, partyCode string) error {
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, partyKey(partyID))
		pipe.Del(ctx, cartKey(partyID))
		pipe.Del(ctx, codeKey(partyCode))
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis delete failed: %w", err)
	}
	return nil
}

func (r *RedisStore) GetCart(ctx context.Context, partyID uuid.UUID) (*models.PartyCart, error) {
	data, err := r.client.Get(ctx, cartKey(partyID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get failed: %w", err)
	}

	var cart models.PartyCart
	if err2 := json.Unmarshal(data, &cart); err2 != nil {
		log.Printf("corrupted cart record %s: %v", partyID, err2)
		return nil, ErrNotFound
	}

	return &cart, nil
}

func (r *RedisStore) PutCart(ctx context.Context, cart *models.PartyCart) error {
	data, err := json.Marshal(cart)
	if err != nil {
		return fmt.Errorf("marshal cart failed: %w", err)
	}

	if err := r.client.Set(ctx, cartKey(cart.PartyID), string(data), 0).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (r *RedisStore) DeleteCart(ctx context.Context, partyID uuid.UUID) error {
	// Deleting an absent cart is a no-op, which is exactly what DEL does.
	if err := r.client.Del(ctx, cartKey(partyID)).Err(); err != nil {
		return fmt.Errorf("redis delete failed: %w", err)
	}
	return nil
}

func (r *RedisStore) ResolvePartyCode(ctx context.Context, partyCode string) (uuid.UUID, error) {
	raw, err := r.client.Get(ctx, codeKey(partyCode)).Result()
	if errors.Is(err, redis.Nil) {
		return uuid.Nil, ErrNotFound
	}
	if err != nil {
		return uuid.Nil, fmt.Errorf("redis get failed: %w", err)
	}

	partyID, err := uuid.Parse(raw)
	if err != nil {
		log.Printf("corrupted party code index %q: %v", partyCode, err)
		return uuid.Nil, ErrNotFound
	}
	return partyID, nil
}

func partyKey(partyID uuid.UUID) string {
	return partyID.String()
}

func cartKey(partyID uuid.UUID) string {
	return fmt.Sprintf("party_cart:%s", partyID)
}

func codeKey(partyCode string) string {
	return fmt.Sprintf("party_code:%s", partyCode)
}

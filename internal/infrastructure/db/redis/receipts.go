package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/stashspace/booking-system/internal/core/ports"
)

const receiptTTL = 24 * time.Hour

// storedReceipt is the JSON shape persisted per idempotency key. The amount
// and currency travel with the id so a replayed attempt can verify it is
// asking for the exact charge the gateway already made.
type storedReceipt struct {
	ID          string `json:"id"`
	AmountCents int64  `json:"amount_cents"`
	Currency    string `json:"currency"`
}

// ReceiptStore maps payment idempotency keys to gateway receipts so a
// retried booking attempt can reuse its original charge instead of issuing
// a second one. Entries expire after receiptTTL, matching how long the
// gateway honours the key.
// Key format: receipt:<idempotency_key>
type ReceiptStore struct {
	client *redis.Client
}

func NewReceiptStore(client *redis.Client) *ReceiptStore {
	return &ReceiptStore{client: client}
}

// Get returns the receipt recorded for key, or nil when none exists.
func (s *ReceiptStore) Get(ctx context.Context, key string) (*ports.ChargeReceipt, error) {
	raw, err := s.client.Get(ctx, s.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("receipt lookup: %w", err)
	}

	var stored storedReceipt
	if err := json.Unmarshal(raw, &stored); err != nil {
		return nil, fmt.Errorf("receipt decode: %w", err)
	}
	return &ports.ChargeReceipt{
		ID:          stored.ID,
		AmountCents: stored.AmountCents,
		Currency:    stored.Currency,
	}, nil
}

// Put records the receipt produced under key.
func (s *ReceiptStore) Put(ctx context.Context, key string, receipt ports.ChargeReceipt) error {
	raw, err := json.Marshal(storedReceipt{
		ID:          receipt.ID,
		AmountCents: receipt.AmountCents,
		Currency:    receipt.Currency,
	})
	if err != nil {
		return fmt.Errorf("receipt encode: %w", err)
	}
	return s.client.Set(ctx, s.key(key), raw, receiptTTL).Err()
}

func (s *ReceiptStore) key(idempotencyKey string) string {
	return "receipt:" + idempotencyKey
}

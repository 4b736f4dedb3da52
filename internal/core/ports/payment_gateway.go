package ports

import "context"

// ChargeInput describes a single charge attempt against the gateway.
// AmountCents is expressed in the currency's minor unit.
type ChargeInput struct {
	CustomerRef string
	AmountCents int64
	Currency    string
	Source      string
	Description string
	// IdempotencyKey, when non-empty, is forwarded to the gateway so that a
	// retried call cannot double-charge.
	IdempotencyKey string
}

// ChargeReceipt is the gateway's acknowledgement of a completed charge.
type ChargeReceipt struct {
	ID          string
	AmountCents int64
	Currency    string
}

// PaymentGateway abstracts the external payment processor. Charge is issued
// at most once per booking attempt; implementations must not retry on their
// own. Failures surface as *domain.PaymentError.
type PaymentGateway interface {
	Charge(ctx context.Context, input ChargeInput) (*ChargeReceipt, error)
	// CreateCustomer registers a customer identity with the gateway and
	// returns its reference, used later as ChargeInput.CustomerRef.
	CreateCustomer(ctx context.Context, description string) (string, error)
}

// ReceiptStore records idempotency-key to receipt mappings so a retried
// create with the same key can reuse the original charge. The full receipt
// is stored, not just the id: a reuse is only valid when the retried
// attempt would charge exactly what the original did. A missing key
// resolves to (nil, nil).
type ReceiptStore interface {
	Get(ctx context.Context, key string) (*ChargeReceipt, error)
	Put(ctx context.Context, key string, receipt ChargeReceipt) error
}

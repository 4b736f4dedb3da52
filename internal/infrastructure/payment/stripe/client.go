// Package stripe is a minimal client for the Stripe charges and customers
// API, covering exactly what the booking flow needs. Requests are
// form-encoded with Bearer auth; an Idempotency-Key header is attached when
// the caller supplies one so the gateway deduplicates retried charges.
package stripe

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/stashspace/booking-system/internal/core/domain"
	"github.com/stashspace/booking-system/internal/core/ports"
)

const (
	defaultBaseURL = "https://api.stripe.com"
	requestTimeout = 30 * time.Second

	// Stripe's documented default live-mode write budget.
	requestsPerSecond = 100
)

type Client struct {
	apiKey  string
	baseURL string
	http    *http.Client
	limiter *rate.Limiter
}

// NewClient builds a gateway client. baseURL overrides the Stripe endpoint
// for tests and stubs; empty means production.
func NewClient(apiKey, baseURL string) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: requestTimeout},
		limiter: rate.NewLimiter(rate.Limit(requestsPerSecond), requestsPerSecond),
	}
}

type apiError struct {
	Error struct {
		Type    string `json:"type"`
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

type chargeResponse struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

type customerResponse struct {
	ID string `json:"id"`
}

// Charge creates a charge. It is issued at most once per call: there are no
// client-side retries, because after a timeout the outcome is unknown and
// only the idempotency key makes a retry safe.
func (c *Client) Charge(ctx context.Context, input ports.ChargeInput) (*ports.ChargeReceipt, error) {
	form := url.Values{}
	form.Set("amount", strconv.FormatInt(input.AmountCents, 10))
	form.Set("currency", input.Currency)
	form.Set("source", input.Source)
	form.Set("customer", input.CustomerRef)
	form.Set("description", input.Description)

	body, err := c.post(ctx, "/v1/charges", form, input.IdempotencyKey)
	if err != nil {
		return nil, err
	}

	var resp chargeResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, &domain.PaymentError{Reason: domain.ReasonGatewayUnavailable, Err: fmt.Errorf("decode charge response: %w", err)}
	}
	return &ports.ChargeReceipt{ID: resp.ID, AmountCents: resp.Amount, Currency: resp.Currency}, nil
}

// CreateCustomer registers a customer and returns the gateway reference.
func (c *Client) CreateCustomer(ctx context.Context, description string) (string, error) {
	form := url.Values{}
	form.Set("description", description)

	body, err := c.post(ctx, "/v1/customers", form, "")
	if err != nil {
		return "", err
	}

	var resp customerResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", &domain.PaymentError{Reason: domain.ReasonGatewayUnavailable, Err: fmt.Errorf("decode customer response: %w", err)}
	}
	return resp.ID, nil
}

func (c *Client) post(ctx context.Context, path string, form url.Values, idempotencyKey string) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, &domain.PaymentError{Reason: domain.ReasonGatewayUnavailable, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, &domain.PaymentError{Reason: domain.ReasonGatewayUnavailable, Err: err}
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if idempotencyKey != "" {
		req.Header.Set("Idempotency-Key", idempotencyKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &domain.PaymentError{Reason: domain.ReasonGatewayUnavailable, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, &domain.PaymentError{Reason: domain.ReasonGatewayUnavailable, Err: err}
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return body, nil
	}
	return nil, c.asPaymentError(resp.StatusCode, body)
}

// asPaymentError maps a gateway error response onto the domain taxonomy.
func (c *Client) asPaymentError(status int, body []byte) error {
	var ae apiError
	_ = json.Unmarshal(body, &ae)

	msg := ae.Error.Message
	if msg == "" {
		msg = http.StatusText(status)
	}
	err := fmt.Errorf("stripe: %s", msg)

	switch {
	case status == http.StatusPaymentRequired || ae.Error.Code == "card_declined" || ae.Error.Code == "expired_card":
		return &domain.PaymentError{Reason: domain.ReasonCardDeclined, Err: err}
	case status >= 400 && status < 500:
		return &domain.PaymentError{Reason: domain.ReasonInvalidSource, Err: err}
	default:
		return &domain.PaymentError{Reason: domain.ReasonGatewayUnavailable, Err: err}
	}
}

package payment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/chridipi/synapse-engine/internal/config"
)

// DefaultBaseURL is the payment provider's API root.
const DefaultBaseURL = "https://api.stripe.com"

// maxResponseBytes caps provider response bodies.
const maxResponseBytes = 1 << 20

var (
	// ErrNoCredential indicates the client was built without a secret key.
	ErrNoCredential = errors.New("payment secret key not configured")

	// ErrProvisioningFailed indicates the provider rejected or failed the
	// payment-intent request.
	ErrProvisioningFailed = errors.New("payment session provisioning failed")
)

// Provisioner creates payment sessions for the upgrade flow.
type Provisioner interface {
	// CreateSession provisions a payment intent and returns its client
	// secret. The amount and currency are fixed by server configuration.
	CreateSession(ctx context.Context) (string, error)
}

// Client is a Provisioner backed by the Stripe payment-intents endpoint.
type Client struct {
	logger      *slog.Logger
	httpClient  *http.Client
	baseURL     string
	secretKey   string
	amountCents int
	currency    string
}

var _ Provisioner = (*Client)(nil)

// paymentIntent is the subset of the provider's response the engine reads.
type paymentIntent struct {
	ID           string `json:"id"`
	ClientSecret string `json:"client_secret"`
}

type providerError struct {
	Error struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

// NewClient builds a payment client from configuration. An empty secret key
// returns ErrNoCredential so the caller can disable the endpoint instead of
// failing at request time.
func NewClient(logger *slog.Logger, cfg config.PaymentConfig) (*Client, error) {
	if logger == nil {
		return nil, errors.New("logger is required")
	}
	if strings.TrimSpace(cfg.StripeSecretKey) == "" {
		return nil, ErrNoCredential
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	return &Client{
		logger:      logger.With(slog.String("component", "payment_client")),
		httpClient:  &http.Client{Timeout: 30 * time.Second},
		baseURL:     strings.TrimRight(baseURL, "/"),
		secretKey:   cfg.StripeSecretKey,
		amountCents: cfg.AmountCents,
		currency:    cfg.Currency,
	}, nil
}

// CreateSession creates a payment intent with automatic payment methods and
// returns the client secret.
func (c *Client) CreateSession(ctx context.Context) (string, error) {
	form := url.Values{}
	form.Set("amount", strconv.Itoa(c.amountCents))
	form.Set("currency", c.currency)
	form.Set("automatic_payment_methods[enabled]", "true")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/v1/payment_intents", strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("failed to build payment request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.secretKey)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("payment provider unreachable", slog.String("error", err.Error()))
		return "", fmt.Errorf("%w: %v", ErrProvisioningFailed, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return "", fmt.Errorf("%w: reading response: %v", ErrProvisioningFailed, err)
	}

	if resp.StatusCode != http.StatusOK {
		var perr providerError
		message := http.StatusText(resp.StatusCode)
		if json.Unmarshal(body, &perr) == nil && perr.Error.Message != "" {
			message = perr.Error.Message
		}
		c.logger.Warn("payment intent rejected",
			slog.Int("status", resp.StatusCode),
			slog.String("provider_message", message))
		return "", fmt.Errorf("%w: status %d: %s", ErrProvisioningFailed, resp.StatusCode, message)
	}

	var intent paymentIntent
	if err := json.Unmarshal(body, &intent); err != nil {
		return "", fmt.Errorf("%w: malformed response: %v", ErrProvisioningFailed, err)
	}
	if intent.ClientSecret == "" {
		return "", fmt.Errorf("%w: response carried no client secret", ErrProvisioningFailed)
	}

	c.logger.Debug("payment intent created", slog.String("intent_id", intent.ID))
	return intent.ClientSecret, nil
}

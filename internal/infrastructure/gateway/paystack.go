package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	domainerrors "stagepass.backend/internal/domain/errors"
)

const defaultBaseURL = "https://api.paystack.co"

// InitializeResult is the handle returned by the gateway for a fresh
// transaction. The client-side payment UI consumes the access code;
// the reference is what the ledger keys on.
type InitializeResult struct {
	Reference        string
	AccessCode       string
	AuthorizationURL string
}

// VerifyResult is the gateway's authoritative word on a transaction.
// Definitive declines come back as Success=false with no error;
// transport problems come back as ErrGatewayUnreachable.
type VerifyResult struct {
	Success        bool
	AmountPaidKobo int64
	GatewayStatus  string
}

// Gateway is the payment processor contract the eligibility engine
// depends on. It carries no business logic.
type Gateway interface {
	Initialize(ctx context.Context, email, reference string, amountKobo int64) (*InitializeResult, error)
	Verify(ctx context.Context, reference string) (*VerifyResult, error)
}

// PaystackClient talks to the Paystack transaction API
type PaystackClient struct {
	secretKey  string
	baseURL    string
	httpClient *http.Client
}

// NewPaystackClient creates a new Paystack client with a bounded
// request timeout; a hung gateway must never hang the request.
func NewPaystackClient(secretKey, baseURL string, timeout time.Duration) *PaystackClient {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &PaystackClient{
		secretKey:  secretKey,
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type paystackEnvelope struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type initializeData struct {
	AuthorizationURL string `json:"authorization_url"`
	AccessCode       string `json:"access_code"`
	Reference        string `json:"reference"`
}

type verifyData struct {
	Status string `json:"status"` // success, failed, abandoned, ...
	Amount int64  `json:"amount"` // kobo
}

// terminalStatuses are the verify outcomes the gateway will never
// revise. Anything else ("ongoing", "pending", "processing") can still
// become a success, so it must not settle the entry.
var terminalStatuses = map[string]bool{
	"success":   true,
	"failed":    true,
	"abandoned": true,
	"reversed":  true,
}

// Initialize creates a transaction on the gateway and returns its handle
func (c *PaystackClient) Initialize(ctx context.Context, email, reference string, amountKobo int64) (*InitializeResult, error) {
	payload := map[string]interface{}{
		"email":     email,
		"amount":    amountKobo,
		"reference": reference,
	}

	var env paystackEnvelope
	if err := c.do(ctx, http.MethodPost, "/transaction/initialize", payload, &env); err != nil {
		return nil, err
	}
	if !env.Status {
		return nil, fmt.Errorf("%w: initialize rejected: %s", domainerrors.ErrGatewayUnreachable, env.Message)
	}

	var data initializeData
	if err := json.Unmarshal(env.Data, &data); err != nil {
		return nil, fmt.Errorf("%w: malformed initialize response: %v", domainerrors.ErrGatewayUnreachable, err)
	}

	return &InitializeResult{
		Reference:        data.Reference,
		AccessCode:       data.AccessCode,
		AuthorizationURL: data.AuthorizationURL,
	}, nil
}

// Verify asks the gateway for the definitive outcome of a transaction.
// Only an explicit terminal status counts as definitive; anything
// ambiguous is reported as unreachable so the entry stays actionable.
func (c *PaystackClient) Verify(ctx context.Context, reference string) (*VerifyResult, error) {
	var env paystackEnvelope
	if err := c.do(ctx, http.MethodGet, "/transaction/verify/"+reference, nil, &env); err != nil {
		return nil, err
	}
	if !env.Status {
		return nil, fmt.Errorf("%w: verify rejected: %s", domainerrors.ErrGatewayUnreachable, env.Message)
	}

	var data verifyData
	if err := json.Unmarshal(env.Data, &data); err != nil {
		return nil, fmt.Errorf("%w: malformed verify response: %v", domainerrors.ErrGatewayUnreachable, err)
	}

	if !terminalStatuses[data.Status] {
		return nil, fmt.Errorf("%w: verify status %q is not terminal", domainerrors.ErrGatewayUnreachable, data.Status)
	}

	return &VerifyResult{
		Success:        data.Status == "success",
		AmountPaidKobo: data.Amount,
		GatewayStatus:  data.Status,
	}, nil
}

func (c *PaystackClient) do(ctx context.Context, method, path string, payload interface{}, out *paystackEnvelope) error {
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.secretKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", domainerrors.ErrGatewayUnreachable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusInternalServerError {
		return fmt.Errorf("%w: gateway returned %d", domainerrors.ErrGatewayUnreachable, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: malformed gateway response: %v", domainerrors.ErrGatewayUnreachable, err)
	}
	return nil
}

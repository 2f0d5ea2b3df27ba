package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"gearbook/internal/pkg/config"
	"gearbook/internal/pkg/errs"
)

var ErrUpstreamUnavailable = errs.New("payment gateway unavailable")

type InitiateRequest struct {
	AmountCents  int64
	PayerContact string
	Description  string
	Metadata     map[string]string
}

type InitiateResult struct {
	TransactionID string
	RedirectURL   string
}

// Client is the outbound payment-gateway port. Both calls block with a
// bounded timeout; failures surface as ErrUpstreamUnavailable and may be
// retried by the caller.
type Client interface {
	Initiate(ctx context.Context, req InitiateRequest) (*InitiateResult, error)
	Verify(ctx context.Context, transactionID string) (string, error)
}

type HTTPClient struct {
	baseURL string
	http    *http.Client
	signer  *Signer
	label   string
}

func NewHTTPClient(cfg config.GatewayConfig) *HTTPClient {
	return &HTTPClient{
		baseURL: cfg.BaseURL,
		http:    &http.Client{Timeout: cfg.CallTimeout},
		signer:  NewSigner(cfg.Secret),
		label:   cfg.MerchantLabel,
	}
}

type initiateBody struct {
	Amount      int64             `json:"amount"`
	Contact     string            `json:"contact"`
	Description string            `json:"description"`
	Merchant    string            `json:"merchant"`
	Metadata    map[string]string `json:"metadata,omitempty"`
	Signature   string            `json:"signature"`
}

type initiateResponse struct {
	TransactionID string `json:"transaction_id"`
	RedirectURL   string `json:"redirect_url"`
}

type verifyResponse struct {
	Status string `json:"status"`
}

func (c *HTTPClient) Initiate(ctx context.Context, req InitiateRequest) (*InitiateResult, error) {
	body := initiateBody{
		Amount:      req.AmountCents,
		Contact:     req.PayerContact,
		Description: req.Description,
		Merchant:    c.label,
		Metadata:    req.Metadata,
	}
	body.Signature = c.signer.Sign(map[string]string{
		"amount":   fmt.Sprintf("%d", req.AmountCents),
		"contact":  req.PayerContact,
		"merchant": c.label,
	})

	var resp initiateResponse
	if err := c.post(ctx, "/v1/payments", body, &resp); err != nil {
		return nil, err
	}
	if resp.TransactionID == "" {
		return nil, errs.Wrap(ErrUpstreamUnavailable, "gateway returned empty transaction id")
	}

	return &InitiateResult{
		TransactionID: resp.TransactionID,
		RedirectURL:   resp.RedirectURL,
	}, nil
}

func (c *HTTPClient) Verify(ctx context.Context, transactionID string) (string, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/v1/payments/"+transactionID, nil)
	if err != nil {
		return "", errs.Join(ErrUpstreamUnavailable, err)
	}

	res, err := c.http.Do(httpReq)
	if err != nil {
		return "", errs.Join(ErrUpstreamUnavailable, err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return "", errs.Wrap(ErrUpstreamUnavailable, fmt.Sprintf("gateway verify returned %d", res.StatusCode))
	}

	var resp verifyResponse
	if err := json.NewDecoder(res.Body).Decode(&resp); err != nil {
		return "", errs.Join(ErrUpstreamUnavailable, err)
	}
	return resp.Status, nil
}

func (c *HTTPClient) post(ctx context.Context, path string, body any, out any) error {
	raw, err := json.Marshal(body)
	if err != nil {
		return errs.Wrap(err, "failed to encode gateway request")
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(raw))
	if err != nil {
		return errs.Join(ErrUpstreamUnavailable, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	res, err := c.http.Do(httpReq)
	if err != nil {
		return errs.Join(ErrUpstreamUnavailable, err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(res.Body, 512))
		return errs.Wrap(ErrUpstreamUnavailable, fmt.Sprintf("gateway returned %d: %s", res.StatusCode, snippet))
	}

	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return errs.Join(ErrUpstreamUnavailable, err)
	}
	return nil
}

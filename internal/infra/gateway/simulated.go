package gateway

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// Simulated is the development/test gateway, selected by configuration at
// startup. It hands out deterministic-looking transaction ids and reports
// every transaction as successful on verify.
type Simulated struct{}

func NewSimulated() *Simulated {
	return &Simulated{}
}

func (s *Simulated) Initiate(_ context.Context, req InitiateRequest) (*InitiateResult, error) {
	txnID := "sim-" + uuid.NewString()
	return &InitiateResult{
		TransactionID: txnID,
		RedirectURL:   fmt.Sprintf("https://gateway.invalid/pay/%s?amount=%d", txnID, req.AmountCents),
	}, nil
}

func (s *Simulated) Verify(_ context.Context, _ string) (string, error) {
	return "success", nil
}

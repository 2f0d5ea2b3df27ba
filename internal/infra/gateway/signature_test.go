//go:build unit

package gateway_test

import (
	"strings"
	"testing"

	"gearbook/internal/infra/gateway"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignerRoundTrip(t *testing.T) {
	signer := gateway.NewSigner("callback-secret")
	payload := map[string]string{
		"transaction_id": "txn_123",
		"status":         "success",
		"amount":         "20000",
	}

	sig := signer.Sign(payload)
	require.NotEmpty(t, sig)
	assert.True(t, signer.Verify(payload, sig))
}

func TestSignerFieldOrderIndependence(t *testing.T) {
	signer := gateway.NewSigner("callback-secret")

	a := map[string]string{"b": "2", "a": "1", "c": "3"}
	b := map[string]string{"c": "3", "a": "1", "b": "2"}

	assert.Equal(t, signer.Sign(a), signer.Sign(b))
}

func TestSignerRejectsTampering(t *testing.T) {
	signer := gateway.NewSigner("callback-secret")
	payload := map[string]string{
		"transaction_id": "txn_123",
		"status":         "success",
		"amount":         "20000",
	}
	sig := signer.Sign(payload)

	t.Run("modified field", func(t *testing.T) {
		tampered := map[string]string{
			"transaction_id": "txn_123",
			"status":         "success",
			"amount":         "1",
		}
		assert.False(t, signer.Verify(tampered, sig))
	})

	t.Run("added field", func(t *testing.T) {
		tampered := map[string]string{
			"transaction_id": "txn_123",
			"status":         "success",
			"amount":         "20000",
			"extra":          "x",
		}
		assert.False(t, signer.Verify(tampered, sig))
	})

	t.Run("modified signature", func(t *testing.T) {
		flipped := sig[:len(sig)-1]
		if strings.HasSuffix(sig, "0") {
			flipped += "1"
		} else {
			flipped += "0"
		}
		assert.False(t, signer.Verify(payload, flipped))
	})

	t.Run("empty signature", func(t *testing.T) {
		assert.False(t, signer.Verify(payload, ""))
	})

	t.Run("wrong secret", func(t *testing.T) {
		other := gateway.NewSigner("different-secret")
		assert.False(t, other.Verify(payload, sig))
	})
}

func TestSimulatedGateway(t *testing.T) {
	sim := gateway.NewSimulated()

	first, err := sim.Initiate(t.Context(), gateway.InitiateRequest{AmountCents: 20000})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(first.TransactionID, "sim-"))
	assert.Contains(t, first.RedirectURL, first.TransactionID)

	second, err := sim.Initiate(t.Context(), gateway.InitiateRequest{AmountCents: 20000})
	require.NoError(t, err)
	assert.NotEqual(t, first.TransactionID, second.TransactionID)

	status, err := sim.Verify(t.Context(), first.TransactionID)
	require.NoError(t, err)
	assert.Equal(t, "success", status)
}

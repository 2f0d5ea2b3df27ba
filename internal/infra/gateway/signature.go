package gateway

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strings"
)

// Signer computes and checks the HMAC that authenticates gateway callbacks.
// The signature covers the payload's k=v pairs sorted by key and joined with
// "&", so field order on the wire never matters.
type Signer struct {
	secret []byte
}

func NewSigner(secret string) *Signer {
	return &Signer{secret: []byte(secret)}
}

func (s *Signer) Sign(payload map[string]string) string {
	mac := hmac.New(sha256.New, s.secret)
	mac.Write([]byte(canonicalize(payload)))
	return hex.EncodeToString(mac.Sum(nil))
}

// Verify is constant-time with respect to the signature bytes.
func (s *Signer) Verify(payload map[string]string, signature string) bool {
	expected := s.Sign(payload)
	return hmac.Equal([]byte(expected), []byte(signature))
}

func canonicalize(payload map[string]string) string {
	keys := make([]string, 0, len(payload))
	for k := range payload {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, k+"="+payload[k])
	}
	return strings.Join(pairs, "&")
}

package identity

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/openpredict/market-api/internal/domain"
)

// secretPrefix is the identity provider's endpoint-secret prefix; the
// remainder is the base64-encoded HMAC key.
const secretPrefix = "whsec_"

// SignatureHeaders carries the delivery headers signed by the provider
type SignatureHeaders struct {
	// ID is the unique delivery identifier
	ID string
	// Timestamp is the delivery time as Unix seconds
	Timestamp string
	// Signature is a space-delimited list of versioned signatures
	// (e.g. "v1,K5oZfzN95Z9UVu1EsfQmfVNQhnkZ2M...")
	Signature string
}

// VerifySignature checks an identity webhook delivery against the endpoint
// secret. The signed content is "{id}.{timestamp}.{body}" and the signature
// is HMAC-SHA256, base64-encoded, carried with a "v1," version prefix. The
// delivery timestamp must fall within the tolerance window around now.
func VerifySignature(secret string, headers SignatureHeaders, payload []byte, tolerance time.Duration, now time.Time) error {
	if headers.ID == "" || headers.Timestamp == "" || headers.Signature == "" {
		return fmt.Errorf("%w: missing signature headers", domain.ErrInvalidSignature)
	}

	key, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(secret, secretPrefix))
	if err != nil {
		return fmt.Errorf("failed to decode webhook secret: %w", err)
	}

	seconds, err := strconv.ParseInt(headers.Timestamp, 10, 64)
	if err != nil {
		return fmt.Errorf("%w: malformed timestamp", domain.ErrInvalidSignature)
	}

	issued := time.Unix(seconds, 0)
	if issued.Before(now.Add(-tolerance)) || issued.After(now.Add(tolerance)) {
		return fmt.Errorf("%w: timestamp outside tolerance", domain.ErrInvalidSignature)
	}

	signedContent := fmt.Sprintf("%s.%s.%s", headers.ID, headers.Timestamp, payload)
	h := hmac.New(sha256.New, key)
	h.Write([]byte(signedContent))
	expected := base64.StdEncoding.EncodeToString(h.Sum(nil))

	// The header may carry several signatures from rotated secrets; any
	// matching v1 entry accepts the delivery
	for _, candidate := range strings.Fields(headers.Signature) {
		version, sig, found := strings.Cut(candidate, ",")
		if !found || version != "v1" {
			continue
		}
		if hmac.Equal([]byte(sig), []byte(expected)) {
			return nil
		}
	}

	return domain.ErrInvalidSignature
}

// Sign produces the provider-format signature for a delivery. Used by tests
// and local tooling to fabricate verifiable deliveries.
func Sign(secret string, id string, timestamp time.Time, payload []byte) (string, error) {
	key, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(secret, secretPrefix))
	if err != nil {
		return "", fmt.Errorf("failed to decode webhook secret: %w", err)
	}

	signedContent := fmt.Sprintf("%s.%d.%s", id, timestamp.Unix(), payload)
	h := hmac.New(sha256.New, key)
	h.Write([]byte(signedContent))
	return "v1," + base64.StdEncoding.EncodeToString(h.Sum(nil)), nil
}

package stripe

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"shopit/internal/webhook/domain"
)

var (
	ErrInvalidSignature = errors.New("invalid webhook signature")
	ErrMalformedPayload = errors.New("malformed webhook payload")
)

const signatureTolerance = 5 * time.Minute

// ConstructEvent verifies the signature header against the shared
// secret and decodes the payload. The header carries a unix timestamp
// and one or more HMAC-SHA256 signatures over "<timestamp>.<payload>":
//
//	t=1699000000,v1=5257a869e7...
//
// Stale timestamps are rejected to blunt replay of captured deliveries.
func ConstructEvent(payload []byte, sigHeader, secret string, now time.Time) (domain.Event, error) {
	if err := verifySignature(payload, sigHeader, secret, now); err != nil {
		return domain.Event{}, err
	}

	var raw struct {
		ID   string `json:"id"`
		Type string `json:"type"`
		Data struct {
			Object struct {
				ID                string `json:"id"`
				ClientReferenceID string `json:"client_reference_id"`
				AmountTotal       int64  `json:"amount_total"`
				Currency          string `json:"currency"`
			} `json:"object"`
		} `json:"data"`
	}
	if err := json.Unmarshal(payload, &raw); err != nil {
		return domain.Event{}, fmt.Errorf("%w: %s", ErrMalformedPayload, err)
	}
	if raw.ID == "" || raw.Type == "" {
		return domain.Event{}, fmt.Errorf("%w: missing id or type", ErrMalformedPayload)
	}

	return domain.Event{
		ID:   raw.ID,
		Type: raw.Type,
		Session: domain.CompletedSession{
			ID:                raw.Data.Object.ID,
			ClientReferenceID: raw.Data.Object.ClientReferenceID,
			AmountTotal:       raw.Data.Object.AmountTotal,
			Currency:          raw.Data.Object.Currency,
		},
	}, nil
}

func verifySignature(payload []byte, sigHeader, secret string, now time.Time) error {
	var timestamp int64 = -1
	var signatures [][]byte

	for _, part := range strings.Split(sigHeader, ",") {
		k, v, found := strings.Cut(strings.TrimSpace(part), "=")
		if !found {
			continue
		}
		switch k {
		case "t":
			ts, err := strconv.ParseInt(v, 10, 64)
			if err != nil {
				return ErrInvalidSignature
			}
			timestamp = ts
		case "v1":
			sig, err := hex.DecodeString(v)
			if err != nil {
				continue
			}
			signatures = append(signatures, sig)
		}
	}
	if timestamp < 0 || len(signatures) == 0 {
		return ErrInvalidSignature
	}

	if now.Sub(time.Unix(timestamp, 0)).Abs() > signatureTolerance {
		return ErrInvalidSignature
	}

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(strconv.FormatInt(timestamp, 10)))
	mac.Write([]byte("."))
	mac.Write(payload)
	expected := mac.Sum(nil)

	for _, sig := range signatures {
		if hmac.Equal(expected, sig) {
			return nil
		}
	}
	return ErrInvalidSignature
}

// Sign produces a header the verifier accepts. Exported for tests and
// the local processor stub.
func Sign(payload []byte, secret string, at time.Time) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(strconv.FormatInt(at.Unix(), 10)))
	mac.Write([]byte("."))
	mac.Write(payload)
	return fmt.Sprintf("t=%d,v1=%s", at.Unix(), hex.EncodeToString(mac.Sum(nil)))
}

package stripe

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shopit/internal/webhook/domain"
)

const secret = "whsec_test"

var completedPayload = []byte(`{
	"id": "evt_1",
	"type": "checkout.session.completed",
	"data": {"object": {
		"id": "cs_1",
		"client_reference_id": "42",
		"amount_total": 2500,
		"currency": "usd"
	}}
}`)

func TestConstructEvent(t *testing.T) {
	now := time.Now()

	ev, err := ConstructEvent(completedPayload, Sign(completedPayload, secret, now), secret, now)
	require.NoError(t, err)

	assert.Equal(t, "evt_1", ev.ID)
	assert.Equal(t, domain.EventCheckoutCompleted, ev.Type)
	assert.Equal(t, "cs_1", ev.Session.ID)
	assert.Equal(t, "42", ev.Session.ClientReferenceID)
	assert.Equal(t, int64(2500), ev.Session.AmountTotal)
}

func TestConstructEventRejections(t *testing.T) {
	now := time.Now()
	good := Sign(completedPayload, secret, now)

	tests := []struct {
		name    string
		payload []byte
		header  string
		wantErr error
	}{
		{"wrong secret", completedPayload, Sign(completedPayload, "whsec_other", now), ErrInvalidSignature},
		{"tampered payload", []byte(`{"id":"evt_2"}`), good, ErrInvalidSignature},
		{"empty header", completedPayload, "", ErrInvalidSignature},
		{"missing v1", completedPayload, "t=12345", ErrInvalidSignature},
		{"garbage header", completedPayload, "not-a-header", ErrInvalidSignature},
		{"stale timestamp", completedPayload, Sign(completedPayload, secret, now.Add(-time.Hour)), ErrInvalidSignature},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ConstructEvent(tt.payload, tt.header, secret, now)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestConstructEventMalformedPayload(t *testing.T) {
	now := time.Now()

	for _, payload := range [][]byte{
		[]byte(`not json`),
		[]byte(`{"type":"checkout.session.completed"}`),
		[]byte(`{"id":"evt_1"}`),
	} {
		_, err := ConstructEvent(payload, Sign(payload, secret, now), secret, now)
		assert.ErrorIs(t, err, ErrMalformedPayload, "payload %s", payload)
	}
}

func TestConstructEventMultipleSignatures(t *testing.T) {
	now := time.Now()
	header := Sign(completedPayload, secret, now) + ",v1=deadbeef"
	_, err := ConstructEvent(completedPayload, header, secret, now)
	assert.NoError(t, err, "one matching signature among several suffices")
}

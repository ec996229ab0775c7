package stripe

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shopit/internal/checkout/application"
)

func TestCreateSession(t *testing.T) {
	var form map[string][]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/v1/checkout/sessions", r.URL.Path)
		require.Equal(t, "Bearer sk_test", r.Header.Get("Authorization"))
		require.NoError(t, r.ParseForm())
		form = r.PostForm

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"cs_1","url":"https://pay.example.com/cs_1"}`))
	}))
	defer srv.Close()

	client := NewClient(slog.Default(), srv.URL, "sk_test")
	session, err := client.CreateSession(context.Background(), application.SessionParams{
		LineItems: []application.LineItemParams{
			{ProductID: 7, Name: "mug", Currency: "usd", UnitAmount: 1000, Quantity: 2},
		},
		SuccessURL:      "https://shop.example.com/checkout/success",
		CancelURL:       "https://shop.example.com/checkout/cancelled",
		ClientReference: "42",
	})
	require.NoError(t, err)

	assert.Equal(t, "cs_1", session.ID)
	assert.Equal(t, "https://pay.example.com/cs_1", session.URL)

	assert.Equal(t, "payment", form["mode"][0])
	assert.Equal(t, "42", form["client_reference_id"][0])
	assert.Equal(t, "2", form["line_items[0][quantity]"][0])
	assert.Equal(t, "usd", form["line_items[0][price_data][currency]"][0])
	assert.Equal(t, "1000", form["line_items[0][price_data][unit_amount]"][0])
	assert.Equal(t, "mug", form["line_items[0][price_data][product_data][name]"][0])
	assert.Equal(t, "7", form["line_items[0][price_data][product_data][metadata][product_id]"][0])
}

func TestCreateSessionAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"error":{"message":"invalid api key"}}`, http.StatusUnauthorized)
	}))
	defer srv.Close()

	client := NewClient(slog.Default(), srv.URL, "sk_bad")
	_, err := client.CreateSession(context.Background(), application.SessionParams{})
	assert.Error(t, err)
}

func TestListLineItems(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/checkout/sessions/cs_1/line_items", r.URL.Path)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":[
			{"description":"mug","quantity":2,"price":{"unit_amount":1000,"product":{"metadata":{"product_id":"7"}}}},
			{"description":"mystery","quantity":1,"price":{"unit_amount":500,"product":{"metadata":{}}}}
		]}`))
	}))
	defer srv.Close()

	client := NewClient(slog.Default(), srv.URL, "sk_test")
	items, err := client.ListLineItems(context.Background(), "cs_1")
	require.NoError(t, err)

	require.Len(t, items, 2)
	assert.Equal(t, application.LineItem{ProductID: 7, Name: "mug", Quantity: 2, UnitAmount: 1000}, items[0])
	assert.Equal(t, int64(0), items[1].ProductID, "missing metadata leaves product ID zero")
}

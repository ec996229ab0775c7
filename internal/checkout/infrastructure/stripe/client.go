package stripe

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"shopit/internal/checkout/application"
)

const productIDMetadataKey = "product_id"

// Client talks to the processor's REST API. Checkout sessions are
// created with the catalog product ID in line-item metadata so the
// webhook consumer can match items back without relying on names.
type Client struct {
	log     *slog.Logger
	http    *http.Client
	baseURL string
	apiKey  string
}

func NewClient(log *slog.Logger, baseURL, apiKey string) *Client {
	return &Client{
		log:     log,
		http:    &http.Client{Timeout: 10 * time.Second},
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
	}
}

func (c *Client) CreateSession(ctx context.Context, params application.SessionParams) (application.CheckoutSession, error) {
	form := url.Values{}
	form.Set("mode", "payment")
	form.Set("payment_method_types[0]", "card")
	form.Set("success_url", params.SuccessURL)
	form.Set("cancel_url", params.CancelURL)
	if params.ClientReference != "" {
		form.Set("client_reference_id", params.ClientReference)
	}
	for i, li := range params.LineItems {
		prefix := fmt.Sprintf("line_items[%d]", i)
		form.Set(prefix+"[quantity]", strconv.Itoa(li.Quantity))
		form.Set(prefix+"[price_data][currency]", li.Currency)
		form.Set(prefix+"[price_data][unit_amount]", strconv.FormatInt(li.UnitAmount, 10))
		form.Set(prefix+"[price_data][product_data][name]", li.Name)
		form.Set(prefix+"[price_data][product_data][metadata]["+productIDMetadataKey+"]", strconv.FormatInt(li.ProductID, 10))
	}

	var resp struct {
		ID  string `json:"id"`
		URL string `json:"url"`
	}
	if err := c.do(ctx, http.MethodPost, "/v1/checkout/sessions", form, &resp); err != nil {
		return application.CheckoutSession{}, err
	}
	return application.CheckoutSession{ID: resp.ID, URL: resp.URL}, nil
}

func (c *Client) ListLineItems(ctx context.Context, sessionID string) ([]application.LineItem, error) {
	path := "/v1/checkout/sessions/" + url.PathEscape(sessionID) + "/line_items?expand[]=data.price.product"

	var resp struct {
		Data []struct {
			Description string `json:"description"`
			Quantity    int    `json:"quantity"`
			Price       struct {
				UnitAmount int64 `json:"unit_amount"`
				Product    struct {
					Metadata map[string]string `json:"metadata"`
				} `json:"product"`
			} `json:"price"`
		} `json:"data"`
	}
	if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}

	items := make([]application.LineItem, 0, len(resp.Data))
	for _, d := range resp.Data {
		item := application.LineItem{
			Name:       d.Description,
			Quantity:   d.Quantity,
			UnitAmount: d.Price.UnitAmount,
		}
		if raw, ok := d.Price.Product.Metadata[productIDMetadataKey]; ok {
			if id, err := strconv.ParseInt(raw, 10, 64); err == nil {
				item.ProductID = id
			}
		}
		items = append(items, item)
	}
	return items, nil
}

func (c *Client) do(ctx context.Context, method, path string, form url.Values, out any) error {
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		c.log.Error("processor request failed", "method", method, "path", path, "status", resp.StatusCode)
		return fmt.Errorf("processor: %s %s: status %d: %s", method, path, resp.StatusCode, raw)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

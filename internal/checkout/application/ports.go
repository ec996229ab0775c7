package application

import "context"

// SessionParams describes one hosted-checkout session to create at the
// payment processor. Amounts are integer minor-currency units.
type SessionParams struct {
	LineItems       []LineItemParams
	SuccessURL      string
	CancelURL       string
	ClientReference string
}

type LineItemParams struct {
	ProductID  int64
	Name       string
	Currency   string
	UnitAmount int64
	Quantity   int
}

// CheckoutSession is the processor's opaque handle; the storefront
// redirects the browser to URL and never sees card data.
type CheckoutSession struct {
	ID  string
	URL string
}

// LineItem is one purchased line as reported back by the processor.
// ProductID is zero when the metadata key is absent.
type LineItem struct {
	ProductID  int64
	Name       string
	Quantity   int
	UnitAmount int64
}

type ProcessorClient interface {
	CreateSession(ctx context.Context, params SessionParams) (CheckoutSession, error)
	ListLineItems(ctx context.Context, sessionID string) ([]LineItem, error)
}

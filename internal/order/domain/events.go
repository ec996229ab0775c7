package domain

type EventItem struct {
	ProductID *int64 `json:"product_id"`
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
	UnitCents int64  `json:"unit_cents"`
}

type OrderPaid struct {
	OrderID    string      `json:"order_id"`
	UserID     *int64      `json:"user_id"`
	TotalCents int64       `json:"total_cents"`
	Currency   string      `json:"currency"`
	Items      []EventItem `json:"items"`
}

type OrderCancelled struct {
	OrderID string `json:"order_id"`
	UserID  int64  `json:"user_id"`
}

type OrderRefunded struct {
	OrderID string `json:"order_id"`
	UserID  int64  `json:"user_id"`
}

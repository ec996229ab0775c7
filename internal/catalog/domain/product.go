package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Category struct {
	ID        int64
	Name      string
	Slug      string
	Image     string
	CreatedAt time.Time
}

type Product struct {
	ID          int64
	Name        string
	Description string
	Price       decimal.Decimal
	Stock       int
	Image       string
	Image2      string
	CategoryID  *int64
}

// GalleryImage is one extra image attached to a product detail page.
type GalleryImage struct {
	ID        int64
	ProductID int64
	Image     string
}

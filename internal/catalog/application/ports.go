package application

import (
	"context"

	"shopit/internal/catalog/domain"
)

type Repository interface {
	Categories(ctx context.Context) ([]domain.Category, error)
	CategoryBySlug(ctx context.Context, slug string) (domain.Category, error)
	Products(ctx context.Context) ([]domain.Product, error)
	ProductsByCategory(ctx context.Context, categoryID int64) ([]domain.Product, error)
	Product(ctx context.Context, id int64) (domain.Product, error)
	Gallery(ctx context.Context, productID int64) ([]domain.GalleryImage, error)
}

package application

import (
	"context"
	"errors"

	"shopit/internal/catalog/domain"
)

var ErrNotFound = errors.New("not found")

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Home returns everything the storefront landing page shows.
func (s *Service) Home(ctx context.Context) ([]domain.Category, []domain.Product, error) {
	categories, err := s.repo.Categories(ctx)
	if err != nil {
		return nil, nil, err
	}
	products, err := s.repo.Products(ctx)
	if err != nil {
		return nil, nil, err
	}
	return categories, products, nil
}

func (s *Service) ProductsByCategory(ctx context.Context, slug string) (domain.Category, []domain.Product, error) {
	category, err := s.repo.CategoryBySlug(ctx, slug)
	if err != nil {
		return domain.Category{}, nil, err
	}
	products, err := s.repo.ProductsByCategory(ctx, category.ID)
	if err != nil {
		return domain.Category{}, nil, err
	}
	return category, products, nil
}

func (s *Service) ProductDetail(ctx context.Context, id int64) (domain.Product, []domain.GalleryImage, error) {
	product, err := s.repo.Product(ctx, id)
	if err != nil {
		return domain.Product{}, nil, err
	}
	gallery, err := s.repo.Gallery(ctx, id)
	if err != nil {
		return domain.Product{}, nil, err
	}
	return product, gallery, nil
}

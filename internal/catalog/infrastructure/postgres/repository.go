package postgres

import (
	"context"
	"errors"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"shopit/internal/catalog/application"
	"shopit/internal/catalog/domain"
)

type Repository struct {
	log  *slog.Logger
	pool *pgxpool.Pool
}

func NewRepository(log *slog.Logger, pool *pgxpool.Pool) *Repository {
	return &Repository{log: log, pool: pool}
}

func (r *Repository) Categories(ctx context.Context) ([]domain.Category, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name, slug, image, created_at FROM categories ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Category
	for rows.Next() {
		var c domain.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Slug, &c.Image, &c.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *Repository) CategoryBySlug(ctx context.Context, slug string) (domain.Category, error) {
	var c domain.Category
	err := r.pool.QueryRow(ctx, `SELECT id, name, slug, image, created_at FROM categories WHERE slug=$1`, slug).
		Scan(&c.ID, &c.Name, &c.Slug, &c.Image, &c.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Category{}, application.ErrNotFound
	}
	return c, err
}

func (r *Repository) Products(ctx context.Context) ([]domain.Product, error) {
	return r.queryProducts(ctx, `SELECT id, name, description, price, stock, image, image2, category_id FROM products ORDER BY id`)
}

func (r *Repository) ProductsByCategory(ctx context.Context, categoryID int64) ([]domain.Product, error) {
	return r.queryProducts(ctx, `SELECT id, name, description, price, stock, image, image2, category_id FROM products WHERE category_id=$1 ORDER BY id`, categoryID)
}

func (r *Repository) Product(ctx context.Context, id int64) (domain.Product, error) {
	var p domain.Product
	err := r.pool.QueryRow(ctx, `SELECT id, name, description, price, stock, image, image2, category_id FROM products WHERE id=$1`, id).
		Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.Stock, &p.Image, &p.Image2, &p.CategoryID)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Product{}, application.ErrNotFound
	}
	return p, err
}

func (r *Repository) Gallery(ctx context.Context, productID int64) ([]domain.GalleryImage, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, product_id, image FROM product_gallery WHERE product_id=$1 ORDER BY id`, productID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.GalleryImage
	for rows.Next() {
		var g domain.GalleryImage
		if err := rows.Scan(&g.ID, &g.ProductID, &g.Image); err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

func (r *Repository) queryProducts(ctx context.Context, query string, args ...any) ([]domain.Product, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Product
	for rows.Next() {
		var p domain.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.Stock, &p.Image, &p.Image2, &p.CategoryID); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

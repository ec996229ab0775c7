package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"shopit/internal/order/application"
	"shopit/internal/order/domain"
)

type Repository struct {
	log  *slog.Logger
	pool *pgxpool.Pool
}

func NewRepository(log *slog.Logger, pool *pgxpool.Pool) *Repository {
	return &Repository{log: log, pool: pool}
}

// CreatePaid reconciles one webhook event: dedupe record, order, items,
// stock decrements and the outbox row, all in a single transaction.
// Returns false when the event ID was already recorded.
func (r *Repository) CreatePaid(ctx context.Context, o domain.Order, checkoutSessionID, eventID string, payload []byte, traceparent string) (bool, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return false, err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	ct, err := tx.Exec(ctx,
		`INSERT INTO webhook_events (event_id, order_id) VALUES ($1,$2) ON CONFLICT (event_id) DO NOTHING`,
		eventID, o.ID)
	if err != nil {
		return false, err
	}
	if ct.RowsAffected() == 0 {
		return false, nil
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO orders (id, user_id, checkout_session_id, total, status, created_at, updated_at)
		 VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		o.ID, o.UserID, checkoutSessionID, o.Total, o.Status, o.CreatedAt, o.UpdatedAt)
	if err != nil {
		return false, err
	}

	for i := range o.Items {
		item := &o.Items[i]
		if item.ProductID != nil {
			decremented, err := r.decrementStock(ctx, tx, *item.ProductID, item.Quantity)
			if err != nil {
				return false, err
			}
			if !decremented {
				// Product deleted since checkout; keep the ledger row
				// but drop the dangling reference.
				r.log.Warn("order item references missing product",
					"order_id", o.ID, "product_id", *item.ProductID, "name", item.Name)
				item.ProductID = nil
			}
		}
		_, err = tx.Exec(ctx,
			`INSERT INTO order_items (order_id, product_id, name, quantity, unit_price) VALUES ($1,$2,$3,$4,$5)`,
			o.ID, item.ProductID, item.Name, item.Quantity, item.UnitPrice)
		if err != nil {
			return false, err
		}
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO outbox (aggregate_type, aggregate_id, type, payload, traceparent, status)
		 VALUES ('order',$1,'OrderPaid',$2,$3,'pending')`,
		o.ID, payload, traceparent)
	if err != nil {
		return false, err
	}

	if err := tx.Commit(ctx); err != nil {
		return false, err
	}
	return true, nil
}

// decrementStock clamps at zero rather than rejecting: the payment has
// already settled, so an oversold item is an operational problem, not a
// reason to lose the order.
func (r *Repository) decrementStock(ctx context.Context, tx pgx.Tx, productID int64, quantity int) (bool, error) {
	var before, after int
	err := tx.QueryRow(ctx,
		`UPDATE products p SET stock = GREATEST(p.stock - $2, 0)
		 FROM (SELECT id, stock FROM products WHERE id = $1 FOR UPDATE) prev
		 WHERE p.id = prev.id
		 RETURNING prev.stock, p.stock`,
		productID, quantity).Scan(&before, &after)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if before < quantity {
		r.log.Warn("stock decrement clamped", "product_id", productID, "stock", before, "quantity", quantity)
	}
	return true, nil
}

func (r *Repository) ListByUser(ctx context.Context, userID int64) ([]domain.Order, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, user_id, total, status, created_at, updated_at FROM orders WHERE user_id=$1 ORDER BY created_at DESC`,
		userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []domain.Order
	for rows.Next() {
		var o domain.Order
		if err := rows.Scan(&o.ID, &o.UserID, &o.Total, &o.Status, &o.CreatedAt, &o.UpdatedAt); err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range orders {
		items, err := r.items(ctx, orders[i].ID)
		if err != nil {
			return nil, err
		}
		orders[i].Items = items
	}
	return orders, nil
}

func (r *Repository) GetForUser(ctx context.Context, id string, userID int64) (domain.Order, error) {
	var o domain.Order
	err := r.pool.QueryRow(ctx,
		`SELECT id, user_id, total, status, created_at, updated_at FROM orders WHERE id=$1 AND user_id=$2`,
		id, userID).
		Scan(&o.ID, &o.UserID, &o.Total, &o.Status, &o.CreatedAt, &o.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Order{}, application.ErrNotFound
	}
	if err != nil {
		return domain.Order{}, err
	}

	o.Items, err = r.items(ctx, o.ID)
	return o, err
}

func (r *Repository) UpdateStatus(ctx context.Context, id string, userID int64, to domain.Status, eventType string, payload []byte, traceparent string) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	var current domain.Status
	err = tx.QueryRow(ctx, `SELECT status FROM orders WHERE id=$1 AND user_id=$2 FOR UPDATE`, id, userID).
		Scan(&current)
	if errors.Is(err, pgx.ErrNoRows) {
		return application.ErrNotFound
	}
	if err != nil {
		return err
	}
	if !domain.CanTransition(current, to) {
		return fmt.Errorf("%w: %s -> %s", domain.ErrInvalidTransition, current, to)
	}

	_, err = tx.Exec(ctx, `UPDATE orders SET status=$2, updated_at=now() WHERE id=$1`, id, to)
	if err != nil {
		return err
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO outbox (aggregate_type, aggregate_id, type, payload, traceparent, status)
		 VALUES ('order',$1,$2,$3,$4,'pending')`,
		id, eventType, payload, traceparent)
	if err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *Repository) items(ctx context.Context, orderID string) ([]domain.Item, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, product_id, name, quantity, unit_price FROM order_items WHERE order_id=$1 ORDER BY id`,
		orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.Item
	for rows.Next() {
		var it domain.Item
		if err := rows.Scan(&it.ID, &it.ProductID, &it.Name, &it.Quantity, &it.UnitPrice); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

package application

import (
	"context"
	"encoding/json"
	"log/slog"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	checkoutapp "shopit/internal/checkout/application"
	orderdom "shopit/internal/order/domain"
	webhookdom "shopit/internal/webhook/domain"
	"shopit/pkg/tracing"
)

const eventSource = "stripe"

// Service reconciles completed checkout sessions into the order
// ledger. The processor may deliver the same event more than once;
// reconciliation is keyed off the event ID so redelivery is a no-op.
type Service struct {
	log       *slog.Logger
	processor checkoutapp.ProcessorClient
	ledger    OrderLedger
	dedupe    Deduper
}

func NewService(log *slog.Logger, processor checkoutapp.ProcessorClient, ledger OrderLedger, dedupe Deduper) *Service {
	return &Service{log: log, processor: processor, ledger: ledger, dedupe: dedupe}
}

func (s *Service) HandleEvent(ctx context.Context, ev webhookdom.Event) error {
	if ev.Type != webhookdom.EventCheckoutCompleted {
		s.log.Debug("webhook event ignored", "event_id", ev.ID, "type", ev.Type)
		return nil
	}

	key := s.dedupe.Key(eventSource, ev.ID)
	seen, err := s.dedupe.Seen(ctx, key)
	if err != nil {
		// The ledger's unique constraint still guards; don't drop the
		// event just because the cache is down.
		s.log.Error("dedupe check failed", "event_id", ev.ID, "err", err)
	} else if seen {
		s.log.Info("duplicate webhook event skipped", "event_id", ev.ID)
		return nil
	}

	lineItems, err := s.processor.ListLineItems(ctx, ev.Session.ID)
	if err != nil {
		return err
	}

	order := s.buildOrder(ev, lineItems)
	payload, err := json.Marshal(paidEvent(order, ev.Session.Currency))
	if err != nil {
		return err
	}

	created, err := s.ledger.CreatePaid(ctx, order, ev.Session.ID, ev.ID, payload, tracing.Traceparent(ctx))
	if err != nil {
		return err
	}
	if err := s.dedupe.Mark(ctx, key); err != nil {
		s.log.Error("dedupe mark failed", "event_id", ev.ID, "err", err)
	}
	if !created {
		s.log.Info("webhook event already reconciled", "event_id", ev.ID, "checkout_session", ev.Session.ID)
		return nil
	}

	s.log.Info("order created from webhook",
		"order_id", order.ID, "checkout_session", ev.Session.ID, "total", order.Total, "items", len(order.Items))
	return nil
}

func (s *Service) buildOrder(ev webhookdom.Event, lineItems []checkoutapp.LineItem) orderdom.Order {
	now := time.Now().UTC()
	order := orderdom.Order{
		ID: uuid.NewString(),
		// The processor-reported amount is authoritative over any
		// locally cached cart total.
		Total:     decimal.New(ev.Session.AmountTotal, -2),
		Status:    orderdom.StatusPaid,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if ref := ev.Session.ClientReferenceID; ref != "" {
		if userID, err := strconv.ParseInt(ref, 10, 64); err == nil {
			order.UserID = &userID
		} else {
			s.log.Warn("unparsable client reference, order left unattributed", "event_id", ev.ID, "ref", ref)
		}
	}

	for _, li := range lineItems {
		item := orderdom.Item{
			Name:      li.Name,
			Quantity:  li.Quantity,
			UnitPrice: decimal.New(li.UnitAmount, -2),
		}
		if li.ProductID != 0 {
			pid := li.ProductID
			item.ProductID = &pid
		} else {
			s.log.Warn("line item without product metadata", "event_id", ev.ID, "name", li.Name)
		}
		order.Items = append(order.Items, item)
	}
	return order
}

func paidEvent(o orderdom.Order, currency string) orderdom.OrderPaid {
	items := make([]orderdom.EventItem, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, orderdom.EventItem{
			ProductID: it.ProductID,
			Name:      it.Name,
			Quantity:  it.Quantity,
			UnitCents: it.UnitPrice.Mul(decimal.NewFromInt(100)).Round(0).IntPart(),
		})
	}
	return orderdom.OrderPaid{
		OrderID:    o.ID,
		UserID:     o.UserID,
		TotalCents: o.Total.Mul(decimal.NewFromInt(100)).Round(0).IntPart(),
		Currency:   currency,
		Items:      items,
	}
}

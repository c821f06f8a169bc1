package order

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/noah-isme/shopfront/internal/cart"
	"github.com/noah-isme/shopfront/internal/catalog"
	"github.com/noah-isme/shopfront/internal/events"
	"github.com/noah-isme/shopfront/internal/notify"
)

// Mode selects how an order is placed. The two modes carry deliberately
// different validation strictness: the local path skips unresolvable cart
// lines while the server path rejects the whole submission.
type Mode string

const (
	// ModeLocal records the order immediately without a network round trip.
	ModeLocal Mode = "local"
	// ModeServer confirms the order with the remote order service.
	ModeServer Mode = "server"
)

// ProductResolver resolves cart lines against the catalog.
type ProductResolver interface {
	Product(id string) (catalog.Product, bool)
}

// Service unifies the local and server-confirmed order placement paths.
type Service struct {
	Cart    *cart.Engine
	Catalog ProductResolver
	Gateway Gateway
	History *History
	Sink    *notify.Sink
	Bus     *events.Bus
	Log     zerolog.Logger
	Now     func() time.Time
	Metrics PlacementMetrics
}

// PlacementMetrics observes placement outcomes. Nil funcs are skipped.
type PlacementMetrics struct {
	Placed func(mode string)
	Failed func()
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// PlaceLocal is the immediate, offline order path. It returns nil on an empty
// cart with no side effects. Cart lines that no longer resolve against the
// catalog are excluded from the order rather than failing it, and this path
// carries no shipping or tax.
func (s *Service) PlaceLocal(ctx context.Context, placedBy string) *Order {
	lines := s.Cart.Lines()
	if len(lines) == 0 {
		return nil
	}

	now := s.now()
	o := Order{
		ID:       fmt.Sprintf("ORD-%d", now.UnixMilli()),
		Status:   StatusPending,
		PlacedBy: placedBy,
		PlacedAt: now,
	}
	for _, line := range lines {
		p, ok := s.Catalog.Product(line.ProductID)
		if !ok {
			s.Log.Warn().Str("product_id", line.ProductID).Msg("skipping unresolvable cart line")
			continue
		}
		lineTotal := float64(line.Qty) * p.Price
		o.Items = append(o.Items, Item{
			ProductID:   p.ID,
			Title:       p.Title,
			Price:       p.Price,
			Category:    p.Category,
			Image:       p.Image,
			Description: p.Description,
			Qty:         line.Qty,
			LineTotal:   lineTotal,
		})
		o.Total += lineTotal
	}

	s.History.Prepend(o)
	s.Cart.Clear()
	s.recordPlaced(ctx, o, ModeLocal)
	return &o
}

// SubmitServer is the server-confirmed path. Every cart line must resolve
// against the catalog or the whole submission is rejected before any network
// call is made.
func (s *Service) SubmitServer(ctx context.Context, city, address, placedBy string) (Order, error) {
	lines := s.Cart.Lines()
	sub := Submission{
		DestinationCity:    city,
		DestinationAddress: address,
	}
	var (
		items []Item
		total float64
	)
	for _, line := range lines {
		p, ok := s.Catalog.Product(line.ProductID)
		if !ok {
			return Order{}, fmt.Errorf("%w: %s", ErrInvalidCartItem, line.ProductID)
		}
		sub.Items = append(sub.Items, SubmissionItem{
			ProductID: p.ID,
			Quantity:  line.Qty,
			Price:     p.Price,
		})
		lineTotal := float64(line.Qty) * p.Price
		items = append(items, Item{
			ProductID:   p.ID,
			Title:       p.Title,
			Price:       p.Price,
			Category:    p.Category,
			Image:       p.Image,
			Description: p.Description,
			Qty:         line.Qty,
			LineTotal:   lineTotal,
		})
		total += lineTotal
	}

	confirmed, err := s.Gateway.Submit(ctx, sub)
	if err != nil {
		if s.Metrics.Failed != nil {
			s.Metrics.Failed()
		}
		if busErr := s.Bus.Emit(ctx, events.TopicOrderFailed, "", map[string]any{
			"placedBy": placedBy,
			"reason":   err.Error(),
		}); busErr != nil {
			s.Log.Warn().Err(busErr).Msg("order event fanout")
		}
		return Order{}, err
	}

	o := Order{
		ID:       confirmed.ID,
		Items:    items,
		Total:    total,
		Status:   confirmed.Status,
		PlacedBy: placedBy,
		PlacedAt: s.now(),
	}
	s.History.Prepend(o)
	s.Cart.Clear()
	s.recordPlaced(ctx, o, ModeServer)
	return o, nil
}

func (s *Service) recordPlaced(ctx context.Context, o Order, mode Mode) {
	if s.Sink != nil {
		s.Sink.Append(fmt.Sprintf("Order %s placed", o.ID), notify.TypeSuccess)
	}
	if s.Metrics.Placed != nil {
		s.Metrics.Placed(string(mode))
	}
	if err := s.Bus.Emit(ctx, events.TopicOrderPlaced, o.ID, map[string]any{
		"orderId":  o.ID,
		"total":    o.Total,
		"placedBy": o.PlacedBy,
		"mode":     string(mode),
	}); err != nil {
		s.Log.Warn().Err(err).Str("order_id", o.ID).Msg("order event fanout")
	}
}

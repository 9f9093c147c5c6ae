package order

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/vardanhq/vardan-api/internal/authz"
	"github.com/vardanhq/vardan-api/internal/common"
	"github.com/vardanhq/vardan-api/internal/store"
)

// Service covers the order read side. Placement lives in checkout.
type Service struct {
	Q store.Querier
}

// Summary is an order without its lines.
type Summary struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	AddressID   string    `json:"address_id"`
	TotalAmount int64     `json:"total_amount"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}

// Line is a frozen order line.
type Line struct {
	ID        string `json:"id"`
	ProductID string `json:"product_id"`
	Quantity  int32  `json:"quantity"`
	Price     int64  `json:"price"`
}

// Detail is an order with its lines.
type Detail struct {
	Summary
	Items []Line `json:"items"`
}

// ListMine returns the actor's own orders, newest first.
func (s *Service) ListMine(ctx context.Context, actor authz.Actor, page, perPage int) ([]Summary, int64, error) {
	uid, err := store.ToUUID(actor.UserID)
	if err != nil {
		return nil, 0, common.ErrUnauthorized("unauthorized")
	}
	total, err := s.Q.CountOrdersByUser(ctx, uid)
	if err != nil {
		return nil, 0, fmt.Errorf("count orders: %w", err)
	}
	rows, err := s.Q.ListOrdersByUser(ctx, store.ListOrdersByUserParams{
		UserID: uid,
		Limit:  int32(perPage),
		Offset: int32((page - 1) * perPage),
	})
	if err != nil {
		return nil, 0, fmt.Errorf("list orders: %w", err)
	}
	out := make([]Summary, 0, len(rows))
	for _, o := range rows {
		out = append(out, convertSummary(o))
	}
	return out, total, nil
}

// ListAll returns every order. Admin only.
func (s *Service) ListAll(ctx context.Context, actor authz.Actor, page, perPage int) ([]Summary, int64, error) {
	if actor.Role != authz.RoleAdmin {
		return nil, 0, common.ErrForbidden("admin only")
	}
	total, err := s.Q.CountOrders(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("count orders: %w", err)
	}
	rows, err := s.Q.ListOrders(ctx, store.ListOrdersParams{
		Limit:  int32(perPage),
		Offset: int32((page - 1) * perPage),
	})
	if err != nil {
		return nil, 0, fmt.Errorf("list orders: %w", err)
	}
	out := make([]Summary, 0, len(rows))
	for _, o := range rows {
		out = append(out, convertSummary(o))
	}
	return out, total, nil
}

// Get returns one order with its lines. The owner or an admin; everyone
// else gets not-found rather than forbidden, so order ids stay private.
func (s *Service) Get(ctx context.Context, actor authz.Actor, orderID string) (Detail, error) {
	o, err := s.owned(ctx, actor, orderID)
	if err != nil {
		return Detail{}, err
	}
	items, err := s.Q.ListOrderItemsByOrder(ctx, o.ID)
	if err != nil {
		return Detail{}, fmt.Errorf("list order items: %w", err)
	}
	detail := Detail{Summary: convertSummary(o), Items: make([]Line, 0, len(items))}
	for _, it := range items {
		detail.Items = append(detail.Items, Line{
			ID:        store.UUIDString(it.ID),
			ProductID: store.UUIDString(it.ProductID),
			Quantity:  it.Quantity,
			Price:     it.Price,
		})
	}
	return detail, nil
}

func (s *Service) owned(ctx context.Context, actor authz.Actor, orderID string) (store.Order, error) {
	id, err := store.ToUUID(orderID)
	if err != nil {
		return store.Order{}, common.ErrNotFound("order")
	}
	o, err := s.Q.GetOrderByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return store.Order{}, common.ErrNotFound("order")
		}
		return store.Order{}, fmt.Errorf("get order: %w", err)
	}
	if !authz.Allow(actor, authz.OpOrderView, store.UUIDString(o.UserID)) {
		return store.Order{}, common.ErrNotFound("order")
	}
	return o, nil
}

func convertSummary(o store.Order) Summary {
	return Summary{
		ID:          store.UUIDString(o.ID),
		UserID:      store.UUIDString(o.UserID),
		AddressID:   store.UUIDString(o.AddressID),
		TotalAmount: o.TotalAmount,
		Status:      o.Status,
		CreatedAt:   o.CreatedAt.Time,
	}
}

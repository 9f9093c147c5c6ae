package shipping

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/vardanhq/vardan-api/internal/authz"
	"github.com/vardanhq/vardan-api/internal/common"
	"github.com/vardanhq/vardan-api/internal/store"
)

// Service manages shipments. Creating and advancing them is operator work,
// open to admins and sellers; customers can follow their own order's shipment.
type Service struct {
	Q store.Querier
}

// Shipment is the transport view of a shipment row.
type Shipment struct {
	ID             string    `json:"id"`
	OrderID        string    `json:"order_id"`
	TrackingNumber string    `json:"tracking_number,omitempty"`
	Carrier        string    `json:"carrier,omitempty"`
	Status         string    `json:"status"`
	CreatedAt      time.Time `json:"created_at"`
}

// CreateParams are the shipment creation inputs.
type CreateParams struct {
	OrderID        string
	TrackingNumber string
	Carrier        string
}

// UpdateParams advance a shipment. Status is required; tracking metadata is
// patched when present.
type UpdateParams struct {
	Status         string
	TrackingNumber *string
	Carrier        *string
}

// Create opens a shipment for an order. One shipment per order.
func (s *Service) Create(ctx context.Context, actor authz.Actor, params CreateParams) (Shipment, error) {
	if !authz.Allow(actor, authz.OpShipmentManage, "") {
		return Shipment{}, common.ErrForbidden("operator only")
	}
	oid, err := store.ToUUID(params.OrderID)
	if err != nil {
		return Shipment{}, common.ErrNotFound("order")
	}
	order, err := s.Q.GetOrderByID(ctx, oid)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Shipment{}, common.ErrNotFound("order")
		}
		return Shipment{}, fmt.Errorf("get order: %w", err)
	}
	if _, err := s.Q.GetShipmentByOrder(ctx, order.ID); err == nil {
		return Shipment{}, common.ErrConflict("CONFLICT", "shipment already exists for order", nil)
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return Shipment{}, fmt.Errorf("get shipment by order: %w", err)
	}
	created, err := s.Q.CreateShipment(ctx, store.CreateShipmentParams{
		ID:             store.NewID(),
		OrderID:        order.ID,
		TrackingNumber: store.TextOrNull(params.TrackingNumber),
		Carrier:        store.TextOrNull(params.Carrier),
		Status:         StatusPreparing,
	})
	if err != nil {
		return Shipment{}, fmt.Errorf("create shipment: %w", err)
	}
	if _, err := s.Q.UpdateOrderStatus(ctx, store.UpdateOrderStatusParams{
		ID:     order.ID,
		Status: "shipping",
	}); err != nil {
		return Shipment{}, fmt.Errorf("update order status: %w", err)
	}
	return convert(created), nil
}

// Update advances a shipment's status and optionally patches tracking
// metadata. Transitions only move forward.
func (s *Service) Update(ctx context.Context, actor authz.Actor, shipmentID string, params UpdateParams) (Shipment, error) {
	if !authz.Allow(actor, authz.OpShipmentManage, "") {
		return Shipment{}, common.ErrForbidden("operator only")
	}
	if !ValidStatus(params.Status) {
		return Shipment{}, common.ErrValidation("unknown shipment status")
	}
	sh, err := s.mustShipment(ctx, shipmentID)
	if err != nil {
		return Shipment{}, err
	}
	if !allowedTransition(sh.Status, params.Status) {
		return Shipment{}, common.ErrInvalidState(
			fmt.Sprintf("cannot move shipment from %s to %s", sh.Status, params.Status),
		)
	}
	updated, err := s.Q.UpdateShipment(ctx, store.UpdateShipmentParams{
		ID:             sh.ID,
		Status:         params.Status,
		TrackingNumber: optionalText(params.TrackingNumber),
		Carrier:        optionalText(params.Carrier),
	})
	if err != nil {
		return Shipment{}, fmt.Errorf("update shipment: %w", err)
	}
	if params.Status == StatusDelivered && sh.Status != StatusDelivered {
		if _, err := s.Q.UpdateOrderStatus(ctx, store.UpdateOrderStatusParams{
			ID:     sh.OrderID,
			Status: "completed",
		}); err != nil {
			return Shipment{}, fmt.Errorf("update order status: %w", err)
		}
	}
	return convert(updated), nil
}

// Get returns one shipment. Operators see all; customers only shipments of
// their own orders, with a non-disclosing not-found otherwise.
func (s *Service) Get(ctx context.Context, actor authz.Actor, shipmentID string) (Shipment, error) {
	sh, err := s.mustShipment(ctx, shipmentID)
	if err != nil {
		return Shipment{}, err
	}
	if authz.Allow(actor, authz.OpShipmentManage, "") {
		return convert(sh), nil
	}
	order, err := s.Q.GetOrderByID(ctx, sh.OrderID)
	if err != nil {
		return Shipment{}, fmt.Errorf("get order: %w", err)
	}
	if !authz.Allow(actor, authz.OpShipmentView, store.UUIDString(order.UserID)) {
		return Shipment{}, common.ErrNotFound("shipment")
	}
	return convert(sh), nil
}

// List returns all shipments. Operators only.
func (s *Service) List(ctx context.Context, actor authz.Actor, page, perPage int) ([]Shipment, int64, error) {
	if !authz.Allow(actor, authz.OpShipmentManage, "") {
		return nil, 0, common.ErrForbidden("operator only")
	}
	total, err := s.Q.CountShipments(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("count shipments: %w", err)
	}
	rows, err := s.Q.ListShipments(ctx, store.ListShipmentsParams{
		Limit:  int32(perPage),
		Offset: int32((page - 1) * perPage),
	})
	if err != nil {
		return nil, 0, fmt.Errorf("list shipments: %w", err)
	}
	out := make([]Shipment, 0, len(rows))
	for _, sh := range rows {
		out = append(out, convert(sh))
	}
	return out, total, nil
}

func (s *Service) mustShipment(ctx context.Context, id string) (store.Shipment, error) {
	sid, err := store.ToUUID(id)
	if err != nil {
		return store.Shipment{}, common.ErrNotFound("shipment")
	}
	sh, err := s.Q.GetShipmentByID(ctx, sid)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return store.Shipment{}, common.ErrNotFound("shipment")
		}
		return store.Shipment{}, fmt.Errorf("get shipment: %w", err)
	}
	return sh, nil
}

func optionalText(v *string) pgtype.Text {
	if v == nil {
		return pgtype.Text{}
	}
	return pgtype.Text{String: *v, Valid: true}
}

func convert(sh store.Shipment) Shipment {
	return Shipment{
		ID:             store.UUIDString(sh.ID),
		OrderID:        store.UUIDString(sh.OrderID),
		TrackingNumber: store.TextValue(sh.TrackingNumber),
		Carrier:        store.TextValue(sh.Carrier),
		Status:         sh.Status,
		CreatedAt:      sh.CreatedAt.Time,
	}
}

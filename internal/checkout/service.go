package checkout

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vardanhq/vardan-api/internal/authz"
	"github.com/vardanhq/vardan-api/internal/common"
	"github.com/vardanhq/vardan-api/internal/obs"
	"github.com/vardanhq/vardan-api/internal/store"
)

// Service turns a cart into an order. Placement runs in a single database
// transaction: stock decrements, price snapshots, the payment row and the
// cart wipe all commit or roll back together.
type Service struct {
	Q store.Querier
	// Pool, when set, supplies the transaction. Without it the whole flow
	// runs on Q directly, which only an in-memory store can make atomic.
	Pool    *pgxpool.Pool
	Timeout time.Duration
}

// Input are the order placement parameters. AddressID is optional; when
// empty the user's first address is used.
type Input struct {
	AddressID     string `json:"address_id" validate:"omitempty,uuid"`
	PaymentMethod string `json:"payment_method"`
}

// Line is a frozen order line.
type Line struct {
	ID        string `json:"id"`
	ProductID string `json:"product_id"`
	Quantity  int32  `json:"quantity"`
	Price     int64  `json:"price"`
}

// Output describes the placed order.
type Output struct {
	OrderID     string `json:"order_id"`
	AddressID   string `json:"address_id"`
	Status      string `json:"status"`
	TotalAmount int64  `json:"total_amount"`
	Items       []Line `json:"items"`
}

const defaultTimeout = 10 * time.Second

// PlaceOrder places an order from the actor's cart.
func (s *Service) PlaceOrder(ctx context.Context, actor authz.Actor, in Input) (Output, error) {
	if !authz.Allow(actor, authz.OpOrderPlace, actor.UserID) {
		return Output{}, common.ErrForbidden("cannot place orders for another user")
	}
	timeout := s.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if s.Pool == nil {
		return s.placeOrder(ctx, s.Q, actor.UserID, in)
	}

	tx, err := s.Pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return Output{}, fmt.Errorf("begin checkout tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()
	out, err := s.placeOrder(ctx, store.New(tx), actor.UserID, in)
	if err != nil {
		return Output{}, err
	}
	if err := tx.Commit(ctx); err != nil {
		return Output{}, fmt.Errorf("commit checkout tx: %w", err)
	}
	s.recordPlaced(out)
	return out, nil
}

func (s *Service) placeOrder(ctx context.Context, q store.Querier, userID string, in Input) (Output, error) {
	uid, err := store.ToUUID(userID)
	if err != nil {
		return Output{}, common.ErrUnauthorized("unauthorized")
	}

	cartRow, err := q.GetCartByUser(ctx, uid)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Output{}, common.ErrNotFound("cart")
		}
		return Output{}, fmt.Errorf("get cart: %w", err)
	}

	address, err := s.resolveAddress(ctx, q, uid, in.AddressID)
	if err != nil {
		return Output{}, err
	}

	items, err := q.ListCartItems(ctx, cartRow.ID)
	if err != nil {
		return Output{}, fmt.Errorf("list cart items: %w", err)
	}
	if len(items) == 0 {
		return Output{}, common.ErrInvalidState("cart is empty")
	}

	order, err := q.CreateOrder(ctx, store.CreateOrderParams{
		ID:          store.NewID(),
		UserID:      uid,
		AddressID:   address.ID,
		TotalAmount: 0,
		Status:      "pending",
	})
	if err != nil {
		return Output{}, fmt.Errorf("create order: %w", err)
	}

	var total int64
	lines := make([]Line, 0, len(items))
	for _, item := range items {
		affected, err := q.DecrementProductStock(ctx, store.DecrementProductStockParams{
			ID:       item.ProductID,
			Quantity: item.Quantity,
		})
		if err != nil {
			return Output{}, fmt.Errorf("decrement stock: %w", err)
		}
		if affected == 0 {
			if obs.StockConflictTotal != nil {
				obs.StockConflictTotal.WithLabelValues("checkout").Inc()
			}
			return Output{}, common.NewAppError(
				"INSUFFICIENT_STOCK",
				fmt.Sprintf("not enough stock for %s", item.ProductName),
				http.StatusConflict,
				nil,
			)
		}
		// freeze the catalog price as it stands right now
		created, err := q.CreateOrderItem(ctx, store.CreateOrderItemParams{
			ID:        store.NewID(),
			OrderID:   order.ID,
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Price:     item.ProductPrice,
		})
		if err != nil {
			return Output{}, fmt.Errorf("create order item: %w", err)
		}
		total += int64(item.Quantity) * item.ProductPrice
		lines = append(lines, Line{
			ID:        store.UUIDString(created.ID),
			ProductID: store.UUIDString(created.ProductID),
			Quantity:  created.Quantity,
			Price:     created.Price,
		})
	}

	order, err = q.UpdateOrderTotal(ctx, store.UpdateOrderTotalParams{ID: order.ID, TotalAmount: total})
	if err != nil {
		return Output{}, fmt.Errorf("update order total: %w", err)
	}

	method := in.PaymentMethod
	if method == "" {
		method = "manual"
	}
	if _, err := q.CreatePayment(ctx, store.CreatePaymentParams{
		ID:      store.NewID(),
		OrderID: order.ID,
		Amount:  total,
		Method:  method,
		Status:  "pending",
	}); err != nil {
		return Output{}, fmt.Errorf("create payment: %w", err)
	}

	if err := q.DeleteCartItemsByCart(ctx, cartRow.ID); err != nil {
		return Output{}, fmt.Errorf("clear cart: %w", err)
	}

	out := Output{
		OrderID:     store.UUIDString(order.ID),
		AddressID:   store.UUIDString(order.AddressID),
		Status:      order.Status,
		TotalAmount: order.TotalAmount,
		Items:       lines,
	}
	if s.Pool == nil {
		s.recordPlaced(out)
	}
	return out, nil
}

func (s *Service) resolveAddress(ctx context.Context, q store.Querier, uid pgtype.UUID, addressID string) (store.Address, error) {
	if addressID == "" {
		address, err := q.GetFirstAddressByUser(ctx, uid)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return store.Address{}, common.ErrNotFound("address")
			}
			return store.Address{}, fmt.Errorf("get first address: %w", err)
		}
		return address, nil
	}
	id, err := store.ToUUID(addressID)
	if err != nil {
		return store.Address{}, common.ErrNotFound("address")
	}
	address, err := q.GetAddressByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return store.Address{}, common.ErrNotFound("address")
		}
		return store.Address{}, fmt.Errorf("get address: %w", err)
	}
	if address.UserID != uid {
		return store.Address{}, common.ErrNotFound("address")
	}
	return address, nil
}

func (s *Service) recordPlaced(out Output) {
	if obs.OrdersPlacedTotal != nil {
		obs.OrdersPlacedTotal.Inc()
	}
	if obs.OrderAmountTotal != nil {
		obs.OrderAmountTotal.Add(float64(out.TotalAmount))
	}
}

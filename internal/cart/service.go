package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/vardanhq/vardan-api/internal/authz"
	"github.com/vardanhq/vardan-api/internal/common"
	"github.com/vardanhq/vardan-api/internal/store"
)

// Service encapsulates cart operations. Every user has at most one cart,
// created lazily on first use.
type Service struct {
	Q store.Querier
}

// Item is a cart line joined with the current product row. Prices here are
// live catalog prices, not frozen ones; freezing happens at order placement.
type Item struct {
	ID        string `json:"id"`
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	Price     int64  `json:"price"`
	Quantity  int32  `json:"quantity"`
	Subtotal  int64  `json:"subtotal"`
}

// Cart is a cart with its lines and running total.
type Cart struct {
	ID          string `json:"id"`
	UserID      string `json:"user_id"`
	Items       []Item `json:"items"`
	TotalAmount int64  `json:"total_amount"`
}

// EnsureCart loads the user's cart, creating it when absent. A concurrent
// create losing the unique race on user_id falls back to re-reading the
// winner's row.
func (s *Service) EnsureCart(ctx context.Context, userID string) (store.Cart, error) {
	uid, err := store.ToUUID(userID)
	if err != nil {
		return store.Cart{}, common.ErrUnauthorized("unauthorized")
	}
	c, err := s.Q.GetCartByUser(ctx, uid)
	if err == nil {
		return c, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return store.Cart{}, fmt.Errorf("get cart: %w", err)
	}
	created, err := s.Q.CreateCart(ctx, store.CreateCartParams{ID: store.NewID(), UserID: uid})
	if err == nil {
		return created, nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return s.Q.GetCartByUser(ctx, uid)
	}
	return store.Cart{}, fmt.Errorf("create cart: %w", err)
}

// View returns the cart for userID. An empty userID means the actor's own.
// Only the owner or an admin may look.
func (s *Service) View(ctx context.Context, actor authz.Actor, userID string) (Cart, error) {
	if userID == "" {
		userID = actor.UserID
	}
	if !authz.Allow(actor, authz.OpCartManage, userID) {
		return Cart{}, common.ErrForbidden("cannot access another user's cart")
	}
	c, err := s.EnsureCart(ctx, userID)
	if err != nil {
		return Cart{}, err
	}
	return s.loadCart(ctx, c)
}

// AddItem puts qty units of a product into the actor's cart. Adding a
// product already present merges into the existing line.
func (s *Service) AddItem(ctx context.Context, actor authz.Actor, productID string, qty int32) (Cart, error) {
	if !authz.Allow(actor, authz.OpCartManage, actor.UserID) {
		return Cart{}, common.ErrForbidden("cannot access another user's cart")
	}
	if qty < 1 {
		return Cart{}, common.ErrValidation("quantity must be at least 1")
	}
	pid, err := store.ToUUID(productID)
	if err != nil {
		return Cart{}, common.ErrNotFound("product")
	}
	if _, err := s.Q.GetProductByID(ctx, pid); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Cart{}, common.ErrNotFound("product")
		}
		return Cart{}, fmt.Errorf("get product: %w", err)
	}

	c, err := s.EnsureCart(ctx, actor.UserID)
	if err != nil {
		return Cart{}, err
	}

	existing, err := s.Q.FindCartItemByProduct(ctx, store.FindCartItemByProductParams{
		CartID:    c.ID,
		ProductID: pid,
	})
	switch {
	case err == nil:
		if _, err := s.Q.UpdateCartItemQuantity(ctx, store.UpdateCartItemQuantityParams{
			ID:       existing.ID,
			Quantity: existing.Quantity + qty,
		}); err != nil {
			return Cart{}, fmt.Errorf("merge cart item: %w", err)
		}
	case errors.Is(err, pgx.ErrNoRows):
		if _, err := s.Q.CreateCartItem(ctx, store.CreateCartItemParams{
			ID:        store.NewID(),
			CartID:    c.ID,
			ProductID: pid,
			Quantity:  qty,
		}); err != nil {
			return Cart{}, fmt.Errorf("create cart item: %w", err)
		}
	default:
		return Cart{}, fmt.Errorf("find cart item: %w", err)
	}
	return s.loadCart(ctx, c)
}

// UpdateQuantity sets the quantity of a cart line. Quantities below one are
// rejected; removal goes through RemoveItem.
func (s *Service) UpdateQuantity(ctx context.Context, actor authz.Actor, itemID string, qty int32) (Cart, error) {
	if qty < 1 {
		return Cart{}, common.ErrValidation("quantity must be at least 1")
	}
	item, c, err := s.ownedItem(ctx, actor, itemID)
	if err != nil {
		return Cart{}, err
	}
	if _, err := s.Q.UpdateCartItemQuantity(ctx, store.UpdateCartItemQuantityParams{
		ID:       item.ID,
		Quantity: qty,
	}); err != nil {
		return Cart{}, fmt.Errorf("update cart item: %w", err)
	}
	return s.loadCart(ctx, c)
}

// RemoveItem deletes a cart line.
func (s *Service) RemoveItem(ctx context.Context, actor authz.Actor, itemID string) error {
	item, _, err := s.ownedItem(ctx, actor, itemID)
	if err != nil {
		return err
	}
	if err := s.Q.DeleteCartItem(ctx, item.ID); err != nil {
		return fmt.Errorf("delete cart item: %w", err)
	}
	return nil
}

func (s *Service) ownedItem(ctx context.Context, actor authz.Actor, itemID string) (store.CartItem, store.Cart, error) {
	id, err := store.ToUUID(itemID)
	if err != nil {
		return store.CartItem{}, store.Cart{}, common.ErrNotFound("cart item")
	}
	item, err := s.Q.GetCartItemByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return store.CartItem{}, store.Cart{}, common.ErrNotFound("cart item")
		}
		return store.CartItem{}, store.Cart{}, fmt.Errorf("get cart item: %w", err)
	}
	c, err := s.Q.GetCartByID(ctx, item.CartID)
	if err != nil {
		return store.CartItem{}, store.Cart{}, fmt.Errorf("get cart: %w", err)
	}
	if !authz.Allow(actor, authz.OpCartManage, store.UUIDString(c.UserID)) {
		return store.CartItem{}, store.Cart{}, common.ErrForbidden("cannot access another user's cart")
	}
	return item, c, nil
}

func (s *Service) loadCart(ctx context.Context, c store.Cart) (Cart, error) {
	details, err := s.Q.ListCartItems(ctx, c.ID)
	if err != nil {
		return Cart{}, fmt.Errorf("list cart items: %w", err)
	}
	out := Cart{
		ID:     store.UUIDString(c.ID),
		UserID: store.UUIDString(c.UserID),
		Items:  make([]Item, 0, len(details)),
	}
	for _, d := range details {
		subtotal := int64(d.Quantity) * d.ProductPrice
		out.Items = append(out.Items, Item{
			ID:        store.UUIDString(d.ID),
			ProductID: store.UUIDString(d.ProductID),
			Name:      d.ProductName,
			Price:     d.ProductPrice,
			Quantity:  d.Quantity,
			Subtotal:  subtotal,
		})
		out.TotalAmount += subtotal
	}
	return out, nil
}

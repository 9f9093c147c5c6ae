package wishlist

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

// Service manages per-user wishlists. Adds are idempotent: wishing for a
// product twice leaves a single entry.
type Service struct {
	Q store.Querier
}

// Item is a wishlist entry.
type Item struct {
	ID        string    `json:"id"`
	ProductID string    `json:"product_id"`
	CreatedAt time.Time `json:"created_at"`
}

// Add puts a product on the actor's wishlist.
func (s *Service) Add(ctx context.Context, actor authz.Actor, productID string) (Item, error) {
	if !authz.Allow(actor, authz.OpWishlistManage, actor.UserID) {
		return Item{}, common.ErrForbidden("cannot access another user's wishlist")
	}
	pid, err := store.ToUUID(productID)
	if err != nil {
		return Item{}, common.ErrNotFound("product")
	}
	if _, err := s.Q.GetProductByID(ctx, pid); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Item{}, common.ErrNotFound("product")
		}
		return Item{}, fmt.Errorf("get product: %w", err)
	}
	uid, err := store.ToUUID(actor.UserID)
	if err != nil {
		return Item{}, common.ErrUnauthorized("unauthorized")
	}
	w, err := s.Q.UpsertWishlistItem(ctx, store.UpsertWishlistItemParams{
		ID:        store.NewID(),
		UserID:    uid,
		ProductID: pid,
	})
	if err != nil {
		return Item{}, fmt.Errorf("upsert wishlist item: %w", err)
	}
	return convert(w), nil
}

// List returns the actor's wishlist, newest first.
func (s *Service) List(ctx context.Context, actor authz.Actor) ([]Item, error) {
	uid, err := store.ToUUID(actor.UserID)
	if err != nil {
		return nil, common.ErrUnauthorized("unauthorized")
	}
	rows, err := s.Q.ListWishlistByUser(ctx, uid)
	if err != nil {
		return nil, fmt.Errorf("list wishlist: %w", err)
	}
	out := make([]Item, 0, len(rows))
	for _, w := range rows {
		out = append(out, convert(w))
	}
	return out, nil
}

// Remove deletes a wishlist entry owned by the actor.
func (s *Service) Remove(ctx context.Context, actor authz.Actor, itemID string) error {
	id, err := store.ToUUID(itemID)
	if err != nil {
		return common.ErrNotFound("wishlist item")
	}
	w, err := s.Q.GetWishlistItemByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return common.ErrNotFound("wishlist item")
		}
		return fmt.Errorf("get wishlist item: %w", err)
	}
	if !authz.Allow(actor, authz.OpWishlistManage, store.UUIDString(w.UserID)) {
		return common.ErrForbidden("cannot access another user's wishlist")
	}
	if err := s.Q.DeleteWishlistItem(ctx, w.ID); err != nil {
		return fmt.Errorf("delete wishlist item: %w", err)
	}
	return nil
}

func convert(w store.WishlistItem) Item {
	return Item{
		ID:        store.UUIDString(w.ID),
		ProductID: store.UUIDString(w.ProductID),
		CreatedAt: w.CreatedAt.Time,
	}
}

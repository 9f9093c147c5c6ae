package reviews

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

// Service manages product reviews.
type Service struct {
	Q store.Querier
	// RequirePurchase gates review creation on the reviewer having ordered
	// the product at least once.
	RequirePurchase bool
}

// Review is a customer rating with an optional comment.
type Review struct {
	ID        string    `json:"id"`
	ProductID string    `json:"product_id"`
	UserID    string    `json:"user_id"`
	Rating    int32     `json:"rating"`
	Comment   string    `json:"comment,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Create records a review. Ratings run 1 through 5.
func (s *Service) Create(ctx context.Context, actor authz.Actor, productID string, rating int32, comment string) (Review, error) {
	if !authz.Allow(actor, authz.OpReviewCreate, "") {
		return Review{}, common.ErrForbidden("not allowed to review products")
	}
	if rating < 1 || rating > 5 {
		return Review{}, common.ErrValidation("rating must be between 1 and 5")
	}
	pid, err := store.ToUUID(productID)
	if err != nil {
		return Review{}, common.ErrNotFound("product")
	}
	if _, err := s.Q.GetProductByID(ctx, pid); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Review{}, common.ErrNotFound("product")
		}
		return Review{}, fmt.Errorf("get product: %w", err)
	}
	uid, err := store.ToUUID(actor.UserID)
	if err != nil {
		return Review{}, common.ErrUnauthorized("unauthorized")
	}
	if s.RequirePurchase {
		bought, err := s.Q.HasUserPurchasedProduct(ctx, store.HasUserPurchasedProductParams{
			UserID:    uid,
			ProductID: pid,
		})
		if err != nil {
			return Review{}, fmt.Errorf("check purchase: %w", err)
		}
		if !bought {
			return Review{}, common.ErrInvalidState("only buyers can review this product")
		}
	}
	created, err := s.Q.CreateReview(ctx, store.CreateReviewParams{
		ID:        store.NewID(),
		ProductID: pid,
		UserID:    uid,
		Rating:    rating,
		Comment:   store.TextOrNull(comment),
	})
	if err != nil {
		return Review{}, fmt.Errorf("create review: %w", err)
	}
	return convert(created), nil
}

// ListByProduct returns all reviews for a product, newest first. Public.
func (s *Service) ListByProduct(ctx context.Context, productID string) ([]Review, error) {
	pid, err := store.ToUUID(productID)
	if err != nil {
		return nil, common.ErrNotFound("product")
	}
	if _, err := s.Q.GetProductByID(ctx, pid); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, common.ErrNotFound("product")
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	rows, err := s.Q.ListReviewsByProduct(ctx, pid)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	out := make([]Review, 0, len(rows))
	for _, r := range rows {
		out = append(out, convert(r))
	}
	return out, nil
}

// Delete removes a review. The author or an admin.
func (s *Service) Delete(ctx context.Context, actor authz.Actor, reviewID string) error {
	id, err := store.ToUUID(reviewID)
	if err != nil {
		return common.ErrNotFound("review")
	}
	r, err := s.Q.GetReviewByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return common.ErrNotFound("review")
		}
		return fmt.Errorf("get review: %w", err)
	}
	if !authz.Allow(actor, authz.OpReviewDelete, store.UUIDString(r.UserID)) {
		return common.ErrForbidden("cannot delete another user's review")
	}
	if err := s.Q.DeleteReview(ctx, r.ID); err != nil {
		return fmt.Errorf("delete review: %w", err)
	}
	return nil
}

func convert(r store.Review) Review {
	return Review{
		ID:        store.UUIDString(r.ID),
		ProductID: store.UUIDString(r.ProductID),
		UserID:    store.UUIDString(r.UserID),
		Rating:    r.Rating,
		Comment:   store.TextValue(r.Comment),
		CreatedAt: r.CreatedAt.Time,
	}
}

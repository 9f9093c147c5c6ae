package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/rs/zerolog"

	"github.com/vardanhq/vardan-api/internal/authz"
	"github.com/vardanhq/vardan-api/internal/common"
	"github.com/vardanhq/vardan-api/internal/store"
)

const defaultMaxLimit = 100

// Service orchestrates category and product management plus public reads.
type Service struct {
	Q        store.Querier
	Cache    *Cache
	Log      zerolog.Logger
	MaxLimit int
}

// Category is the public category payload.
type Category struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// Product is the public product payload. Price is in minor currency units.
type Product struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Price       int64     `json:"price"`
	Stock       int32     `json:"stock"`
	CategoryID  string    `json:"category_id"`
	SellerID    string    `json:"seller_id,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// CategoryParams carries category fields for create and partial update.
type CategoryParams struct {
	Name        *string
	Description *string
}

// ProductParams carries product fields for create and partial update.
type ProductParams struct {
	Name        *string
	Description *string
	Price       *int64
	Stock       *int32
	CategoryID  *string
}

// ListParams filters public product listings.
type ListParams struct {
	CategoryID string
	Page       int
	PerPage    int
}

func (s *Service) maxLimit() int {
	if s.MaxLimit > 0 {
		return s.MaxLimit
	}
	return defaultMaxLimit
}

// ListCategories returns all categories, cached.
func (s *Service) ListCategories(ctx context.Context) ([]Category, error) {
	var cached []Category
	if ok, err := s.Cache.GetJSON(ctx, "categories", &cached); err == nil && ok {
		return cached, nil
	}
	rows, err := s.Q.ListCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	out := make([]Category, 0, len(rows))
	for _, c := range rows {
		out = append(out, convertCategory(c))
	}
	if err := s.Cache.SetJSON(ctx, "categories", out); err != nil {
		s.Log.Warn().Err(err).Msg("cache categories")
	}
	return out, nil
}

// GetCategory returns one category by id.
func (s *Service) GetCategory(ctx context.Context, id string) (Category, error) {
	c, err := s.mustCategory(ctx, id)
	if err != nil {
		return Category{}, err
	}
	return convertCategory(c), nil
}

// CreateCategory creates a category. Seller or admin.
func (s *Service) CreateCategory(ctx context.Context, actor authz.Actor, params CategoryParams) (Category, error) {
	if !authz.Allow(actor, authz.OpCategoryCreate, "") {
		return Category{}, common.ErrForbidden("seller or admin required")
	}
	name := valueOf(params.Name)
	if name == "" {
		return Category{}, common.ErrValidation("name is required")
	}
	created, err := s.Q.CreateCategory(ctx, store.CreateCategoryParams{
		ID:          store.NewID(),
		Name:        name,
		Description: store.TextOrNull(valueOf(params.Description)),
	})
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return Category{}, common.ErrConflict("CONFLICT", "category name already exists", err)
		}
		return Category{}, fmt.Errorf("create category: %w", err)
	}
	s.bustCache(ctx)
	return convertCategory(created), nil
}

// UpdateCategory applies a partial update. Seller or admin.
func (s *Service) UpdateCategory(ctx context.Context, actor authz.Actor, id string, params CategoryParams) (Category, error) {
	if !authz.Allow(actor, authz.OpCategoryUpdate, "") {
		return Category{}, common.ErrForbidden("seller or admin required")
	}
	existing, err := s.mustCategory(ctx, id)
	if err != nil {
		return Category{}, err
	}
	updated, err := s.Q.UpdateCategory(ctx, store.UpdateCategoryParams{
		ID:          existing.ID,
		Name:        optionalText(params.Name),
		Description: optionalText(params.Description),
	})
	if err != nil {
		return Category{}, fmt.Errorf("update category: %w", err)
	}
	s.bustCache(ctx)
	return convertCategory(updated), nil
}

// DeleteCategory removes a category. Admin only, and blocked while any
// product still references it.
func (s *Service) DeleteCategory(ctx context.Context, actor authz.Actor, id string) error {
	if !authz.Allow(actor, authz.OpCategoryDelete, "") {
		return common.ErrForbidden("admin only")
	}
	existing, err := s.mustCategory(ctx, id)
	if err != nil {
		return err
	}
	n, err := s.Q.CountProductsInCategory(ctx, existing.ID)
	if err != nil {
		return fmt.Errorf("count products in category: %w", err)
	}
	if n > 0 {
		return common.ErrConflict("CONFLICT", "category still has products", nil)
	}
	if err := s.Q.DeleteCategory(ctx, existing.ID); err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	s.bustCache(ctx)
	return nil
}

// ListProducts returns a page of products, optionally filtered by category.
// Public, cached.
func (s *Service) ListProducts(ctx context.Context, params ListParams) ([]Product, int64, error) {
	if params.Page < 1 {
		params.Page = 1
	}
	if params.PerPage < 1 {
		params.PerPage = 20
	}
	if params.PerPage > s.maxLimit() {
		params.PerPage = s.maxLimit()
	}

	var categoryID pgtype.UUID
	if params.CategoryID != "" {
		parsed, err := store.ToUUID(params.CategoryID)
		if err != nil {
			return nil, 0, common.ErrValidation("invalid category id")
		}
		categoryID = parsed
	}

	cacheKey := fmt.Sprintf("products:%s:%d:%d", params.CategoryID, params.Page, params.PerPage)
	var cached struct {
		Items []Product `json:"items"`
		Total int64     `json:"total"`
	}
	if ok, err := s.Cache.GetJSON(ctx, cacheKey, &cached); err == nil && ok {
		return cached.Items, cached.Total, nil
	}

	rows, err := s.Q.ListProducts(ctx, store.ListProductsParams{
		CategoryID: categoryID,
		Limit:      int32(params.PerPage),
		Offset:     int32((params.Page - 1) * params.PerPage),
	})
	if err != nil {
		return nil, 0, fmt.Errorf("list products: %w", err)
	}
	total, err := s.Q.CountProducts(ctx, categoryID)
	if err != nil {
		return nil, 0, fmt.Errorf("count products: %w", err)
	}

	out := make([]Product, 0, len(rows))
	for _, p := range rows {
		out = append(out, convertProduct(p))
	}
	cached.Items = out
	cached.Total = total
	if err := s.Cache.SetJSON(ctx, cacheKey, cached); err != nil {
		s.Log.Warn().Err(err).Msg("cache products")
	}
	return out, total, nil
}

// GetProduct returns one product by id. Public.
func (s *Service) GetProduct(ctx context.Context, id string) (Product, error) {
	p, err := s.mustProduct(ctx, id)
	if err != nil {
		return Product{}, err
	}
	return convertProduct(p), nil
}

// ListSellerProducts returns the actor's own products.
func (s *Service) ListSellerProducts(ctx context.Context, actor authz.Actor, page, perPage int) ([]Product, error) {
	if actor.Role != authz.RoleSeller && actor.Role != authz.RoleAdmin {
		return nil, common.ErrForbidden("seller or admin required")
	}
	sellerID, err := store.ToUUID(actor.UserID)
	if err != nil {
		return nil, common.ErrUnauthorized("unauthorized")
	}
	rows, err := s.Q.ListProductsBySeller(ctx, store.ListProductsBySellerParams{
		SellerID: sellerID,
		Limit:    int32(perPage),
		Offset:   int32((page - 1) * perPage),
	})
	if err != nil {
		return nil, fmt.Errorf("list seller products: %w", err)
	}
	out := make([]Product, 0, len(rows))
	for _, p := range rows {
		out = append(out, convertProduct(p))
	}
	return out, nil
}

// CreateProduct creates a product. Any authenticated user may create one;
// only products created by a seller carry that seller's id.
func (s *Service) CreateProduct(ctx context.Context, actor authz.Actor, params ProductParams) (Product, error) {
	if !authz.Allow(actor, authz.OpProductCreate, "") {
		return Product{}, common.ErrForbidden("authentication required")
	}
	name := valueOf(params.Name)
	if name == "" {
		return Product{}, common.ErrValidation("name is required")
	}
	if params.Price == nil || *params.Price < 0 {
		return Product{}, common.ErrValidation("price must be zero or positive")
	}
	if params.Stock != nil && *params.Stock < 0 {
		return Product{}, common.ErrValidation("stock must be zero or positive")
	}
	if params.CategoryID == nil {
		return Product{}, common.ErrValidation("category_id is required")
	}
	category, err := s.mustCategory(ctx, *params.CategoryID)
	if err != nil {
		return Product{}, err
	}

	var sellerID pgtype.UUID
	if actor.Role == authz.RoleSeller {
		sellerID, err = store.ToUUID(actor.UserID)
		if err != nil {
			return Product{}, common.ErrUnauthorized("unauthorized")
		}
	}

	var stock int32
	if params.Stock != nil {
		stock = *params.Stock
	}
	created, err := s.Q.CreateProduct(ctx, store.CreateProductParams{
		ID:          store.NewID(),
		Name:        name,
		Description: store.TextOrNull(valueOf(params.Description)),
		Price:       *params.Price,
		Stock:       stock,
		CategoryID:  category.ID,
		SellerID:    sellerID,
	})
	if err != nil {
		return Product{}, fmt.Errorf("create product: %w", err)
	}
	s.bustCache(ctx)
	return convertProduct(created), nil
}

// UpdateProduct applies a partial update. Owning seller or admin; anyone
// else gets a non-disclosing not-found.
func (s *Service) UpdateProduct(ctx context.Context, actor authz.Actor, id string, params ProductParams) (Product, error) {
	existing, err := s.ownedProduct(ctx, actor, id)
	if err != nil {
		return Product{}, err
	}
	if params.Price != nil && *params.Price < 0 {
		return Product{}, common.ErrValidation("price must be zero or positive")
	}
	if params.Stock != nil && *params.Stock < 0 {
		return Product{}, common.ErrValidation("stock must be zero or positive")
	}

	var categoryID pgtype.UUID
	if params.CategoryID != nil {
		category, err := s.mustCategory(ctx, *params.CategoryID)
		if err != nil {
			return Product{}, err
		}
		categoryID = category.ID
	}

	updated, err := s.Q.UpdateProduct(ctx, store.UpdateProductParams{
		ID:          existing.ID,
		Name:        optionalText(params.Name),
		Description: optionalText(params.Description),
		Price:       optionalInt8(params.Price),
		Stock:       optionalInt4(params.Stock),
		CategoryID:  categoryID,
	})
	if err != nil {
		return Product{}, fmt.Errorf("update product: %w", err)
	}
	s.bustCache(ctx)
	return convertProduct(updated), nil
}

// DeleteProduct removes a product. Owning seller or admin; anyone else
// gets a non-disclosing not-found.
func (s *Service) DeleteProduct(ctx context.Context, actor authz.Actor, id string) error {
	existing, err := s.ownedProduct(ctx, actor, id)
	if err != nil {
		return err
	}
	if err := s.Q.DeleteProduct(ctx, existing.ID); err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	s.bustCache(ctx)
	return nil
}

// ownedProduct loads a product and enforces the modify policy. A denied
// actor receives the same not-found as a missing row so product existence
// is not disclosed.
func (s *Service) ownedProduct(ctx context.Context, actor authz.Actor, id string) (store.Product, error) {
	p, err := s.mustProduct(ctx, id)
	if err != nil {
		return store.Product{}, err
	}
	if !authz.Allow(actor, authz.OpProductUpdate, store.UUIDString(p.SellerID)) {
		return store.Product{}, common.ErrNotFound("product")
	}
	return p, nil
}

func (s *Service) mustCategory(ctx context.Context, id string) (store.Category, error) {
	parsed, err := store.ToUUID(id)
	if err != nil {
		return store.Category{}, common.ErrNotFound("category")
	}
	c, err := s.Q.GetCategoryByID(ctx, parsed)
	if errors.Is(err, pgx.ErrNoRows) {
		return store.Category{}, common.ErrNotFound("category")
	}
	if err != nil {
		return store.Category{}, fmt.Errorf("get category: %w", err)
	}
	return c, nil
}

func (s *Service) mustProduct(ctx context.Context, id string) (store.Product, error) {
	parsed, err := store.ToUUID(id)
	if err != nil {
		return store.Product{}, common.ErrNotFound("product")
	}
	p, err := s.Q.GetProductByID(ctx, parsed)
	if errors.Is(err, pgx.ErrNoRows) {
		return store.Product{}, common.ErrNotFound("product")
	}
	if err != nil {
		return store.Product{}, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}

func (s *Service) bustCache(ctx context.Context) {
	if err := s.Cache.Invalidate(ctx); err != nil {
		s.Log.Warn().Err(err).Msg("invalidate catalog cache")
	}
}

func convertCategory(c store.Category) Category {
	return Category{
		ID:          store.UUIDString(c.ID),
		Name:        c.Name,
		Description: store.TextValue(c.Description),
	}
}

func convertProduct(p store.Product) Product {
	return Product{
		ID:          store.UUIDString(p.ID),
		Name:        p.Name,
		Description: store.TextValue(p.Description),
		Price:       p.Price,
		Stock:       p.Stock,
		CategoryID:  store.UUIDString(p.CategoryID),
		SellerID:    store.UUIDString(p.SellerID),
		CreatedAt:   p.CreatedAt.Time,
	}
}

func optionalText(v *string) pgtype.Text {
	if v == nil {
		return pgtype.Text{}
	}
	return pgtype.Text{String: strings.TrimSpace(*v), Valid: true}
}

func optionalInt8(v *int64) pgtype.Int8 {
	if v == nil {
		return pgtype.Int8{}
	}
	return pgtype.Int8{Int64: *v, Valid: true}
}

func optionalInt4(v *int32) pgtype.Int4 {
	if v == nil {
		return pgtype.Int4{}
	}
	return pgtype.Int4{Int32: *v, Valid: true}
}

func valueOf(v *string) string {
	if v == nil {
		return ""
	}
	return strings.TrimSpace(*v)
}

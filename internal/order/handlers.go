package order

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/vardanhq/vardan-api/internal/common"
	"github.com/vardanhq/vardan-api/internal/user"
)

// Handler exposes order history endpoints.
type Handler struct {
	Service *Service
}

// List handles GET /orders/.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	actor, ok := user.ActorFrom(r)
	if !ok {
		common.JSONError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing or invalid token", nil)
		return
	}
	page, perPage := common.ParsePagination(r, 20)
	orders, total, err := h.Service.ListMine(r.Context(), actor, page, perPage)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{
		"data": orders,
		"meta": map[string]any{"page": page, "per_page": perPage, "total": total},
	})
}

// ListAll handles GET /admin/orders/.
func (h *Handler) ListAll(w http.ResponseWriter, r *http.Request) {
	actor, ok := user.ActorFrom(r)
	if !ok {
		common.JSONError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing or invalid token", nil)
		return
	}
	page, perPage := common.ParsePagination(r, 20)
	orders, total, err := h.Service.ListAll(r.Context(), actor, page, perPage)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{
		"data": orders,
		"meta": map[string]any{"page": page, "per_page": perPage, "total": total},
	})
}

// Get handles GET /orders/detail/{id}.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	actor, ok := user.ActorFrom(r)
	if !ok {
		common.JSONError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing or invalid token", nil)
		return
	}
	detail, err := h.Service.Get(r.Context(), actor, chi.URLParam(r, "id"))
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": detail})
}

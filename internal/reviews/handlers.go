package reviews

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/vardanhq/vardan-api/internal/common"
	"github.com/vardanhq/vardan-api/internal/user"
)

// Handler exposes review endpoints.
type Handler struct {
	Service *Service
}

type createRequest struct {
	ProductID string `json:"product_id" validate:"required,uuid"`
	Rating    int32  `json:"rating" validate:"required,gte=1,lte=5"`
	Comment   string `json:"comment"`
}

// Create handles POST /reviews/.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	actor, ok := user.ActorFrom(r)
	if !ok {
		common.JSONError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing or invalid token", nil)
		return
	}
	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid request payload", nil)
		return
	}
	if err := common.Validate(req); err != nil {
		common.WriteError(w, err)
		return
	}
	review, err := h.Service.Create(r.Context(), actor, req.ProductID, req.Rating, req.Comment)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.JSON(w, http.StatusCreated, map[string]any{"data": review})
}

// ListByProduct handles GET /reviews/{productId}.
func (h *Handler) ListByProduct(w http.ResponseWriter, r *http.Request) {
	list, err := h.Service.ListByProduct(r.Context(), chi.URLParam(r, "productId"))
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": list})
}

// Delete handles DELETE /reviews/{id}.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	actor, ok := user.ActorFrom(r)
	if !ok {
		common.JSONError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing or invalid token", nil)
		return
	}
	if err := h.Service.Delete(r.Context(), actor, chi.URLParam(r, "id")); err != nil {
		common.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

package checkout

import (
	"encoding/json"
	"net/http"

	"github.com/vardanhq/vardan-api/internal/common"
	"github.com/vardanhq/vardan-api/internal/user"
)

// Handler exposes order placement.
type Handler struct {
	Service *Service
}

// PlaceOrder handles POST /orders/. Clients may send an Idempotency-Key
// header; the surrounding middleware rejects replays.
func (h *Handler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	actor, ok := user.ActorFrom(r)
	if !ok {
		common.JSONError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing or invalid token", nil)
		return
	}
	var in Input
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid request payload", nil)
			return
		}
	}
	if err := common.Validate(in); err != nil {
		common.WriteError(w, err)
		return
	}
	out, err := h.Service.PlaceOrder(r.Context(), actor, in)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.JSON(w, http.StatusCreated, map[string]any{"data": out})
}

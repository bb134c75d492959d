package push

import (
	"context"
	"net/http"

	"github.com/frahmantamala/staff-requests/internal"
	"github.com/frahmantamala/staff-requests/internal/transport"
)

type ServiceAPI interface {
	VAPIDPublicKey() string
	Save(ctx context.Context, actor internal.Actor, dto SubscribeDTO) error
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(base *transport.BaseHandler, svc ServiceAPI) *Handler {
	return &Handler{BaseHandler: base, Service: svc}
}

// GetVAPIDPublicKey handles GET /push/vapid-public-key
func (h *Handler) GetVAPIDPublicKey(w http.ResponseWriter, r *http.Request) {
	h.WriteJSON(w, http.StatusOK, map[string]string{"public_key": h.Service.VAPIDPublicKey()})
}

// Subscribe handles POST /push/subscriptions
func (h *Handler) Subscribe(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.ActorOrUnauthorized(w, r)
	if !ok {
		return
	}
	var dto SubscribeDTO
	if !h.DecodeJSON(w, r, &dto) {
		return
	}
	if err := h.Service.Save(r.Context(), actor, dto); err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusCreated, map[string]bool{"success": true})
}

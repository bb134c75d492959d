package servicerequest

import (
	"context"
	"net/http"

	"github.com/frahmantamala/staff-requests/internal"
	"github.com/frahmantamala/staff-requests/internal/core/events"
	"github.com/frahmantamala/staff-requests/internal/transport"
)

type ServiceAPI interface {
	Create(ctx context.Context, actor internal.Actor, dto CreateServiceRequestDTO) (*ServiceRequest, []events.Event, error)
	CreateExternal(ctx context.Context, dto ExternalServiceRequestDTO) (*ServiceRequest, []events.Event, error)
	Decide(ctx context.Context, actor internal.Actor, id int64, dto DecisionDTO) (*ServiceRequest, []events.Event, error)
	ListMine(ctx context.Context, actor internal.Actor) ([]*ServiceRequest, error)
	ListAll(ctx context.Context, actor internal.Actor) ([]*ServiceRequest, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(base *transport.BaseHandler, svc ServiceAPI) *Handler {
	return &Handler{BaseHandler: base, Service: svc}
}

// Create handles POST /service-requests
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.ActorOrUnauthorized(w, r)
	if !ok {
		return
	}
	var dto CreateServiceRequestDTO
	if !h.DecodeJSON(w, r, &dto) {
		return
	}
	req, evts, err := h.Service.Create(r.Context(), actor, dto)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.Publish(r.Context(), evts)
	h.WriteJSON(w, http.StatusCreated, req)
}

// Decide handles PATCH /service-requests/{id}/status
func (h *Handler) Decide(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.ActorOrUnauthorized(w, r)
	if !ok {
		return
	}
	id, ok := h.PathID(w, r)
	if !ok {
		return
	}
	var dto DecisionDTO
	if !h.DecodeJSON(w, r, &dto) {
		return
	}
	req, evts, err := h.Service.Decide(r.Context(), actor, id, dto)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.Publish(r.Context(), evts)
	h.WriteJSON(w, http.StatusOK, req)
}

// ListMine handles GET /service-requests/mine
func (h *Handler) ListMine(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.ActorOrUnauthorized(w, r)
	if !ok {
		return
	}
	items, err := h.Service.ListMine(r.Context(), actor)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, items)
}

// ListAll handles GET /service-requests
func (h *Handler) ListAll(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.ActorOrUnauthorized(w, r)
	if !ok {
		return
	}
	items, err := h.Service.ListAll(r.Context(), actor)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, items)
}

// CreateExternal handles POST /external/service-requests. The caller is
// authenticated by the shared secret in the body, not by a bearer token.
func (h *Handler) CreateExternal(w http.ResponseWriter, r *http.Request) {
	var dto ExternalServiceRequestDTO
	if !h.DecodeJSON(w, r, &dto) {
		return
	}
	req, evts, err := h.Service.CreateExternal(r.Context(), dto)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.Publish(r.Context(), evts)
	h.WriteJSON(w, http.StatusCreated, map[string]interface{}{"success": true, "request_id": req.ID})
}

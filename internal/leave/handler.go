package leave

import (
	"context"
	"net/http"

	"github.com/frahmantamala/staff-requests/internal"
	"github.com/frahmantamala/staff-requests/internal/core/events"
	"github.com/frahmantamala/staff-requests/internal/transport"
)

type ServiceAPI interface {
	Create(ctx context.Context, actor internal.Actor, dto CreateLeaveDTO) (*LeaveRequest, []events.Event, error)
	Decide(ctx context.Context, actor internal.Actor, id int64, dto DecisionDTO) (*LeaveRequest, []events.Event, error)
	ListMine(ctx context.Context, actor internal.Actor) ([]*LeaveRequest, error)
	ListAll(ctx context.Context, actor internal.Actor) ([]*LeaveRequest, error)
	MyBalances(ctx context.Context, actor internal.Actor) (Balances, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(base *transport.BaseHandler, svc ServiceAPI) *Handler {
	return &Handler{BaseHandler: base, Service: svc}
}

// Create handles POST /leave-requests
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.ActorOrUnauthorized(w, r)
	if !ok {
		return
	}
	var dto CreateLeaveDTO
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

// Decide handles PATCH /leave-requests/{id}/status
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

// ListMine handles GET /leave-requests/mine
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

// ListAll handles GET /leave-requests
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

// MyBalances handles GET /leave-requests/balances
func (h *Handler) MyBalances(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.ActorOrUnauthorized(w, r)
	if !ok {
		return
	}
	balances, err := h.Service.MyBalances(r.Context(), actor)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, balances)
}

package dashboard

import (
	"context"
	"net/http"

	"github.com/frahmantamala/staff-requests/internal"
	"github.com/frahmantamala/staff-requests/internal/transport"
)

type ServiceAPI interface {
	HRSummary(ctx context.Context, actor internal.Actor) (*HRSummary, error)
	MyRequests(ctx context.Context, actor internal.Actor) (*MyRequests, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(base *transport.BaseHandler, svc ServiceAPI) *Handler {
	return &Handler{BaseHandler: base, Service: svc}
}

// HRSummary handles GET /dashboard/hr-summary
func (h *Handler) HRSummary(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.ActorOrUnauthorized(w, r)
	if !ok {
		return
	}
	summary, err := h.Service.HRSummary(r.Context(), actor)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, summary)
}

// MyRequests handles GET /dashboard/my-requests
func (h *Handler) MyRequests(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.ActorOrUnauthorized(w, r)
	if !ok {
		return
	}
	mine, err := h.Service.MyRequests(r.Context(), actor)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, mine)
}

package transport

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/frahmantamala/staff-requests/internal"
	"github.com/frahmantamala/staff-requests/internal/core/events"
	"github.com/frahmantamala/staff-requests/pkg/logger"
	"github.com/go-chi/chi"
)

// BaseHandler provides common functionality for HTTP handlers
type BaseHandler struct {
	Logger    *slog.Logger
	Publisher events.Publisher
}

// NewBaseHandler creates a base handler with logger
func NewBaseHandler(lg *slog.Logger, publisher events.Publisher) *BaseHandler {
	if lg == nil {
		lg = logger.LoggerWrapper()
		if lg == nil {
			lg = slog.Default()
		}
	}
	return &BaseHandler{Logger: lg, Publisher: publisher}
}

// WriteJSON writes a JSON response
func (h *BaseHandler) WriteJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.Logger.Error("failed to encode JSON response", "error", err)
	}
}

// WriteError writes an error response
func (h *BaseHandler) WriteError(w http.ResponseWriter, status int, message string) {
	h.Logger.Error("http error", "status", status, "message", message)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	errorResp := map[string]interface{}{
		"code":    status,
		"message": message,
	}

	if err := json.NewEncoder(w).Encode(errorResp); err != nil {
		h.Logger.Error("failed to encode error response", "error", err)
	}
}

// HandleServiceError maps service errors onto the response. Validation and
// business-rule reasons go out verbatim; anything unknown is a bare 500.
func (h *BaseHandler) HandleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	appErr, ok := internal.IsAppError(err)
	if !ok {
		logger.From(r.Context()).Error("unhandled service error", "error", err, "path", r.URL.Path)
		h.WriteJSON(w, http.StatusInternalServerError, internal.Response{
			Error: internal.NewInternalError("internal server error", nil),
		})
		return
	}

	switch {
	case appErr.StatusCode >= 500:
		logger.From(r.Context()).Error("service error", "error", appErr, "code", appErr.Code, "path", r.URL.Path)
		h.WriteJSON(w, appErr.StatusCode, internal.Response{
			Error: internal.NewInternalError("internal server error", nil),
		})
		return
	case appErr.Type == internal.ErrorTypeForbidden:
		logger.From(r.Context()).Warn("forbidden", "code", appErr.Code, "path", r.URL.Path)
	default:
		logger.From(r.Context()).Warn("request rejected", "type", appErr.Type, "code", appErr.Code, "message", appErr.GetDetailedMessage())
	}

	status, body := appErr.ToHTTPResponse()
	h.WriteJSON(w, status, body)
}

// DecodeJSON reads the request body into dst and answers 400 on failure.
func (h *BaseHandler) DecodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		h.HandleServiceError(w, r, internal.NewValidationError("invalid request body", internal.ErrCodeValidationFailed))
		return false
	}
	return true
}

// ActorOrUnauthorized pulls the authenticated actor or writes a 401.
func (h *BaseHandler) ActorOrUnauthorized(w http.ResponseWriter, r *http.Request) (internal.Actor, bool) {
	actor, ok := internal.ActorFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return internal.Actor{}, false
	}
	return actor, true
}

// PathID parses the {id} URL parameter.
func (h *BaseHandler) PathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		h.HandleServiceError(w, r, internal.NewValidationError("invalid id", internal.ErrCodeValidationFailed))
		return 0, false
	}
	return id, true
}

// Publish hands post-commit events to the bus. It must only be called once
// the service call has succeeded.
func (h *BaseHandler) Publish(ctx context.Context, evts []events.Event) {
	if h.Publisher == nil || len(evts) == 0 {
		return
	}
	h.Publisher.PublishAll(ctx, evts)
}

// ExtractTokenFromHeader extracts Bearer token from Authorization header
func (h *BaseHandler) ExtractTokenFromHeader(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}

	if len(authHeader) < 7 || authHeader[:7] != "Bearer " {
		return ""
	}

	return authHeader[7:]
}

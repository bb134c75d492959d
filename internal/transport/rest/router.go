package rest

import (
	"net/http"

	"github.com/go-chi/chi"
	chiMiddleware "github.com/go-chi/chi/middleware"

	"github.com/frahmantamala/staff-requests/internal/advance"
	"github.com/frahmantamala/staff-requests/internal/auth"
	"github.com/frahmantamala/staff-requests/internal/dashboard"
	"github.com/frahmantamala/staff-requests/internal/leave"
	"github.com/frahmantamala/staff-requests/internal/notification"
	"github.com/frahmantamala/staff-requests/internal/push"
	"github.com/frahmantamala/staff-requests/internal/servicerequest"
	"github.com/frahmantamala/staff-requests/internal/transport/middleware"
	"github.com/frahmantamala/staff-requests/internal/transport/swagger"
	"github.com/frahmantamala/staff-requests/internal/user"
)

// Handlers groups everything the router mounts. A nil handler leaves its
// routes out.
type Handlers struct {
	Health         *HealthHandler
	Auth           *auth.Handler
	RBAC           *auth.RoleAuthorization
	User           *user.Handler
	Advance        *advance.Handler
	Leave          *leave.Handler
	ServiceRequest *servicerequest.Handler
	Notification   *notification.Handler
	Push           *push.Handler
	Dashboard      *dashboard.Handler
}

type RouterOptions struct {
	AllowedOrigins []string
	OpenAPIPath    string
}

func RegisterAllRoutes(router chi.Router, h Handlers, opts RouterOptions) {
	router.Use(chiMiddleware.RequestID)
	router.Use(middleware.RequestID)
	router.Use(middleware.RecoveryMiddleware)
	router.Use(middleware.LoggingMiddleware)
	router.Use(middleware.CORS(opts.AllowedOrigins))

	if opts.OpenAPIPath != "" {
		router.Get("/openapi.yml", func(w http.ResponseWriter, r *http.Request) {
			http.ServeFile(w, r, opts.OpenAPIPath)
		})
		router.Handle("/swagger/*", swagger.Handler())
	}

	router.Route("/api/v1", func(r chi.Router) {
		if h.Health != nil {
			r.Get("/health", h.Health.Health)
			r.Get("/ping", h.Health.Ping)
		}

		if h.Auth != nil {
			r.Route("/auth", func(ar chi.Router) {
				ar.Post("/login", h.Auth.Login)
				ar.Post("/refresh", h.Auth.RefreshToken)
			})
		}

		// shared-secret channel used by the WhatsApp bot
		if h.ServiceRequest != nil {
			r.Post("/external/service-requests", h.ServiceRequest.CreateExternal)
		}

		if h.Auth == nil {
			return
		}

		r.Group(func(pr chi.Router) {
			pr.Use(h.Auth.AuthMiddleware)

			if h.User != nil {
				pr.Get("/users/me", h.User.Me)
				pr.Patch("/users/me", h.User.UpdateProfile)
				pr.Post("/users/me/password", h.User.ChangePassword)
			}
			if h.Advance != nil {
				pr.Get("/advance-requests/mine", h.Advance.ListMine)
				pr.Post("/advance-requests", h.Advance.Create)
			}
			if h.Leave != nil {
				pr.Get("/leave-requests/mine", h.Leave.ListMine)
				pr.Get("/leave-requests/balances", h.Leave.MyBalances)
				pr.Post("/leave-requests", h.Leave.Create)
			}
			if h.ServiceRequest != nil {
				pr.Get("/service-requests/mine", h.ServiceRequest.ListMine)
				pr.Post("/service-requests", h.ServiceRequest.Create)
			}
			if h.Notification != nil {
				pr.Route("/notifications", func(nr chi.Router) {
					nr.Get("/", h.Notification.List)
					nr.Get("/unread-count", h.Notification.UnreadCount)
					nr.Patch("/{id}/read", h.Notification.MarkRead)
					nr.Patch("/{id}/dismiss", h.Notification.Dismiss)
					nr.Post("/read-all", h.Notification.MarkAllRead)
				})
			}
			if h.Push != nil {
				pr.Get("/push/vapid-public-key", h.Push.GetVAPIDPublicKey)
				pr.Post("/push/subscriptions", h.Push.Subscribe)
			}
			if h.Dashboard != nil {
				pr.Get("/dashboard/my-requests", h.Dashboard.MyRequests)
			}

			if h.RBAC == nil {
				return
			}
			pr.Group(func(hr chi.Router) {
				hr.Use(h.RBAC.RequireHR)

				if h.Advance != nil {
					hr.Get("/advance-requests", h.Advance.ListAll)
					hr.Patch("/advance-requests/{id}/status", h.Advance.Decide)
				}
				if h.Leave != nil {
					hr.Get("/leave-requests", h.Leave.ListAll)
					hr.Patch("/leave-requests/{id}/status", h.Leave.Decide)
				}
				if h.ServiceRequest != nil {
					hr.Get("/service-requests", h.ServiceRequest.ListAll)
					hr.Patch("/service-requests/{id}/status", h.ServiceRequest.Decide)
				}
				if h.User != nil {
					hr.Get("/users", h.User.ListUsers)
					hr.Post("/users", h.User.CreateCollaborator)
					hr.Patch("/users/{id}/deactivate", h.User.Deactivate)
					hr.Patch("/users/{id}/reactivate", h.User.Reactivate)
				}
				if h.Dashboard != nil {
					hr.Get("/dashboard/hr-summary", h.Dashboard.HRSummary)
				}
			})
		})
	})
}

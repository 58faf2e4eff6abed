// Package router assembles the HTTP routes of the API.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/swaps/swaps-go/internal/handler"
	"github.com/swaps/swaps-go/internal/middleware"
	"github.com/swaps/swaps-go/internal/model"
)

// Deps carries everything the routes need.
type Deps struct {
	JWTSecret   string
	CORSOrigins []string

	Auth     *handler.AuthHandler
	Swaps    *handler.SwapHandler
	Messages *handler.MessageHandler
	Users    *handler.UserHandler
}

// New returns the API router.
func New(d Deps) http.Handler {
	r := chi.NewRouter()
	// RemoteAddr is left as the socket peer: rate limiting keys on it, and
	// forwarding headers are client-controlled.
	r.Use(chimw.RequestID)
	r.Use(middleware.Logger)
	r.Use(chimw.Recoverer)
	r.Use(middleware.CORS(d.CORSOrigins))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.RateLimit(5, 10))
		r.Post("/api/auth/register", d.Auth.HandleRegister)
		r.Post("/api/auth/login", d.Auth.HandleLogin)
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.JWTAuth(d.JWTSecret))

		r.Get("/api/auth/me", d.Auth.HandleMe)
		r.Put("/api/auth/me", d.Auth.HandleUpdateMe)
		r.Delete("/api/auth/me", d.Auth.HandleDeleteMe)

		r.Get("/api/users", d.Users.HandleDirectory)

		r.Route("/swap-requests", func(r chi.Router) {
			r.Post("/", d.Swaps.HandleCreate)
			r.Get("/", d.Swaps.HandleList)
			r.Get("/{id}", d.Swaps.HandleGet)
			r.Put("/{id}/status", d.Swaps.HandleUpdateStatus)
		})

		r.Route("/api/messages", func(r chi.Router) {
			r.Post("/", d.Messages.HandleSend)
			r.Get("/conversation/{otherUserId}", d.Messages.HandleConversation)
			r.Get("/conversations", d.Messages.HandleConversations)
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireRole(model.RoleAdmin))
			r.Get("/api/admin/users", d.Users.HandleAdminList)
			r.Delete("/api/admin/users/{id}", d.Users.HandleAdminDelete)
		})
	})

	return r
}

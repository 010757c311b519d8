// Package rest exposes the user and session services as a JSON API over
// HTTP, routed with chi.
package rest

import (
	"net/http"

	"github.com/dmitrijs2005/userapp/internal/logging"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// NewRouter wires every route. None of them require authentication.
func NewRouter(l logging.Logger, us UserService, ss SessionService, store Pinger) http.Handler {
	h := &handlers{users: us, sessions: ss, store: store, logger: l}

	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(logRequests(l))
	r.Use(middleware.Recoverer)
	r.Use(cors)

	r.Get("/", h.healthCheck)
	r.Get("/readyz", h.ready)

	r.Get("/get/all/users", h.listUsers)
	r.Get("/get/user/{username}", h.getUser)
	r.Post("/add/user", h.addUser)
	r.Put("/update/user/{username}", h.updateUser)
	r.Delete("/delete/user/{username}", h.deleteUser)

	r.Post("/login", h.login)
	r.Get("/get/all/sessions", h.listSessions)

	return r
}

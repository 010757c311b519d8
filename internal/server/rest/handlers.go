package rest

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"

	"github.com/dmitrijs2005/userapp/internal/common"
	"github.com/dmitrijs2005/userapp/internal/logging"
	"github.com/dmitrijs2005/userapp/internal/server/models"
	"github.com/dmitrijs2005/userapp/internal/server/services"
	"github.com/go-chi/chi/v5"
)

// UserService is the part of services.UserService the handlers call.
type UserService interface {
	ListUsers(ctx context.Context) ([]*models.User, error)
	GetUser(ctx context.Context, userName string) (*models.User, error)
	CreateUser(ctx context.Context, in services.UserInput) (*models.User, error)
	UpdateUser(ctx context.Context, userName string, in services.UserInput) (*models.User, error)
	DeleteUser(ctx context.Context, userName string) (*models.User, error)
}

// SessionService is the part of services.SessionService the handlers call.
type SessionService interface {
	Login(ctx context.Context, userName, password string) (*models.Session, error)
	ListSessions(ctx context.Context) ([]*models.Session, error)
}

// Pinger reports whether the store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type handlers struct {
	users    UserService
	sessions SessionService
	store    Pinger
	logger   logging.Logger
}

func (h *handlers) listUsers(w http.ResponseWriter, r *http.Request) {
	list, err := h.users.ListUsers(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	out := make([]userResponse, 0, len(list))
	for _, u := range list {
		out = append(out, newUserResponse(u))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *handlers) getUser(w http.ResponseWriter, r *http.Request) {
	user, err := h.users.GetUser(r.Context(), pathParam(r, "username"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newUserResponse(user))
}

func (h *handlers) addUser(w http.ResponseWriter, r *http.Request) {
	var req userRequest
	if err := decodeJSON(r.Body, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	in, err := req.toInput()
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	user, err := h.users.CreateUser(r.Context(), in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newUserResponse(user))
}

func (h *handlers) updateUser(w http.ResponseWriter, r *http.Request) {
	var req userRequest
	if err := decodeJSON(r.Body, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	in, err := req.toInput()
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	user, err := h.users.UpdateUser(r.Context(), pathParam(r, "username"), in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newUserResponse(user))
}

func (h *handlers) deleteUser(w http.ResponseWriter, r *http.Request) {
	user, err := h.users.DeleteUser(r.Context(), pathParam(r, "username"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newUserResponse(user))
}

func (h *handlers) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r.Body, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	if err := req.validate(); err != nil {
		h.writeError(w, r, err)
		return
	}

	session, err := h.sessions.Login(r.Context(), *req.UserName, *req.Password)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newSessionResponse(session))
}

func (h *handlers) listSessions(w http.ResponseWriter, r *http.Request) {
	list, err := h.sessions.ListSessions(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	out := make([]sessionResponse, 0, len(list))
	for _, s := range list {
		out = append(out, newSessionResponse(s))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *handlers) healthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(common.HealthCheckResponse))
}

func (h *handlers) ready(w http.ResponseWriter, r *http.Request) {
	if err := h.store.Ping(r.Context()); err != nil {
		h.logger.Warn(r.Context(), "store not ready", "error", err)
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "store unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

// pathParam returns a decoded route parameter. chi routes on the raw path
// when it contains escapes such as %2F, leaving the parameter encoded.
func pathParam(r *http.Request, name string) string {
	v := chi.URLParam(r, name)
	if r.URL.RawPath == "" {
		return v
	}
	if u, err := url.PathUnescape(v); err == nil {
		return u
	}
	return v
}

type errorResponse struct {
	Error string `json:"error"`
}

// writeError maps service errors to status codes. Anything unrecognised is
// logged and reported as a generic 500.
func (h *handlers) writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, errBadRequest):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
	case errors.Is(err, common.ErrorNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "user not found"})
	case errors.Is(err, common.ErrorConflict):
		writeJSON(w, http.StatusConflict, errorResponse{Error: "username already exists"})
	case errors.Is(err, common.ErrorUnauthorized):
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "invalid credentials"})
	default:
		h.logger.Error(r.Context(), "request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

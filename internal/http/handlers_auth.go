package httpx

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	domainauth "github.com/algexpress/algexpress-admin/internal/domain/auth"
)

// SessionService is the slice of the session store the handlers use.
type SessionService interface {
	Login(ctx context.Context, email, password string) error
	Logout(ctx context.Context) error
	ValidateSession(ctx context.Context) (bool, error)
	State() domainauth.State
}

// AuthHandlers serves the login and logout pages.
type AuthHandlers struct {
	Sessions SessionService
	Renderer *Renderer
	Logger   *slog.Logger
}

func (h *AuthHandlers) logger() *slog.Logger {
	if h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

// LoginPage renders the login form, or redirects home when a session is
// already established.
func (h *AuthHandlers) LoginPage(w http.ResponseWriter, r *http.Request) {
	state := h.Sessions.State()
	if state.Loading {
		h.Renderer.Loading(w)
		return
	}
	if state.IsAuthenticated {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	h.Renderer.Login(w, http.StatusOK, LoginData{})
}

// Login handles the login form submission.
func (h *AuthHandlers) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.Renderer.Login(w, http.StatusBadRequest, LoginData{Error: "Malformed form submission."})
		return
	}
	email := strings.TrimSpace(r.PostFormValue("email"))
	password := r.PostFormValue("password")
	if email == "" || password == "" {
		h.Renderer.Login(w, http.StatusBadRequest, LoginData{
			Email: email,
			Error: "Email and password are required.",
		})
		return
	}

	err := h.Sessions.Login(r.Context(), email, password)
	switch {
	case err == nil:
		http.Redirect(w, r, "/", http.StatusSeeOther)
	case errors.Is(err, domainauth.ErrInvalidCredentials):
		h.Renderer.Login(w, http.StatusUnauthorized, LoginData{
			Email: email,
			Error: "Invalid email or password.",
		})
	case errors.Is(err, domainauth.ErrGatewayUnreachable):
		h.logger().Warn("login gateway unreachable", slog.Any("error", err))
		h.Renderer.Login(w, http.StatusBadGateway, LoginData{
			Email: email,
			Error: "Authentication service unavailable. Try again shortly.",
		})
	default:
		h.logger().Error("login failed", slog.Any("error", err))
		h.Renderer.Login(w, http.StatusInternalServerError, LoginData{
			Email: email,
			Error: "Something went wrong. Try again.",
		})
	}
}

// Logout tears the session down and returns to the login page. The redirect
// happens regardless of the teardown outcome.
func (h *AuthHandlers) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.Sessions.Logout(r.Context()); err != nil {
		h.logger().Warn("logout cleanup failed", slog.Any("error", err))
	}
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// Validate re-runs session validation on demand and lands the browser on
// whichever page matches the outcome. A gateway outage keeps the persisted
// session and falls back to the login page.
func (h *AuthHandlers) Validate(w http.ResponseWriter, r *http.Request) {
	restored, err := h.Sessions.ValidateSession(r.Context())
	if err != nil {
		h.logger().Warn("session validation failed", slog.Any("error", err))
	}
	if restored {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// Dashboard renders the landing page for an authenticated session.
func (h *AuthHandlers) Dashboard(w http.ResponseWriter, r *http.Request) {
	state := h.Sessions.State()
	if state.User == nil {
		// RequireSession guards this route; a nil user here means the session
		// was torn down between the check and the render.
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}
	h.Renderer.Dashboard(w, DashboardData{User: *state.User})
}

package httpx

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	domainauth "github.com/brightsteps/brightsteps-web/internal/domain/auth"
	"github.com/brightsteps/brightsteps-web/internal/service"
)

// SessionCookieName is the cookie carrying the opaque session identifier.
const SessionCookieName = "session_id"

// AuthServiceInterface defines the interface for auth service operations.
type AuthServiceInterface interface {
	Login(ctx context.Context, creds domainauth.Credentials) (*service.LoginResult, error)
	GetSession(ctx context.Context, sessionID string) (*domainauth.Session, error)
	Logout(ctx context.Context, sessionID string) error
}

// AuthHandlers provides HTTP handlers for the login form, logout, and
// session status endpoints.
type AuthHandlers struct {
	Svc    AuthServiceInterface
	T      *TemplateRenderer
	Logger *slog.Logger

	CookieDomain string
}

func (h *AuthHandlers) logger() *slog.Logger {
	if h == nil || h.Logger == nil {
		return slog.Default()
	}
	return h.Logger
}

// loginPageData feeds the login template.
type loginPageData struct {
	Title       string
	PageTitle   string
	CSRFToken   string
	AuthError   string
	Email       string
	RedirectURI string
}

// LoginPage renders the sign-in form.
// GET /login?redirect_uri=<optional_redirect>.
func (h *AuthHandlers) LoginPage(w http.ResponseWriter, r *http.Request) {
	// Already signed in? Straight to the dashboard.
	if sessionCookie, err := r.Cookie(SessionCookieName); err == nil {
		if _, sessErr := h.Svc.GetSession(r.Context(), sessionCookie.Value); sessErr == nil {
			http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
			return
		}
		h.clearCookie(w, r, SessionCookieName)
	}

	h.renderLoginPage(w, r, loginPageData{
		RedirectURI: safeRedirectPath(r.URL.Query().Get("redirect_uri")),
	})
}

// SubmitLogin verifies the submitted credentials and establishes a session.
// Credential failures re-render the form with an inline message rather than
// redirecting, so a failed attempt never loops through the login URL.
// POST /login.
func (h *AuthHandlers) SubmitLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		WriteError(w, ErrorParams{
			Code:    http.StatusBadRequest,
			ErrCode: "invalid_form",
			Err:     err,
		})
		return
	}

	email := strings.TrimSpace(r.PostFormValue("email"))
	redirectURI := safeRedirectPath(r.PostFormValue("redirect_uri"))
	if redirectURI == "/" {
		redirectURI = "/dashboard"
	}

	result, err := h.Svc.Login(r.Context(), domainauth.Credentials{
		Email:    email,
		Password: r.PostFormValue("password"),
	})
	if err != nil {
		if errors.Is(err, domainauth.ErrInvalidCredentials) {
			h.renderLoginPage(w, r, loginPageData{
				AuthError:   "Invalid email or password.",
				Email:       email,
				RedirectURI: redirectURI,
			})
			return
		}
		h.logger().ErrorContext(r.Context(), "login failed", "error", err)
		h.renderLoginPage(w, r, loginPageData{
			AuthError:   "Something went wrong signing you in. Please try again.",
			Email:       email,
			RedirectURI: redirectURI,
		})
		return
	}

	h.setSessionCookie(w, r, result.Session)

	if IsHTMX(r) {
		SetHXRedirect(w, redirectURI)
		w.WriteHeader(http.StatusOK)
		return
	}
	http.Redirect(w, r, redirectURI, http.StatusSeeOther)
}

// Logout ends the session and returns the visitor to the public home page.
// Logging out while already logged out behaves the same way.
// POST /logout.
func (h *AuthHandlers) Logout(w http.ResponseWriter, r *http.Request) {
	if sessionCookie, err := r.Cookie(SessionCookieName); err == nil {
		if logoutErr := h.Svc.Logout(r.Context(), sessionCookie.Value); logoutErr != nil {
			h.logger().WarnContext(r.Context(), "logout failed", "error", logoutErr)
		}
	}

	h.clearCookie(w, r, SessionCookieName)

	if IsHTMX(r) {
		SetHXRedirect(w, "/")
		w.WriteHeader(http.StatusOK)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// Status returns the current authentication status.
// GET /auth/status.
func (h *AuthHandlers) Status(w http.ResponseWriter, r *http.Request) {
	notSignedIn := map[string]any{"authenticated": false}

	sessionCookie, err := r.Cookie(SessionCookieName)
	if err != nil {
		WriteJSON(w, http.StatusOK, notSignedIn)
		return
	}

	session, err := h.Svc.GetSession(r.Context(), sessionCookie.Value)
	if err != nil {
		// Session is invalid or expired, clear the cookie
		h.clearCookie(w, r, SessionCookieName)
		WriteJSON(w, http.StatusOK, notSignedIn)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{
		"authenticated": true,
		"expires_at":    session.ExpiresAt,
		"user": map[string]any{
			"id":           session.UserID,
			"email":        session.Email,
			"display_name": session.DisplayName,
			"role":         session.Role,
		},
	})
}

func (h *AuthHandlers) renderLoginPage(w http.ResponseWriter, r *http.Request, data loginPageData) {
	data.Title = "Sign In | Bright Steps"
	data.PageTitle = "Sign In"
	data.CSRFToken = GetCSRFToken(r)
	if data.RedirectURI == "" {
		data.RedirectURI = "/dashboard"
	}

	if err := h.T.renderTemplate(w, "login-layout", data); err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

// baseCookie builds the attribute set shared by setting and clearing, so
// browsers accept the deletion as matching the original cookie.
func (h *AuthHandlers) baseCookie(r *http.Request, name string) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Path:     "/",
		Domain:   h.CookieDomain,
		HttpOnly: true,
		Secure:   requestIsSecure(r),
		SameSite: http.SameSiteLaxMode,
	}
}

// clearCookie expires a cookie immediately.
func (h *AuthHandlers) clearCookie(w http.ResponseWriter, r *http.Request, name string) {
	c := h.baseCookie(r, name)
	c.MaxAge = -1
	c.Expires = time.Unix(0, 0).UTC()
	http.SetCookie(w, c)
}

// setSessionCookie writes the session cookie based on the session's expiry.
func (h *AuthHandlers) setSessionCookie(w http.ResponseWriter, r *http.Request, s domainauth.Session) {
	c := h.baseCookie(r, SessionCookieName)
	c.Value = s.ID
	c.MaxAge = int(time.Until(s.ExpiresAt).Seconds())
	http.SetCookie(w, c)
}

// safeRedirectPath ensures the provided redirect is a same-origin relative path
// starting with "/" and not an absolute URL. Returns "/" when invalid.
func safeRedirectPath(candidate string) string {
	u, err := url.Parse(candidate)
	switch {
	case candidate == "" || err != nil:
		return "/"
	case u.IsAbs() || u.Host != "" || !strings.HasPrefix(u.Path, "/"):
		return "/"
	}
	return candidate
}

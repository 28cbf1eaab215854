package httpadapter

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/sweetshop/sweetshop/internal/domain"
)

// ClaimsFromContext returns the claims stored by the auth guard.
func ClaimsFromContext(ctx context.Context) (domain.Claims, bool) {
	c, ok := ctx.Value(claimsKey).(domain.Claims)
	return c, ok
}

// bearerToken prefers the session cookie and falls back to the
// Authorization header.
func bearerToken(r *http.Request, cookieName string) string {
	if c, err := r.Cookie(cookieName); err == nil && c.Value != "" {
		return c.Value
	}
	h := r.Header.Get("Authorization")
	if scheme, token, ok := strings.Cut(h, " "); ok && strings.EqualFold(scheme, "Bearer") {
		return strings.TrimSpace(token)
	}
	return ""
}

func (rt *router) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, err := rt.svc.Auth.Authenticate(bearerToken(r, rt.cfg.Auth.CookieName))
		if err != nil {
			writeJSON(w, http.StatusUnauthorized, errorBody{Error: domain.ErrUnauthorized.Error()})
			return
		}
		ctx := context.WithValue(r.Context(), claimsKey, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (rt *router) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !rt.decode(w, r, &req) {
		return
	}
	session, err := rt.svc.Auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		rt.fail(w, r, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     rt.cfg.Auth.CookieName,
		Value:    session.Token,
		Path:     "/",
		Expires:  session.ExpiresAt,
		MaxAge:   int(time.Until(session.ExpiresAt).Seconds()),
		HttpOnly: true,
		Secure:   rt.cfg.Auth.SecureCookie,
		SameSite: http.SameSiteLaxMode,
	})
	writeJSON(w, http.StatusOK, loginResponse{AccessToken: session.Token, ExpiresAt: session.ExpiresAt})
}

func (rt *router) logout(w http.ResponseWriter, _ *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     rt.cfg.Auth.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   rt.cfg.Auth.SecureCookie,
		SameSite: http.SameSiteLaxMode,
	})
	w.WriteHeader(http.StatusNoContent)
}

func (rt *router) dashboard(w http.ResponseWriter, r *http.Request) {
	claims, _ := ClaimsFromContext(r.Context())
	d, err := rt.svc.Dashboard.Summary(r.Context(), claims)
	if err != nil {
		rt.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toDashboardResponse(d))
}

package http

import (
	"context"
	"net/http"

	"kambaz-quiz-service/internal/app"
	"kambaz-quiz-service/internal/domain"
)

type ctxKey int

const (
	userKey ctxKey = iota
	tokenKey
)

// sessionCookies resolves the session cookie to the signed-in user.
type sessionCookies struct {
	users *app.UserService
	opts  Options
}

// load puts the session's user in the request context when the cookie names a
// live session. Requests without one pass through anonymously.
func (s *sessionCookies) load(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(s.opts.CookieName)
		if err != nil || cookie.Value == "" {
			next.ServeHTTP(w, r)
			return
		}
		user, err := s.users.Current(r.Context(), cookie.Value)
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}
		ctx := context.WithValue(r.Context(), userKey, user)
		ctx = context.WithValue(ctx, tokenKey, cookie.Value)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (s *sessionCookies) set(w http.ResponseWriter, token string) {
	http.SetCookie(w, s.cookie(token, int(s.opts.SessionTTL.Seconds())))
}

func (s *sessionCookies) clear(w http.ResponseWriter) {
	http.SetCookie(w, s.cookie("", -1))
}

func (s *sessionCookies) cookie(value string, maxAge int) *http.Cookie {
	c := &http.Cookie{
		Name:     s.opts.CookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   s.opts.SecureCookie,
		SameSite: http.SameSiteLaxMode,
	}
	// Cross-site frontends only send the cookie back with SameSite=None.
	if s.opts.SecureCookie {
		c.SameSite = http.SameSiteNoneMode
	}
	return c
}

func requireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := currentUser(r); !ok {
			writeError(w, domain.ErrUnauthenticated)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func currentUser(r *http.Request) (domain.User, bool) {
	user, ok := r.Context().Value(userKey).(domain.User)
	return user, ok
}

func sessionToken(r *http.Request) string {
	token, _ := r.Context().Value(tokenKey).(string)
	return token
}

package identity

import (
	"net/http"

	"github.com/go-chi/render"
	"github.com/gorilla/csrf"
)

const (
	CSRFCookieName = "csrftoken"
	CSRFFieldName  = "csrfmiddlewaretoken"
	CSRFHeaderName = "X-CSRF-Token"
)

// CSRF requires a form or header token on unsafe requests that carry the
// session cookie. Requests with a bearer token, or with no credentials at
// all, are not checked. With secure unset the site is assumed to be served
// over plain HTTP and the cookie is not marked Secure.
func CSRF(authKey []byte, secure bool) func(http.Handler) http.Handler {
	protect := csrf.Protect(authKey,
		csrf.Secure(secure),
		csrf.Path("/"),
		csrf.CookieName(CSRFCookieName),
		csrf.FieldName(CSRFFieldName),
		csrf.RequestHeader(CSRFHeaderName),
		csrf.ErrorHandler(http.HandlerFunc(csrfFailed)),
	)

	return func(next http.Handler) http.Handler {
		protected := protect(next)

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !cookieAuthenticated(r) {
				r = csrf.UnsafeSkipCheck(r)
			}
			if !secure {
				r = csrf.PlaintextHTTPRequest(r)
			}
			protected.ServeHTTP(w, r)
		})
	}
}

func csrfFailed(w http.ResponseWriter, r *http.Request) {
	FromContext(r.Context()).Logger.Infow("csrf check failed",
		"method", r.Method, "path", r.URL.Path, "reason", csrf.FailureReason(r))

	render.Status(r, http.StatusForbidden)
	render.PlainText(w, r, "CSRF verification failed. Request aborted.")
}

func cookieAuthenticated(r *http.Request) bool {
	if bearerToken(r) != "" {
		return false
	}
	_, err := r.Cookie(CookieName)

	return err == nil
}

// Package identity resolves the principal behind a request and gates
// handlers that need one.
package identity

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/SergeyParamoshkin/blog/internal/model"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

const (
	CookieName       = "token"
	DefaultLoginURL  = "/userprofile/login/"
	DefaultTokenTTL  = 24 * time.Hour
	nextParam        = "next"
	bearerPrefix     = "Bearer "
	signingAlgorithm = "HS256"
)

var ErrInvalidToken = errors.New("invalid token")

// Claims represents JWT claims
type Claims struct {
	Sub string `json:"sub"`
	jwt.RegisteredClaims
}

// Users looks up accounts by id.
type Users interface {
	Get(ctx context.Context, id int64) (*model.User, error)
}

type Provider struct {
	secret   []byte
	users    Users
	loginURL string
	logger   *zap.SugaredLogger
	now      func() time.Time
}

func NewProvider(secret string, users Users, loginURL string, logger *zap.SugaredLogger) *Provider {
	if loginURL == "" {
		loginURL = DefaultLoginURL
	}

	return &Provider{
		secret:   []byte(secret),
		users:    users,
		loginURL: loginURL,
		logger:   logger,
		now:      time.Now,
	}
}

// Token signs a token naming userID as subject.
func (p *Provider) Token(userID int64, ttl time.Duration) (string, error) {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	now := p.now()
	claims := Claims{
		Sub: strconv.FormatInt(userID, 10),
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(p.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}

	return signed, nil
}

// Principal returns the user behind r, or nil for anonymous requests.
// The token is read from the Authorization header, then the token cookie.
func (p *Provider) Principal(r *http.Request) (*model.User, error) {
	raw := tokenFromRequest(r)
	if raw == "" {
		return nil, nil
	}

	token, err := jwt.ParseWithClaims(raw, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return p.secret, nil
	}, jwt.WithValidMethods([]string{signingAlgorithm}), jwt.WithTimeFunc(p.now))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	id, err := strconv.ParseInt(claims.Sub, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: subject %q", ErrInvalidToken, claims.Sub)
	}

	return p.users.Get(r.Context(), id)
}

func tokenFromRequest(r *http.Request) string {
	if t := bearerToken(r); t != "" {
		return t
	}
	if c, err := r.Cookie(CookieName); err == nil {
		return c.Value
	}

	return ""
}

func bearerToken(r *http.Request) string {
	if h := r.Header.Get("Authorization"); strings.HasPrefix(h, bearerPrefix) {
		return strings.TrimSpace(strings.TrimPrefix(h, bearerPrefix))
	}

	return ""
}

// Middleware resolves the principal once and stores a RequestContext for
// the handlers below it. Bad tokens are logged and treated as anonymous.
func (p *Provider) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		principal, err := p.Principal(r)
		if err != nil {
			p.logger.Infow("ignoring credentials", "path", r.URL.Path, "error", err)
			principal = nil
		}

		rc := &RequestContext{Principal: principal, Logger: p.logger}
		if l, ok := r.Context().Value(loggerKey).(*zap.SugaredLogger); ok {
			rc.Logger = l
		}
		next.ServeHTTP(w, r.WithContext(WithRequestContext(r.Context(), rc)))
	})
}

// Decision is the outcome of Require: either a principal to continue with
// or a location to redirect to.
type Decision struct {
	Principal *model.User
	Redirect  string
}

func (d Decision) Allowed() bool { return d.Principal != nil }

// Require lets authenticated requests through and sends everyone else to
// the login page with a next parameter pointing back.
func (p *Provider) Require(r *http.Request) Decision {
	if rc := FromContext(r.Context()); rc.Principal != nil {
		return Decision{Principal: rc.Principal}
	}

	return Decision{Redirect: p.loginURL + "?" + url.Values{nextParam: {r.URL.RequestURI()}}.Encode()}
}

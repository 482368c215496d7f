package session

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/handi_point/internal/logging"
	"github.com/Skotchmaster/handi_point/internal/tokens"
)

const (
	CookieName = "session"
	ContextKey = "session_id"
)

type Middleware struct {
	Secret []byte
	TTL    time.Duration
	// Secure marks the cookie HTTPS-only.
	Secure bool
}

func New(secret []byte, ttl time.Duration, secure bool) *Middleware {
	return &Middleware{Secret: secret, TTL: ttl, Secure: secure}
}

// Ensure resolves the session from the cookie, issuing a new one when the
// cookie is missing, expired or forged.
func (m *Middleware) Ensure(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if ck, err := c.Cookie(CookieName); err == nil && ck.Value != "" {
			claims, err := tokens.SessionClaimsFromToken(ck.Value, m.Secret)
			if err == nil {
				m.attach(c, claims.Subject)
				return next(c)
			}
			logging.FromContext(c.Request().Context()).Info("session_reissued", "reason", err.Error())
		}

		now := time.Now()
		tok, sid, err := tokens.NewSession(m.Secret, now, m.TTL)
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, "session unavailable")
		}
		c.SetCookie(m.cookie(tok, now.Add(m.TTL)))
		m.attach(c, sid)
		return next(c)
	}
}

func (m *Middleware) attach(c echo.Context, sessionID string) {
	c.Set(ContextKey, sessionID)
	ctx := logging.IntoContext(c.Request().Context(), logging.FromContext(c.Request().Context()).With("session", sessionID))
	c.SetRequest(c.Request().WithContext(ctx))
}

func (m *Middleware) cookie(value string, exp time.Time) *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    value,
		Path:     "/",
		Expires:  exp,
		HttpOnly: true,
		Secure:   m.Secure,
		SameSite: http.SameSiteLaxMode,
	}
}

// ID returns the session id set by Ensure.
func ID(c echo.Context) (string, bool) {
	s, ok := c.Get(ContextKey).(string)
	return s, ok && s != ""
}

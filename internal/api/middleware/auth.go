package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/rosterhq/roster-api/internal/api/metrics"
	"github.com/rosterhq/roster-api/internal/core/domain"
	"github.com/rosterhq/roster-api/internal/core/ports"
)

// sessionCookie is the cookie the token login sets; its value may carry a
// "Bearer " prefix, kept for compatibility with existing clients.
const sessionCookie = "access_token"

// apiKeyHeader carries the API-key credential.
const apiKeyHeader = "X-API-Key"

// Auth validates whichever credential the request carries and injects the
// resulting identity into the echo context. The scheme is selected by
// presence: an Authorization bearer header or session cookie picks the
// session-token strategy, an X-API-Key header picks the API-key strategy.
//
// Credentials presented as query parameters are rejected outright — they
// would leak through access logs and referrers — before any validation runs.
func Auth(authn ports.Authenticator) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			q := c.QueryParams()
			if q.Has(sessionCookie) || q.Has("api_key") || q.Has("token") {
				return echo.NewHTTPError(http.StatusUnauthorized, "credentials must not be sent as query parameters")
			}

			if token, ok := sessionToken(c); ok {
				identity, err := authn.ValidateSession(token)
				if err != nil {
					metrics.CredentialValidationsTotal.WithLabelValues("session", "invalid").Inc()
					return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
				}
				metrics.CredentialValidationsTotal.WithLabelValues("session", "valid").Inc()
				setIdentity(c, identity)
				return next(c)
			}

			if key := c.Request().Header.Get(apiKeyHeader); key != "" {
				identity, err := authn.ValidateAPIKey(c.Request().Context(), key)
				if err != nil {
					metrics.CredentialValidationsTotal.WithLabelValues("api_key", "invalid").Inc()
					return echo.NewHTTPError(http.StatusUnauthorized, "invalid api key")
				}
				metrics.CredentialValidationsTotal.WithLabelValues("api_key", "valid").Inc()
				setIdentity(c, identity)
				return next(c)
			}

			return echo.NewHTTPError(http.StatusUnauthorized, "missing credentials")
		}
	}
}

// sessionToken extracts a session token from the Authorization header or,
// failing that, from the session cookie.
func sessionToken(c echo.Context) (string, bool) {
	if header := c.Request().Header.Get("Authorization"); header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
			return parts[1], true
		}
		return "", false
	}

	cookie, err := c.Cookie(sessionCookie)
	if err != nil || cookie.Value == "" {
		return "", false
	}
	return strings.TrimPrefix(cookie.Value, "Bearer "), true
}

func setIdentity(c echo.Context, identity domain.Identity) {
	c.Set("username", identity.Username)
	c.Set("role", string(identity.Role))
	c.Set("active", identity.Active)
}

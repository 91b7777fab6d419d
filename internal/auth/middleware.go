package auth

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

const ContextOwnerKey = "owner_email"

// SessionMiddleware проверяет сессионный токен и сохраняет email владельца в контексте.
func SessionMiddleware(verifier *SessionVerifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			tokenString, ok := bearerToken(c.Request())
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing or invalid authorization header")
			}

			claims, err := verifier.Verify(tokenString)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			c.Set(ContextOwnerKey, claims.Email)
			return next(c)
		}
	}
}

// OwnerFromContext извлекает email проверенного владельца из контекста.
func OwnerFromContext(c echo.Context) (string, bool) {
	owner, ok := c.Get(ContextOwnerKey).(string)
	return owner, ok && owner != ""
}

// bearerToken читает токен из заголовка Authorization. EventSource не умеет
// передавать заголовки, поэтому допускается параметр access_token.
func bearerToken(r *http.Request) (string, bool) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		tokenString := strings.TrimSpace(r.URL.Query().Get("access_token"))
		return tokenString, tokenString != ""
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}

	tokenString := strings.TrimSpace(parts[1])
	return tokenString, tokenString != ""
}

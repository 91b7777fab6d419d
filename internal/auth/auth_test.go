package auth

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
)

// TestSessionVerifierRoundTrip проверяет выпуск и проверку токена.
func TestSessionVerifierRoundTrip(t *testing.T) {
	verifier := NewSessionVerifier("secret", "https://id.example.com")

	token, expiresAt, err := verifier.Sign(" Traveler@Example.com ", "Traveler", time.Hour)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if time.Until(expiresAt) <= 0 {
		t.Fatal("expected expiry in the future")
	}

	claims, err := verifier.Verify(token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if claims.Email != "traveler@example.com" {
		t.Fatalf("unexpected email: %q", claims.Email)
	}
}

// TestSessionVerifierRejects проверяет отказ для чужих и просроченных токенов.
func TestSessionVerifierRejects(t *testing.T) {
	verifier := NewSessionVerifier("secret", "issuer-a")

	other, _, _ := NewSessionVerifier("other", "issuer-a").Sign("a@b.c", "", time.Hour)
	if _, err := verifier.Verify(other); err == nil {
		t.Fatal("expected error for wrong secret")
	}

	wrongIssuer, _, _ := NewSessionVerifier("secret", "issuer-b").Sign("a@b.c", "", time.Hour)
	if _, err := verifier.Verify(wrongIssuer); err == nil {
		t.Fatal("expected error for wrong issuer")
	}

	expired, _, _ := verifier.Sign("a@b.c", "", -time.Minute)
	if _, err := verifier.Verify(expired); err == nil {
		t.Fatal("expected error for expired token")
	}

	noEmail, _, _ := verifier.Sign("", "", time.Hour)
	if _, err := verifier.Verify(noEmail); !errors.Is(err, ErrMissingEmail) {
		t.Fatalf("expected ErrMissingEmail, got %v", err)
	}
}

// TestSessionMiddleware проверяет установку владельца в контексте.
func TestSessionMiddleware(t *testing.T) {
	verifier := NewSessionVerifier("secret", "")
	token, _, err := verifier.Sign("a@b.c", "", time.Hour)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	e := echo.New()
	handler := SessionMiddleware(verifier)(func(c echo.Context) error {
		owner, ok := OwnerFromContext(c)
		if !ok {
			return c.NoContent(http.StatusTeapot)
		}
		return c.String(http.StatusOK, owner)
	})

	cases := []struct {
		name   string
		header string
		query  string
		status int
	}{
		{name: "header", header: "Bearer " + token, status: http.StatusOK},
		{name: "query", query: "?access_token=" + token, status: http.StatusOK},
		{name: "missing", status: http.StatusUnauthorized},
		{name: "scheme", header: "Basic " + token, status: http.StatusUnauthorized},
		{name: "garbage", header: "Bearer nope", status: http.StatusUnauthorized},
	}

	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodGet, "/api/my-trips"+tc.query, nil)
		if tc.header != "" {
			req.Header.Set("Authorization", tc.header)
		}
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		err := handler(c)
		status := rec.Code
		var httpErr *echo.HTTPError
		if errors.As(err, &httpErr) {
			status = httpErr.Code
		}

		if status != tc.status {
			t.Fatalf("%s: expected %d, got %d", tc.name, tc.status, status)
		}
		if tc.status == http.StatusOK && rec.Body.String() != "a@b.c" {
			t.Fatalf("%s: unexpected owner %q", tc.name, rec.Body.String())
		}
	}
}

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

func signToken(t *testing.T, method jwt.SigningMethod, key any, claims jwt.MapClaims) string {
	t.Helper()
	signed, err := jwt.NewWithClaims(method, claims).SignedString(key)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func runAuth(t *testing.T, header string) (*httptest.ResponseRecorder, echo.Context, bool) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	called := false
	handler := Auth("secret")(func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	})
	if err := handler(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	return rec, c, called
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	token := signToken(t, jwt.SigningMethodHS256, []byte("secret"), jwt.MapClaims{
		"email": "kim@example.com",
		"role":  "Super Admin",
		"name":  "Kim",
		"exp":   time.Now().Add(time.Hour).Unix(),
	})

	rec, c, called := runAuth(t, "Bearer "+token)
	if !called {
		t.Fatalf("next not called")
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if c.Get(CtxEmail) != "kim@example.com" {
		t.Fatalf("email not set")
	}
	if c.Get(CtxRole) != "Super Admin" {
		t.Fatalf("role not set")
	}
	if c.Get(CtxName) != "Kim" {
		t.Fatalf("name not set")
	}
}

func TestAuthMiddleware_SubjectFallback(t *testing.T) {
	token := signToken(t, jwt.SigningMethodHS256, []byte("secret"), jwt.MapClaims{
		"sub":  "lee@example.com",
		"role": "user",
	})

	_, c, called := runAuth(t, "bearer "+token)
	if !called {
		t.Fatalf("next not called")
	}
	if c.Get(CtxEmail) != "lee@example.com" {
		t.Fatalf("email must fall back to sub, got %v", c.Get(CtxEmail))
	}
}

func TestAuthMiddleware_Rejects(t *testing.T) {
	expired := signToken(t, jwt.SigningMethodHS256, []byte("secret"), jwt.MapClaims{
		"email": "kim@example.com",
		"role":  "user",
		"exp":   time.Now().Add(-time.Hour).Unix(),
	})
	wrongKey := signToken(t, jwt.SigningMethodHS256, []byte("other"), jwt.MapClaims{"role": "user"})
	wrongAlg := signToken(t, jwt.SigningMethodHS512, []byte("secret"), jwt.MapClaims{"role": "user"})
	noRole := signToken(t, jwt.SigningMethodHS256, []byte("secret"), jwt.MapClaims{"email": "kim@example.com"})

	cases := map[string]string{
		"missing header":  "",
		"wrong scheme":    "Token abc",
		"not a token":     "Bearer not-a-token",
		"expired":         "Bearer " + expired,
		"wrong key":       "Bearer " + wrongKey,
		"wrong algorithm": "Bearer " + wrongAlg,
		"missing role":    "Bearer " + noRole,
	}
	for name, header := range cases {
		t.Run(name, func(t *testing.T) {
			rec, _, called := runAuth(t, header)
			if called {
				t.Fatalf("should not reach next")
			}
			if rec.Code != http.StatusUnauthorized {
				t.Fatalf("expected 401, got %d", rec.Code)
			}
		})
	}
}

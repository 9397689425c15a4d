package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/qaops/test-manager/internal/utils"
)

const testSecret = "unit-test-secret"

func runProtected(t *testing.T, authHeader string, mws ...echo.MiddlewareFunc) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	h := func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{
			"user_id": c.Get("user_id"),
			"role":    c.Get("role"),
		})
	}
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	if err := h(c); err != nil {
		t.Fatal(err)
	}
	return rec
}

func TestJWTAuthValidToken(t *testing.T) {
	at, err := utils.NewAccessToken(testSecret, "u-42", "USER", 5)
	if err != nil {
		t.Fatal(err)
	}

	rec := runProtected(t, "Bearer "+at.Token, JWTAuth(testSecret))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body["user_id"] != "u-42" || body["role"] != "USER" {
		t.Errorf("context claims wrong: %v", body)
	}
}

func TestJWTAuthRejections(t *testing.T) {
	tests := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"not bearer", "Basic abc"},
		{"garbage token", "Bearer not.a.jwt"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := runProtected(t, tt.header, JWTAuth(testSecret))
			if rec.Code != http.StatusUnauthorized {
				t.Errorf("status = %d, want 401", rec.Code)
			}
		})
	}
}

func TestJWTAuthRejectsWrongSecret(t *testing.T) {
	at, err := utils.NewAccessToken("other-secret", "u-1", "USER", 5)
	if err != nil {
		t.Fatal(err)
	}
	rec := runProtected(t, "Bearer "+at.Token, JWTAuth(testSecret))
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

func TestRequireRole(t *testing.T) {
	at, err := utils.NewAccessToken(testSecret, "u-1", "USER", 5)
	if err != nil {
		t.Fatal(err)
	}

	rec := runProtected(t, "Bearer "+at.Token, JWTAuth(testSecret), RequireRole("ADMIN", "USER"))
	if rec.Code != http.StatusOK {
		t.Errorf("USER should pass: status = %d", rec.Code)
	}

	rec = runProtected(t, "Bearer "+at.Token, JWTAuth(testSecret), RequireRole("ADMIN"))
	if rec.Code != http.StatusForbidden {
		t.Errorf("USER behind ADMIN-only should be 403, got %d", rec.Code)
	}
}

func TestRequireRoleWithoutAuth(t *testing.T) {
	// RequireRole alone, no JWTAuth populating the context
	rec := runProtected(t, "", RequireRole("ADMIN"))
	if rec.Code != http.StatusForbidden {
		t.Errorf("missing role claim should be 403, got %d", rec.Code)
	}
}

//go:build !integration

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"youthPolicyHub/pkg/utils"

	"github.com/labstack/echo/v4"
)

func runAuth(t *testing.T, header string) (*httptest.ResponseRecorder, echo.Context, bool) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	reached := false
	h := AuthMiddleware()(func(c echo.Context) error {
		reached = true
		return c.NoContent(http.StatusOK)
	})
	if err := h(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	return rec, c, reached
}

func TestAuthMiddleware(t *testing.T) {
	utils.SetJWTSecret("test-secret")

	valid, err := utils.GenerateJWT("42", "user", time.Hour)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	expired, err := utils.GenerateJWT("42", "user", -time.Minute)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	tests := []struct {
		name    string
		header  string
		status  int
		reached bool
	}{
		{"missing header", "", http.StatusUnauthorized, false},
		{"wrong scheme", "Basic abc", http.StatusUnauthorized, false},
		{"garbage token", "Bearer abc.def.ghi", http.StatusUnauthorized, false},
		{"expired token", "Bearer " + expired, http.StatusUnauthorized, false},
		{"valid token", "Bearer " + valid, http.StatusOK, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, c, reached := runAuth(t, tt.header)
			if rec.Code != tt.status {
				t.Errorf("status = %d, want %d", rec.Code, tt.status)
			}
			if reached != tt.reached {
				t.Errorf("reached = %v, want %v", reached, tt.reached)
			}
			if tt.reached {
				if uid, _ := c.Get("user_id").(uint); uid != 42 {
					t.Errorf("user_id = %v, want 42", c.Get("user_id"))
				}
			}
		})
	}
}

func TestAdminOnly(t *testing.T) {
	e := echo.New()

	for _, role := range []string{"user", "admin"} {
		rec := httptest.NewRecorder()
		c := e.NewContext(httptest.NewRequest(http.MethodPost, "/", nil), rec)
		c.Set("role", role)

		h := AdminOnly()(func(c echo.Context) error { return c.NoContent(http.StatusAccepted) })
		if err := h(c); err != nil {
			t.Fatalf("handler error: %v", err)
		}

		want := http.StatusForbidden
		if role == "admin" {
			want = http.StatusAccepted
		}
		if rec.Code != want {
			t.Errorf("role %s: status = %d, want %d", role, rec.Code, want)
		}
	}
}

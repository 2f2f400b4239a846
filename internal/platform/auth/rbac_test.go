package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func contextWithRole(e *echo.Echo, role string) echo.Context {
	req := httptest.NewRequest(http.MethodGet, "/api/workers", nil)
	ctx := context.WithValue(req.Context(), UserRoleKey, role)
	req = req.WithContext(ctx)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec)
}

func TestRequireRole(t *testing.T) {
	e := echo.New()
	handler := func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	}

	tests := []struct {
		name     string
		role     string
		required []string
		allowed  bool
	}{
		{"matching role", RoleClinician, []string{RoleClinician}, true},
		{"one of several", RoleReception, []string{RoleClinician, RoleReception}, true},
		{"admin passes everything", RoleAdmin, []string{RoleClinician}, true},
		{"wrong role", RoleReception, []string{RoleClinician}, false},
		{"no role", "", []string{RoleClinician}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := contextWithRole(e, tt.role)
			err := RequireRole(tt.required...)(handler)(c)
			if tt.allowed && err != nil {
				t.Errorf("expected access, got %v", err)
			}
			if !tt.allowed {
				httpErr, ok := err.(*echo.HTTPError)
				if !ok || httpErr.Code != http.StatusForbidden {
					t.Errorf("expected 403, got %v", err)
				}
			}
		})
	}
}

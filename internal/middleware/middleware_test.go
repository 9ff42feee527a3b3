package middleware

import (
	"net/http/httptest"
	"testing"
	"time"

	"chartcraft/pkg/utils"

	"github.com/gofiber/fiber/v2"
)

func newProtectedApp(skipAuth bool) *fiber.App {
	app := fiber.New()
	app.Get("/me", AuthMiddleware(skipAuth), func(c *fiber.Ctx) error {
		return c.SendString(CurrentUserID(c))
	})
	app.Post("/admin", AuthMiddleware(skipAuth), AdminMiddleware(skipAuth), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusNoContent)
	})
	return app
}

func bearer(t *testing.T, roles ...string) string {
	t.Helper()
	token, err := utils.GenerateToken("u-1", roles, time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken() error: %v", err)
	}
	return "Bearer " + token
}

func TestAuthMiddleware(t *testing.T) {
	utils.SetSecret("test-secret")
	app := newProtectedApp(false)

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"missing header", "", fiber.StatusUnauthorized},
		{"wrong scheme", "Basic abc", fiber.StatusUnauthorized},
		{"garbage token", "Bearer abc", fiber.StatusUnauthorized},
		{"valid token", bearer(t), fiber.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			resp, err := app.Test(req)
			if err != nil {
				t.Fatalf("request error: %v", err)
			}
			if resp.StatusCode != tt.want {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.want)
			}
		})
	}
}

func TestAdminMiddleware(t *testing.T) {
	utils.SetSecret("test-secret")
	app := newProtectedApp(false)

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"no roles", bearer(t), fiber.StatusForbidden},
		{"viewer", bearer(t, "viewer"), fiber.StatusForbidden},
		{"admin", bearer(t, "viewer", "Admin"), fiber.StatusNoContent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("POST", "/admin", nil)
			req.Header.Set("Authorization", tt.header)
			resp, err := app.Test(req)
			if err != nil {
				t.Fatalf("request error: %v", err)
			}
			if resp.StatusCode != tt.want {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.want)
			}
		})
	}
}

func TestSkipAuth(t *testing.T) {
	app := newProtectedApp(true)

	resp, err := app.Test(httptest.NewRequest("POST", "/admin", nil))
	if err != nil {
		t.Fatalf("request error: %v", err)
	}
	if resp.StatusCode != fiber.StatusNoContent {
		t.Errorf("admin status = %d, want %d", resp.StatusCode, fiber.StatusNoContent)
	}
}

package middleware

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/session"

	"recoverydesk/internal/config"
	"recoverydesk/internal/db"
	"recoverydesk/internal/models"
)

type fakeUsers map[string]*models.User

func (f fakeUsers) GetUserBySub(_ context.Context, sub string) (*models.User, error) {
	if sub == "broken" {
		return nil, errors.New("connection reset")
	}
	u, ok := f[sub]
	if !ok {
		return nil, db.ErrUserNotFound
	}
	return u, nil
}

func newTestApp(users fakeUsers, cfg *config.Config) *fiber.App {
	app := fiber.New()
	sessionMiddleware, _ := session.NewWithStore(session.Config{CookieHTTPOnly: true})
	app.Use(sessionMiddleware)

	app.Post("/login/:sub", func(c fiber.Ctx) error {
		session.FromContext(c).Set("user_sub", c.Params("sub"))
		return c.SendString("ok")
	})

	auth := NewAuthMiddleware(users, cfg)
	app.Get("/me", auth.RequireAuth, func(c fiber.Ctx) error {
		return c.SendString(c.Locals("user").(*models.User).Role)
	})
	app.Post("/launch", auth.RequireAuth, RequireRole(models.RoleOperator), func(c fiber.Ctx) error {
		return c.SendString("launched")
	})
	return app
}

func loginAs(t *testing.T, app *fiber.App, sub string) []*http.Cookie {
	t.Helper()
	req, _ := http.NewRequest("POST", "/login/"+sub, nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	return resp.Cookies()
}

func doRequest(t *testing.T, app *fiber.App, method, path string, cookies []*http.Cookie) int {
	t.Helper()
	req, _ := http.NewRequest(method, path, nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("%s %s failed: %v", method, path, err)
	}
	return resp.StatusCode
}

func prodConfig() *config.Config {
	return &config.Config{Env: "production", OIDCIssuer: "https://idp.example.com"}
}

func TestRequireAuth(t *testing.T) {
	users := fakeUsers{
		"viewer-1":   {Sub: "viewer-1", Role: models.RoleViewer},
		"operator-1": {Sub: "operator-1", Role: models.RoleOperator},
	}
	app := newTestApp(users, prodConfig())

	tests := []struct {
		name   string
		sub    string
		status int
	}{
		{"no session", "", http.StatusUnauthorized},
		{"known user", "viewer-1", http.StatusOK},
		{"unknown user", "ghost", http.StatusUnauthorized},
		{"store failure", "broken", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var cookies []*http.Cookie
			if tt.sub != "" {
				cookies = loginAs(t, app, tt.sub)
			}
			if got := doRequest(t, app, "GET", "/me", cookies); got != tt.status {
				t.Errorf("GET /me status = %d, want %d", got, tt.status)
			}
		})
	}
}

func TestRequireRole(t *testing.T) {
	users := fakeUsers{
		"viewer-1":   {Sub: "viewer-1", Role: models.RoleViewer},
		"operator-1": {Sub: "operator-1", Role: models.RoleOperator},
		"admin-1":    {Sub: "admin-1", Role: models.RoleAdmin},
	}
	app := newTestApp(users, prodConfig())

	tests := []struct {
		sub    string
		status int
	}{
		{"viewer-1", http.StatusForbidden},
		{"operator-1", http.StatusOK},
		{"admin-1", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.sub, func(t *testing.T) {
			cookies := loginAs(t, app, tt.sub)
			if got := doRequest(t, app, "POST", "/launch", cookies); got != tt.status {
				t.Errorf("POST /launch as %s status = %d, want %d", tt.sub, got, tt.status)
			}
		})
	}
}

func TestRequireAuth_DevOperator(t *testing.T) {
	app := newTestApp(fakeUsers{}, &config.Config{Env: "development"})

	if got := doRequest(t, app, "POST", "/launch", nil); got != http.StatusOK {
		t.Errorf("POST /launch in development status = %d, want %d", got, http.StatusOK)
	}
}

func TestRequireAuth_NoDevOperatorWithOIDC(t *testing.T) {
	cfg := &config.Config{Env: "development", OIDCIssuer: "https://idp.example.com"}
	app := newTestApp(fakeUsers{}, cfg)

	if got := doRequest(t, app, "GET", "/me", nil); got != http.StatusUnauthorized {
		t.Errorf("GET /me status = %d, want %d", got, http.StatusUnauthorized)
	}
}

package middleware

import (
	"context"
	"errors"
	"log"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/session"

	"recoverydesk/internal/config"
	"recoverydesk/internal/db"
	"recoverydesk/internal/models"
)

// UserStore looks up authenticated users.
type UserStore interface {
	GetUserBySub(ctx context.Context, sub string) (*models.User, error)
}

// AuthMiddleware handles user authentication via sessions.
type AuthMiddleware struct {
	db      UserStore
	devUser *models.User
}

// NewAuthMiddleware creates a new auth middleware instance. In development
// without OIDC every request runs as a local operator.
func NewAuthMiddleware(store UserStore, cfg *config.Config) *AuthMiddleware {
	m := &AuthMiddleware{db: store}
	if cfg.IsDev() && !cfg.IsOIDCEnabled() {
		log.Println("OIDC is not configured; all requests run as the development operator")
		m.devUser = &models.User{
			Sub:   "dev",
			Email: "dev@localhost",
			Name:  "Development Operator",
			Role:  models.RoleOperator,
		}
	}
	return m
}

// RequireAuth ensures the request carries an authenticated session,
// answering 401 if not.
func (m *AuthMiddleware) RequireAuth(c fiber.Ctx) error {
	if m.devUser != nil {
		c.Locals("user", m.devUser)
		return c.Next()
	}

	sess := session.FromContext(c)
	if sess == nil {
		return unauthorized(c)
	}

	userSub, ok := sess.Get("user_sub").(string)
	if !ok || userSub == "" {
		return unauthorized(c)
	}

	user, err := m.db.GetUserBySub(c.Context(), userSub)
	if errors.Is(err, db.ErrUserNotFound) {
		sess.Destroy()
		return unauthorized(c)
	}
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"status": "error",
			"error":  "failed to load user",
		})
	}

	c.Locals("user", user)
	return c.Next()
}

// RequireRole allows the request through only if the authenticated user holds
// one of roles. It must run after RequireAuth.
func RequireRole(roles ...string) fiber.Handler {
	return func(c fiber.Ctx) error {
		user, ok := c.Locals("user").(*models.User)
		if !ok {
			return unauthorized(c)
		}
		if !user.HasRole(roles...) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"status": "error",
				"error":  "insufficient role",
			})
		}
		return c.Next()
	}
}

func unauthorized(c fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"status": "error",
		"error":  "authentication required",
	})
}

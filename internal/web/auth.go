package web

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/CargoLink-Admin/CargoLink-Admin/internal/auth"
	"github.com/CargoLink-Admin/CargoLink-Admin/internal/web/handler"
	"github.com/CargoLink-Admin/CargoLink-Admin/internal/web/handler/login"
	"github.com/CargoLink-Admin/CargoLink-Admin/internal/web/session"
)

// AuthMiddleware is a Fiber middleware that checks for user authentication.
// Public endpoints and the login route pass through; everything else needs a
// valid session.
func AuthMiddleware(c *fiber.Ctx) error {
	if IsPublicPath(c) {
		return c.Next()
	}

	loginCookie := c.Cookies(auth.SessionCookie)
	if loginCookie == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}

	sessData := new(session.Data)
	_ = sessData.Read(loginCookie)

	if sessData.User.ID == 0 {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}

	return c.Next()
}

// IsPublicPath checks if the current request needs no session.
func IsPublicPath(c *fiber.Ctx) bool {
	originalURL := strings.ToLower(c.OriginalURL())

	return strings.HasPrefix(originalURL, handler.APIPath) ||
		strings.HasPrefix(originalURL, login.Path) ||
		strings.HasPrefix(originalURL, "/healthz") ||
		strings.HasPrefix(originalURL, "/metrics")
}

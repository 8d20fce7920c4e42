package auth

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/CargoLink-Admin/CargoLink-Admin/internal/web/navigation"
	"github.com/CargoLink-Admin/CargoLink-Admin/internal/web/session"
)

// SessionCookie is the name of the cookie carrying the session ID.
const SessionCookie = "session"

// sessionFromRequest loads the session value for the request, or nil when the
// request carries no valid session.
func sessionFromRequest(c *fiber.Ctx) *session.Data {
	sessionID := c.Cookies(SessionCookie)
	if sessionID == "" {
		return nil
	}

	sessionData := new(session.Data)
	if err := sessionData.Read(sessionID); err != nil {
		return nil
	}

	if sessionData.User.ID == 0 {
		return nil
	}

	return sessionData
}

// CurrentSession returns the session value for the request, or nil when
// unauthenticated. Useful for handlers that adapt output to the viewer.
func CurrentSession(c *fiber.Ctx) *session.Data {
	return sessionFromRequest(c)
}

// RequireAdmin creates Fiber middleware that only lets administrators through.
func RequireAdmin(authService *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sessionData := sessionFromRequest(c)
		if sessionData == nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
		}

		admin, err := authService.IsAdmin(sessionData.User.ID)
		if err != nil {
			log.Error().Err(err).Uint64("user_id", sessionData.User.ID).
				Msg("Failed to check admin role")

			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal Server Error"})
		}

		if !admin {
			log.Warn().Uint64("user_id", sessionData.User.ID).
				Msg("User lacks the administrator role")

			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Forbidden"})
		}

		return c.Next()
	}
}

// RequireMenu creates Fiber middleware that protects a screen behind its
// navigation key. Admins pass unconditionally.
func RequireMenu(authService *Service, key navigation.Key) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sessionData := sessionFromRequest(c)
		if sessionData == nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
		}

		allowed, err := authService.CanSeeMenu(sessionData.User.ID, key)
		if err != nil {
			log.Error().Err(err).Uint64("user_id", sessionData.User.ID).Str("menu", string(key)).
				Msg("Failed to check menu access")

			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal Server Error"})
		}

		if !allowed {
			log.Warn().Uint64("user_id", sessionData.User.ID).Str("menu", string(key)).
				Msg("User lacks access to menu entry")

			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Forbidden"})
		}

		return c.Next()
	}
}

// RequireAuthenticated lets any logged-in user through.
func RequireAuthenticated() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if sessionFromRequest(c) == nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
		}

		return c.Next()
	}
}

// Package notification provides the admin endpoints for the notification page.
package notification

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/CargoLink-Admin/CargoLink-Admin/internal/auth"
	"github.com/CargoLink-Admin/CargoLink-Admin/internal/config"
	notificationctl "github.com/CargoLink-Admin/CargoLink-Admin/internal/db/controller/notification"
	"github.com/CargoLink-Admin/CargoLink-Admin/internal/web/handler"
	"github.com/CargoLink-Admin/CargoLink-Admin/internal/web/navigation"
)

const (
	// Path is the base path for the notification page.
	Path = handler.RootPath + "admin/notification"

	// DefaultLimit caps the list length.
	DefaultLimit = 100

	// ErrInvalidID is returned when the provided id parameter is invalid or non-positive.
	ErrInvalidID = "Invalid id"

	// RouteRead is the route for marking one notification read.
	RouteRead = Path + "/:id/read"
	// RouteReadAll is the route for marking every notification read.
	RouteReadAll = Path + "/read-all"
)

// Service provides the notification page operations.
type Service struct {
	handler.Service
	cfg *config.Config
	db  *gorm.DB
}

// Handler is the exported instance.
var Handler = Service{}

// Init registers routes.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB, authService *auth.Service) {
	if app == nil || cfg == nil || db == nil {
		log.Fatal().Msg(handler.ErrNilACDFatalLogMsg)
		return
	}

	s.db = db
	s.cfg = cfg

	app.Get(Path,
		auth.RequireMenu(authService, navigation.KeyNotifications),
		s.List,
	)
	app.Post(RouteRead,
		auth.RequireMenu(authService, navigation.KeyNotifications),
		s.MarkRead,
	)
	app.Post(RouteReadAll,
		auth.RequireMenu(authService, navigation.KeyNotifications),
		s.MarkAllRead,
	)
}

// List returns the newest notifications and the unread count.
func (s *Service) List(c *fiber.Ctx) error {
	entries, err := notificationctl.GetAll(s.db, DefaultLimit)
	if err != nil {
		log.Error().Err(err).Msg("query notifications failed")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load notifications"})
	}

	unread, err := notificationctl.UnreadCount(s.db)
	if err != nil {
		log.Error().Err(err).Msg("unread count failed")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load notifications"})
	}

	return c.JSON(fiber.Map{
		"notifications": entries,
		"unread":        unread,
	})
}

// MarkRead stamps one notification as read.
func (s *Service) MarkRead(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil || id == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": ErrInvalidID})
	}

	if err := notificationctl.MarkRead(s.db, id); err != nil {
		if errors.Is(err, notificationctl.ErrNotificationNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
		}

		log.Error().Err(err).Msg("mark read failed")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to mark notification read"})
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// MarkAllRead stamps every unread notification as read.
func (s *Service) MarkAllRead(c *fiber.Ctx) error {
	if err := notificationctl.MarkAllRead(s.db); err != nil {
		log.Error().Err(err).Msg("mark all read failed")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to mark notifications read"})
	}

	return c.SendStatus(fiber.StatusNoContent)
}

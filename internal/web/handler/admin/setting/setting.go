// Package setting provides the admin endpoints for public site settings.
package setting

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/CargoLink-Admin/CargoLink-Admin/internal/auth"
	"github.com/CargoLink-Admin/CargoLink-Admin/internal/config"
	settingctl "github.com/CargoLink-Admin/CargoLink-Admin/internal/db/controller/setting"
	"github.com/CargoLink-Admin/CargoLink-Admin/internal/web/handler"
	"github.com/CargoLink-Admin/CargoLink-Admin/internal/web/navigation"
)

const (
	// Path is the base path for site settings.
	Path = handler.RootPath + "admin/setting"

	// ErrValidationPrefix prefixes validation error messages shown to the user.
	ErrValidationPrefix = "Validation failed: "

	// RouteDelete is the route for removing a setting.
	RouteDelete = Path + "/:key"
)

// Service provides site setting operations.
type Service struct {
	handler.Service
	cfg       *config.Config
	db        *gorm.DB
	validator *validator.Validate
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
	s.validator = validator.New()

	app.Get(Path,
		auth.RequireMenu(authService, navigation.KeySettings),
		s.List,
	)
	app.Put(Path,
		auth.RequireMenu(authService, navigation.KeySettings),
		s.Set,
	)
	app.Delete(RouteDelete,
		auth.RequireMenu(authService, navigation.KeySettings),
		s.Delete,
	)
}

// List returns every site setting.
func (s *Service) List(c *fiber.Ctx) error {
	settings, err := settingctl.GetAll(s.db)
	if err != nil {
		log.Error().Err(err).Msg("query settings failed")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load settings"})
	}

	return c.JSON(fiber.Map{"settings": settings})
}

// settingInput is the payload for writing a setting.
type settingInput struct {
	Key   string `json:"key" validate:"required,max=100"`
	Value string `json:"value"`
}

// Set creates or updates a setting.
func (s *Service) Set(c *fiber.Ctx) error {
	var input settingInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": ErrValidationPrefix + err.Error()})
	}

	if err := s.validator.Struct(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": ErrValidationPrefix + err.Error()})
	}

	updated, err := settingctl.Set(s.db, input.Key, input.Value)
	if err != nil {
		log.Error().Err(err).Msg("set setting failed")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to save setting"})
	}

	return c.JSON(updated)
}

// Delete removes a setting by key.
func (s *Service) Delete(c *fiber.Ctx) error {
	key := c.Params("key")

	if err := settingctl.Delete(s.db, key); err != nil {
		if errors.Is(err, settingctl.ErrSettingNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
		}
		if errors.Is(err, settingctl.ErrSettingKeyEmpty) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}

		log.Error().Err(err).Msg("delete setting failed")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete setting"})
	}

	return c.SendStatus(fiber.StatusNoContent)
}

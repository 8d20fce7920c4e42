// Package role provides the admin endpoints for the role catalog.
package role

import (
	"errors"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/CargoLink-Admin/CargoLink-Admin/internal/auth"
	"github.com/CargoLink-Admin/CargoLink-Admin/internal/config"
	rolectl "github.com/CargoLink-Admin/CargoLink-Admin/internal/db/controller/role"
	"github.com/CargoLink-Admin/CargoLink-Admin/internal/db/controller/userrole"
	"github.com/CargoLink-Admin/CargoLink-Admin/internal/web/handler"
	"github.com/CargoLink-Admin/CargoLink-Admin/internal/web/navigation"
)

const (
	// Path is the base path for role management.
	Path = handler.RootPath + "admin/role"

	// ErrInvalidID is returned when the provided id parameter is invalid or non-positive.
	ErrInvalidID = "Invalid id"
	// ErrFailedLoadRoles indicates an unexpected error occurred while loading roles.
	ErrFailedLoadRoles = "Failed to load roles"
	// ErrValidationPrefix prefixes validation error messages shown to the user.
	ErrValidationPrefix = "Validation failed: "

	// RouteUpdate is the route for updating a role.
	RouteUpdate = Path + "/:id"
)

// Service provides admin operations on the role catalog.
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

	// Routes
	app.Get(Path,
		auth.RequireMenu(authService, navigation.KeyRoles),
		s.List,
	)
	app.Post(Path,
		auth.RequireAdmin(authService),
		s.Create,
	)
	app.Put(RouteUpdate,
		auth.RequireAdmin(authService),
		s.Update,
	)
}

// List returns every role with its current holder count.
func (s *Service) List(c *fiber.Ctx) error {
	roles, err := rolectl.GetAll(s.db)
	if err != nil {
		log.Error().Err(err).Msg("query roles failed")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": ErrFailedLoadRoles})
	}

	adminHolders, err := userrole.AdminHolderCount(s.db)
	if err != nil {
		log.Error().Err(err).Msg("admin holder count failed")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": ErrFailedLoadRoles})
	}

	return c.JSON(fiber.Map{
		"roles":         roles,
		"admin_holders": adminHolders,
	})
}

// roleInput is the payload for creating or updating a role.
type roleInput struct {
	Name        string `json:"name" validate:"required,max=100"`
	Description string `json:"description" validate:"max=255"`
	IsAdmin     bool   `json:"is_admin"`
}

// Create adds a role to the catalog.
func (s *Service) Create(c *fiber.Ctx) error {
	var input roleInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": ErrValidationPrefix + err.Error()})
	}

	if err := s.validator.Struct(input); err != nil {
		log.Warn().Err(err).Msg("validation failed for create role")

		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": ErrValidationPrefix + err.Error()})
	}

	var createdBy uint64
	if sessionData := auth.CurrentSession(c); sessionData != nil {
		createdBy = sessionData.User.ID
	}

	created, err := rolectl.Create(s.db, input.Name, input.Description, false, input.IsAdmin, createdBy)
	if err != nil {
		if errors.Is(err, rolectl.ErrRoleAlreadyExists) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
		}
		if errors.Is(err, rolectl.ErrRoleNameEmpty) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}

		log.Error().Err(err).Msg("create role failed")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create role"})
	}

	return c.Status(fiber.StatusCreated).JSON(created)
}

// Update changes a role's name and description.
func (s *Service) Update(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil || id == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": ErrInvalidID})
	}

	var input roleInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": ErrValidationPrefix + err.Error()})
	}

	if err := s.validator.Struct(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": ErrValidationPrefix + err.Error()})
	}

	updated, err := rolectl.Update(s.db, uint(id), input.Name, input.Description)
	if err != nil {
		if errors.Is(err, rolectl.ErrRoleNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
		}

		log.Error().Err(err).Msg("update role failed")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update role"})
	}

	return c.JSON(updated)
}

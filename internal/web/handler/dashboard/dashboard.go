// Package dashboard provides the admin landing endpoint: entity counts and
// the navigation entries visible to the current user.
package dashboard

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/CargoLink-Admin/CargoLink-Admin/internal/auth"
	"github.com/CargoLink-Admin/CargoLink-Admin/internal/config"
	"github.com/CargoLink-Admin/CargoLink-Admin/internal/db/controller/notification"
	"github.com/CargoLink-Admin/CargoLink-Admin/internal/db/models"
	"github.com/CargoLink-Admin/CargoLink-Admin/internal/web/handler"
	"github.com/CargoLink-Admin/CargoLink-Admin/internal/web/navigation"
)

const (
	// Path is the path to the dashboard endpoint.
	Path = handler.RootPath + "admin/dashboard"
)

// Service is the dashboard handler service.
type Service struct {
	handler.Service
	cfg         *config.Config
	db          *gorm.DB
	authService *auth.Service
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
	s.authService = authService

	app.Get(Path,
		auth.RequireMenu(authService, navigation.KeyDashboard),
		s.Get,
	)
}

// Get returns the dashboard counters and the viewer's navigation.
func (s *Service) Get(c *fiber.Ctx) error {
	sessionData := auth.CurrentSession(c)
	if sessionData == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}

	counts := fiber.Map{}

	for name, model := range map[string]interface{}{
		"users":        &models.User{},
		"posts":        &models.Post{},
		"job_offers":   &models.JobOffer{},
		"applications": &models.JobApplication{},
	} {
		var count int64
		if err := s.db.Model(model).Count(&count).Error; err != nil {
			log.Error().Err(err).Str("entity", name).Msg("count failed")

			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load dashboard"})
		}

		counts[name] = count
	}

	unread, err := notification.UnreadCount(s.db)
	if err != nil {
		log.Error().Err(err).Msg("unread notification count failed")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load dashboard"})
	}

	counts["unread_notifications"] = unread

	menu, err := s.authService.VisibleMenu(sessionData.User.ID)
	if err != nil {
		log.Error().Err(err).Uint64("user_id", sessionData.User.ID).Msg("visible menu failed")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load dashboard"})
	}

	navCtx := navigation.NewContext("Dashboard", "admin", string(navigation.KeyDashboard)).
		AddBreadcrumb("Home", handler.RootPath, false).
		AddBreadcrumb("Dashboard", Path, true)

	return c.JSON(fiber.Map{
		"counts": counts,
		"menu":   menu,
		"nav":    navCtx,
	})
}

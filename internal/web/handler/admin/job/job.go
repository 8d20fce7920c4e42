// Package job provides the admin endpoints for job offers and the
// applications submitted against them.
package job

import (
	"errors"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/CargoLink-Admin/CargoLink-Admin/internal/auth"
	"github.com/CargoLink-Admin/CargoLink-Admin/internal/config"
	"github.com/CargoLink-Admin/CargoLink-Admin/internal/db/models"
	"github.com/CargoLink-Admin/CargoLink-Admin/internal/storage"
	"github.com/CargoLink-Admin/CargoLink-Admin/internal/web/handler"
	"github.com/CargoLink-Admin/CargoLink-Admin/internal/web/navigation"
)

const (
	// Path is the base path for job offer management.
	Path = handler.RootPath + "admin/job"

	// ErrInvalidID is returned when the provided id parameter is invalid or non-positive.
	ErrInvalidID = "Invalid id"
	// ErrOfferNotFound is returned when an offer with the given id does not exist.
	ErrOfferNotFound = "Job offer not found"
	// ErrFailedLoadOffers indicates an unexpected error occurred while loading offers.
	ErrFailedLoadOffers = "Failed to load job offers"
	// ErrValidationPrefix prefixes validation error messages shown to the user.
	ErrValidationPrefix = "Validation failed: "

	// RouteDetail is the route for one offer.
	RouteDetail = Path + "/:id"
	// RouteApplications is the route for listing an offer's applications.
	RouteApplications = Path + "/:id/applications"
	// RouteCV is the route for downloading an application's CV.
	RouteCV = handler.RootPath + "admin/application/:id/cv"
)

// Service provides CRUD operations for job offers and application review.
type Service struct {
	handler.Service
	cfg       *config.Config
	db        *gorm.DB
	validator *validator.Validate
	store     *storage.Storage
}

// Handler is the exported instance.
var Handler = Service{}

// Init registers routes.
func (s *Service) Init(
	app *fiber.App,
	cfg *config.Config,
	db *gorm.DB,
	authService *auth.Service,
	store *storage.Storage,
) {
	if app == nil || cfg == nil || db == nil {
		log.Fatal().Msg(handler.ErrNilACDFatalLogMsg)
		return
	}

	s.db = db
	s.cfg = cfg
	s.validator = validator.New()
	s.store = store

	// Routes
	app.Get(Path,
		auth.RequireMenu(authService, navigation.KeyJobs),
		s.List,
	)
	app.Post(Path,
		auth.RequireMenu(authService, navigation.KeyJobs),
		s.Create,
	)
	app.Put(RouteDetail,
		auth.RequireMenu(authService, navigation.KeyJobs),
		s.Update,
	)
	app.Delete(RouteDetail,
		auth.RequireMenu(authService, navigation.KeyJobs),
		s.Delete,
	)
	app.Get(RouteApplications,
		auth.RequireMenu(authService, navigation.KeyJobs),
		s.Applications,
	)
	app.Get(RouteCV,
		auth.RequireMenu(authService, navigation.KeyJobs),
		s.DownloadCV,
	)
}

// List returns all offers, inactive included, with application counts.
func (s *Service) List(c *fiber.Ctx) error {
	var offers []models.JobOffer
	if err := s.db.Order("created_at DESC").Find(&offers).Error; err != nil {
		log.Error().Err(err).Msg("query offers failed")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": ErrFailedLoadOffers})
	}

	applicationCounts := make(map[uint64]int64, len(offers))

	for _, offer := range offers {
		var count int64
		if err := s.db.Model(&models.JobApplication{}).
			Where("job_offer_id = ?", offer.ID).Count(&count).Error; err == nil {
			applicationCounts[offer.ID] = count
		}
	}

	items := make([]fiber.Map, 0, len(offers))
	for _, offer := range offers {
		items = append(items, fiber.Map{
			"offer":        offer,
			"applications": applicationCounts[offer.ID],
		})
	}

	return c.JSON(fiber.Map{"offers": items})
}

// offerInput is the payload for creating or updating an offer.
type offerInput struct {
	Title       string `json:"title" validate:"required,max=255"`
	Location    string `json:"location" validate:"max=255"`
	Description string `json:"description"`
	Active      bool   `json:"active"`
}

// Create adds a job offer.
func (s *Service) Create(c *fiber.Ctx) error {
	var input offerInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": ErrValidationPrefix + err.Error()})
	}

	if err := s.validator.Struct(input); err != nil {
		log.Warn().Err(err).Msg("validation failed for create offer")

		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": ErrValidationPrefix + err.Error()})
	}

	var createdBy uint64
	if sessionData := auth.CurrentSession(c); sessionData != nil {
		createdBy = sessionData.User.ID
	}

	offer := models.JobOffer{
		Title:       input.Title,
		Location:    input.Location,
		Description: input.Description,
		Active:      input.Active,
		CreatedBy:   createdBy,
	}

	if err := s.db.Create(&offer).Error; err != nil {
		log.Error().Err(err).Msg("create offer failed")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create job offer"})
	}

	return c.Status(fiber.StatusCreated).JSON(offer)
}

// Update changes an offer.
func (s *Service) Update(c *fiber.Ctx) error {
	offer, resp := s.loadOffer(c)
	if offer == nil {
		return resp
	}

	var input offerInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": ErrValidationPrefix + err.Error()})
	}

	if err := s.validator.Struct(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": ErrValidationPrefix + err.Error()})
	}

	offer.Title = input.Title
	offer.Location = input.Location
	offer.Description = input.Description
	offer.Active = input.Active

	if err := s.db.Save(offer).Error; err != nil {
		log.Error().Err(err).Msg("update offer failed")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update job offer"})
	}

	return c.JSON(offer)
}

// Delete removes an offer, its applications and their stored CVs.
func (s *Service) Delete(c *fiber.Ctx) error {
	offer, resp := s.loadOffer(c)
	if offer == nil {
		return resp
	}

	var applications []models.JobApplication
	if err := s.db.Where("job_offer_id = ?", offer.ID).Find(&applications).Error; err != nil {
		log.Error().Err(err).Msg("query applications failed")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete job offer"})
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("job_offer_id = ?", offer.ID).Delete(&models.JobApplication{}).Error; err != nil {
			return err
		}

		return tx.Delete(offer).Error
	})
	if err != nil {
		log.Error().Err(err).Msg("delete offer failed")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete job offer"})
	}

	if s.store != nil {
		for _, app := range applications {
			if app.CVKey == "" {
				continue
			}

			if err := s.store.Delete(c.Context(), app.CVKey); err != nil {
				log.Error().Err(err).Str("key", app.CVKey).Msg("delete cv failed")
			}
		}
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// Applications lists the applications submitted against an offer.
func (s *Service) Applications(c *fiber.Ctx) error {
	offer, resp := s.loadOffer(c)
	if offer == nil {
		return resp
	}

	var applications []models.JobApplication
	if err := s.db.Where("job_offer_id = ?", offer.ID).
		Order("created_at DESC").Find(&applications).Error; err != nil {
		log.Error().Err(err).Msg("query applications failed")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load applications"})
	}

	return c.JSON(fiber.Map{
		"offer":        offer,
		"applications": applications,
	})
}

// DownloadCV streams a stored CV back to the reviewer.
func (s *Service) DownloadCV(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil || id == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": ErrInvalidID})
	}

	var application models.JobApplication
	if err := s.db.First(&application, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Application not found"})
		}

		log.Error().Err(err).Msg("load application failed")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load application"})
	}

	if application.CVKey == "" {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "No CV on file"})
	}

	if s.store == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "Object storage is not configured"})
	}

	reader, err := s.store.Get(c.Context(), application.CVKey)
	if err != nil {
		log.Error().Err(err).Str("key", application.CVKey).Msg("fetch cv failed")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch CV"})
	}

	c.Set(fiber.HeaderContentDisposition, `attachment; filename="cv"`)

	return c.SendStream(reader)
}

// loadOffer resolves the :id parameter to an offer, or writes the error
// response and returns nil.
func (s *Service) loadOffer(c *fiber.Ctx) (*models.JobOffer, error) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil || id == 0 {
		return nil, c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": ErrInvalidID})
	}

	var offer models.JobOffer
	if err := s.db.First(&offer, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": ErrOfferNotFound})
		}

		log.Error().Err(err).Msg("load offer failed")

		return nil, c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": ErrFailedLoadOffers})
	}

	return &offer, nil
}

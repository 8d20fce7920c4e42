// Package public provides the unauthenticated JSON endpoints consumed by the
// marketing site: the news feed, open job offers, the application form and
// the contact page.
package public

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/CargoLink-Admin/CargoLink-Admin/internal/config"
	settingctl "github.com/CargoLink-Admin/CargoLink-Admin/internal/db/controller/setting"
	"github.com/CargoLink-Admin/CargoLink-Admin/internal/db/models"
	"github.com/CargoLink-Admin/CargoLink-Admin/internal/queue"
	"github.com/CargoLink-Admin/CargoLink-Admin/internal/storage"
	"github.com/CargoLink-Admin/CargoLink-Admin/internal/web/handler"
)

const (
	// PostsPath is the public news feed endpoint.
	PostsPath = handler.APIPath + "/posts"
	// PostPath is the endpoint for one published post.
	PostPath = PostsPath + "/:slug"
	// JobsPath is the public recruitment endpoint.
	JobsPath = handler.APIPath + "/jobs"
	// ApplyPath is the endpoint candidates submit applications to.
	ApplyPath = JobsPath + "/:id/apply"
	// ContactPath serves the contact info and receives contact messages.
	ContactPath = handler.APIPath + "/contact"

	// MaxCVSize is the upload limit for CV files.
	MaxCVSize = 10 << 20

	// ErrValidationPrefix prefixes validation error messages shown to the user.
	ErrValidationPrefix = "Validation failed: "
)

// Service provides the public site endpoints.
type Service struct {
	handler.Service
	cfg       *config.Config
	db        *gorm.DB
	validator *validator.Validate
	store     *storage.Storage
	producer  *queue.Producer
}

// Handler is the exported instance.
var Handler = Service{}

// Init registers routes.
func (s *Service) Init(
	app *fiber.App,
	cfg *config.Config,
	db *gorm.DB,
	store *storage.Storage,
	producer *queue.Producer,
) {
	if app == nil || cfg == nil || db == nil {
		log.Fatal().Msg(handler.ErrNilACDFatalLogMsg)
		return
	}

	s.db = db
	s.cfg = cfg
	s.validator = validator.New()
	s.store = store
	s.producer = producer

	app.Get(PostsPath, s.Posts)
	app.Get(PostPath, s.Post)
	app.Get(JobsPath, s.Jobs)
	app.Post(ApplyPath, s.Apply)
	app.Get(ContactPath, s.ContactInfo)
	app.Post(ContactPath, s.ContactMessage)
}

// Posts returns the published news feed, newest first.
func (s *Service) Posts(c *fiber.Ctx) error {
	var posts []models.Post
	if err := s.db.Where("published = ?", true).
		Order("created_at DESC").Find(&posts).Error; err != nil {
		log.Error().Err(err).Msg("query published posts failed")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load posts"})
	}

	return c.JSON(fiber.Map{"posts": posts})
}

// Post returns one published post by slug. Drafts are invisible here.
func (s *Service) Post(c *fiber.Ctx) error {
	slug := c.Params("slug")

	var post models.Post
	err := s.db.Where("slug = ? AND published = ?", slug, true).First(&post).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Post not found"})
		}

		log.Error().Err(err).Msg("load post failed")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load post"})
	}

	return c.JSON(post)
}

// Jobs returns the active job offers.
func (s *Service) Jobs(c *fiber.Ctx) error {
	var offers []models.JobOffer
	if err := s.db.Where("active = ?", true).
		Order("created_at DESC").Find(&offers).Error; err != nil {
		log.Error().Err(err).Msg("query active offers failed")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load job offers"})
	}

	return c.JSON(fiber.Map{"offers": offers})
}

// applicationInput is the multipart form accompanying a CV upload.
type applicationInput struct {
	FullName string `form:"full_name" validate:"required,max=200"`
	Email    string `form:"email" validate:"required,email"`
	Phone    string `form:"phone" validate:"max=50"`
}

// Apply accepts a candidate application with an attached CV.
func (s *Service) Apply(c *fiber.Ctx) error {
	offerID, err := c.ParamsInt("id")
	if err != nil || offerID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid id"})
	}

	var offer models.JobOffer
	err = s.db.Where("id = ? AND active = ?", offerID, true).First(&offer).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Job offer not found"})
		}

		log.Error().Err(err).Msg("load offer failed")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load job offer"})
	}

	var input applicationInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": ErrValidationPrefix + err.Error()})
	}

	if err := s.validator.Struct(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": ErrValidationPrefix + err.Error()})
	}

	var cvKey string

	if fileHeader, err := c.FormFile("cv"); err == nil {
		if fileHeader.Size > MaxCVSize {
			return c.Status(fiber.StatusRequestEntityTooLarge).JSON(fiber.Map{"error": "CV file too large"})
		}

		if s.store == nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "Uploads are not available"})
		}

		file, err := fileHeader.Open()
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Unreadable CV file"})
		}
		defer file.Close()

		cvKey = storage.CVKey(offer.ID, fileHeader.Filename)

		contentType := fileHeader.Header.Get("Content-Type")
		if err := s.store.Put(c.Context(), cvKey, file, fileHeader.Size, contentType); err != nil {
			log.Error().Err(err).Str("key", cvKey).Msg("store cv failed")

			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to store CV"})
		}
	}

	application := models.JobApplication{
		JobOfferID: offer.ID,
		FullName:   input.FullName,
		Email:      input.Email,
		Phone:      input.Phone,
		CVKey:      cvKey,
	}

	if err := s.db.Create(&application).Error; err != nil {
		log.Error().Err(err).Msg("create application failed")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to submit application"})
	}

	if err := s.producer.Publish(c.Context(), queue.NewApplicationEvent(offer.Title, input.FullName)); err != nil {
		// The application is stored; only the admin notification is lost.
		log.Error().Err(err).Uint64("application_id", application.ID).Msg("publish application event failed")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"id": application.ID})
}

// ContactInfo returns the public contact block maintained in site settings.
func (s *Service) ContactInfo(c *fiber.Ctx) error {
	info := fiber.Map{}

	for _, key := range []string{
		settingctl.KeyContactEmail,
		settingctl.KeyContactPhone,
		settingctl.KeyOfficeAddress,
		settingctl.KeyMapEmbedURL,
	} {
		entry, err := settingctl.Get(s.db, key)
		if err != nil {
			if errors.Is(err, settingctl.ErrSettingNotFound) {
				continue
			}

			log.Error().Err(err).Str("key", key).Msg("load setting failed")

			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load contact info"})
		}

		info[key] = entry.Value
	}

	return c.JSON(info)
}

// contactInput is the contact form payload.
type contactInput struct {
	Name    string `json:"name" form:"name" validate:"required,max=200"`
	Email   string `json:"email" form:"email" validate:"required,email"`
	Message string `json:"message" form:"message" validate:"required,max=5000"`
}

// ContactMessage forwards a contact form message to the admin notification
// page.
func (s *Service) ContactMessage(c *fiber.Ctx) error {
	var input contactInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": ErrValidationPrefix + err.Error()})
	}

	if err := s.validator.Struct(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": ErrValidationPrefix + err.Error()})
	}

	if err := s.producer.Publish(c.Context(), queue.NewContactEvent(input.Name, input.Email, input.Message)); err != nil {
		log.Error().Err(err).Msg("publish contact event failed")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to submit message"})
	}

	return c.SendStatus(fiber.StatusAccepted)
}

// Package post provides the admin endpoints for the public news feed.
package post

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
	"github.com/CargoLink-Admin/CargoLink-Admin/internal/queue"
	"github.com/CargoLink-Admin/CargoLink-Admin/internal/storage"
	"github.com/CargoLink-Admin/CargoLink-Admin/internal/web/handler"
	"github.com/CargoLink-Admin/CargoLink-Admin/internal/web/navigation"
)

const (
	// Path is the base path for post management.
	Path = handler.RootPath + "admin/post"

	// DefaultPageSize for pagination.
	DefaultPageSize = 25
	// MaxPageSize clamps the page size upper bound.
	MaxPageSize = 100

	// MaxCoverSize is the upload limit for cover images.
	MaxCoverSize = 5 << 20

	// ErrInvalidID is returned when the provided id parameter is invalid or non-positive.
	ErrInvalidID = "Invalid id"
	// ErrPostNotFound is returned when a post with the given id does not exist.
	ErrPostNotFound = "Post not found"
	// ErrFailedLoadPosts indicates an unexpected error occurred while loading posts.
	ErrFailedLoadPosts = "Failed to load posts"
	// ErrValidationPrefix prefixes validation error messages shown to the user.
	ErrValidationPrefix = "Validation failed: "

	// RouteDetail is the route for one post.
	RouteDetail = Path + "/:id"
	// RoutePublish is the route for publishing a post.
	RoutePublish = Path + "/:id/publish"
	// RouteCover is the route for uploading a cover image.
	RouteCover = Path + "/:id/cover"
)

// Service provides CRUD operations for posts.
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
	authService *auth.Service,
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

	// Routes
	app.Get(Path,
		auth.RequireMenu(authService, navigation.KeyPosts),
		s.List,
	)
	app.Post(Path,
		auth.RequireMenu(authService, navigation.KeyPosts),
		s.Create,
	)
	app.Get(RouteDetail,
		auth.RequireMenu(authService, navigation.KeyPosts),
		s.Detail,
	)
	app.Put(RouteDetail,
		auth.RequireMenu(authService, navigation.KeyPosts),
		s.Update,
	)
	app.Delete(RouteDetail,
		auth.RequireMenu(authService, navigation.KeyPosts),
		s.Delete,
	)
	app.Post(RoutePublish,
		auth.RequireMenu(authService, navigation.KeyPosts),
		s.Publish,
	)
	app.Post(RouteCover,
		auth.RequireMenu(authService, navigation.KeyPosts),
		s.UploadCover,
	)
}

// List returns posts with simple pagination, drafts included.
func (s *Service) List(c *fiber.Ctx) error {
	page := c.QueryInt("page", 1)
	if page < 1 {
		page = 1
	}

	pageSize := c.QueryInt("pageSize", DefaultPageSize)
	if pageSize < 1 || pageSize > MaxPageSize {
		pageSize = DefaultPageSize
	}

	var (
		posts      []models.Post
		totalCount int64
		tx         = s.db.Model(&models.Post{})
	)

	if err := tx.Count(&totalCount).Error; err != nil {
		log.Error().Err(err).Msg("count posts failed")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": ErrFailedLoadPosts})
	}

	offset := (page - 1) * pageSize
	if err := tx.Order("created_at DESC").Limit(pageSize).Offset(offset).Find(&posts).Error; err != nil {
		log.Error().Err(err).Msg("query posts failed")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": ErrFailedLoadPosts})
	}

	return c.JSON(fiber.Map{
		"posts":       posts,
		"page":        page,
		"page_size":   pageSize,
		"total_items": totalCount,
	})
}

// postInput is the payload for creating or updating a post.
type postInput struct {
	Title string `json:"title" validate:"required,max=255"`
	Slug  string `json:"slug" validate:"required,max=255"`
	Body  string `json:"body"`
}

// Create adds a draft post.
func (s *Service) Create(c *fiber.Ctx) error {
	var input postInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": ErrValidationPrefix + err.Error()})
	}

	if err := s.validator.Struct(input); err != nil {
		log.Warn().Err(err).Msg("validation failed for create post")

		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": ErrValidationPrefix + err.Error()})
	}

	var createdBy uint64
	if sessionData := auth.CurrentSession(c); sessionData != nil {
		createdBy = sessionData.User.ID
	}

	post := models.Post{
		Title:     input.Title,
		Slug:      input.Slug,
		Body:      input.Body,
		CreatedBy: createdBy,
	}

	if err := s.db.Create(&post).Error; err != nil {
		log.Error().Err(err).Msg("create post failed")

		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Failed to create post (possibly duplicate slug)"})
	}

	return c.Status(fiber.StatusCreated).JSON(post)
}

// Detail returns one post.
func (s *Service) Detail(c *fiber.Ctx) error {
	post, resp := s.loadPost(c)
	if post == nil {
		return resp
	}

	return c.JSON(post)
}

// Update changes a post's title, slug and body.
func (s *Service) Update(c *fiber.Ctx) error {
	post, resp := s.loadPost(c)
	if post == nil {
		return resp
	}

	var input postInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": ErrValidationPrefix + err.Error()})
	}

	if err := s.validator.Struct(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": ErrValidationPrefix + err.Error()})
	}

	post.Title = input.Title
	post.Slug = input.Slug
	post.Body = input.Body

	if err := s.db.Save(post).Error; err != nil {
		log.Error().Err(err).Msg("update post failed")

		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Failed to update post (possibly duplicate slug)"})
	}

	return c.JSON(post)
}

// Delete removes a post and its stored cover image.
func (s *Service) Delete(c *fiber.Ctx) error {
	post, resp := s.loadPost(c)
	if post == nil {
		return resp
	}

	if err := s.db.Delete(post).Error; err != nil {
		log.Error().Err(err).Msg("delete post failed")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete post"})
	}

	if post.CoverKey != "" && s.store != nil {
		if err := s.store.Delete(c.Context(), post.CoverKey); err != nil {
			log.Error().Err(err).Str("key", post.CoverKey).Msg("delete cover failed")
		}
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// Publish makes a post visible on the public feed and emits the site event.
// Publishing an already-published post is a no-op.
func (s *Service) Publish(c *fiber.Ctx) error {
	post, resp := s.loadPost(c)
	if post == nil {
		return resp
	}

	if post.Published {
		return c.JSON(post)
	}

	post.Published = true

	if err := s.db.Save(post).Error; err != nil {
		log.Error().Err(err).Msg("publish post failed")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to publish post"})
	}

	if err := s.producer.Publish(c.Context(), queue.NewPostEvent(post.Title)); err != nil {
		// The post is live either way; the notification just goes missing.
		log.Error().Err(err).Uint64("post_id", post.ID).Msg("publish post event failed")
	}

	return c.JSON(post)
}

// UploadCover stores a cover image for the post.
func (s *Service) UploadCover(c *fiber.Ctx) error {
	post, resp := s.loadPost(c)
	if post == nil {
		return resp
	}

	if s.store == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "Object storage is not configured"})
	}

	fileHeader, err := c.FormFile("cover")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Missing cover file"})
	}

	if fileHeader.Size > MaxCoverSize {
		return c.Status(fiber.StatusRequestEntityTooLarge).JSON(fiber.Map{"error": "Cover image too large"})
	}

	file, err := fileHeader.Open()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Unreadable cover file"})
	}
	defer file.Close()

	key := storage.CoverKey(post.ID, fileHeader.Filename)

	contentType := fileHeader.Header.Get("Content-Type")
	if err := s.store.Put(c.Context(), key, file, fileHeader.Size, contentType); err != nil {
		log.Error().Err(err).Str("key", key).Msg("store cover failed")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to store cover image"})
	}

	oldKey := post.CoverKey
	post.CoverKey = key

	if err := s.db.Save(post).Error; err != nil {
		log.Error().Err(err).Msg("update post cover failed")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update post"})
	}

	if oldKey != "" {
		if err := s.store.Delete(c.Context(), oldKey); err != nil {
			log.Error().Err(err).Str("key", oldKey).Msg("delete old cover failed")
		}
	}

	return c.JSON(post)
}

// loadPost resolves the :id parameter to a post, or writes the error
// response and returns nil.
func (s *Service) loadPost(c *fiber.Ctx) (*models.Post, error) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil || id == 0 {
		return nil, c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": ErrInvalidID})
	}

	var post models.Post
	if err := s.db.First(&post, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": ErrPostNotFound})
		}

		log.Error().Err(err).Msg("load post failed")

		return nil, c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": ErrFailedLoadPosts})
	}

	return &post, nil
}

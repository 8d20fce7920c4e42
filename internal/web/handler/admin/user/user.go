// Package user provides the admin endpoints for managing back-office
// accounts: listing users, assigning the single role each user holds and
// editing the per-user menu allow-list.
package user

import (
	"errors"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/CargoLink-Admin/CargoLink-Admin/internal/auth"
	"github.com/CargoLink-Admin/CargoLink-Admin/internal/authz"
	"github.com/CargoLink-Admin/CargoLink-Admin/internal/config"
	"github.com/CargoLink-Admin/CargoLink-Admin/internal/db/controller/userrole"
	"github.com/CargoLink-Admin/CargoLink-Admin/internal/db/models"
	"github.com/CargoLink-Admin/CargoLink-Admin/internal/web/handler"
	"github.com/CargoLink-Admin/CargoLink-Admin/internal/web/navigation"
)

const (
	// Path is the base path for user management.
	Path = handler.RootPath + "admin/user"

	// DefaultPageSize for pagination.
	DefaultPageSize = 25
	// MaxPageSize clamps the page size upper bound.
	MaxPageSize = 100

	// QueryPage is the query parameter name for the current page index.
	QueryPage = "page"
	// QueryPageSize is the query parameter name for the page size.
	QueryPageSize = "pageSize"
	// QuerySearch is the query parameter name for the search term.
	QuerySearch = "search"

	// ErrInvalidID is returned when the provided id parameter is invalid or non-positive.
	ErrInvalidID = "Invalid id"
	// ErrUserNotFound is returned when a user with the given id does not exist.
	ErrUserNotFound = "User not found"
	// ErrFailedLoadUsers indicates an unexpected error occurred while loading users.
	ErrFailedLoadUsers = "Failed to load users"
	// ErrFailedLoadSelection indicates the role/menu selection could not be loaded.
	ErrFailedLoadSelection = "Failed to load user authorization"
	// ErrSelfChange is returned when an administrator edits their own role.
	ErrSelfChange = "You cannot change your own role"
	// ErrLastAdmin is returned when an operation would remove the last administrator.
	ErrLastAdmin = "Cannot remove the last administrator"
	// ErrValidationPrefix prefixes validation error messages shown to the user.
	ErrValidationPrefix = "Validation failed: "

	// RouteDetail is the route for one user's account, role and menu.
	RouteDetail = Path + "/:id"
	// RouteRole is the route for assigning or revoking the user's role.
	RouteRole = Path + "/:id/role"
	// RouteMenu is the route for reading and saving the menu allow-list.
	RouteMenu = Path + "/:id/menu"
	// RouteCreate is the route for creating an account.
	RouteCreate = Path
)

// Service provides admin operations on user accounts.
type Service struct {
	handler.Service
	cfg       *config.Config
	db        *gorm.DB
	validator *validator.Validate
	provider  *auth.LocalProvider
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
	s.provider = auth.NewLocalProvider(db)

	// Routes
	app.Get(Path,
		auth.RequireMenu(authService, navigation.KeyUsers),
		s.List,
	)
	app.Post(RouteCreate,
		auth.RequireAdmin(authService),
		s.Create,
	)
	app.Get(RouteDetail,
		auth.RequireMenu(authService, navigation.KeyUsers),
		s.Detail,
	)
	app.Put(RouteRole,
		auth.RequireAdmin(authService),
		s.AssignRole,
	)
	app.Delete(RouteRole,
		auth.RequireAdmin(authService),
		s.RevokeRole,
	)
	app.Put(RouteMenu,
		auth.RequireAdmin(authService),
		s.SaveMenu,
	)
}

// List returns users with simple pagination and search.
func (s *Service) List(c *fiber.Ctx) error {
	page := c.QueryInt(QueryPage, 1)
	if page < 1 {
		page = 1
	}

	pageSize := c.QueryInt(QueryPageSize, DefaultPageSize)
	if pageSize < 1 || pageSize > MaxPageSize {
		pageSize = DefaultPageSize
	}

	search := c.Query(QuerySearch, "")

	var (
		users      []models.User
		totalCount int64
		tx         = s.db.Model(&models.User{})
	)

	if search != "" {
		like := "%" + search + "%"
		tx = tx.Where("email LIKE ? OR full_name LIKE ?", like, like)
	}

	if err := tx.Count(&totalCount).Error; err != nil {
		log.Error().Err(err).Msg("count users failed")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": ErrFailedLoadUsers})
	}

	totalPages := int((totalCount + int64(pageSize) - 1) / int64(pageSize))
	if totalPages < 1 {
		totalPages = 1
	}

	if page > totalPages {
		page = totalPages
	}

	offset := (page - 1) * pageSize
	if err := tx.Order("id ASC").Limit(pageSize).Offset(offset).Find(&users).Error; err != nil {
		log.Error().Err(err).Msg("query users failed")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": ErrFailedLoadUsers})
	}

	// Attach each user's role name for the list view.
	roleNames := make(map[uint64]string, len(users))

	for _, u := range users {
		link, err := userrole.Current(s.db, u.ID)
		if err != nil {
			log.Error().Err(err).Uint64("user_id", u.ID).Msg("load role link failed")
			continue
		}

		if link != nil {
			roleNames[u.ID] = link.Role.Name
		}
	}

	items := make([]fiber.Map, 0, len(users))
	for _, u := range users {
		items = append(items, fiber.Map{
			"id":        u.ID,
			"email":     u.Email,
			"full_name": u.FullName,
			"active":    u.Active,
			"role":      roleNames[u.ID],
		})
	}

	return c.JSON(fiber.Map{
		"users":       items,
		"search":      search,
		"page":        page,
		"page_size":   pageSize,
		"total_items": totalCount,
		"total_pages": totalPages,
	})
}

// createInput is the payload for creating an account.
type createInput struct {
	Email    string `json:"email" validate:"required,email"`
	FullName string `json:"full_name" validate:"required,max=200"`
	Password string `json:"password" validate:"required,min=10"`
}

// Create adds a back-office account.
func (s *Service) Create(c *fiber.Ctx) error {
	var input createInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": ErrValidationPrefix + err.Error()})
	}

	if err := s.validator.Struct(input); err != nil {
		log.Warn().Err(err).Msg("validation failed for create user")

		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": ErrValidationPrefix + err.Error()})
	}

	user, err := s.provider.CreateUser(input.Email, input.Password, input.FullName)
	if err != nil {
		if errors.Is(err, auth.ErrEmailExists) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
		}

		log.Error().Err(err).Msg("create user failed")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create user"})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"id":        user.ID,
		"email":     user.Email,
		"full_name": user.FullName,
	})
}

// Detail returns one user's account with their role and menu allow-list.
func (s *Service) Detail(c *fiber.Ctx) error {
	userID, ok := parseID(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": ErrInvalidID})
	}

	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": ErrUserNotFound})
		}

		log.Error().Err(err).Msg("load user failed")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": ErrFailedLoadUsers})
	}

	view, err := s.loadSelection(userID)
	if err != nil {
		log.Error().Err(err).Uint64("user_id", userID).Msg("load selection failed")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": ErrFailedLoadSelection})
	}

	return c.JSON(fiber.Map{
		"id":        user.ID,
		"email":     user.Email,
		"full_name": user.FullName,
		"active":    user.Active,
		"role":      view.Role,
		"menu":      view.MenuItems,
	})
}

// roleInput is the payload for assigning a role.
type roleInput struct {
	RoleID uint `json:"role_id" validate:"required,gt=0"`
}

// AssignRole gives the user a role, replacing the one they hold.
func (s *Service) AssignRole(c *fiber.Ctx) error {
	userID, ok := parseID(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": ErrInvalidID})
	}

	if rejected, resp := s.rejectSelfChange(c, userID); rejected {
		return resp
	}

	var input roleInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": ErrValidationPrefix + err.Error()})
	}

	if err := s.validator.Struct(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": ErrValidationPrefix + err.Error()})
	}

	facade, err := s.selectUser(userID)
	if err != nil {
		log.Error().Err(err).Uint64("user_id", userID).Msg("load selection failed")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": ErrFailedLoadSelection})
	}

	if err := facade.AssignRole(input.RoleID); err != nil {
		return s.mapRoleError(c, err)
	}

	return c.JSON(facade.Snapshot())
}

// RevokeRole removes the user's role.
func (s *Service) RevokeRole(c *fiber.Ctx) error {
	userID, ok := parseID(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": ErrInvalidID})
	}

	if rejected, resp := s.rejectSelfChange(c, userID); rejected {
		return resp
	}

	facade, err := s.selectUser(userID)
	if err != nil {
		log.Error().Err(err).Uint64("user_id", userID).Msg("load selection failed")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": ErrFailedLoadSelection})
	}

	if err := facade.RevokeRole(); err != nil {
		return s.mapRoleError(c, err)
	}

	return c.JSON(facade.Snapshot())
}

// menuInput is the payload for saving the menu allow-list.
type menuInput struct {
	Items []string `json:"items"`
}

// SaveMenu replaces the user's menu allow-list in one batch.
func (s *Service) SaveMenu(c *fiber.Ctx) error {
	userID, ok := parseID(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": ErrInvalidID})
	}

	var input menuInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": ErrValidationPrefix + err.Error()})
	}

	facade, err := s.selectUser(userID)
	if err != nil {
		log.Error().Err(err).Uint64("user_id", userID).Msg("load selection failed")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": ErrFailedLoadSelection})
	}

	// Apply the submitted set as toggles over the loaded one, then save the
	// batch in one write.
	current := facade.Snapshot().MenuItems

	wanted := make(map[string]bool, len(input.Items))
	for _, key := range input.Items {
		wanted[key] = true
	}

	for _, key := range current {
		if !wanted[key] {
			if err := facade.ToggleMenu(key, false); err != nil {
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
			}
		}
	}

	for key := range wanted {
		if err := facade.ToggleMenu(key, true); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}
	}

	if err := facade.SaveMenu(); err != nil {
		log.Error().Err(err).Uint64("user_id", userID).Msg("save menu failed")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to save menu access"})
	}

	return c.JSON(facade.Snapshot())
}

// selectUser builds a facade loaded with the user's role and menu.
func (s *Service) selectUser(userID uint64) (*authz.Facade, error) {
	facade, err := authz.New(s.db)
	if err != nil {
		return nil, err
	}

	if err := facade.Select(userID); err != nil {
		return nil, err
	}

	return facade, nil
}

// loadSelection returns the selection snapshot for a user.
func (s *Service) loadSelection(userID uint64) (authz.View, error) {
	facade, err := s.selectUser(userID)
	if err != nil {
		return authz.View{}, err
	}

	return facade.Snapshot(), nil
}

// rejectSelfChange blocks administrators from editing their own role. The
// last-administrator guard would catch the dangerous cases anyway; failing
// early gives a clearer message.
func (s *Service) rejectSelfChange(c *fiber.Ctx, targetID uint64) (bool, error) {
	sessionData := auth.CurrentSession(c)
	if sessionData != nil && sessionData.User.ID == targetID {
		return true, c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": ErrSelfChange})
	}

	return false, nil
}

// mapRoleError translates role mutation failures to HTTP responses.
func (s *Service) mapRoleError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, userrole.ErrLastAdmin):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": ErrLastAdmin})
	case errors.Is(err, userrole.ErrRoleNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Role not found"})
	default:
		log.Error().Err(err).Msg("role mutation failed")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to change role"})
	}
}

func parseID(c *fiber.Ctx) (uint64, bool) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}

	return id, true
}

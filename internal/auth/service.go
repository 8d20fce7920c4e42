package auth

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/CargoLink-Admin/CargoLink-Admin/internal/db/controller/menuaccess"
	"github.com/CargoLink-Admin/CargoLink-Admin/internal/db/controller/userrole"
	"github.com/CargoLink-Admin/CargoLink-Admin/internal/db/models"
	"github.com/CargoLink-Admin/CargoLink-Admin/internal/web/navigation"
)

// Service answers authorization questions from the role link and the
// per-user menu allow-list.
type Service struct {
	db *gorm.DB
}

// NewService creates a new auth service.
func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// CurrentRole returns the role a user holds, or nil when unassigned.
func (s *Service) CurrentRole(userID uint64) (*models.Role, error) {
	link, err := userrole.Current(s.db, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load role link: %w", err)
	}
	if link == nil {
		return nil, nil
	}

	return &link.Role, nil
}

// IsAdmin reports whether a user holds an admin-flagged role.
func (s *Service) IsAdmin(userID uint64) (bool, error) {
	role, err := s.CurrentRole(userID)
	if err != nil {
		return false, err
	}

	return role != nil && role.IsAdmin, nil
}

// CanSeeMenu reports whether a user may open the screen behind a navigation
// key. Admins see everything; other users only the keys on their allow-list.
func (s *Service) CanSeeMenu(userID uint64, key navigation.Key) (bool, error) {
	admin, err := s.IsAdmin(userID)
	if err != nil {
		return false, err
	}
	if admin {
		return true, nil
	}

	items, err := menuaccess.Get(s.db, userID)
	if err != nil {
		return false, fmt.Errorf("failed to load menu access: %w", err)
	}

	for _, item := range items {
		if item == string(key) {
			return true, nil
		}
	}

	return false, nil
}

// VisibleMenu returns the navigation entries a user may see, in catalog
// order. Admins get the full catalog regardless of any stored allow-list.
func (s *Service) VisibleMenu(userID uint64) ([]navigation.Item, error) {
	admin, err := s.IsAdmin(userID)
	if err != nil {
		return nil, err
	}
	if admin {
		return navigation.AllItems(), nil
	}

	items, err := menuaccess.Get(s.db, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load menu access: %w", err)
	}

	return navigation.Items(items), nil
}

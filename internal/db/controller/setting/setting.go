// Package setting provides CRUD operations for public site settings.
package setting

import (
	"errors"

	"gorm.io/gorm"

	"github.com/CargoLink-Admin/CargoLink-Admin/internal/db/models"
)

const keyQueryPattern = "key = ?"

// Well-known site setting keys consumed by the public contact endpoint.
const (
	KeyContactEmail  = "contact_email"
	KeyContactPhone  = "contact_phone"
	KeyOfficeAddress = "office_address"
	KeyMapEmbedURL   = "map_embed_url"
)

var (
	// ErrSettingNotFound is returned when a setting is not found.
	ErrSettingNotFound = errors.New("setting not found")
	// ErrSettingKeyEmpty is returned when attempting to read or write a setting with an empty key.
	ErrSettingKeyEmpty = errors.New("setting key cannot be empty")
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
)

// Get retrieves a setting by its key.
func Get(db *gorm.DB, key string) (*models.SiteSetting, error) {
	if db == nil {
		return nil, ErrDBNil
	}
	if key == "" {
		return nil, ErrSettingKeyEmpty
	}

	var s models.SiteSetting
	result := db.Where(keyQueryPattern, key).First(&s)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrSettingNotFound
		}
		return nil, result.Error
	}

	return &s, nil
}

// GetAll retrieves all site settings.
func GetAll(db *gorm.DB) ([]models.SiteSetting, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var settings []models.SiteSetting
	result := db.Order("key ASC").Find(&settings)
	if result.Error != nil {
		return nil, result.Error
	}

	return settings, nil
}

// Set creates or updates a setting by key (upsert operation).
func Set(db *gorm.DB, key, value string) (*models.SiteSetting, error) {
	if db == nil {
		return nil, ErrDBNil
	}
	if key == "" {
		return nil, ErrSettingKeyEmpty
	}

	var s models.SiteSetting
	result := db.Where(keyQueryPattern, key).First(&s)

	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		s = models.SiteSetting{Key: key, Value: value}
		if err := db.Create(&s).Error; err != nil {
			return nil, err
		}

		return &s, nil
	}
	if result.Error != nil {
		return nil, result.Error
	}

	s.Value = value
	result = db.Save(&s)
	if result.Error != nil {
		return nil, result.Error
	}

	return &s, nil
}

// Delete deletes a setting by key.
func Delete(db *gorm.DB, key string) error {
	if db == nil {
		return ErrDBNil
	}
	if key == "" {
		return ErrSettingKeyEmpty
	}

	result := db.Where(keyQueryPattern, key).Delete(&models.SiteSetting{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrSettingNotFound
	}

	return nil
}

package daemon

import (
	"gorm.io/gorm"

	"github.com/CargoLink-Admin/CargoLink-Admin/internal/config"
	"github.com/CargoLink-Admin/CargoLink-Admin/internal/db/models"
)

// The built-in role catalog.
const (
	RoleAdmin   = "admin"
	RoleUser    = "user"
	RolePartner = "partner"
)

// seed creates the built-in roles and, on an empty user table, the initial
// administrator. The admin link matters: without it the last-administrator
// guard would lock every role mutation out.
func seed(_ *config.Config, db *gorm.DB) {
	roles := map[string]models.Role{
		RoleAdmin: {
			Name:        RoleAdmin,
			Description: "Full administrative access",
			IsSystem:    true,
			IsAdmin:     true,
		},
		RoleUser: {
			Name:        RoleUser,
			Description: "Back-office staff",
			IsSystem:    true,
		},
		RolePartner: {
			Name:        RolePartner,
			Description: "Partner company account",
			IsSystem:    true,
		},
	}

	for name, role := range roles {
		var existing models.Role
		if err := db.Where(models.WhereNameIs, name).First(&existing).Error; err != nil {
			db.Create(&role)
		}
	}

	var count int64
	db.Model(&models.User{}).Count(&count)

	if count == 0 {
		// Create the initial administrator. The password must be changed
		// after the first login.
		admin := models.User{
			Email:    "admin@cargolink.local",
			FullName: "Administrator",
			Password: models.HashPassword("changeme"),
			Active:   true,
		}

		db.Create(&admin)

		var adminRole models.Role
		if err := db.Where(models.WhereNameIs, RoleAdmin).First(&adminRole).Error; err == nil {
			db.Create(&models.UserRole{
				UserID: admin.ID,
				RoleID: adminRole.ID,
			})
		}
	}
}

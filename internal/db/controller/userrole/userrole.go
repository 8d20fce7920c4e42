// Package userrole manages the single role link each user holds.
//
// The assignment policy is upsert-by-user: assigning a role to a user who
// already holds one replaces the existing link instead of adding a second.
// The package also enforces the last-administrator guard: no operation may
// leave the system without at least one user holding an admin-flagged role.
// The guard reads the admin link rows with row locks inside the same
// database transaction that mutates them, so two administrators demoting
// different admins concurrently serialize instead of both passing a stale
// snapshot count.
package userrole

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/CargoLink-Admin/CargoLink-Admin/internal/db/models"
)

const whereUserIs = "user_id = ?"

var (
	// ErrRoleNotFound is returned when the target role does not exist.
	ErrRoleNotFound = errors.New("role not found")
	// ErrLastAdmin is returned when an operation would remove the last
	// remaining holder of an admin-flagged role.
	ErrLastAdmin = errors.New("cannot remove the last administrator")
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
)

// Current returns the role link for a user, with the Role preloaded,
// or nil when the user holds no role. If more than one link exists from
// external manipulation the lowest ID wins, so repeated reads agree.
func Current(db *gorm.DB, userID uint64) (*models.UserRole, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var link models.UserRole
	result := db.Preload("Role").Where(whereUserIs, userID).Order("id ASC").First(&link)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}

	return &link, nil
}

// Assign links a user to a role, replacing any existing link (upsert-by-user).
// When the change would demote the last remaining admin the transaction is
// rolled back and ErrLastAdmin returned with the link unchanged.
func Assign(db *gorm.DB, userID uint64, roleID uint) (*models.UserRole, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var link *models.UserRole

	err := db.Transaction(func(tx *gorm.DB) error {
		var target models.Role
		if err := tx.First(&target, roleID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrRoleNotFound
			}
			return err
		}

		var existing models.UserRole
		err := tx.Preload("Role").Where(whereUserIs, userID).Order("id ASC").First(&existing).Error

		if errors.Is(err, gorm.ErrRecordNotFound) {
			link = &models.UserRole{UserID: userID, RoleID: roleID}
			return tx.Create(link).Error
		}
		if err != nil {
			return err
		}

		// Reassigning away from an admin role needs the guard.
		if existing.Role.IsAdmin && !target.IsAdmin {
			count, err := lockAdminHolders(tx)
			if err != nil {
				return err
			}
			if count <= 1 {
				return ErrLastAdmin
			}
		}

		existing.RoleID = roleID
		if err := tx.Save(&existing).Error; err != nil {
			return err
		}

		link = &existing
		return nil
	})
	if err != nil {
		return nil, err
	}

	return link, nil
}

// Revoke removes a user's role link. Revoking nothing is a no-op.
// Removing the link of the last remaining admin is refused with ErrLastAdmin.
func Revoke(db *gorm.DB, userID uint64) error {
	if db == nil {
		return ErrDBNil
	}

	return db.Transaction(func(tx *gorm.DB) error {
		var existing models.UserRole
		err := tx.Preload("Role").Where(whereUserIs, userID).Order("id ASC").First(&existing).Error

		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		if err != nil {
			return err
		}

		if existing.Role.IsAdmin {
			count, err := lockAdminHolders(tx)
			if err != nil {
				return err
			}
			if count <= 1 {
				return ErrLastAdmin
			}
		}

		return tx.Where(whereUserIs, userID).Delete(&models.UserRole{}).Error
	})
}

// AdminHolderCount returns how many distinct users currently hold an
// admin-flagged role. The count is computed from link rows, never from a
// cached value.
func AdminHolderCount(db *gorm.DB) (int64, error) {
	if db == nil {
		return 0, ErrDBNil
	}

	return adminHolderCount(db)
}

func adminHolderCount(tx *gorm.DB) (int64, error) {
	var count int64

	err := tx.Table("user_roles").
		Joins("JOIN roles ON roles.id = user_roles.role_id").
		Where("roles.is_admin = ?", true).
		Distinct("user_roles.user_id").
		Count(&count).Error
	if err != nil {
		return 0, err
	}

	return count, nil
}

// lockAdminHolders counts distinct admin holders for the guard, selecting
// the link rows FOR UPDATE. A plain count reads from the transaction
// snapshot under REPEATABLE READ, so two transactions demoting different
// admins could each see count=2 and both commit; the locking read makes the
// second wait and re-read after the first commits. SQLite has no row locks,
// its driver drops the clause and the single writer serializes instead.
func lockAdminHolders(tx *gorm.DB) (int64, error) {
	var holderIDs []uint64

	err := tx.Model(&models.UserRole{}).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Joins("JOIN roles ON roles.id = user_roles.role_id").
		Where("roles.is_admin = ?", true).
		Pluck("user_roles.user_id", &holderIDs).Error
	if err != nil {
		return 0, err
	}

	distinct := make(map[uint64]struct{}, len(holderIDs))
	for _, id := range holderIDs {
		distinct[id] = struct{}{}
	}

	return int64(len(distinct)), nil
}

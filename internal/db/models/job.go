package models

import "time"

// JobOffer represents an open position listed on the recruitment page.
type JobOffer struct {
	// ID is the unique identifier for the offer.
	ID uint64 `gorm:"primaryKey"`
	// Title is the position name.
	Title string `gorm:"size:255;not null"`
	// Location is the office or region the position is based in.
	Location string `gorm:"size:255"`
	// Description is the full offer text.
	Description string `gorm:"type:text"`
	// Active controls visibility on the public recruitment page.
	Active bool `gorm:"default:true"`
	// CreatedBy is the ID of the admin user who published the offer.
	CreatedBy uint64
	// CreatedAt is the timestamp when the offer was created (managed by GORM).
	CreatedAt time.Time
	// UpdatedAt is the timestamp when the offer was last updated (managed by GORM).
	UpdatedAt time.Time
}

// TableName specifies the database table name for the JobOffer model.
func (JobOffer) TableName() string {
	return "job_offers"
}

// JobApplication represents a candidate application submitted against an offer.
// The uploaded CV lives in the object store; only its key is recorded here.
type JobApplication struct {
	// ID is the unique identifier for the application.
	ID uint64 `gorm:"primaryKey"`
	// JobOfferID is the offer the application targets.
	JobOfferID uint64 `gorm:"not null;index"`
	// JobOffer is the associated offer (loaded via foreign key).
	// When an offer is deleted, its applications are removed with it (CASCADE).
	JobOffer JobOffer `gorm:"foreignKey:JobOfferID;constraint:OnDelete:CASCADE"`
	// FullName is the candidate's name.
	FullName string `gorm:"size:200;not null"`
	// Email is the candidate's contact address.
	Email string `gorm:"size:255;not null"`
	// Phone is the candidate's contact number.
	Phone string `gorm:"size:50"`
	// CVKey is the object-store key of the uploaded CV.
	CVKey string `gorm:"size:255"`
	// CreatedAt is the timestamp when the application was received (managed by GORM).
	CreatedAt time.Time
}

// TableName specifies the database table name for the JobApplication model.
func (JobApplication) TableName() string {
	return "job_applications"
}

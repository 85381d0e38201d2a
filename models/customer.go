package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Customer struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	ProfileID uuid.UUID `gorm:"type:uuid;index;not null;uniqueIndex:idx_profile_phone,priority:1"`

	Name      string `gorm:"not null"`
	Phone     string `gorm:"not null;uniqueIndex:idx_profile_phone,priority:2"`
	Email     string
	Notes     string
	LastVisit *time.Time
	IsActive  bool `gorm:"default:true"`

	Bookings []Booking `gorm:"foreignKey:CustomerID"`

	gorm.Model
}

func (c *Customer) BeforeCreate(tx *gorm.DB) (err error) {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return
}

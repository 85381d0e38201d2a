package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type StaffMember struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	ProfileID uuid.UUID `gorm:"type:uuid;index;not null"`
	Name      string    `gorm:"not null"`
	Phone     string
	Email     string

	WorkingHours WorkingHours `gorm:"type:jsonb;default:'{}'"`

	IsActive bool `gorm:"default:true"`

	Bookings []Booking `gorm:"foreignKey:StaffID"`

	gorm.Model
}

func (s *StaffMember) BeforeCreate(tx *gorm.DB) (err error) {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return
}

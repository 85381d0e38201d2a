package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Profile struct {
	ID      uuid.UUID `gorm:"type:uuid;primary_key"`
	Name    string    `gorm:"not null"`
	Address string
	Phone   string

	BusinessOperatingHours WorkingHours `gorm:"type:jsonb;default:'{}'"`

	Users     []User        `gorm:"foreignKey:ProfileID"`
	Customers []Customer    `gorm:"foreignKey:ProfileID"`
	Services  []Service     `gorm:"foreignKey:ProfileID"`
	Staff     []StaffMember `gorm:"foreignKey:ProfileID"`
	Bookings  []Booking     `gorm:"foreignKey:ProfileID"`
	Campaigns []Campaign    `gorm:"foreignKey:ProfileID"`

	gorm.Model
}

func (p *Profile) BeforeCreate(tx *gorm.DB) (err error) {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return
}

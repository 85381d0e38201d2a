package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BookingStatus string

const (
	BookingScheduled BookingStatus = "scheduled"
	BookingCompleted BookingStatus = "completed"
	BookingCancelled BookingStatus = "cancelled"
)

func (s BookingStatus) Valid() bool {
	switch s {
	case BookingScheduled, BookingCompleted, BookingCancelled:
		return true
	}
	return false
}

// CanTransition reports whether moving to target is a legal status change.
// Completed and cancelled are terminal.
func (s BookingStatus) CanTransition(target BookingStatus) bool {
	if s == target {
		return false
	}
	switch s {
	case BookingScheduled:
		return target == BookingCompleted || target == BookingCancelled
	}
	return false
}

type Booking struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	ProfileID uuid.UUID `gorm:"type:uuid;index;not null"`

	CustomerID uuid.UUID  `gorm:"type:uuid;index;not null"`
	ServiceID  uuid.UUID  `gorm:"type:uuid;index;not null"`
	StaffID    *uuid.UUID `gorm:"type:uuid;index"`

	BookingTime time.Time     `gorm:"index;not null"`
	Status      BookingStatus `gorm:"type:varchar(20);default:'scheduled'"`
	Notes       string

	Customer Customer     `gorm:"foreignKey:CustomerID"`
	Service  Service      `gorm:"foreignKey:ServiceID"`
	Staff    *StaffMember `gorm:"foreignKey:StaffID"`

	gorm.Model
}

func (b *Booking) BeforeCreate(tx *gorm.DB) (err error) {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return
}

// EndTime is the booking end derived from its service duration. Bookings
// whose service is not loaded get a zero-length span.
func (b *Booking) EndTime() time.Time {
	return b.BookingTime.Add(b.Service.DurationSpan())
}

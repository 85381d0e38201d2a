package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type RequestStatus string

const (
	RequestPending  RequestStatus = "pending"
	RequestApproved RequestStatus = "approved"
	RequestRejected RequestStatus = "rejected"
)

func (s RequestStatus) CanTransition(target RequestStatus) bool {
	if s == target {
		return false
	}
	return s == RequestPending && (target == RequestApproved || target == RequestRejected)
}

// BookingModificationRequest is created when a customer answers a campaign
// message asking for a new time. The original booking is untouched until
// staff approve or reject the request.
type BookingModificationRequest struct {
	ID                uuid.UUID `gorm:"type:uuid;primary_key"`
	OriginalBookingID uuid.UUID `gorm:"type:uuid;index;not null"`
	MessageResponseID uuid.UUID `gorm:"type:uuid;index;not null"`

	RequestedBookingTime time.Time     `gorm:"not null"`
	Status               RequestStatus `gorm:"type:varchar(20);default:'pending'"`
	Notes                string

	OriginalBooking Booking `gorm:"foreignKey:OriginalBookingID"`

	gorm.Model
}

func (r *BookingModificationRequest) BeforeCreate(tx *gorm.DB) (err error) {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return
}

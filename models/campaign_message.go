package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MessageStatus string

const (
	MessagePending   MessageStatus = "pending"
	MessageSent      MessageStatus = "sent"
	MessageDelivered MessageStatus = "delivered"
	MessageFailed    MessageStatus = "failed"
)

// CanTransition reports whether moving to target is legal. A failed
// message never becomes sent; delivery confirmation only follows a send.
func (s MessageStatus) CanTransition(target MessageStatus) bool {
	if s == target {
		return false
	}
	switch s {
	case MessagePending:
		return target == MessageSent || target == MessageFailed
	case MessageSent:
		return target == MessageDelivered
	}
	return false
}

// CampaignMessage is the ledger row recording that a campaign has messaged a
// booking. The unique index on (campaign_id, booking_id) is what makes the
// pipeline at-most-once under overlapping evaluation passes.
type CampaignMessage struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key"`
	CampaignID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_campaign_booking,priority:1"`
	BookingID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_campaign_booking,priority:2"`
	CustomerID uuid.UUID `gorm:"type:uuid;index;not null"`

	MessageContent      string              `gorm:"type:text"`
	CommunicationMethod CommunicationMethod `gorm:"type:varchar(10)"`
	Status              MessageStatus       `gorm:"type:varchar(20);default:'pending'"`
	ErrorMessage        string              `gorm:"type:text"`

	ResponseToken string `gorm:"uniqueIndex;not null"`
	SentAt        *time.Time
	ExpiresAt     time.Time `gorm:"not null"`

	Campaign Campaign `gorm:"foreignKey:CampaignID"`
	Booking  Booking  `gorm:"foreignKey:BookingID"`
	Customer Customer `gorm:"foreignKey:CustomerID"`

	gorm.Model
}

func (m *CampaignMessage) BeforeCreate(tx *gorm.DB) (err error) {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return
}

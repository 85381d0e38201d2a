package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ResponseType string

const (
	ResponseApprove ResponseType = "approve"
	ResponseCancel  ResponseType = "cancel"
	ResponseModify  ResponseType = "modify"
)

func (t ResponseType) Valid() bool {
	switch t {
	case ResponseApprove, ResponseCancel, ResponseModify:
		return true
	}
	return false
}

// MessageResponse is the append-only record of a customer's reply. The
// unique index on campaign_message_id makes the first response win.
type MessageResponse struct {
	ID                uuid.UUID `gorm:"type:uuid;primary_key"`
	CampaignMessageID uuid.UUID `gorm:"type:uuid;uniqueIndex;not null"`

	ResponseType ResponseType `gorm:"type:varchar(10);not null"`
	RespondedAt  time.Time    `gorm:"not null"`
	IPAddress    string       `gorm:"type:varchar(45)"`
	UserAgent    string

	gorm.Model
}

func (r *MessageResponse) BeforeCreate(tx *gorm.DB) (err error) {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return
}

package services

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"time"

	"glowdesk-backend/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ErrAlreadyMessaged means a campaign message already exists for the
// (campaign, booking) pair. Callers treat it as "handled", not a failure.
var ErrAlreadyMessaged = errors.New("campaign message already exists for this booking")

const responseTokenTTL = 7 * 24 * time.Hour

// MessageLedger is the single gate deciding whether a (campaign, booking)
// pair has been messaged. The check-then-insert below is a fast path only;
// the unique index on (campaign_id, booking_id) closes the race between
// overlapping evaluation passes.
type MessageLedger struct {
	db    *gorm.DB
	clock Clock
}

func NewMessageLedger(db *gorm.DB, clock Clock) *MessageLedger {
	return &MessageLedger{db: db, clock: clock}
}

// NewResponseToken returns a 256-bit crypto-random token, base64url encoded.
// Tokens are resolved globally with no other scoping key, so they must be
// unguessable and never reused.
func NewResponseToken() string {
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		panic("failed to generate response token")
	}
	return base64.RawURLEncoding.EncodeToString(key)
}

func (l *MessageLedger) TryCreate(campaign *models.Campaign, booking *models.Booking, content string) (*models.CampaignMessage, error) {
	var existing models.CampaignMessage
	err := l.db.Where("campaign_id = ? AND booking_id = ?", campaign.ID, booking.ID).
		First(&existing).Error
	if err == nil {
		return nil, ErrAlreadyMessaged
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	now := l.clock.Now()
	message := &models.CampaignMessage{
		ID:                  uuid.New(),
		CampaignID:          campaign.ID,
		BookingID:           booking.ID,
		CustomerID:          booking.CustomerID,
		MessageContent:      content,
		CommunicationMethod: campaign.CommunicationMethod,
		Status:              models.MessagePending,
		ResponseToken:       NewResponseToken(),
		ExpiresAt:           now.Add(responseTokenTTL),
	}

	if err := l.db.Create(message).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// A concurrent pass won the insert.
			return nil, ErrAlreadyMessaged
		}
		return nil, err
	}

	return message, nil
}

// MarkSent records a successful handoff to the message sender.
func (l *MessageLedger) MarkSent(message *models.CampaignMessage) error {
	if !message.Status.CanTransition(models.MessageSent) {
		return errors.New("illegal status transition to sent from " + string(message.Status))
	}
	now := l.clock.Now()
	message.Status = models.MessageSent
	message.SentAt = &now
	return l.db.Model(message).Updates(map[string]interface{}{
		"status":  models.MessageSent,
		"sent_at": now,
	}).Error
}

// MarkFailed records a terminal send failure; there is no automatic retry.
func (l *MessageLedger) MarkFailed(message *models.CampaignMessage, sendErr error) error {
	if !message.Status.CanTransition(models.MessageFailed) {
		return errors.New("illegal status transition to failed from " + string(message.Status))
	}
	message.Status = models.MessageFailed
	message.ErrorMessage = sendErr.Error()
	return l.db.Model(message).Updates(map[string]interface{}{
		"status":        models.MessageFailed,
		"error_message": sendErr.Error(),
	}).Error
}

package services

import (
	"errors"
	"log"
	"time"

	"glowdesk-backend/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	// ErrTokenNotFound covers unknown and malformed tokens alike; callers
	// must not be able to tell the two apart.
	ErrTokenNotFound = errors.New("response token not found")

	ErrTokenExpired = errors.New("response link expired")

	// ErrAlreadyResponded enforces first-write-wins for double submits.
	ErrAlreadyResponded = errors.New("a response has already been recorded for this message")

	ErrNewTimeRequired = errors.New("a new booking time is required to request a change")
)

// ResponseService resolves response tokens and applies the customer's
// decision to the underlying booking.
type ResponseService struct {
	db    *gorm.DB
	clock Clock
}

func NewResponseService(db *gorm.DB, clock Clock) *ResponseService {
	return &ResponseService{db: db, clock: clock}
}

// Resolve maps a token to its campaign message with booking, customer and
// campaign loaded. Expiry is checked on every call, never cached.
func (s *ResponseService) Resolve(token string) (*models.CampaignMessage, error) {
	var message models.CampaignMessage
	err := s.db.Preload("Booking").Preload("Booking.Service").
		Preload("Customer").Preload("Campaign").
		Where("response_token = ?", token).
		First(&message).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTokenNotFound
		}
		return nil, err
	}

	if s.clock.Now().After(message.ExpiresAt) {
		return nil, ErrTokenExpired
	}

	return &message, nil
}

// ResponseSubmission carries a customer's POSTed decision.
type ResponseSubmission struct {
	ResponseType   models.ResponseType
	NewBookingTime *time.Time
	IPAddress      string
	UserAgent      string
}

// Record writes the response row and applies its side effect in a single
// transaction, so no partial state is ever visible:
//   - approve: acknowledgement only, no booking mutation
//   - cancel:  booking status -> cancelled
//   - modify:  a pending BookingModificationRequest; the original booking
//     is left untouched for staff to act on
func (s *ResponseService) Record(message *models.CampaignMessage, submission ResponseSubmission) (*models.MessageResponse, error) {
	if !submission.ResponseType.Valid() {
		return nil, errors.New("invalid response type: " + string(submission.ResponseType))
	}
	if submission.ResponseType == models.ResponseModify && submission.NewBookingTime == nil {
		return nil, ErrNewTimeRequired
	}

	response := &models.MessageResponse{
		ID:                uuid.New(),
		CampaignMessageID: message.ID,
		ResponseType:      submission.ResponseType,
		RespondedAt:       s.clock.Now(),
		IPAddress:         submission.IPAddress,
		UserAgent:         submission.UserAgent,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var existing models.MessageResponse
		err := tx.Where("campaign_message_id = ?", message.ID).First(&existing).Error
		if err == nil {
			return ErrAlreadyResponded
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		if err := tx.Create(response).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrAlreadyResponded
			}
			return err
		}

		switch submission.ResponseType {
		case models.ResponseApprove:
			// Acknowledgement only.

		case models.ResponseCancel:
			var booking models.Booking
			if err := tx.First(&booking, "id = ?", message.BookingID).Error; err != nil {
				return err
			}
			if !booking.Status.CanTransition(models.BookingCancelled) {
				// The booking already reached a terminal state; keep the
				// response for the audit trail but leave the booking alone.
				log.Printf("Booking %s is %s, cancel response recorded without transition",
					booking.ID, booking.Status)
				return nil
			}
			if err := tx.Model(&booking).Update("status", models.BookingCancelled).Error; err != nil {
				return err
			}

		case models.ResponseModify:
			request := &models.BookingModificationRequest{
				ID:                   uuid.New(),
				OriginalBookingID:    message.BookingID,
				MessageResponseID:    response.ID,
				RequestedBookingTime: *submission.NewBookingTime,
				Status:               models.RequestPending,
			}
			if err := tx.Create(request).Error; err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return response, nil
}

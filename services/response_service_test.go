package services

import (
	"testing"
	"time"

	"glowdesk-backend/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// seedMessage writes a sent ledger row with a live token for a fresh booking.
func seedMessage(t *testing.T, db *gorm.DB, now time.Time) (*models.CampaignMessage, *models.Booking) {
	t.Helper()

	profile := seedProfile(t, db)
	customer := seedCustomer(t, db, profile.ID, "Mia", "+35987111222")
	service := seedService(t, db, profile.ID, "Haircut", 30)
	booking := seedBooking(t, db, profile.ID, customer, service, nil,
		now.Add(24*time.Hour), models.BookingScheduled)
	campaign := seedCampaign(t, db, profile.ID, models.TriggerBeforeBooking,
		models.TriggerConfig{Days: intPtr(1)})

	sentAt := now
	message := &models.CampaignMessage{
		ID:                  uuid.New(),
		CampaignID:          campaign.ID,
		BookingID:           booking.ID,
		CustomerID:          customer.ID,
		MessageContent:      "Hi Mia, see you tomorrow.",
		CommunicationMethod: models.MethodSMS,
		Status:              models.MessageSent,
		ResponseToken:       NewResponseToken(),
		SentAt:              &sentAt,
		ExpiresAt:           now.Add(7 * 24 * time.Hour),
	}
	require.NoError(t, db.Create(message).Error)
	return message, booking
}

func TestResolveUnknownTokenNotFound(t *testing.T) {
	db := newTestDB(t)
	now := time.Date(2025, 1, 6, 10, 0, 0, 0, time.UTC)
	svc := NewResponseService(db, fixedClock{now: now})

	seedMessage(t, db, now)

	_, err := svc.Resolve("no-such-token")
	assert.ErrorIs(t, err, ErrTokenNotFound)

	_, err = svc.Resolve("")
	assert.ErrorIs(t, err, ErrTokenNotFound)
}

func TestResolveExpiredTokenAlwaysExpired(t *testing.T) {
	db := newTestDB(t)
	now := time.Date(2025, 1, 6, 10, 0, 0, 0, time.UTC)

	message, _ := seedMessage(t, db, now)

	// One second past expiry, regardless of what the caller intends to do
	// with the token.
	late := fixedClock{now: message.ExpiresAt.Add(time.Second)}
	svc := NewResponseService(db, late)

	_, err := svc.Resolve(message.ResponseToken)
	assert.ErrorIs(t, err, ErrTokenExpired)

	// Still resolvable right at the boundary.
	svc = NewResponseService(db, fixedClock{now: message.ExpiresAt})
	resolved, err := svc.Resolve(message.ResponseToken)
	require.NoError(t, err)
	assert.Equal(t, message.ID, resolved.ID)
}

func TestResolvePreloadsBookingAndCustomer(t *testing.T) {
	db := newTestDB(t)
	now := time.Date(2025, 1, 6, 10, 0, 0, 0, time.UTC)
	svc := NewResponseService(db, fixedClock{now: now})

	message, booking := seedMessage(t, db, now)

	resolved, err := svc.Resolve(message.ResponseToken)
	require.NoError(t, err)
	assert.Equal(t, booking.ID, resolved.Booking.ID)
	assert.Equal(t, "Haircut", resolved.Booking.Service.Name)
	assert.Equal(t, "Mia", resolved.Customer.Name)
}

func TestRecordCancelTransitionsBooking(t *testing.T) {
	db := newTestDB(t)
	now := time.Date(2025, 1, 6, 10, 0, 0, 0, time.UTC)
	svc := NewResponseService(db, fixedClock{now: now})

	message, booking := seedMessage(t, db, now)

	response, err := svc.Record(message, ResponseSubmission{
		ResponseType: models.ResponseCancel,
		IPAddress:    "203.0.113.7",
		UserAgent:    "test-agent",
	})
	require.NoError(t, err)
	assert.Equal(t, models.ResponseCancel, response.ResponseType)
	assert.Equal(t, now, response.RespondedAt)

	var stored models.Booking
	require.NoError(t, db.First(&stored, "id = ?", booking.ID).Error)
	assert.Equal(t, models.BookingCancelled, stored.Status)

	var count int64
	require.NoError(t, db.Model(&models.MessageResponse{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestRecordCancelOnCompletedBookingKeepsResponse(t *testing.T) {
	db := newTestDB(t)
	now := time.Date(2025, 1, 6, 10, 0, 0, 0, time.UTC)
	svc := NewResponseService(db, fixedClock{now: now})

	message, booking := seedMessage(t, db, now)
	require.NoError(t, db.Model(booking).Update("status", models.BookingCompleted).Error)

	_, err := svc.Record(message, ResponseSubmission{ResponseType: models.ResponseCancel})
	require.NoError(t, err)

	// The completed booking is left alone; the response is still on record.
	var stored models.Booking
	require.NoError(t, db.First(&stored, "id = ?", booking.ID).Error)
	assert.Equal(t, models.BookingCompleted, stored.Status)

	var count int64
	require.NoError(t, db.Model(&models.MessageResponse{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestRecordModifyCreatesPendingRequest(t *testing.T) {
	db := newTestDB(t)
	now := time.Date(2025, 1, 6, 10, 0, 0, 0, time.UTC)
	svc := NewResponseService(db, fixedClock{now: now})

	message, booking := seedMessage(t, db, now)
	originalTime := booking.BookingTime
	newTime := now.Add(48 * time.Hour)

	response, err := svc.Record(message, ResponseSubmission{
		ResponseType:   models.ResponseModify,
		NewBookingTime: &newTime,
	})
	require.NoError(t, err)

	var request models.BookingModificationRequest
	require.NoError(t, db.First(&request, "original_booking_id = ?", booking.ID).Error)
	assert.Equal(t, models.RequestPending, request.Status)
	assert.Equal(t, response.ID, request.MessageResponseID)
	assert.True(t, request.RequestedBookingTime.Equal(newTime))

	// The original booking is untouched until staff act on the request.
	var stored models.Booking
	require.NoError(t, db.First(&stored, "id = ?", booking.ID).Error)
	assert.True(t, stored.BookingTime.Equal(originalTime))
	assert.Equal(t, models.BookingScheduled, stored.Status)
}

func TestRecordModifyRequiresNewTime(t *testing.T) {
	db := newTestDB(t)
	now := time.Date(2025, 1, 6, 10, 0, 0, 0, time.UTC)
	svc := NewResponseService(db, fixedClock{now: now})

	message, _ := seedMessage(t, db, now)

	_, err := svc.Record(message, ResponseSubmission{ResponseType: models.ResponseModify})
	assert.ErrorIs(t, err, ErrNewTimeRequired)

	var count int64
	require.NoError(t, db.Model(&models.MessageResponse{}).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}

func TestRecordFirstWriteWins(t *testing.T) {
	db := newTestDB(t)
	now := time.Date(2025, 1, 6, 10, 0, 0, 0, time.UTC)
	svc := NewResponseService(db, fixedClock{now: now})

	message, booking := seedMessage(t, db, now)

	_, err := svc.Record(message, ResponseSubmission{ResponseType: models.ResponseApprove})
	require.NoError(t, err)

	// A later cancel for the same message is rejected and leaves no trace.
	_, err = svc.Record(message, ResponseSubmission{ResponseType: models.ResponseCancel})
	assert.ErrorIs(t, err, ErrAlreadyResponded)

	var stored models.Booking
	require.NoError(t, db.First(&stored, "id = ?", booking.ID).Error)
	assert.Equal(t, models.BookingScheduled, stored.Status)

	var responses []models.MessageResponse
	require.NoError(t, db.Find(&responses).Error)
	require.Len(t, responses, 1)
	assert.Equal(t, models.ResponseApprove, responses[0].ResponseType)
}

func TestRecordRejectsUnknownResponseType(t *testing.T) {
	db := newTestDB(t)
	now := time.Date(2025, 1, 6, 10, 0, 0, 0, time.UTC)
	svc := NewResponseService(db, fixedClock{now: now})

	message, _ := seedMessage(t, db, now)

	_, err := svc.Record(message, ResponseSubmission{ResponseType: "maybe"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid response type")
}

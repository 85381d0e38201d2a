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

func seedCampaign(t *testing.T, db *gorm.DB, profileID uuid.UUID, triggerType models.TriggerType, config models.TriggerConfig) *models.Campaign {
	t.Helper()
	campaign := &models.Campaign{
		ID:                  uuid.New(),
		ProfileID:           profileID,
		Name:                "Campaign " + string(triggerType),
		TriggerType:         triggerType,
		TriggerConfig:       config,
		CommunicationMethod: models.MethodSMS,
		Message:             "Hi {customer_name}, your {service_name} is on {booking_time}.",
		IsActive:            true,
	}
	require.NoError(t, db.Create(campaign).Error)
	return campaign
}

func TestBeforeBookingTriggerTargetsTomorrowsBookings(t *testing.T) {
	db := newTestDB(t)
	now := time.Date(2025, 1, 6, 10, 0, 0, 0, time.UTC)
	sender := &fakeSender{}
	svc := NewCampaignService(db, fixedClock{now: now}, sender)

	profile := seedProfile(t, db)
	customer := seedCustomer(t, db, profile.ID, "Mia", "+35987111222")
	service := seedService(t, db, profile.ID, "Haircut", 30)

	tomorrow := seedBooking(t, db, profile.ID, customer, service, nil,
		time.Date(2025, 1, 7, 14, 0, 0, 0, time.UTC), models.BookingScheduled)
	// Same day and day after tomorrow stay out of the window.
	seedBooking(t, db, profile.ID, customer, service, nil,
		time.Date(2025, 1, 6, 16, 0, 0, 0, time.UTC), models.BookingScheduled)
	seedBooking(t, db, profile.ID, customer, service, nil,
		time.Date(2025, 1, 8, 9, 0, 0, 0, time.UTC), models.BookingScheduled)

	campaign := seedCampaign(t, db, profile.ID, models.TriggerBeforeBooking,
		models.TriggerConfig{Days: intPtr(1)})

	eligible, err := svc.EligibleBookings(campaign, now)
	require.NoError(t, err)
	require.Len(t, eligible, 1)
	assert.Equal(t, tomorrow.ID, eligible[0].ID)
}

func TestBeforeBookingSecondPassCreatesNoSecondMessage(t *testing.T) {
	db := newTestDB(t)
	now := time.Date(2025, 1, 6, 10, 0, 0, 0, time.UTC)
	sender := &fakeSender{}
	svc := NewCampaignService(db, fixedClock{now: now}, sender)

	profile := seedProfile(t, db)
	customer := seedCustomer(t, db, profile.ID, "Mia", "+35987111222")
	service := seedService(t, db, profile.ID, "Haircut", 30)
	seedBooking(t, db, profile.ID, customer, service, nil,
		time.Date(2025, 1, 7, 14, 0, 0, 0, time.UTC), models.BookingScheduled)

	campaign := seedCampaign(t, db, profile.ID, models.TriggerBeforeBooking,
		models.TriggerConfig{Days: intPtr(1)})

	created, err := svc.ProcessCampaign(campaign, now)
	require.NoError(t, err)
	assert.Equal(t, 1, created)

	// Later pass the same day: still eligible, already in the ledger.
	created, err = svc.ProcessCampaign(campaign, now.Add(2*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 0, created)

	var count int64
	require.NoError(t, db.Model(&models.CampaignMessage{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
	assert.Len(t, sender.sent, 1)
}

func TestSpecificDatetimeWindowSendsOnce(t *testing.T) {
	db := newTestDB(t)
	firesAt := time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)
	sender := &fakeSender{}
	svc := NewCampaignService(db, fixedClock{now: firesAt}, sender)

	profile := seedProfile(t, db)
	customer := seedCustomer(t, db, profile.ID, "Mia", "+35987111222")
	service := seedService(t, db, profile.ID, "Haircut", 30)
	seedBooking(t, db, profile.ID, customer, service, nil,
		time.Date(2025, 1, 9, 14, 0, 0, 0, time.UTC), models.BookingScheduled)

	campaign := seedCampaign(t, db, profile.ID, models.TriggerSpecificDatetime,
		models.TriggerConfig{Datetime: timePtr(firesAt)})

	// Both evaluation instants fall inside the five-minute window.
	created, err := svc.ProcessCampaign(campaign, firesAt.Add(-3*time.Minute))
	require.NoError(t, err)
	assert.Equal(t, 1, created)

	created, err = svc.ProcessCampaign(campaign, firesAt.Add(2*time.Minute))
	require.NoError(t, err)
	assert.Equal(t, 0, created)

	var count int64
	require.NoError(t, db.Model(&models.CampaignMessage{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	// Outside the window nothing fires at all.
	eligible, err := svc.EligibleBookings(campaign, firesAt.Add(10*time.Minute))
	require.NoError(t, err)
	assert.Empty(t, eligible)
}

func TestAfterBookingWindowEdges(t *testing.T) {
	db := newTestDB(t)
	now := time.Date(2025, 1, 10, 12, 0, 0, 0, time.UTC)
	svc := NewCampaignService(db, fixedClock{now: now}, &fakeSender{})

	profile := seedProfile(t, db)
	customer := seedCustomer(t, db, profile.ID, "Mia", "+35987111222")
	service := seedService(t, db, profile.ID, "Haircut", 30)

	// cutoff = now - 2 days = Jan 8 12:00; window is (Jan 7 12:00, Jan 8 12:00]
	inWindow := seedBooking(t, db, profile.ID, customer, service, nil,
		time.Date(2025, 1, 8, 9, 0, 0, 0, time.UTC), models.BookingCompleted)
	atCutoff := seedBooking(t, db, profile.ID, customer, service, nil,
		time.Date(2025, 1, 8, 12, 0, 0, 0, time.UTC), models.BookingCompleted)
	seedBooking(t, db, profile.ID, customer, service, nil,
		time.Date(2025, 1, 7, 12, 0, 0, 0, time.UTC), models.BookingCompleted) // exactly window start, excluded
	seedBooking(t, db, profile.ID, customer, service, nil,
		time.Date(2025, 1, 8, 10, 0, 0, 0, time.UTC), models.BookingScheduled) // wrong status

	campaign := seedCampaign(t, db, profile.ID, models.TriggerAfterBooking,
		models.TriggerConfig{Days: intPtr(2)})

	eligible, err := svc.EligibleBookings(campaign, now)
	require.NoError(t, err)
	require.Len(t, eligible, 2)

	ids := []uuid.UUID{eligible[0].ID, eligible[1].ID}
	assert.Contains(t, ids, inWindow.ID)
	assert.Contains(t, ids, atCutoff.ID)
}

func TestAfterLastBookingSkipsCustomersWithLaterVisits(t *testing.T) {
	db := newTestDB(t)
	now := time.Date(2025, 1, 10, 12, 0, 0, 0, time.UTC)
	svc := NewCampaignService(db, fixedClock{now: now}, &fakeSender{})

	profile := seedProfile(t, db)
	service := seedService(t, db, profile.ID, "Haircut", 30)

	returning := seedCustomer(t, db, profile.ID, "Mia", "+35987111222")
	seedBooking(t, db, profile.ID, returning, service, nil,
		time.Date(2025, 1, 8, 9, 0, 0, 0, time.UTC), models.BookingCompleted)
	// A later completed visit means the in-window one is not her last.
	seedBooking(t, db, profile.ID, returning, service, nil,
		time.Date(2025, 1, 9, 9, 0, 0, 0, time.UTC), models.BookingCompleted)

	oneTimer := seedCustomer(t, db, profile.ID, "Nora", "+35987333444")
	lastVisit := seedBooking(t, db, profile.ID, oneTimer, service, nil,
		time.Date(2025, 1, 8, 10, 0, 0, 0, time.UTC), models.BookingCompleted)

	campaign := seedCampaign(t, db, profile.ID, models.TriggerAfterLastBooking,
		models.TriggerConfig{Days: intPtr(2)})

	eligible, err := svc.EligibleBookings(campaign, now)
	require.NoError(t, err)
	require.Len(t, eligible, 1)
	assert.Equal(t, lastVisit.ID, eligible[0].ID)

	// The plain after_booking interpretation would have included both.
	campaign.TriggerType = models.TriggerAfterBooking
	eligible, err = svc.EligibleBookings(campaign, now)
	require.NoError(t, err)
	assert.Len(t, eligible, 2)
}

func TestSendTimeDefersCampaign(t *testing.T) {
	db := newTestDB(t)
	morning := time.Date(2025, 1, 6, 10, 0, 0, 0, time.UTC)
	sender := &fakeSender{}
	svc := NewCampaignService(db, fixedClock{now: morning}, sender)

	profile := seedProfile(t, db)
	customer := seedCustomer(t, db, profile.ID, "Mia", "+35987111222")
	service := seedService(t, db, profile.ID, "Haircut", 30)
	seedBooking(t, db, profile.ID, customer, service, nil,
		time.Date(2025, 1, 7, 14, 0, 0, 0, time.UTC), models.BookingScheduled)

	campaign := seedCampaign(t, db, profile.ID, models.TriggerBeforeBooking,
		models.TriggerConfig{Days: intPtr(1)})
	campaign.SendTime = "18:00"
	require.NoError(t, db.Save(campaign).Error)

	created, err := svc.ProcessCampaign(campaign, morning)
	require.NoError(t, err)
	assert.Equal(t, 0, created)

	evening := time.Date(2025, 1, 6, 18, 5, 0, 0, time.UTC)
	created, err = svc.ProcessCampaign(campaign, evening)
	require.NoError(t, err)
	assert.Equal(t, 1, created)
}

func TestFailedSendIsRecordedAsTerminal(t *testing.T) {
	db := newTestDB(t)
	now := time.Date(2025, 1, 6, 10, 0, 0, 0, time.UTC)
	sender := &fakeSender{fail: true}
	svc := NewCampaignService(db, fixedClock{now: now}, sender)

	profile := seedProfile(t, db)
	customer := seedCustomer(t, db, profile.ID, "Mia", "+35987111222")
	service := seedService(t, db, profile.ID, "Haircut", 30)
	seedBooking(t, db, profile.ID, customer, service, nil,
		time.Date(2025, 1, 7, 14, 0, 0, 0, time.UTC), models.BookingScheduled)

	campaign := seedCampaign(t, db, profile.ID, models.TriggerBeforeBooking,
		models.TriggerConfig{Days: intPtr(1)})

	_, err := svc.ProcessCampaign(campaign, now)
	require.NoError(t, err)

	var message models.CampaignMessage
	require.NoError(t, db.First(&message, "campaign_id = ?", campaign.ID).Error)
	assert.Equal(t, models.MessageFailed, message.Status)
	assert.NotEmpty(t, message.ErrorMessage)
	assert.Nil(t, message.SentAt)

	// The failure is terminal: the ledger row blocks any retry next pass.
	created, err := svc.ProcessCampaign(campaign, now.Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 0, created)
}

func TestRunTriggerPassSkipsInactiveCampaigns(t *testing.T) {
	db := newTestDB(t)
	now := time.Date(2025, 1, 6, 10, 0, 0, 0, time.UTC)
	sender := &fakeSender{}
	svc := NewCampaignService(db, fixedClock{now: now}, sender)

	profile := seedProfile(t, db)
	customer := seedCustomer(t, db, profile.ID, "Mia", "+35987111222")
	service := seedService(t, db, profile.ID, "Haircut", 30)
	seedBooking(t, db, profile.ID, customer, service, nil,
		time.Date(2025, 1, 7, 14, 0, 0, 0, time.UTC), models.BookingScheduled)

	campaign := seedCampaign(t, db, profile.ID, models.TriggerBeforeBooking,
		models.TriggerConfig{Days: intPtr(1)})
	require.NoError(t, db.Model(campaign).Update("is_active", false).Error)

	processed, err := svc.RunTriggerPass()
	require.NoError(t, err)
	assert.Equal(t, 0, processed)
	assert.Empty(t, sender.sent)
}

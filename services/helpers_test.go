package services

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"glowdesk-backend/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens a named in-memory sqlite database (shared cache so the
// pool sees one schema) and migrates the full model set.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.Profile{},
		&models.User{},
		&models.Customer{},
		&models.Service{},
		&models.StaffMember{},
		&models.Booking{},
		&models.Campaign{},
		&models.CampaignMessage{},
		&models.MessageResponse{},
		&models.BookingModificationRequest{},
	))

	return db
}

type fixedClock struct {
	now time.Time
}

func (c fixedClock) Now() time.Time { return c.now }

type fakeSender struct {
	sent []string
	fail bool
}

func (s *fakeSender) Send(method models.CommunicationMethod, destination, content string) error {
	if s.fail {
		return errors.New("carrier unavailable")
	}
	s.sent = append(s.sent, content)
	return nil
}

func seedProfile(t *testing.T, db *gorm.DB) *models.Profile {
	t.Helper()
	profile := &models.Profile{
		ID:   uuid.New(),
		Name: "Aurora Beauty Studio",
		BusinessOperatingHours: models.WorkingHours{
			"monday":    {Enabled: true, Start: "08:00", End: "20:00"},
			"tuesday":   {Enabled: true, Start: "08:00", End: "20:00"},
			"wednesday": {Enabled: true, Start: "08:00", End: "20:00"},
			"thursday":  {Enabled: true, Start: "08:00", End: "20:00"},
			"friday":    {Enabled: true, Start: "08:00", End: "20:00"},
			"saturday":  {Enabled: true, Start: "09:00", End: "18:00"},
		},
	}
	require.NoError(t, db.Create(profile).Error)
	return profile
}

func seedCustomer(t *testing.T, db *gorm.DB, profileID uuid.UUID, name, phone string) *models.Customer {
	t.Helper()
	customer := &models.Customer{
		ID:        uuid.New(),
		ProfileID: profileID,
		Name:      name,
		Phone:     phone,
		IsActive:  true,
	}
	require.NoError(t, db.Create(customer).Error)
	return customer
}

func seedService(t *testing.T, db *gorm.DB, profileID uuid.UUID, name string, duration int) *models.Service {
	t.Helper()
	service := &models.Service{
		ID:        uuid.New(),
		ProfileID: profileID,
		Name:      name,
		Price:     45,
		Duration:  duration,
		IsActive:  true,
	}
	require.NoError(t, db.Create(service).Error)
	return service
}

func seedStaff(t *testing.T, db *gorm.DB, profileID uuid.UUID, name string, hours models.WorkingHours) *models.StaffMember {
	t.Helper()
	staff := &models.StaffMember{
		ID:           uuid.New(),
		ProfileID:    profileID,
		Name:         name,
		WorkingHours: hours,
		IsActive:     true,
	}
	require.NoError(t, db.Create(staff).Error)
	return staff
}

func seedBooking(t *testing.T, db *gorm.DB, profileID uuid.UUID, customer *models.Customer, service *models.Service, staff *models.StaffMember, at time.Time, status models.BookingStatus) *models.Booking {
	t.Helper()
	booking := &models.Booking{
		ID:          uuid.New(),
		ProfileID:   profileID,
		CustomerID:  customer.ID,
		ServiceID:   service.ID,
		BookingTime: at,
		Status:      status,
	}
	if staff != nil {
		booking.StaffID = &staff.ID
	}
	require.NoError(t, db.Create(booking).Error)
	return booking
}

func intPtr(i int) *int                 { return &i }
func timePtr(t time.Time) *time.Time    { return &t }

package services

import (
	"errors"
	"fmt"
	"time"

	"glowdesk-backend/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AdmissionResult aggregates every applicable finding rather than stopping
// at the first, so callers can show the complete list.
type AdmissionResult struct {
	IsValid  bool     `json:"isValid"`
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

func (r *AdmissionResult) addError(format string, args ...interface{}) {
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

func (r *AdmissionResult) addWarning(format string, args ...interface{}) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

// AdmissionValidator is the advisory pre-check run before a booking is
// written. It only reads; the database's overlap constraint remains the
// authoritative guard, so a race between this check and the write is
// expected and harmless.
type AdmissionValidator struct {
	db *gorm.DB
}

func NewAdmissionValidator(db *gorm.DB) *AdmissionValidator {
	return &AdmissionValidator{db: db}
}

// Validate checks whether a (staff, service, start time) triple may occupy
// its slot. excludeBookingID skips a booking's own row during updates.
func (v *AdmissionValidator) Validate(profileID, staffID, serviceID uuid.UUID, bookingTime time.Time, excludeBookingID *uuid.UUID) (AdmissionResult, error) {
	result := AdmissionResult{Errors: []string{}, Warnings: []string{}}

	if staffID == uuid.Nil {
		result.addError("a staff member is required")
	}
	if serviceID == uuid.Nil {
		result.addError("a service is required")
	}
	if bookingTime.IsZero() {
		result.addError("a booking time is required")
	}
	if len(result.Errors) > 0 {
		return result, nil
	}

	var staff models.StaffMember
	if err := v.db.Where("profile_id = ? AND id = ?", profileID, staffID).First(&staff).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			result.addError("staff member not found")
			return result, nil
		}
		return result, err
	}

	var service models.Service
	if err := v.db.Where("profile_id = ? AND id = ?", profileID, serviceID).First(&service).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			result.addError("service not found")
			return result, nil
		}
		return result, err
	}

	var profile models.Profile
	if err := v.db.First(&profile, "id = ?", profileID).Error; err != nil {
		return result, err
	}

	endTime := bookingTime.Add(service.DurationSpan())

	scheduleFindings(&result, staff.WorkingHours, "Staff member", bookingTime, endTime)
	scheduleFindings(&result, profile.BusinessOperatingHours, "Business", bookingTime, endTime)

	conflicts, err := v.conflictingBookings(profileID, staffID, bookingTime, endTime, excludeBookingID)
	if err != nil {
		return result, err
	}
	for _, conflict := range conflicts {
		result.addError("staff member already has a booking at %s",
			conflict.BookingTime.Format("15:04"))
	}

	result.IsValid = len(result.Errors) == 0
	return result, nil
}

// scheduleFindings checks the [start, end) time-of-day window against a
// working-hours schedule. Absent configuration is a warning, not an error.
// The end boundary is inclusive: a booking ending exactly at closing passes.
func scheduleFindings(result *AdmissionResult, hours models.WorkingHours, label string, start, end time.Time) {
	if len(hours) == 0 {
		result.addWarning("%s working hours are not configured", label)
		return
	}

	day, ok := hours.Day(start)
	if !ok || !day.Enabled {
		result.addError("%s is not available on %s", label, start.Weekday())
		return
	}

	dayStart, err := models.MinuteOfDay(day.Start)
	if err != nil {
		result.addWarning("%s working hours for %s are malformed", label, start.Weekday())
		return
	}
	dayEnd, err := models.MinuteOfDay(day.End)
	if err != nil {
		result.addWarning("%s working hours for %s are malformed", label, start.Weekday())
		return
	}

	startMin := start.Hour()*60 + start.Minute()
	// Derive the end minute from the duration so bookings that cross
	// midnight overflow past 1440 and fail containment.
	endMin := startMin + int(end.Sub(start)/time.Minute)

	if startMin < dayStart || endMin > dayEnd {
		result.addError("%s hours on %s are %s-%s; requested slot is %s-%s",
			label, start.Weekday(), day.Start, day.End,
			start.Format("15:04"), end.Format("15:04"))
	}
}

func (v *AdmissionValidator) conflictingBookings(profileID, staffID uuid.UUID, start, end time.Time, excludeBookingID *uuid.UUID) ([]models.Booking, error) {
	query := v.db.Where("profile_id = ? AND staff_id = ? AND status = ?",
		profileID, staffID, models.BookingScheduled).
		Where("booking_time >= ? AND booking_time < ?", start, end)
	if excludeBookingID != nil {
		query = query.Where("id <> ?", *excludeBookingID)
	}

	var bookings []models.Booking
	if err := query.Find(&bookings).Error; err != nil {
		return nil, err
	}
	return bookings, nil
}

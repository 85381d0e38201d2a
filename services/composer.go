package services

import (
	"strings"

	"glowdesk-backend/models"
)

const bookingTimeFormat = "Monday, January 2, 2006 at 3:04 PM"

// ComposeMessage renders a campaign template against a booking's relational
// context. Missing relations fall back to generic text; composition never
// fails on absent optional data.
func ComposeMessage(template string, booking *models.Booking, profile *models.Profile) string {
	customerName := "Valued Customer"
	if booking.Customer.Name != "" {
		customerName = booking.Customer.Name
	}

	serviceName := "your appointment"
	if booking.Service.Name != "" {
		serviceName = booking.Service.Name
	}

	staffName := "our team"
	if booking.Staff != nil && booking.Staff.Name != "" {
		staffName = booking.Staff.Name
	}

	businessName := "our salon"
	if profile != nil && profile.Name != "" {
		businessName = profile.Name
	}

	message := template
	message = strings.ReplaceAll(message, "{customer_name}", customerName)
	message = strings.ReplaceAll(message, "{service_name}", serviceName)
	message = strings.ReplaceAll(message, "{booking_time}", booking.BookingTime.Format(bookingTimeFormat))
	message = strings.ReplaceAll(message, "{business_name}", businessName)
	message = strings.ReplaceAll(message, "{staff_name}", staffName)

	return message
}

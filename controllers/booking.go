package controllers

import (
	"errors"
	"net/http"
	"time"

	"glowdesk-backend/config"
	"glowdesk-backend/models"
	"glowdesk-backend/services"
	"glowdesk-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BookingController struct {
	Validator *services.AdmissionValidator
}

func NewBookingController(validator *services.AdmissionValidator) *BookingController {
	return &BookingController{Validator: validator}
}

type CreateBookingInput struct {
	CustomerID  uuid.UUID  `json:"customerId" binding:"required"`
	ServiceID   uuid.UUID  `json:"serviceId" binding:"required"`
	StaffID     *uuid.UUID `json:"staffId"`
	BookingTime time.Time  `json:"bookingTime" binding:"required"`
	Notes       string     `json:"notes"`
}

type UpdateBookingInput struct {
	CustomerID  *uuid.UUID            `json:"customerId"`
	ServiceID   *uuid.UUID            `json:"serviceId"`
	StaffID     *uuid.UUID            `json:"staffId"`
	BookingTime *time.Time            `json:"bookingTime"`
	Status      *models.BookingStatus `json:"status"`
	Notes       *string               `json:"notes"`
}

type ValidateBookingInput struct {
	StaffID     uuid.UUID `json:"staffId"`
	ServiceID   uuid.UUID `json:"serviceId"`
	BookingTime time.Time `json:"bookingTime"`
	BookingID   *uuid.UUID `json:"bookingId"` // set on updates to skip the booking's own slot
}

// ValidateBooking runs the admission pre-check without writing anything.
func (ctrl *BookingController) ValidateBooking(c *gin.Context) {
	profileID, exists := c.Get("profileId")
	if !exists {
		utils.RespondWithError(c, http.StatusUnauthorized, "Profile ID not found in context")
		return
	}

	profileUUID, err := uuid.Parse(profileID.(string))
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Invalid profile ID format")
		return
	}

	var input ValidateBookingInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	result, err := ctrl.Validator.Validate(profileUUID, input.StaffID, input.ServiceID, input.BookingTime, input.BookingID)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Validation failed")
		return
	}

	c.JSON(http.StatusOK, result)
}

// CreateBooking creates a booking after running the admission check. The
// check is advisory: the database overlap constraint stays authoritative.
func (ctrl *BookingController) CreateBooking(c *gin.Context) {
	profileID, exists := c.Get("profileId")
	if !exists {
		utils.RespondWithError(c, http.StatusUnauthorized, "Profile ID not found in context")
		return
	}

	profileUUID, err := uuid.Parse(profileID.(string))
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Invalid profile ID format")
		return
	}

	var input CreateBookingInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var customer models.Customer
	if err := config.DB.Where("profile_id = ? AND id = ?", profileUUID, input.CustomerID).
		First(&customer).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusBadRequest, "Customer not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	var admission services.AdmissionResult
	if input.StaffID != nil {
		admission, err = ctrl.Validator.Validate(profileUUID, *input.StaffID, input.ServiceID, input.BookingTime, nil)
		if err != nil {
			utils.RespondWithError(c, http.StatusInternalServerError, "Validation failed")
			return
		}
		if !admission.IsValid {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error":     "Booking is not admissible",
				"admission": admission,
			})
			return
		}
	}

	booking := models.Booking{
		ID:          uuid.New(),
		ProfileID:   profileUUID,
		CustomerID:  input.CustomerID,
		ServiceID:   input.ServiceID,
		StaffID:     input.StaffID,
		BookingTime: input.BookingTime,
		Status:      models.BookingScheduled,
		Notes:       input.Notes,
	}

	if err := config.DB.Create(&booking).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			utils.RespondWithError(c, http.StatusConflict, "The time slot was just taken")
			return
		}
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create booking")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"booking":   booking,
		"admission": admission,
	})
}

// GetBookings retrieves all bookings for the profile
func (ctrl *BookingController) GetBookings(c *gin.Context) {
	profileID, exists := c.Get("profileId")
	if !exists {
		utils.RespondWithError(c, http.StatusUnauthorized, "Profile ID not found in context")
		return
	}

	profileUUID, err := uuid.Parse(profileID.(string))
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Invalid profile ID format")
		return
	}

	query := config.DB.Preload("Customer").Preload("Service").Preload("Staff").
		Where("profile_id = ?", profileUUID)

	if status := c.Query("status"); status != "" {
		if !models.BookingStatus(status).Valid() {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid status filter")
			return
		}
		query = query.Where("status = ?", status)
	}

	var bookings []models.Booking
	if err := query.Order("booking_time").Find(&bookings).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve bookings")
		return
	}

	c.JSON(http.StatusOK, bookings)
}

// GetBooking retrieves a specific booking by ID
func (ctrl *BookingController) GetBooking(c *gin.Context) {
	profileID, exists := c.Get("profileId")
	if !exists {
		utils.RespondWithError(c, http.StatusUnauthorized, "Profile ID not found in context")
		return
	}

	profileUUID, err := uuid.Parse(profileID.(string))
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Invalid profile ID format")
		return
	}

	bookingUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid booking ID format")
		return
	}

	var booking models.Booking
	if err := config.DB.Preload("Customer").Preload("Service").Preload("Staff").
		Where("profile_id = ? AND id = ?", profileUUID, bookingUUID).
		First(&booking).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Booking not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	c.JSON(http.StatusOK, booking)
}

// UpdateBooking updates an existing booking. Status changes go through the
// transition guard; rescheduling re-runs the admission check.
func (ctrl *BookingController) UpdateBooking(c *gin.Context) {
	profileID, exists := c.Get("profileId")
	if !exists {
		utils.RespondWithError(c, http.StatusUnauthorized, "Profile ID not found in context")
		return
	}

	profileUUID, err := uuid.Parse(profileID.(string))
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Invalid profile ID format")
		return
	}

	bookingUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid booking ID format")
		return
	}

	var input UpdateBookingInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var booking models.Booking
	if err := config.DB.Where("profile_id = ? AND id = ?", profileUUID, bookingUUID).
		First(&booking).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Booking not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	if input.Status != nil {
		if !input.Status.Valid() {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid booking status")
			return
		}
		if !booking.Status.CanTransition(*input.Status) {
			utils.RespondWithError(c, http.StatusConflict,
				"Cannot change status from "+string(booking.Status)+" to "+string(*input.Status))
			return
		}
		booking.Status = *input.Status
	}

	if input.CustomerID != nil {
		booking.CustomerID = *input.CustomerID
	}
	if input.ServiceID != nil {
		booking.ServiceID = *input.ServiceID
	}
	if input.StaffID != nil {
		booking.StaffID = input.StaffID
	}
	if input.BookingTime != nil {
		booking.BookingTime = *input.BookingTime
	}
	if input.Notes != nil {
		booking.Notes = *input.Notes
	}

	// Re-run admission when the slot changed and the booking still occupies one.
	if (input.BookingTime != nil || input.StaffID != nil || input.ServiceID != nil) &&
		booking.StaffID != nil && booking.Status == models.BookingScheduled {
		admission, err := ctrl.Validator.Validate(profileUUID, *booking.StaffID, booking.ServiceID,
			booking.BookingTime, &booking.ID)
		if err != nil {
			utils.RespondWithError(c, http.StatusInternalServerError, "Validation failed")
			return
		}
		if !admission.IsValid {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error":     "Booking is not admissible",
				"admission": admission,
			})
			return
		}
	}

	if err := config.DB.Save(&booking).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update booking")
		return
	}

	c.JSON(http.StatusOK, booking)
}

// DeleteBooking soft deletes a booking
func (ctrl *BookingController) DeleteBooking(c *gin.Context) {
	profileID, exists := c.Get("profileId")
	if !exists {
		utils.RespondWithError(c, http.StatusUnauthorized, "Profile ID not found in context")
		return
	}

	profileUUID, err := uuid.Parse(profileID.(string))
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Invalid profile ID format")
		return
	}

	bookingUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid booking ID format")
		return
	}

	result := config.DB.Where("profile_id = ? AND id = ?", profileUUID, bookingUUID).
		Delete(&models.Booking{})

	if result.Error != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete booking")
		return
	}

	if result.RowsAffected == 0 {
		utils.RespondWithError(c, http.StatusNotFound, "Booking not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Booking deleted successfully"})
}

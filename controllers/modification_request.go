package controllers

import (
	"errors"
	"net/http"

	"glowdesk-backend/config"
	"glowdesk-backend/models"
	"glowdesk-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ResolveModificationRequestInput struct {
	Status models.RequestStatus `json:"status" binding:"required,oneof=approved rejected"`
	Notes  string               `json:"notes"`
}

// GetModificationRequests lists modification requests for the profile,
// optionally filtered by status.
func GetModificationRequests(c *gin.Context) {
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

	query := config.DB.Preload("OriginalBooking").Preload("OriginalBooking.Customer").
		Joins("JOIN bookings ON bookings.id = booking_modification_requests.original_booking_id").
		Where("bookings.profile_id = ?", profileUUID)

	if status := c.Query("status"); status != "" {
		query = query.Where("booking_modification_requests.status = ?", status)
	}

	var requests []models.BookingModificationRequest
	if err := query.Find(&requests).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve modification requests")
		return
	}

	c.JSON(http.StatusOK, requests)
}

// ResolveModificationRequest approves or rejects a pending request. An
// approval reschedules the original booking to the requested time.
func ResolveModificationRequest(c *gin.Context) {
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

	requestUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid request ID format")
		return
	}

	var input ResolveModificationRequestInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var request models.BookingModificationRequest
	if err := config.DB.Preload("OriginalBooking").
		Joins("JOIN bookings ON bookings.id = booking_modification_requests.original_booking_id").
		Where("bookings.profile_id = ? AND booking_modification_requests.id = ?", profileUUID, requestUUID).
		First(&request).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Modification request not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	if !request.Status.CanTransition(input.Status) {
		utils.RespondWithError(c, http.StatusConflict,
			"Cannot change status from "+string(request.Status)+" to "+string(input.Status))
		return
	}

	err = config.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&request).Updates(map[string]interface{}{
			"status": input.Status,
			"notes":  input.Notes,
		}).Error; err != nil {
			return err
		}

		if input.Status == models.RequestApproved {
			return tx.Model(&models.Booking{}).
				Where("id = ?", request.OriginalBookingID).
				Update("booking_time", request.RequestedBookingTime).Error
		}
		return nil
	})
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to resolve modification request")
		return
	}

	request.Status = input.Status
	request.Notes = input.Notes
	c.JSON(http.StatusOK, request)
}

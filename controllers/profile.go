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

type UpdateProfileInput struct {
	Name    *string `json:"name"`
	Address *string `json:"address"`
	Phone   *string `json:"phone"`
}

type UpdateOperatingHoursInput struct {
	OperatingHours models.WorkingHours `json:"operatingHours" binding:"required"`
}

// GetProfile retrieves the business profile
func GetProfile(c *gin.Context) {
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

	var profile models.Profile
	if err := config.DB.First(&profile, "id = ?", profileUUID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Profile not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	c.JSON(http.StatusOK, profile)
}

// UpdateProfile updates business name, address and phone
func UpdateProfile(c *gin.Context) {
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

	var input UpdateProfileInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var profile models.Profile
	if err := config.DB.First(&profile, "id = ?", profileUUID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Profile not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	if input.Name != nil {
		profile.Name = *input.Name
	}
	if input.Address != nil {
		profile.Address = *input.Address
	}
	if input.Phone != nil {
		profile.Phone = *input.Phone
	}

	if err := config.DB.Save(&profile).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update profile")
		return
	}

	c.JSON(http.StatusOK, profile)
}

// UpdateOperatingHours replaces the business operating hours
func UpdateOperatingHours(c *gin.Context) {
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

	var input UpdateOperatingHoursInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	if err := input.OperatingHours.Validate(); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid operating hours: "+err.Error())
		return
	}

	if err := config.DB.Model(&models.Profile{}).
		Where("id = ?", profileUUID).
		Update("business_operating_hours", input.OperatingHours).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update operating hours")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Operating hours updated successfully"})
}

package controllers

import (
	"errors"
	"net/http"

	"glowdesk-backend/config"
	"glowdesk-backend/models"
	"glowdesk-backend/services"
	"glowdesk-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CampaignController struct {
	Service *services.CampaignService
}

func NewCampaignController(service *services.CampaignService) *CampaignController {
	return &CampaignController{Service: service}
}

type CreateCampaignInput struct {
	Name                string                     `json:"name" binding:"required"`
	TriggerType         models.TriggerType         `json:"triggerType" binding:"required"`
	TriggerConfig       models.TriggerConfig       `json:"triggerConfig"`
	SendTime            string                     `json:"sendTime" binding:"timeofday"`
	CommunicationMethod models.CommunicationMethod `json:"communicationMethod" binding:"required,oneof=sms viber"`
	Message             string                     `json:"message" binding:"required"`
}

type UpdateCampaignInput struct {
	Name                *string                     `json:"name"`
	TriggerType         *models.TriggerType         `json:"triggerType"`
	TriggerConfig       *models.TriggerConfig       `json:"triggerConfig"`
	SendTime            *string                     `json:"sendTime" binding:"omitempty,timeofday"`
	CommunicationMethod *models.CommunicationMethod `json:"communicationMethod" binding:"omitempty,oneof=sms viber"`
	Message             *string                     `json:"message"`
	IsActive            *bool                       `json:"isActive"`
}

// RunTriggers performs one evaluation pass over all active campaigns for
// all tenants and reports how many messages were created.
func (ctrl *CampaignController) RunTriggers(c *gin.Context) {
	processed, err := ctrl.Service.RunTriggerPass()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"processed": processed,
	})
}

// CreateCampaign creates a new campaign for the profile
func (ctrl *CampaignController) CreateCampaign(c *gin.Context) {
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

	var input CreateCampaignInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	if err := input.TriggerConfig.ValidateFor(input.TriggerType); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid trigger config: "+err.Error())
		return
	}

	campaign := models.Campaign{
		ID:                  uuid.New(),
		ProfileID:           profileUUID,
		Name:                input.Name,
		TriggerType:         input.TriggerType,
		TriggerConfig:       input.TriggerConfig,
		SendTime:            input.SendTime,
		CommunicationMethod: input.CommunicationMethod,
		Message:             input.Message,
		IsActive:            true,
	}

	if err := config.DB.Create(&campaign).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create campaign")
		return
	}

	c.JSON(http.StatusCreated, campaign)
}

// GetCampaigns retrieves all campaigns for the profile
func (ctrl *CampaignController) GetCampaigns(c *gin.Context) {
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

	var campaigns []models.Campaign
	if err := config.DB.Where("profile_id = ?", profileUUID).Find(&campaigns).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve campaigns")
		return
	}

	c.JSON(http.StatusOK, campaigns)
}

// GetCampaign retrieves a specific campaign with its message stats
func (ctrl *CampaignController) GetCampaign(c *gin.Context) {
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

	campaignUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid campaign ID format")
		return
	}

	var campaign models.Campaign
	if err := config.DB.Where("profile_id = ? AND id = ?", profileUUID, campaignUUID).
		First(&campaign).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Campaign not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	stats := map[string]int64{
		"total":   0,
		"pending": 0,
		"sent":    0,
		"failed":  0,
	}
	rows, err := config.DB.Model(&models.CampaignMessage{}).
		Select("status, COUNT(*) as count").
		Where("campaign_id = ?", campaignUUID).
		Group("status").Rows()
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to load campaign stats")
		return
	}
	defer rows.Close()
	for rows.Next() {
		var status string
		var count int64
		if err := rows.Scan(&status, &count); err != nil {
			utils.RespondWithError(c, http.StatusInternalServerError, "Failed to load campaign stats")
			return
		}
		stats[status] = count
		stats["total"] += count
	}

	c.JSON(http.StatusOK, gin.H{
		"campaign": campaign,
		"stats":    stats,
	})
}

// UpdateCampaign updates an existing campaign
func (ctrl *CampaignController) UpdateCampaign(c *gin.Context) {
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

	campaignUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid campaign ID format")
		return
	}

	var input UpdateCampaignInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var campaign models.Campaign
	if err := config.DB.Where("profile_id = ? AND id = ?", profileUUID, campaignUUID).
		First(&campaign).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Campaign not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	if input.Name != nil {
		campaign.Name = *input.Name
	}
	if input.TriggerType != nil {
		campaign.TriggerType = *input.TriggerType
	}
	if input.TriggerConfig != nil {
		campaign.TriggerConfig = *input.TriggerConfig
	}
	if input.SendTime != nil {
		campaign.SendTime = *input.SendTime
	}
	if input.CommunicationMethod != nil {
		campaign.CommunicationMethod = *input.CommunicationMethod
	}
	if input.Message != nil {
		campaign.Message = *input.Message
	}
	if input.IsActive != nil {
		campaign.IsActive = *input.IsActive
	}

	// Trigger type and config must stay in shape after any combination of updates.
	if err := campaign.TriggerConfig.ValidateFor(campaign.TriggerType); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid trigger config: "+err.Error())
		return
	}

	if err := config.DB.Save(&campaign).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update campaign")
		return
	}

	c.JSON(http.StatusOK, campaign)
}

// DeleteCampaign soft deletes a campaign
func (ctrl *CampaignController) DeleteCampaign(c *gin.Context) {
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

	campaignUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid campaign ID format")
		return
	}

	result := config.DB.Where("profile_id = ? AND id = ?", profileUUID, campaignUUID).
		Delete(&models.Campaign{})

	if result.Error != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete campaign")
		return
	}

	if result.RowsAffected == 0 {
		utils.RespondWithError(c, http.StatusNotFound, "Campaign not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Campaign deleted successfully"})
}

package controllers

import (
	"errors"
	"net/http"
	"time"

	"glowdesk-backend/config"
	"glowdesk-backend/models"
	"glowdesk-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type RegisterInput struct {
	Email           string              `json:"email" binding:"required,email"`
	Phone           string              `json:"phone" binding:"required"`
	Name            string              `json:"name" binding:"required"`
	Password        string              `json:"password" binding:"required,min=8"`
	BusinessName    string              `json:"businessName" binding:"required"`
	BusinessAddress string              `json:"businessAddress"`
	OperatingHours  models.WorkingHours `json:"operatingHours"`
}

type LoginInput struct {
	Identifier string `json:"identifier" binding:"required"` // Can be email or phone
	Password   string `json:"password" binding:"required"`
}

// Register creates a business profile and its owner account.
func Register(c *gin.Context) {
	var input RegisterInput

	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var existingUser models.User
	result := config.DB.Where("email = ? OR phone = ?", input.Email, input.Phone).First(&existingUser)
	if result.Error == nil {
		utils.RespondWithError(c, http.StatusConflict, "Email or phone already registered")
		return
	} else if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
		utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		return
	}

	hours := input.OperatingHours
	if hours == nil {
		hours = models.WorkingHours{
			"monday":    {Enabled: true, Start: "09:00", End: "20:00"},
			"tuesday":   {Enabled: true, Start: "09:00", End: "20:00"},
			"wednesday": {Enabled: true, Start: "09:00", End: "20:00"},
			"thursday":  {Enabled: true, Start: "09:00", End: "20:00"},
			"friday":    {Enabled: true, Start: "09:00", End: "20:00"},
			"saturday":  {Enabled: true, Start: "09:00", End: "21:00"},
			"sunday":    {Enabled: false, Start: "10:00", End: "19:00"},
		}
	}
	if err := hours.Validate(); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid operating hours: "+err.Error())
		return
	}

	profile := models.Profile{
		ID:                     uuid.New(),
		Name:                   input.BusinessName,
		Address:                input.BusinessAddress,
		Phone:                  input.Phone,
		BusinessOperatingHours: hours,
	}

	newUser := models.User{
		Email:     input.Email,
		Phone:     input.Phone,
		Name:      input.Name,
		Password:  input.Password, // Will be hashed in BeforeCreate hook
		Role:      "owner",
		ProfileID: profile.ID,
	}

	err := config.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&profile).Error; err != nil {
			return err
		}
		return tx.Create(&newUser).Error
	})
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create account")
		return
	}

	token, err := utils.GenerateToken(newUser.ID.String(), profile.ID.String())
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to generate token")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Registration successful",
		"token":   token,
		"user": gin.H{
			"id":           newUser.ID,
			"email":        newUser.Email,
			"phone":        newUser.Phone,
			"businessName": profile.Name,
		},
	})
}

func Login(c *gin.Context) {
	var input LoginInput

	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input")
		return
	}

	var user models.User
	if err := config.DB.Where("email = ? OR phone = ?", input.Identifier, input.Identifier).
		First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusUnauthorized, "Invalid credentials")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	if !user.IsActive {
		utils.RespondWithError(c, http.StatusUnauthorized, "Account is disabled")
		return
	}

	if !utils.CheckPasswordHash(input.Password, user.Password) {
		utils.RespondWithError(c, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	token, err := utils.GenerateToken(user.ID.String(), user.ProfileID.String())
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to generate token")
		return
	}

	now := time.Now()
	config.DB.Model(&user).Update("last_login", now)

	c.JSON(http.StatusOK, gin.H{
		"message": "Login successful",
		"token":   token,
		"user": gin.H{
			"id":    user.ID,
			"email": user.Email,
			"name":  user.Name,
			"role":  user.Role,
		},
	})
}

func Me(c *gin.Context) {
	userID, exists := c.Get("userId")
	if !exists {
		utils.RespondWithError(c, http.StatusUnauthorized, "User ID not found in context")
		return
	}

	userUUID, err := uuid.Parse(userID.(string))
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Invalid user ID format")
		return
	}

	var user models.User
	if err := config.DB.Preload("Profile").First(&user, "id = ?", userUUID).Error; err != nil {
		utils.RespondWithError(c, http.StatusNotFound, "User not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":       user.ID,
		"email":    user.Email,
		"name":     user.Name,
		"phone":    user.Phone,
		"role":     user.Role,
		"business": user.Profile.Name,
	})
}

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

// CreateCustomerInput defines the expected JSON structure for creating a customer
type CreateCustomerInput struct {
	Name  string  `json:"name" binding:"required"`
	Phone string  `json:"phone" binding:"required"`
	Email *string `json:"email"`
	Notes string  `json:"notes"`
}

// UpdateCustomerInput defines the expected JSON structure for updating a customer
type UpdateCustomerInput struct {
	Name     *string `json:"name"`
	Phone    *string `json:"phone"`
	Email    *string `json:"email"`
	Notes    *string `json:"notes"`
	IsActive *bool   `json:"isActive"`
}

// CreateCustomer creates a new customer for the profile
func CreateCustomer(c *gin.Context) {
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

	var input CreateCustomerInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	if !utils.ValidatePhone(input.Phone) {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid phone number format")
		return
	}

	var existingCustomer models.Customer
	if err := config.DB.Where("profile_id = ? AND phone = ?", profileUUID, input.Phone).
		First(&existingCustomer).Error; err == nil {
		utils.RespondWithError(c, http.StatusConflict, "Customer with this phone number already exists")
		return
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		return
	}

	customer := models.Customer{
		ID:        uuid.New(),
		ProfileID: profileUUID,
		Name:      input.Name,
		Phone:     input.Phone,
		Notes:     input.Notes,
		IsActive:  true,
	}

	if input.Email != nil {
		customer.Email = *input.Email
	}

	if err := config.DB.Create(&customer).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create customer")
		return
	}

	c.JSON(http.StatusCreated, customer)
}

// GetCustomers retrieves all customers for the profile
func GetCustomers(c *gin.Context) {
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

	var customers []models.Customer
	if err := config.DB.Where("profile_id = ?", profileUUID).Find(&customers).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve customers")
		return
	}

	c.JSON(http.StatusOK, customers)
}

// GetCustomer retrieves a specific customer by ID
func GetCustomer(c *gin.Context) {
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

	customerUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid customer ID format")
		return
	}

	var customer models.Customer
	if err := config.DB.Where("profile_id = ? AND id = ?", profileUUID, customerUUID).
		First(&customer).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Customer not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	response := gin.H{"customer": customer}

	var lastVisit models.Booking
	err = config.DB.Where("customer_id = ? AND status = ?", customerUUID, models.BookingCompleted).
		Order("booking_time DESC").First(&lastVisit).Error
	if err == nil {
		response["lastVisit"] = lastVisit.BookingTime
		response["daysSinceLastVisit"] = utils.DaysBetween(lastVisit.BookingTime, time.Now())
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		return
	}

	c.JSON(http.StatusOK, response)
}

// UpdateCustomer updates an existing customer
func UpdateCustomer(c *gin.Context) {
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

	customerUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid customer ID format")
		return
	}

	var input UpdateCustomerInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var customer models.Customer
	if err := config.DB.Where("profile_id = ? AND id = ?", profileUUID, customerUUID).
		First(&customer).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Customer not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	if input.Name != nil {
		customer.Name = *input.Name
	}
	if input.Phone != nil {
		if !utils.ValidatePhone(*input.Phone) {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid phone number format")
			return
		}

		if customer.Phone != *input.Phone {
			var existingCustomer models.Customer
			if err := config.DB.Where("profile_id = ? AND phone = ?", profileUUID, *input.Phone).
				First(&existingCustomer).Error; err == nil {
				utils.RespondWithError(c, http.StatusConflict, "Another customer with this phone number already exists")
				return
			} else if !errors.Is(err, gorm.ErrRecordNotFound) {
				utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
				return
			}
		}
		customer.Phone = *input.Phone
	}
	if input.Email != nil {
		customer.Email = *input.Email
	}
	if input.Notes != nil {
		customer.Notes = *input.Notes
	}
	if input.IsActive != nil {
		customer.IsActive = *input.IsActive
	}

	if err := config.DB.Save(&customer).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update customer")
		return
	}

	c.JSON(http.StatusOK, customer)
}

// DeleteCustomer soft deletes a customer
func DeleteCustomer(c *gin.Context) {
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

	customerUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid customer ID format")
		return
	}

	result := config.DB.Where("profile_id = ? AND id = ?", profileUUID, customerUUID).
		Delete(&models.Customer{})

	if result.Error != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete customer")
		return
	}

	if result.RowsAffected == 0 {
		utils.RespondWithError(c, http.StatusNotFound, "Customer not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Customer deleted successfully"})
}

package routes

import (
	"os"
	"strings"

	"glowdesk-backend/config"
	"glowdesk-backend/controllers"
	"glowdesk-backend/services"
	"glowdesk-backend/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func SetupRouter(campaignService *services.CampaignService) *gin.Engine {
	r := gin.Default()

	// The public response endpoint must answer 405 for unsupported methods.
	r.HandleMethodNotAllowed = true

	allowedOrigins := []string{"http://localhost:3000"}
	if env := os.Getenv("CORS_ORIGINS"); env != "" {
		allowedOrigins = strings.Split(env, ",")
	}

	r.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))

	r.Use(config.PerformanceLogger())

	r.SetHTMLTemplate(controllers.ResponseTemplates())

	// Public response endpoint; customers reach it from message links.
	responseController := controllers.NewResponseController(
		services.NewResponseService(config.DB, services.NewClock()))
	r.GET("/responses", responseController.ShowForm)
	r.POST("/responses", responseController.Submit)

	auth := r.Group("/auth")
	{
		auth.POST("/register", controllers.Register)
		auth.POST("/login", controllers.Login)

		auth.Use(utils.AuthMiddleware())
		auth.GET("/me", controllers.Me)
	}

	api := r.Group("/api")
	api.Use(utils.AuthMiddleware())
	{
		// Customer routes
		customers := api.Group("/customers")
		{
			customers.POST("", controllers.CreateCustomer)
			customers.GET("", controllers.GetCustomers)
			customers.GET("/:id", controllers.GetCustomer)
			customers.PUT("/:id", controllers.UpdateCustomer)
			customers.DELETE("/:id", controllers.DeleteCustomer)
		}

		// Service routes
		servicesGroup := api.Group("/services")
		{
			servicesGroup.POST("", controllers.CreateService)
			servicesGroup.GET("", controllers.GetServices)
			servicesGroup.GET("/:id", controllers.GetService)
			servicesGroup.PUT("/:id", controllers.UpdateService)
			servicesGroup.DELETE("/:id", controllers.DeleteService)
		}

		// Staff routes
		staff := api.Group("/staff")
		{
			staff.POST("", controllers.CreateStaffMember)
			staff.GET("", controllers.GetStaffMembers)
			staff.GET("/:id", controllers.GetStaffMember)
			staff.PUT("/:id", controllers.UpdateStaffMember)
			staff.DELETE("/:id", controllers.DeleteStaffMember)
		}

		// Booking routes
		bookingController := controllers.NewBookingController(
			services.NewAdmissionValidator(config.DB))
		bookings := api.Group("/bookings")
		{
			bookings.POST("", bookingController.CreateBooking)
			bookings.POST("/validate", bookingController.ValidateBooking)
			bookings.GET("", bookingController.GetBookings)
			bookings.GET("/:id", bookingController.GetBooking)
			bookings.PUT("/:id", bookingController.UpdateBooking)
			bookings.DELETE("/:id", bookingController.DeleteBooking)
		}

		// Campaign routes
		campaignController := controllers.NewCampaignController(campaignService)
		campaigns := api.Group("/campaigns")
		{
			campaigns.POST("", campaignController.CreateCampaign)
			campaigns.POST("/trigger-run", campaignController.RunTriggers)
			campaigns.GET("", campaignController.GetCampaigns)
			campaigns.GET("/:id", campaignController.GetCampaign)
			campaigns.PUT("/:id", campaignController.UpdateCampaign)
			campaigns.DELETE("/:id", campaignController.DeleteCampaign)
		}

		// Modification request routes
		requests := api.Group("/modification-requests")
		{
			requests.GET("", controllers.GetModificationRequests)
			requests.PUT("/:id", controllers.ResolveModificationRequest)
		}

		// Settings routes
		profile := api.Group("/profile")
		{
			profile.GET("", controllers.GetProfile)
			profile.PUT("", controllers.UpdateProfile)
			profile.PUT("/update-hours", controllers.UpdateOperatingHours)
		}
	}

	return r
}

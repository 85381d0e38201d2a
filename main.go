package main

import (
	"fmt"
	"log"
	"os"

	"glowdesk-backend/config"
	"glowdesk-backend/models"
	"glowdesk-backend/routes"
	"glowdesk-backend/services"
	"glowdesk-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func init() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}
	config.ConnectDB()

	config.DB.AutoMigrate(
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
	)

	utils.RegisterValidations()
}

func main() {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	campaignService := services.NewCampaignService(config.DB, services.NewClock(), services.NewTwilioSender())
	campaignService.StartScheduler()

	r := routes.SetupRouter(campaignService)
	printRoutes(r)
	r.Run(":" + port)
}

func printRoutes(r *gin.Engine) {
	routes := r.Routes()
	for _, route := range routes {
		fmt.Printf("%-6s %s\n", route.Method, route.Path)
	}
}

// services/trigger_service.go
package services

import (
	"errors"
	"fmt"
	"log"
	"time"

	"glowdesk-backend/models"
	"glowdesk-backend/utils"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

// specificDatetimeWindow is the firing window either side of a campaign's
// configured instant. Repeat passes inside the window are deduplicated by
// the ledger, not by the window itself.
const specificDatetimeWindow = 5 * time.Minute

type CampaignService struct {
	db     *gorm.DB
	clock  Clock
	ledger *MessageLedger
	sender MessageSender
}

func NewCampaignService(db *gorm.DB, clock Clock, sender MessageSender) *CampaignService {
	return &CampaignService{
		db:     db,
		clock:  clock,
		ledger: NewMessageLedger(db, clock),
		sender: sender,
	}
}

// StartScheduler runs a trigger pass every five minutes.
func (s *CampaignService) StartScheduler() *cron.Cron {
	c := cron.New()

	c.AddFunc("*/5 * * * *", func() {
		if _, err := s.RunTriggerPass(); err != nil {
			log.Printf("Trigger pass failed: %v", err)
		}
	})

	c.Start()
	log.Println("Campaign scheduler started")
	return c
}

// RunTriggerPass evaluates every active campaign across all tenants against
// the current instant and returns how many messages were created.
func (s *CampaignService) RunTriggerPass() (int, error) {
	now := s.clock.Now()
	log.Println("Starting campaign trigger pass...")

	var campaigns []models.Campaign
	if err := s.db.Where("is_active = ?", true).Find(&campaigns).Error; err != nil {
		return 0, fmt.Errorf("failed to fetch active campaigns: %w", err)
	}

	processed := 0
	for i := range campaigns {
		n, err := s.ProcessCampaign(&campaigns[i], now)
		if err != nil {
			log.Printf("Campaign %s: %v", campaigns[i].ID, err)
			continue
		}
		processed += n
	}

	log.Printf("Campaign trigger pass completed, %d message(s) created", processed)
	return processed, nil
}

// ProcessCampaign creates, sends and records messages for every booking
// currently eligible for the campaign.
func (s *CampaignService) ProcessCampaign(campaign *models.Campaign, now time.Time) (int, error) {
	if campaign.SendTime != "" {
		sendMin, err := models.MinuteOfDay(campaign.SendTime)
		if err != nil {
			return 0, fmt.Errorf("invalid send time: %w", err)
		}
		if now.Hour()*60+now.Minute() < sendMin {
			return 0, nil
		}
	}

	bookings, err := s.EligibleBookings(campaign, now)
	if err != nil {
		return 0, err
	}
	if len(bookings) == 0 {
		return 0, nil
	}

	var profile models.Profile
	if err := s.db.First(&profile, "id = ?", campaign.ProfileID).Error; err != nil {
		return 0, fmt.Errorf("failed to load profile: %w", err)
	}

	created := 0
	for i := range bookings {
		booking := &bookings[i]

		content := ComposeMessage(campaign.Message, booking, &profile)

		message, err := s.ledger.TryCreate(campaign, booking, content)
		if errors.Is(err, ErrAlreadyMessaged) {
			continue
		}
		if err != nil {
			log.Printf("Campaign %s: failed to record message for booking %s: %v",
				campaign.ID, booking.ID, err)
			continue
		}
		created++

		if err := s.sender.Send(campaign.CommunicationMethod, booking.Customer.Phone, content); err != nil {
			log.Printf("Campaign %s: send to %s failed: %v", campaign.ID, booking.Customer.Phone, err)
			if err := s.ledger.MarkFailed(message, err); err != nil {
				log.Printf("Campaign %s: failed to mark message %s failed: %v", campaign.ID, message.ID, err)
			}
			continue
		}

		if err := s.ledger.MarkSent(message); err != nil {
			log.Printf("Campaign %s: failed to mark message %s sent: %v", campaign.ID, message.ID, err)
		}
	}

	return created, nil
}

// EligibleBookings enumerates the bookings a campaign should message at the
// given instant. It performs no deduplication; the ledger owns that.
func (s *CampaignService) EligibleBookings(campaign *models.Campaign, now time.Time) ([]models.Booking, error) {
	if err := campaign.TriggerConfig.ValidateFor(campaign.TriggerType); err != nil {
		return nil, err
	}

	query := s.db.Preload("Customer").Preload("Service").Preload("Staff").
		Where("profile_id = ?", campaign.ProfileID)

	switch campaign.TriggerType {
	case models.TriggerSpecificDatetime:
		delta := now.Sub(*campaign.TriggerConfig.Datetime)
		if delta < 0 {
			delta = -delta
		}
		if delta > specificDatetimeWindow {
			return nil, nil
		}
		query = query.Where("status = ?", models.BookingScheduled)

	case models.TriggerBeforeBooking:
		dayStart := utils.BeginningOfDay(now).AddDate(0, 0, *campaign.TriggerConfig.Days)
		dayEnd := dayStart.AddDate(0, 0, 1)
		query = query.Where("status = ?", models.BookingScheduled).
			Where("booking_time >= ? AND booking_time < ?", dayStart, dayEnd)

	case models.TriggerAfterBooking:
		cutoff := now.AddDate(0, 0, -*campaign.TriggerConfig.Days)
		query = query.Where("status = ?", models.BookingCompleted).
			Where("booking_time > ? AND booking_time <= ?", cutoff.Add(-24*time.Hour), cutoff)

	case models.TriggerAfterLastBooking:
		cutoff := now.AddDate(0, 0, -*campaign.TriggerConfig.Days)
		query = query.Where("status = ?", models.BookingCompleted).
			Where("booking_time > ? AND booking_time <= ?", cutoff.Add(-24*time.Hour), cutoff).
			Where(`NOT EXISTS (
				SELECT 1 FROM bookings later
				WHERE later.customer_id = bookings.customer_id
				AND later.status = ?
				AND later.booking_time > bookings.booking_time
				AND later.deleted_at IS NULL
			)`, models.BookingCompleted)

	default:
		return nil, fmt.Errorf("unknown trigger type %q", campaign.TriggerType)
	}

	var bookings []models.Booking
	if err := query.Find(&bookings).Error; err != nil {
		return nil, fmt.Errorf("failed to query eligible bookings: %w", err)
	}
	return bookings, nil
}

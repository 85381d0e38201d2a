package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TriggerType string

const (
	TriggerSpecificDatetime TriggerType = "specific_datetime"
	TriggerBeforeBooking    TriggerType = "before_booking"
	TriggerAfterBooking     TriggerType = "after_booking"
	// TriggerAfterLastBooking shares TriggerAfterBooking's config shape but
	// fires only for each customer's most recent completed booking, so a
	// customer with several old visits gets a single follow-up.
	TriggerAfterLastBooking TriggerType = "after_last_booking"
)

func (t TriggerType) Valid() bool {
	switch t {
	case TriggerSpecificDatetime, TriggerBeforeBooking, TriggerAfterBooking, TriggerAfterLastBooking:
		return true
	}
	return false
}

type CommunicationMethod string

const (
	MethodSMS   CommunicationMethod = "sms"
	MethodViber CommunicationMethod = "viber"
)

func (m CommunicationMethod) Valid() bool {
	return m == MethodSMS || m == MethodViber
}

// TriggerConfig is the variant payload attached to a campaign. Which field
// must be set depends on the campaign's trigger type: specific_datetime
// carries Datetime, the relative-day triggers carry Days.
type TriggerConfig struct {
	Datetime *time.Time `json:"datetime,omitempty"`
	Days     *int       `json:"days,omitempty"`
}

func (c TriggerConfig) Value() (driver.Value, error) {
	return json.Marshal(c)
}

func (c *TriggerConfig) Scan(value interface{}) error {
	var b []byte
	switch v := value.(type) {
	case []byte:
		b = v
	case string:
		b = []byte(v)
	default:
		return errors.New("type assertion to []byte failed")
	}
	return json.Unmarshal(b, c)
}

// ValidateFor rejects configs whose shape does not match the trigger type,
// so a mismatched payload fails loudly instead of silently never firing.
func (c TriggerConfig) ValidateFor(t TriggerType) error {
	switch t {
	case TriggerSpecificDatetime:
		if c.Datetime == nil {
			return fmt.Errorf("trigger type %s requires a datetime", t)
		}
	case TriggerBeforeBooking, TriggerAfterBooking, TriggerAfterLastBooking:
		if c.Days == nil {
			return fmt.Errorf("trigger type %s requires a day count", t)
		}
		if *c.Days < 0 {
			return fmt.Errorf("trigger type %s requires a non-negative day count", t)
		}
	default:
		return fmt.Errorf("unknown trigger type %q", t)
	}
	return nil
}

type Campaign struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	ProfileID uuid.UUID `gorm:"type:uuid;index;not null"`

	Name                string              `gorm:"not null"`
	TriggerType         TriggerType         `gorm:"type:varchar(30);not null"`
	TriggerConfig       TriggerConfig       `gorm:"type:jsonb;default:'{}'"`
	SendTime            string              // optional "15:04"; empty means any time of day
	CommunicationMethod CommunicationMethod `gorm:"type:varchar(10);not null"`
	Message             string              `gorm:"type:text;not null"`
	IsActive            bool                `gorm:"default:true"`

	gorm.Model
}

func (c *Campaign) BeforeCreate(tx *gorm.DB) (err error) {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return
}

func (c *Campaign) BeforeSave(tx *gorm.DB) error {
	return c.TriggerConfig.ValidateFor(c.TriggerType)
}

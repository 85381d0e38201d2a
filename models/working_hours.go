package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// DayHours is a single weekday entry in a working-hours schedule.
// Start and End are local times of day in "15:04" form.
type DayHours struct {
	Enabled bool   `json:"enabled"`
	Start   string `json:"start"`
	End     string `json:"end"`
}

// WorkingHours maps lowercase weekday names ("monday" ... "sunday") to their
// hours. A missing day means closed.
type WorkingHours map[string]DayHours

func (w WorkingHours) Value() (driver.Value, error) {
	return json.Marshal(w)
}

func (w *WorkingHours) Scan(value interface{}) error {
	var b []byte
	switch v := value.(type) {
	case []byte:
		b = v
	case string:
		b = []byte(v)
	default:
		return errors.New("type assertion to []byte failed")
	}
	return json.Unmarshal(b, w)
}

// Day returns the entry for t's weekday. The second return is false when the
// schedule has no entry for that day.
func (w WorkingHours) Day(t time.Time) (DayHours, bool) {
	d, ok := w[strings.ToLower(t.Weekday().String())]
	return d, ok
}

// MinuteOfDay converts a "15:04" clock string to minutes since midnight.
func MinuteOfDay(clock string) (int, error) {
	t, err := time.Parse("15:04", strings.TrimSpace(clock))
	if err != nil {
		return 0, fmt.Errorf("invalid time of day %q: %w", clock, err)
	}
	return t.Hour()*60 + t.Minute(), nil
}

// Validate checks every configured day parses and has start before end.
func (w WorkingHours) Validate() error {
	validDays := map[string]struct{}{
		"sunday": {}, "monday": {}, "tuesday": {}, "wednesday": {},
		"thursday": {}, "friday": {}, "saturday": {},
	}
	for name, day := range w {
		if _, ok := validDays[strings.ToLower(name)]; !ok {
			return fmt.Errorf("unknown weekday %q", name)
		}
		if !day.Enabled {
			continue
		}
		start, err := MinuteOfDay(day.Start)
		if err != nil {
			return err
		}
		end, err := MinuteOfDay(day.End)
		if err != nil {
			return err
		}
		if start >= end {
			return fmt.Errorf("%s: start %s must be before end %s", name, day.Start, day.End)
		}
	}
	return nil
}

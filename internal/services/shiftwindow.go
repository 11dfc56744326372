package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/foxxcyber/backoffice/internal/config"
)

var ErrInvalidDate = errors.New("invalid date")

const dateLayout = "2006-01-02"

// ShiftWindow converts a business date into the absolute UTC interval of
// that day's operating shift. The shift is a fixed local-time interval,
// not calendar midnight-to-midnight.
type ShiftWindow struct {
	loc       *time.Location
	startHour int
	endHour   int
}

// NewShiftWindow builds the calculator from config.
func NewShiftWindow(cfg *config.Config) (*ShiftWindow, error) {
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid shift timezone %q: %w", cfg.Timezone, err)
	}
	return &ShiftWindow{
		loc:       loc,
		startHour: cfg.ShiftStartHour,
		endHour:   cfg.ShiftEndHour,
	}, nil
}

// For returns the [start, end) UTC window for a YYYY-MM-DD business date.
func (w *ShiftWindow) For(date string) (time.Time, time.Time, error) {
	day, err := time.ParseInLocation(dateLayout, date, w.loc)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, date)
	}

	start := day.Add(time.Duration(w.startHour) * time.Hour)
	end := day.Add(time.Duration(w.endHour) * time.Hour)
	if w.endHour <= w.startHour {
		// Shift runs past local midnight
		end = end.AddDate(0, 0, 1)
	}

	return start.UTC(), end.UTC(), nil
}

// ParseDate validates a YYYY-MM-DD date parameter.
func ParseDate(date string) (string, error) {
	parsed, err := time.Parse(dateLayout, date)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidDate, date)
	}
	return parsed.Format(dateLayout), nil
}

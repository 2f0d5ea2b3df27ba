package request

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"gearbook/internal/domain/booking"

	"github.com/google/uuid"
)

type CreateBookingRequest struct {
	ResourceID uuid.UUID `json:"resource_id" binding:"required"`
	Date       string    `json:"date" binding:"required"`
	StartTime  string    `json:"start_time" binding:"required"`
	EndTime    string    `json:"end_time" binding:"required"`
	Lat        *float64  `json:"lat,omitempty"`
	Lng        *float64  `json:"lng,omitempty"`
	Note       *string   `json:"note,omitempty"`
}

// BookingWindow holds the parsed domain values of a create request.
type BookingWindow struct {
	Window booking.TimeWindow
	Geo    *booking.Geo
	Note   booking.Note
}

func (r CreateBookingRequest) ToDomain() (*BookingWindow, error) {
	date, err := time.Parse("2006-01-02", r.Date)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q: %w", r.Date, err)
	}

	startMin, err := parseClockMinutes(r.StartTime)
	if err != nil {
		return nil, err
	}
	endMin, err := parseClockMinutes(r.EndTime)
	if err != nil {
		return nil, err
	}

	window, err := booking.NewTimeWindow(date, startMin, endMin)
	if err != nil {
		return nil, err
	}

	var geo *booking.Geo
	if r.Lat != nil && r.Lng != nil {
		g, gerr := booking.NewGeo(*r.Lat, *r.Lng)
		if gerr != nil {
			return nil, gerr
		}
		geo = &g
	}

	note := booking.NewNote("")
	if r.Note != nil {
		note = booking.NewNote(strings.TrimSpace(*r.Note))
	}

	return &BookingWindow{Window: window, Geo: geo, Note: note}, nil
}

// parseClockMinutes converts "HH:MM" to minutes from midnight.
func parseClockMinutes(s string) (int, error) {
	parts := strings.SplitN(s, ":", 2)
	if len(parts) != 2 {
		return 0, fmt.Errorf("invalid clock time %q: expected HH:MM", s)
	}

	hours, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("invalid hour in %q: %w", s, err)
	}
	minutes, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, fmt.Errorf("invalid minute in %q: %w", s, err)
	}
	if hours < 0 || hours > 23 || minutes < 0 || minutes > 59 {
		return 0, fmt.Errorf("clock time %q out of range", s)
	}

	return hours*60 + minutes, nil
}

type ListBookingsRequest struct {
	After string `form:"after"`
	Limit int    `form:"limit,default=20"`
}

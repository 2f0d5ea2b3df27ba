package booking

import (
	"errors"
	"fmt"
	"time"
)

const minutesPerDay = 24 * 60

var (
	ErrInvalidClockTime = errors.New("clock time must be within 00:00-23:59")
	ErrZeroLengthWindow = errors.New("window must have a positive duration")
)

// TimeWindow is a rental window on a calendar date. End may be at or before
// start, in which case the window wraps past midnight into the next day.
// The wrap rule here matches the one used by the price calculator.
type TimeWindow struct {
	date     time.Time
	startMin int
	endMin   int
}

func NewTimeWindow(date time.Time, startMin, endMin int) (TimeWindow, error) {
	if startMin < 0 || startMin >= minutesPerDay || endMin < 0 || endMin > minutesPerDay {
		return TimeWindow{}, ErrInvalidClockTime
	}
	if startMin == endMin {
		return TimeWindow{}, ErrZeroLengthWindow
	}

	return TimeWindow{
		date:     time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC),
		startMin: startMin,
		endMin:   endMin,
	}, nil
}

func (w TimeWindow) Date() time.Time { return w.date }
func (w TimeWindow) StartMin() int   { return w.startMin }
func (w TimeWindow) EndMin() int     { return w.endMin }

// DurationMinutes applies the overnight wrap: a window ending at or before
// its start runs into the following day.
func (w TimeWindow) DurationMinutes() int {
	d := w.endMin - w.startMin
	if d <= 0 {
		d += minutesPerDay
	}
	return d
}

func (w TimeWindow) DurationHours() float64 {
	return float64(w.DurationMinutes()) / 60.0
}

// absEndMin is the end offset from the window's own midnight; it exceeds
// minutesPerDay for overnight windows.
func (w TimeWindow) absEndMin() int {
	return w.startMin + w.DurationMinutes()
}

// Overlaps treats windows as half-open [start, end): windows that merely
// touch at a boundary do not conflict.
func (w TimeWindow) Overlaps(other TimeWindow) bool {
	dayDiff := int(other.date.Sub(w.date).Hours() / 24)
	offset := dayDiff * minutesPerDay

	otherStart := other.startMin + offset
	otherEnd := other.absEndMin() + offset

	return w.startMin < otherEnd && w.absEndMin() > otherStart
}

func (w TimeWindow) String() string {
	return fmt.Sprintf("%s %02d:%02d-%02d:%02d",
		w.date.Format("2006-01-02"),
		w.startMin/60, w.startMin%60,
		w.endMin/60, w.endMin%60)
}

type Money struct {
	cents int64
}

func NewMoney(cents int64) Money {
	return Money{cents: cents}
}

func (m Money) Cents() int64 {
	return m.cents
}

func (m Money) Units() float64 {
	return float64(m.cents) / 100.0
}

func (m Money) Add(other Money) Money {
	return Money{cents: m.cents + other.cents}
}

// Geo is an optional pickup location attached to a booking.
type Geo struct {
	lat float64
	lng float64
}

func NewGeo(lat, lng float64) (Geo, error) {
	if lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		return Geo{}, errors.New("coordinates out of range")
	}
	return Geo{lat: lat, lng: lng}, nil
}

func (g Geo) Lat() float64 { return g.lat }
func (g Geo) Lng() float64 { return g.lng }

type Note struct {
	value string
}

func NewNote(value string) Note {
	return Note{value: value}
}

func (n Note) String() string {
	return n.value
}

func (n Note) IsEmpty() bool {
	return n.value == ""
}

//go:build unit || e2e

package builder

import (
	"fmt"
	"time"

	dombooking "gearbook/internal/domain/booking"
	reqdto "gearbook/internal/handler/dto/request"
	"gearbook/internal/usecase/queries"

	"github.com/google/uuid"
)

type BookingBuilder struct {
	ID         uuid.UUID
	ResourceID uuid.UUID
	ProviderID uuid.UUID
	RenterID   uuid.UUID
	Date       time.Time
	StartMin   int
	EndMin     int
	PriceCents int64
	Status     dombooking.Status
	Note       string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func NewBookingBuilder() *BookingBuilder {
	now := time.Now()
	return &BookingBuilder{
		ID:         uuid.New(),
		ResourceID: uuid.New(),
		ProviderID: uuid.New(),
		RenterID:   uuid.New(),
		Date:       time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC),
		StartMin:   10 * 60,
		EndMin:     14 * 60,
		PriceCents: 20000,
		Status:     dombooking.StatusPending,
		Note:       "pickup at the side entrance",
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

func (b *BookingBuilder) With(mutate func(*BookingBuilder)) *BookingBuilder {
	mutate(b)
	return b
}

func (b *BookingBuilder) BuildWindow() (dombooking.TimeWindow, error) {
	return dombooking.NewTimeWindow(b.Date, b.StartMin, b.EndMin)
}

func (b *BookingBuilder) BuildDomain() (*dombooking.Booking, error) {
	window, err := b.BuildWindow()
	if err != nil {
		return nil, err
	}
	return dombooking.NewBooking(
		b.ResourceID, b.ProviderID, b.RenterID,
		window,
		dombooking.NewMoney(b.PriceCents),
		nil,
		dombooking.NewNote(b.Note),
	)
}

// BuildReconstructed yields a persisted-looking booking in the builder's
// status, bypassing the transition rules the way a repository read does.
func (b *BookingBuilder) BuildReconstructed() *dombooking.Booking {
	window, err := b.BuildWindow()
	if err != nil {
		panic(err)
	}
	return dombooking.ReconstructBooking(
		b.ID, b.ResourceID, b.ProviderID, b.RenterID,
		window,
		dombooking.NewMoney(b.PriceCents),
		b.Status,
		nil,
		dombooking.NewNote(b.Note),
		b.CreatedAt, b.UpdatedAt,
	)
}

func (b *BookingBuilder) BuildCreateRequestDTO() reqdto.CreateBookingRequest {
	note := b.Note
	return reqdto.CreateBookingRequest{
		ResourceID: b.ResourceID,
		Date:       b.Date.Format("2006-01-02"),
		StartTime:  formatClock(b.StartMin),
		EndTime:    formatClock(b.EndMin),
		Note:       &note,
	}
}

func (b *BookingBuilder) BuildView() *queries.BookingView {
	note := b.Note
	return &queries.BookingView{
		ID:           b.ID,
		ResourceID:   b.ResourceID,
		ResourceName: "Scissor Lift 12m",
		ProviderID:   b.ProviderID,
		RenterID:     b.RenterID,
		BookedDate:   b.Date,
		StartMin:     b.StartMin,
		EndMin:       b.EndMin,
		Status:       b.Status.String(),
		TotalCents:   b.PriceCents,
		Note:         &note,
		CreatedAt:    b.CreatedAt,
		UpdatedAt:    b.UpdatedAt,
	}
}

func formatClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

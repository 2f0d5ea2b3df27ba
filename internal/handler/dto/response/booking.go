package response

import (
	"fmt"
	"time"

	"gearbook/internal/usecase/queries"

	"github.com/google/uuid"
)

type BookingResponse struct {
	ID           uuid.UUID `json:"id"`
	ResourceID   uuid.UUID `json:"resource_id"`
	ResourceName string    `json:"resource_name"`
	ProviderID   uuid.UUID `json:"provider_id"`
	RenterID     uuid.UUID `json:"renter_id"`
	Date         string    `json:"date"`
	StartTime    string    `json:"start_time"`
	EndTime      string    `json:"end_time"`
	Status       string    `json:"status"`
	TotalCents   int64     `json:"total_cents"`
	Lat          *float64  `json:"lat,omitempty"`
	Lng          *float64  `json:"lng,omitempty"`
	Note         *string   `json:"note,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func FromBookingView(v *queries.BookingView) *BookingResponse {
	return &BookingResponse{
		ID:           v.ID,
		ResourceID:   v.ResourceID,
		ResourceName: v.ResourceName,
		ProviderID:   v.ProviderID,
		RenterID:     v.RenterID,
		Date:         v.BookedDate.Format("2006-01-02"),
		StartTime:    formatClock(v.StartMin),
		EndTime:      formatClock(v.EndMin),
		Status:       v.Status,
		TotalCents:   v.TotalCents,
		Lat:          v.Lat,
		Lng:          v.Lng,
		Note:         v.Note,
		CreatedAt:    v.CreatedAt,
		UpdatedAt:    v.UpdatedAt,
	}
}

type BookingListItemResponse struct {
	ID           uuid.UUID `json:"id"`
	ResourceID   uuid.UUID `json:"resource_id"`
	ResourceName string    `json:"resource_name"`
	Date         string    `json:"date"`
	StartTime    string    `json:"start_time"`
	EndTime      string    `json:"end_time"`
	Status       string    `json:"status"`
	TotalCents   int64     `json:"total_cents"`
	CreatedAt    time.Time `json:"created_at"`
}

type BookingListResponse struct {
	Items      []*BookingListItemResponse `json:"items"`
	NextCursor *string                    `json:"next_cursor,omitempty"`
}

func FromBookingList(items []*queries.BookingListItem, next *queries.Cursor) *BookingListResponse {
	resp := &BookingListResponse{Items: make([]*BookingListItemResponse, len(items))}
	for i, item := range items {
		resp.Items[i] = &BookingListItemResponse{
			ID:           item.ID,
			ResourceID:   item.ResourceID,
			ResourceName: item.ResourceName,
			Date:         item.BookedDate.Format("2006-01-02"),
			StartTime:    formatClock(item.StartMin),
			EndTime:      formatClock(item.EndMin),
			Status:       item.Status,
			TotalCents:   item.TotalCents,
			CreatedAt:    item.CreatedAt,
		}
	}
	if next != nil {
		resp.NextCursor = &next.After
	}
	return resp
}

func formatClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

package resource

import (
	"errors"
	"strings"

	"github.com/google/uuid"
)

var (
	ErrEmptyResourceName   = errors.New("resource name cannot be empty")
	ErrResourceNameTooLong = errors.New("resource name is too long (max 255 characters)")
	ErrNoRateConfigured    = errors.New("resource must have an hourly or daily rate")
	ErrNegativeRate        = errors.New("rate cannot be negative")
)

const (
	MaxResourceNameLength = 255
)

type Resource struct {
	id              uuid.UUID
	providerID      uuid.UUID
	name            string
	hourlyRateCents *int64
	dailyRateCents  *int64
	available       bool
}

func NewResource(id, providerID uuid.UUID, name string, hourlyRateCents, dailyRateCents *int64, available bool) (*Resource, error) {
	if err := validateResourceName(name); err != nil {
		return nil, err
	}
	if hourlyRateCents == nil && dailyRateCents == nil {
		return nil, ErrNoRateConfigured
	}
	if (hourlyRateCents != nil && *hourlyRateCents < 0) || (dailyRateCents != nil && *dailyRateCents < 0) {
		return nil, ErrNegativeRate
	}

	return &Resource{
		id:              id,
		providerID:      providerID,
		name:            strings.TrimSpace(name),
		hourlyRateCents: hourlyRateCents,
		dailyRateCents:  dailyRateCents,
		available:       available,
	}, nil
}

func validateResourceName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptyResourceName
	}
	if len(name) > MaxResourceNameLength {
		return ErrResourceNameTooLong
	}
	return nil
}

func (r *Resource) ID() uuid.UUID           { return r.id }
func (r *Resource) ProviderID() uuid.UUID   { return r.providerID }
func (r *Resource) Name() string            { return r.name }
func (r *Resource) HourlyRateCents() *int64 { return r.hourlyRateCents }
func (r *Resource) DailyRateCents() *int64  { return r.dailyRateCents }
func (r *Resource) IsAvailable() bool       { return r.available }

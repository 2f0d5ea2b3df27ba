package commands

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	"gearbook/internal/domain/actor"
	"gearbook/internal/domain/booking"
	"gearbook/internal/domain/pricing"
	reqdto "gearbook/internal/handler/dto/request"
	"gearbook/internal/infra"
	"gearbook/internal/pkg/clock"
	"gearbook/internal/pkg/errs"
	"gearbook/internal/usecase/shared"

	"github.com/google/uuid"
)

var (
	ErrResourceNotFound       = errs.New("resource not found")
	ErrResourceUnavailable    = errs.New("resource is not open for booking")
	ErrProviderNotApproved    = errs.New("provider is not approved to take bookings")
	ErrBookingNotFound        = errs.New("booking not found")
	ErrInvalidTimeWindow      = errs.New("invalid time window")
	ErrBookingConflict        = errs.New("time window conflicts with an existing booking")
	ErrBookingAccessDenied    = errs.New("actor not allowed to perform this action")
	ErrInvalidTransition      = errs.New("booking cannot make this transition")
	ErrPricingUnavailable     = errs.New("no applicable rate for this rental")
	ErrIdempotencyInProgress  = errs.New("request with this idempotency key is in progress")
	ErrDuplicateRequest       = errs.New("idempotency key reused with a different request")
	ErrIdempotencyCheckFailed = errs.New("idempotency check failed")
	ErrDomainValidation       = errs.New("domain validation error")
	ErrDatabaseOperation      = errs.New("database operation failed")
)

const idempotencyTTL = 24 * time.Hour

type CreateBookingResult struct {
	BookingID  uuid.UUID
	TotalCents int64
	IsReplayed bool
}

type BookingCommands interface {
	CreateBooking(ctx context.Context, req reqdto.CreateBookingRequest, renterID uuid.UUID, idempotencyKey uuid.UUID) (*CreateBookingResult, error)
	ConfirmBooking(ctx context.Context, by booking.Actor, bookingID uuid.UUID) error
	CancelBooking(ctx context.Context, by booking.Actor, bookingID uuid.UUID) error
	CompleteBooking(ctx context.Context, by booking.Actor, bookingID uuid.UUID) error
}

type bookingCommandsImpl struct {
	uow   shared.UnitOfWork
	clock clock.Clock
}

func NewBookingCommands(uow shared.UnitOfWork, clock clock.Clock) BookingCommands {
	return &bookingCommandsImpl{uow: uow, clock: clock}
}

func (c *bookingCommandsImpl) CreateBooking(
	ctx context.Context,
	req reqdto.CreateBookingRequest,
	renterID uuid.UUID,
	idempotencyKey uuid.UUID,
) (*CreateBookingResult, error) {
	domainData, err := req.ToDomain()
	if err != nil {
		return nil, ErrInvalidTimeWindow
	}

	requestHash := calculateRequestHash(req)
	expiresAt := c.clock.Now().Add(idempotencyTTL)

	var result *CreateBookingResult
	err = c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		claimed, err := tx.Idempotency().TryInsert(ctx, tx.DB(), idempotencyKey, renterID, "POST /api/bookings", requestHash, expiresAt)
		if err != nil {
			return errs.Mark(err, ErrIdempotencyCheckFailed)
		}
		if !claimed {
			replay, err := c.resolveReplay(ctx, tx, idempotencyKey, renterID, requestHash)
			if err != nil {
				return err
			}
			result = replay
			return nil
		}

		created, err := c.createBookingInTx(ctx, tx, domainData, req.ResourceID, renterID)
		if err != nil {
			return err
		}

		if err := tx.Idempotency().UpdateStatusCompleted(ctx, tx.DB(), idempotencyKey, renterID, calculateIDHash(created.BookingID), created.BookingID); err != nil {
			return errs.Mark(err, ErrDatabaseOperation)
		}

		result = created
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

// resolveReplay handles an idempotency key that was already claimed.
func (c *bookingCommandsImpl) resolveReplay(
	ctx context.Context,
	tx shared.Tx,
	idempotencyKey, renterID uuid.UUID,
	requestHash string,
) (*CreateBookingResult, error) {
	record, err := tx.Reads().IdempotencyByKey(ctx, idempotencyKey, renterID)
	if err != nil {
		return nil, errs.Mark(err, ErrIdempotencyCheckFailed)
	}

	if record.RequestHash != requestHash {
		return nil, ErrDuplicateRequest
	}

	switch record.Status {
	case "completed":
		if record.ResultBookingID == nil {
			return nil, errs.New("completed request missing result booking ID")
		}
		snapshot, err := tx.Reads().BookingByID(ctx, *record.ResultBookingID)
		if err != nil {
			return nil, errs.Mark(err, ErrDatabaseOperation)
		}
		return &CreateBookingResult{
			BookingID:  snapshot.ID,
			TotalCents: snapshot.PriceCents,
			IsReplayed: true,
		}, nil

	case "processing":
		return nil, ErrIdempotencyInProgress

	default:
		return nil, errs.New("invalid idempotency key status")
	}
}

func (c *bookingCommandsImpl) createBookingInTx(
	ctx context.Context,
	tx shared.Tx,
	domainData *reqdto.BookingWindow,
	resourceID, renterID uuid.UUID,
) (*CreateBookingResult, error) {
	// Lock first: the availability check below is only trustworthy while no
	// concurrent transaction can insert for the same resource.
	if err := tx.Bookings().LockResource(ctx, tx.DB(), resourceID); err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrResourceNotFound
		}
		return nil, errs.Mark(err, ErrDatabaseOperation)
	}

	resource, err := tx.Reads().ResourceByID(ctx, resourceID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrResourceNotFound
		}
		return nil, errs.Mark(err, ErrDatabaseOperation)
	}
	if !resource.ProviderApproved {
		return nil, ErrProviderNotApproved
	}
	if !resource.Available {
		return nil, ErrResourceUnavailable
	}

	startMin := domainData.Window.StartMin()
	endMin := domainData.Window.EndMin()
	totalCents, err := pricing.Quote(
		pricing.Rates{HourlyCents: resource.HourlyRateCents, DailyCents: resource.DailyRateCents},
		pricing.Request{StartMin: &startMin, EndMin: &endMin},
	)
	if err != nil {
		return nil, ErrPricingUnavailable
	}

	available, err := tx.Bookings().IsWindowAvailable(ctx, tx.DB(), resourceID, domainData.Window, nil)
	if err != nil {
		return nil, errs.Mark(err, ErrDatabaseOperation)
	}
	if !available {
		return nil, ErrBookingConflict
	}

	entity, err := booking.NewBooking(
		resourceID, resource.ProviderID, renterID,
		domainData.Window,
		booking.NewMoney(totalCents),
		domainData.Geo,
		domainData.Note,
	)
	if err != nil {
		return nil, ErrDomainValidation
	}

	bookingID, err := tx.Bookings().Create(ctx, tx.DB(), entity)
	if err != nil {
		switch {
		case infra.IsKind(err, infra.KindConflict), infra.IsKind(err, infra.KindDuplicateKey):
			return nil, ErrBookingConflict
		case infra.IsKind(err, infra.KindForeignKeyViolated):
			return nil, ErrResourceNotFound
		default:
			return nil, errs.Mark(err, ErrDatabaseOperation)
		}
	}

	if err := c.enqueueBookingEvent(ctx, tx, bookingID, "booking_created"); err != nil {
		return nil, errs.Mark(err, ErrDatabaseOperation)
	}

	return &CreateBookingResult{BookingID: bookingID, TotalCents: totalCents}, nil
}

func (c *bookingCommandsImpl) ConfirmBooking(ctx context.Context, by booking.Actor, bookingID uuid.UUID) error {
	return c.transition(ctx, by, bookingID, "booking_confirmed", (*booking.Booking).Confirm)
}

func (c *bookingCommandsImpl) CancelBooking(ctx context.Context, by booking.Actor, bookingID uuid.UUID) error {
	return c.transition(ctx, by, bookingID, "booking_cancelled", (*booking.Booking).Cancel)
}

func (c *bookingCommandsImpl) CompleteBooking(ctx context.Context, by booking.Actor, bookingID uuid.UUID) error {
	return c.transition(ctx, by, bookingID, "booking_completed", (*booking.Booking).Complete)
}

func (c *bookingCommandsImpl) transition(
	ctx context.Context,
	by booking.Actor,
	bookingID uuid.UUID,
	event string,
	apply func(*booking.Booking, booking.Actor) error,
) error {
	if !by.Role.IsValid() {
		return ErrBookingAccessDenied
	}

	return c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		entity, err := tx.Bookings().FindByIDForUpdate(ctx, tx.DB(), bookingID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return ErrBookingNotFound
			}
			return errs.Mark(err, ErrDatabaseOperation)
		}

		if err := apply(entity, by); err != nil {
			switch err {
			case booking.ErrActorNotAllowed:
				return ErrBookingAccessDenied
			case booking.ErrInvalidTransition:
				return ErrInvalidTransition
			default:
				return ErrDomainValidation
			}
		}

		if err := tx.Bookings().UpdateStatus(ctx, tx.DB(), bookingID, entity.Status()); err != nil {
			return errs.Mark(err, ErrDatabaseOperation)
		}

		return c.enqueueBookingEvent(ctx, tx, bookingID, event)
	})
}

func (c *bookingCommandsImpl) enqueueBookingEvent(ctx context.Context, tx shared.Tx, bookingID uuid.UUID, event string) error {
	payload, err := json.Marshal(map[string]any{
		"booking_id": bookingID,
		"type":       event,
	})
	if err != nil {
		return err
	}
	return tx.Notifications().CreateJob(ctx, tx.DB(), "email", event, payload, c.clock.Now())
}

func calculateRequestHash(req reqdto.CreateBookingRequest) string {
	data, _ := json.Marshal(req)
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}

func calculateIDHash(id uuid.UUID) string {
	hash := sha256.Sum256([]byte(id.String()))
	return hex.EncodeToString(hash[:])
}

// ActorFrom builds the domain actor used by transition commands.
func ActorFrom(id uuid.UUID, role actor.Role) booking.Actor {
	return booking.Actor{ID: id, Role: role}
}

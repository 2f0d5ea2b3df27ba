package commands

import (
	"context"

	"gearbook/internal/domain/payment"
	reqdto "gearbook/internal/handler/dto/request"
	"gearbook/internal/infra"
	"gearbook/internal/infra/gateway"
	"gearbook/internal/pkg/clock"
	"gearbook/internal/pkg/errs"
	"gearbook/internal/usecase/shared"

	"github.com/google/uuid"
)

var (
	ErrPaymentNotFound      = errs.New("payment not found")
	ErrPaymentAccessDenied  = errs.New("actor not allowed to act on this payment")
	ErrBookingNotPayable    = errs.New("booking cannot accept a payment in its current state")
	ErrAlreadyPaid          = errs.New("booking is already paid")
	ErrInvalidSignature     = errs.New("callback signature verification failed")
	ErrCallbackAmountBad    = errs.New("callback amount does not match the payment")
	ErrPaymentStateConflict = errs.New("payment received a conflicting terminal report")
)

type InitiatePaymentResult struct {
	PaymentID     uuid.UUID
	TransactionID string
	RedirectURL   string
	IsReplayed    bool
}

type CheckStatusResult struct {
	PaymentID uuid.UUID
	Status    payment.Status
}

type PaymentCommands interface {
	InitiatePayment(ctx context.Context, req reqdto.InitiatePaymentRequest, payerID uuid.UUID) (*InitiatePaymentResult, error)
	HandleCallback(ctx context.Context, req reqdto.PaymentCallbackRequest) error
	CheckStatus(ctx context.Context, paymentID uuid.UUID) (*CheckStatusResult, error)
}

type paymentCommandsImpl struct {
	uow        shared.UnitOfWork
	gateway    gateway.Client
	signer     *gateway.Signer
	reconciler Reconciler
	clock      clock.Clock
}

func NewPaymentCommands(
	uow shared.UnitOfWork,
	gatewayClient gateway.Client,
	signer *gateway.Signer,
	reconciler Reconciler,
	clock clock.Clock,
) PaymentCommands {
	return &paymentCommandsImpl{
		uow:        uow,
		gateway:    gatewayClient,
		signer:     signer,
		reconciler: reconciler,
		clock:      clock,
	}
}

// InitiatePayment runs in two transactions around the gateway call so no
// lock is held while waiting on the network. The first claims or creates
// the payment row; the second attaches the gateway handle. A crash between
// the two leaves a pending payment without a handle, which the next
// initiation attempt picks up again.
func (c *paymentCommandsImpl) InitiatePayment(
	ctx context.Context,
	req reqdto.InitiatePaymentRequest,
	payerID uuid.UUID,
) (*InitiatePaymentResult, error) {
	claim, err := c.claimPayment(ctx, req.BookingID, payerID)
	if err != nil {
		return nil, err
	}
	if claim.existingHandle != nil {
		return claim.existingHandle, nil
	}

	initiated, err := c.gateway.Initiate(ctx, gateway.InitiateRequest{
		AmountCents:  claim.amountCents,
		PayerContact: req.PayerContact,
		Description:  "gearbook booking " + req.BookingID.String(),
		Metadata:     map[string]string{"booking_id": req.BookingID.String()},
	})
	if err != nil {
		return nil, err
	}

	result := &InitiatePaymentResult{
		PaymentID:     claim.paymentID,
		TransactionID: initiated.TransactionID,
		RedirectURL:   initiated.RedirectURL,
	}
	err = c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		entity, err := tx.Payments().FindByIDForUpdate(ctx, tx.DB(), claim.paymentID)
		if err != nil {
			return errs.Mark(err, ErrDatabaseOperation)
		}
		if err := entity.AttachGatewayHandle(initiated.TransactionID, map[string]any{
			"redirect_url": initiated.RedirectURL,
		}); err != nil {
			return ErrDomainValidation
		}
		return tx.Payments().Update(ctx, tx.DB(), entity)
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

type paymentClaim struct {
	paymentID      uuid.UUID
	amountCents    int64
	existingHandle *InitiatePaymentResult
}

func (c *paymentCommandsImpl) claimPayment(ctx context.Context, bookingID, payerID uuid.UUID) (*paymentClaim, error) {
	var claim paymentClaim

	err := c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		entity, err := tx.Bookings().FindByIDForUpdate(ctx, tx.DB(), bookingID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return ErrBookingNotFound
			}
			return errs.Mark(err, ErrDatabaseOperation)
		}
		if !entity.IsPayableBy(payerID) {
			if payerID != entity.RenterID() {
				return ErrPaymentAccessDenied
			}
			return ErrBookingNotPayable
		}

		existing, err := tx.Payments().FindByBookingIDForUpdate(ctx, tx.DB(), bookingID)
		switch {
		case err == nil:
			return c.claimExisting(ctx, tx, existing, &claim)
		case infra.IsKind(err, infra.KindNotFound):
			return c.claimNew(ctx, tx, entity.ID(), payerID, entity.ProviderID(), entity.Price().Cents(), &claim)
		default:
			return errs.Mark(err, ErrDatabaseOperation)
		}
	})
	if err != nil {
		return nil, err
	}

	return &claim, nil
}

func (c *paymentCommandsImpl) claimExisting(ctx context.Context, tx shared.Tx, existing *payment.Payment, claim *paymentClaim) error {
	if existing.Status() == payment.StatusPending && existing.GatewayTxnID() != nil {
		// A gateway transaction is already open; hand it back instead of
		// opening a second one. The redirect URL was stored alongside the
		// handle when the transaction was first attached.
		redirectURL, _ := existing.Metadata()["redirect_url"].(string)
		claim.existingHandle = &InitiatePaymentResult{
			PaymentID:     existing.ID(),
			TransactionID: *existing.GatewayTxnID(),
			RedirectURL:   redirectURL,
			IsReplayed:    true,
		}
		return nil
	}

	if err := existing.Reinitiate(); err != nil {
		return ErrAlreadyPaid
	}
	if err := tx.Payments().Update(ctx, tx.DB(), existing); err != nil {
		return errs.Mark(err, ErrDatabaseOperation)
	}

	claim.paymentID = existing.ID()
	claim.amountCents = existing.AmountCents()
	return nil
}

func (c *paymentCommandsImpl) claimNew(ctx context.Context, tx shared.Tx, bookingID, payerID, providerID uuid.UUID, amountCents int64, claim *paymentClaim) error {
	entity, err := payment.NewPayment(bookingID, payerID, providerID, amountCents)
	if err != nil {
		return ErrDomainValidation
	}

	paymentID, err := tx.Payments().Create(ctx, tx.DB(), entity)
	if err != nil {
		if infra.IsKind(err, infra.KindDuplicateKey) {
			// Lost a race on the unique booking_id; the booking row lock
			// should prevent this, so treat it as a conflict.
			return ErrPaymentStateConflict
		}
		return errs.Mark(err, ErrDatabaseOperation)
	}

	claim.paymentID = paymentID
	claim.amountCents = amountCents
	return nil
}

// HandleCallback processes the gateway's server-to-server report. Replays
// of an already-applied report succeed without changing anything.
func (c *paymentCommandsImpl) HandleCallback(ctx context.Context, req reqdto.PaymentCallbackRequest) error {
	if !c.signer.Verify(req.SignedFields(), req.Signature) {
		return ErrInvalidSignature
	}

	return c.applyGatewayReport(ctx, req.TransactionID, req.Status, req.Amount, callbackPayload(req))
}

// CheckStatus asks the gateway for the current state of the transaction and
// applies the answer the same way a callback would.
func (c *paymentCommandsImpl) CheckStatus(ctx context.Context, paymentID uuid.UUID) (*CheckStatusResult, error) {
	var (
		txnID    *string
		current  payment.Status
		resolved bool
	)
	err := c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		entity, err := tx.Payments().FindByIDForUpdate(ctx, tx.DB(), paymentID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return ErrPaymentNotFound
			}
			return errs.Mark(err, ErrDatabaseOperation)
		}
		current = entity.Status()
		txnID = entity.GatewayTxnID()
		resolved = entity.Status().IsTerminal() || txnID == nil
		return nil
	})
	if err != nil {
		return nil, err
	}

	if resolved {
		return &CheckStatusResult{PaymentID: paymentID, Status: current}, nil
	}

	reported, err := c.gateway.Verify(ctx, *txnID)
	if err != nil {
		return nil, err
	}

	if err := c.applyGatewayReport(ctx, *txnID, reported, nil, map[string]any{"verify_status": reported}); err != nil {
		return nil, err
	}

	next := payment.MapGatewayStatus(reported)
	if next == payment.StatusPending {
		next = current
	}
	return &CheckStatusResult{PaymentID: paymentID, Status: next}, nil
}

func (c *paymentCommandsImpl) applyGatewayReport(ctx context.Context, txnID, reported string, amount *int64, payload map[string]any) error {
	next := payment.MapGatewayStatus(reported)

	return c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		entity, err := tx.Payments().FindByTxnIDForUpdate(ctx, tx.DB(), txnID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return ErrPaymentNotFound
			}
			return errs.Mark(err, ErrDatabaseOperation)
		}

		if amount != nil && *amount != entity.AmountCents() {
			return ErrCallbackAmountBad
		}

		changed, err := entity.ApplyGatewayResult(next, payload, c.clock.Now())
		if err != nil {
			return ErrPaymentStateConflict
		}
		if !changed {
			return nil
		}

		if err := tx.Payments().Update(ctx, tx.DB(), entity); err != nil {
			return errs.Mark(err, ErrDatabaseOperation)
		}

		if next == payment.StatusSuccess {
			return c.reconciler.OnPaymentSucceeded(ctx, tx, entity)
		}
		return nil
	})
}

func callbackPayload(req reqdto.PaymentCallbackRequest) map[string]any {
	payload := map[string]any{
		"callback_status": req.Status,
	}
	if req.Amount != nil {
		payload["callback_amount"] = *req.Amount
	}
	if req.Reference != "" {
		payload["callback_reference"] = req.Reference
	}
	return payload
}

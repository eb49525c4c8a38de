package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"studio-booking-be/internal/dto"
	"studio-booking-be/internal/entity"
	"studio-booking-be/internal/mapper"
	"studio-booking-be/internal/pkg/apperror"
	"studio-booking-be/internal/pkg/logger"
	"studio-booking-be/internal/pkg/mailer"
	"studio-booking-be/internal/repository/specification"
	"studio-booking-be/internal/repository/unitofwork"
	"studio-booking-be/pkg/clock"
	"studio-booking-be/pkg/events"
	"studio-booking-be/pkg/policy"
	"studio-booking-be/pkg/reference"
	"studio-booking-be/pkg/schedule"
)

// ICancellationService orchestrates the two money-touching booking exits.
// Both run as one transaction: the booking update, the signed refund
// record and the audit entry land together or not at all.
type ICancellationService interface {
	Cancel(ctx context.Context, id uuid.UUID, actorID *uuid.UUID, req *dto.CancelBookingRequest) (*dto.CancelBookingResponse, error)
	Reschedule(ctx context.Context, id uuid.UUID, actorID *uuid.UUID, req *dto.RescheduleBookingRequest) (*dto.RescheduleBookingResponse, error)
}

type cancellationService struct {
	uowFactory    unitofwork.RepositoryFactory
	policyService IPolicyService
	engine        policy.Engine
	emitter       NotificationEmitter
	emailService  mailer.IEmailService
	clock         clock.Clock
	logger        logger.ILogger
}

func NewCancellationService(
	uowFactory unitofwork.RepositoryFactory,
	policyService IPolicyService,
	engine policy.Engine,
	emitter NotificationEmitter,
	emailService mailer.IEmailService,
	clk clock.Clock,
	log logger.ILogger,
) ICancellationService {
	return &cancellationService{
		uowFactory:    uowFactory,
		policyService: policyService,
		engine:        engine,
		emitter:       emitter,
		emailService:  emailService,
		clock:         clk,
		logger:        log,
	}
}

func (s *cancellationService) Cancel(ctx context.Context, id uuid.UUID, actorID *uuid.UUID, req *dto.CancelBookingRequest) (*dto.CancelBookingResponse, error) {
	now := s.clock.Now()

	tiers, err := s.policyService.ActiveTiers(ctx)
	if err != nil {
		return nil, err
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, apperror.Transaction(err, "failed to begin transaction")
	}
	defer uow.Rollback()

	booking, err := uow.BookingRepository().FindOneForUpdate(ctx, specification.ByID{ID: id})
	if err != nil {
		return nil, apperror.Transaction(err, "failed to load booking")
	}
	if booking == nil {
		return nil, apperror.NotFound("booking %s not found", id)
	}
	if booking.Status.Terminal() {
		return nil, apperror.AlreadyTerminal("booking %s is already %s", booking.Reference, booking.Status)
	}

	refundAmount := s.engine.CancellationRefund(booking.TotalAmount, booking.Date, booking.StartMinutes, tiers, now)
	hoursUntil := policy.HoursUntil(booking.Date, booking.StartMinutes, now)

	booking.Status = entity.BookingStatusCancelled
	booking.CancelledAt = &now
	booking.CancelledBy = actorID
	booking.CancellationReason = req.Reason
	booking.RefundAmount = refundAmount
	if refundAmount > 0 && booking.PaymentStatus == entity.PaymentStatusPaid {
		if refundAmount >= booking.TotalAmount {
			booking.PaymentStatus = entity.PaymentStatusRefundedFull
		} else {
			booking.PaymentStatus = entity.PaymentStatusRefundedPartial
		}
	}

	if err := uow.BookingRepository().Update(ctx, booking); err != nil {
		return nil, apperror.Transaction(err, "failed to cancel booking")
	}

	var refund *entity.RefundRecord
	if refundAmount > 0 {
		refund = &entity.RefundRecord{
			ID:        uuid.New(),
			BookingID: booking.ID,
			Amount:    refundAmount,
			Reason:    entity.RefundReasonCancellation,
			Status:    entity.RefundStatusPending,
			CreatedAt: now,
		}
		if err := uow.RefundRepository().Create(ctx, refund); err != nil {
			return nil, apperror.Transaction(err, "failed to record refund")
		}
	}

	entry := &entity.AuditLogEntry{
		ID:          uuid.New(),
		ActorID:     actorID,
		Action:      entity.AuditActionBookingCancelled,
		EntityType:  "booking",
		EntityID:    booking.ID,
		Description: fmt.Sprintf("Booking %s cancelled: %s", booking.Reference, req.Reason),
		Metadata: map[string]interface{}{
			"reason":        req.Reason,
			"refund_amount": refundAmount,
			"hours_until":   hoursUntil,
		},
		CreatedAt: now,
	}
	if err := uow.AuditLogRepository().Create(ctx, entry); err != nil {
		return nil, apperror.Transaction(err, "failed to write audit entry")
	}

	if err := uow.Commit(); err != nil {
		return nil, apperror.Transaction(err, "failed to commit cancellation")
	}

	s.emitter.EmitBookingEvent(ctx, events.NewBookingEvent(events.BookingCancelled, booking.ID, booking.Reference, map[string]interface{}{
		"refund_amount": refundAmount,
	}))

	if booking.CustomerEmail != "" {
		if err := s.emailService.SendCancellationNotice(booking.CustomerEmail, booking.CustomerName, booking.Reference, refundAmount); err != nil {
			s.logger.Warn("CancellationService", "Failed to send cancellation email", map[string]interface{}{
				"booking_id": booking.ID.String(),
				"error":      err.Error(),
			})
		}
	}

	message := "Booking cancelled. No refund applies under the current policy."
	if refundAmount > 0 {
		message = fmt.Sprintf("Booking cancelled. A refund of %.2f has been recorded.", refundAmount)
	}

	return &dto.CancelBookingResponse{
		Booking: mapper.ToBookingResponse(booking),
		Refund:  mapper.ToRefundRecordResponse(refund),
		Message: message,
	}, nil
}

func (s *cancellationService) Reschedule(ctx context.Context, id uuid.UUID, actorID *uuid.UUID, req *dto.RescheduleBookingRequest) (*dto.RescheduleBookingResponse, error) {
	now := s.clock.Now()

	newDate, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return nil, apperror.Validation("invalid date %q", req.Date)
	}
	newStartMinutes, err := schedule.ParseClock(req.StartTime)
	if err != nil {
		return nil, apperror.Validation("invalid start time %q", req.StartTime)
	}

	tiers, err := s.policyService.ActiveTiers(ctx)
	if err != nil {
		return nil, err
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, apperror.Transaction(err, "failed to begin transaction")
	}
	defer uow.Rollback()

	booking, err := uow.BookingRepository().FindOneForUpdate(ctx, specification.ByID{ID: id})
	if err != nil {
		return nil, apperror.Transaction(err, "failed to load booking")
	}
	if booking == nil {
		return nil, apperror.NotFound("booking %s not found", id)
	}
	if booking.Status.Terminal() {
		return nil, apperror.AlreadyTerminal("booking %s is already %s", booking.Reference, booking.Status)
	}
	if booking.Status == entity.BookingStatusInProgress {
		return nil, apperror.InvalidTransition("booking %s is in progress and cannot be rescheduled", booking.Reference)
	}

	// The embargo is evaluated against the original slot before anything
	// is written. Exactly at the boundary is still allowed.
	fee, err := s.engine.ReschedulingFee(booking.TotalAmount, booking.Date, booking.StartMinutes, tiers, now)
	if err != nil {
		if errors.Is(err, policy.ErrInsideEmbargo) {
			return nil, apperror.ReschedulingWindow("booking %s starts in less than %d hours and can no longer be rescheduled", booking.Reference, s.engine.EmbargoHours)
		}
		return nil, err
	}

	successor := booking.CloneForReschedule(uuid.New(), reference.Derive(booking.Reference), newDate, newStartMinutes)

	if err := uow.BookingRepository().AcquireSlotLock(ctx, overlapQueryFor(successor, nil)); err != nil {
		return nil, apperror.Transaction(err, "failed to lock slot window")
	}
	count, err := uow.BookingRepository().CountOverlapping(ctx, overlapQueryFor(successor, nil))
	if err != nil {
		return nil, apperror.Transaction(err, "failed to check slot availability")
	}
	if count > 0 {
		return nil, apperror.Conflict("time slot %s on %s is already booked", successor.StartTime(), req.Date)
	}

	if err := uow.BookingRepository().Create(ctx, successor); err != nil {
		return nil, apperror.Transaction(err, "failed to create rescheduled booking")
	}

	booking.Status = entity.BookingStatusRescheduled
	booking.RescheduledTo = &successor.ID
	booking.ReschedulingFee = fee
	if err := uow.BookingRepository().Update(ctx, booking); err != nil {
		return nil, apperror.Transaction(err, "failed to close original booking")
	}

	if fee > 0 {
		// A fee is a negative adjustment: money the customer owes.
		feeRecord := &entity.RefundRecord{
			ID:        uuid.New(),
			BookingID: booking.ID,
			Amount:    -fee,
			Reason:    entity.RefundReasonReschedulingFee,
			Status:    entity.RefundStatusPending,
			CreatedAt: now,
		}
		if err := uow.RefundRepository().Create(ctx, feeRecord); err != nil {
			return nil, apperror.Transaction(err, "failed to record rescheduling fee")
		}
	}

	entry := &entity.AuditLogEntry{
		ID:          uuid.New(),
		ActorID:     actorID,
		Action:      entity.AuditActionBookingRescheduled,
		EntityType:  "booking",
		EntityID:    booking.ID,
		Description: fmt.Sprintf("Booking %s rescheduled to %s %s as %s", booking.Reference, req.Date, successor.StartTime(), successor.Reference),
		Metadata: map[string]interface{}{
			"new_booking_id": successor.ID.String(),
			"new_reference":  successor.Reference,
			"new_date":       req.Date,
			"new_start_time": successor.StartTime(),
			"fee":            fee,
			"reason":         req.Reason,
		},
		CreatedAt: now,
	}
	if err := uow.AuditLogRepository().Create(ctx, entry); err != nil {
		return nil, apperror.Transaction(err, "failed to write audit entry")
	}

	if err := uow.Commit(); err != nil {
		return nil, apperror.Transaction(err, "failed to commit reschedule")
	}

	s.emitter.EmitBookingEvent(ctx, events.NewBookingEvent(events.BookingRescheduled, booking.ID, booking.Reference, map[string]interface{}{
		"new_booking_id": successor.ID.String(),
		"new_reference":  successor.Reference,
		"fee":            fee,
	}))

	if booking.CustomerEmail != "" {
		if err := s.emailService.SendRescheduleNotice(
			booking.CustomerEmail,
			booking.CustomerName,
			booking.Reference,
			successor.Reference,
			req.Date,
			successor.StartTime(),
			fee,
		); err != nil {
			s.logger.Warn("CancellationService", "Failed to send reschedule email", map[string]interface{}{
				"booking_id": booking.ID.String(),
				"error":      err.Error(),
			})
		}
	}

	message := "Booking rescheduled at no charge."
	if fee > 0 {
		message = fmt.Sprintf("Booking rescheduled. A fee of %.2f applies.", fee)
	}

	return &dto.RescheduleBookingResponse{
		OriginalBooking: mapper.ToBookingResponse(booking),
		NewBooking:      mapper.ToBookingResponse(successor),
		Fee:             fee,
		Message:         message,
	}, nil
}

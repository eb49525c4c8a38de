package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"studio-booking-be/internal/config"
	"studio-booking-be/internal/dto"
	"studio-booking-be/internal/entity"
	"studio-booking-be/internal/repository/contract"
	"studio-booking-be/internal/mapper"
	"studio-booking-be/internal/pkg/apperror"
	"studio-booking-be/internal/pkg/logger"
	"studio-booking-be/internal/pkg/mailer"
	"studio-booking-be/internal/repository/specification"
	"studio-booking-be/internal/repository/unitofwork"
	"studio-booking-be/pkg/clock"
	"studio-booking-be/pkg/events"
	"studio-booking-be/pkg/reference"
	"studio-booking-be/pkg/schedule"
)

type IBookingService interface {
	Create(ctx context.Context, actorID *uuid.UUID, req *dto.CreateBookingRequest) (*dto.BookingResponse, error)
	Show(ctx context.Context, id uuid.UUID) (*dto.BookingResponse, error)
	ShowByReference(ctx context.Context, ref string) (*dto.BookingResponse, error)
	ListByDate(ctx context.Context, date string, instructorID *uuid.UUID) ([]dto.BookingResponse, error)
	Confirm(ctx context.Context, id uuid.UUID, actorID *uuid.UUID) (*dto.BookingResponse, error)
	CheckIn(ctx context.Context, id uuid.UUID, actorID *uuid.UUID) (*dto.BookingResponse, error)
	Complete(ctx context.Context, id uuid.UUID, actorID *uuid.UUID, req *dto.CompleteBookingRequest) (*dto.BookingResponse, error)
	Update(ctx context.Context, actorID *uuid.UUID, req *dto.UpdateBookingRequest) (*dto.BookingResponse, error)
}

type bookingService struct {
	uowFactory       unitofwork.RepositoryFactory
	publisherService IPublisherService
	emitter          NotificationEmitter
	emailService     mailer.IEmailService
	clock            clock.Clock
	logger           logger.ILogger
	cfg              config.BookingConfig
}

func NewBookingService(
	uowFactory unitofwork.RepositoryFactory,
	publisherService IPublisherService,
	emitter NotificationEmitter,
	emailService mailer.IEmailService,
	clk clock.Clock,
	log logger.ILogger,
	cfg config.BookingConfig,
) IBookingService {
	return &bookingService{
		uowFactory:       uowFactory,
		publisherService: publisherService,
		emitter:          emitter,
		emailService:     emailService,
		clock:            clk,
		logger:           log,
		cfg:              cfg,
	}
}

func (s *bookingService) Create(ctx context.Context, actorID *uuid.UUID, req *dto.CreateBookingRequest) (*dto.BookingResponse, error) {
	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return nil, apperror.Validation("invalid date %q", req.Date)
	}
	startMinutes, err := schedule.ParseClock(req.StartTime)
	if err != nil {
		return nil, apperror.Validation("invalid start time %q", req.StartTime)
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)

	svc, err := uow.ServiceRepository().FindOne(ctx, specification.ByID{ID: req.ServiceID})
	if err != nil {
		return nil, err
	}
	if svc == nil {
		return nil, apperror.NotFound("service %s not found", req.ServiceID)
	}

	duration := s.cfg.DefaultDurationMinutes
	if svc.DurationMinutes > 0 {
		duration = svc.DurationMinutes
	}
	if req.DurationMinutes != nil {
		duration = *req.DurationMinutes
	}
	if duration <= 0 {
		return nil, apperror.Validation("duration must be positive, got %d", duration)
	}

	booking := &entity.Booking{
		ID:              uuid.New(),
		Reference:       reference.NewBookingRef(date),
		CustomerID:      req.CustomerID,
		CustomerName:    req.CustomerName,
		CustomerEmail:   req.CustomerEmail,
		CustomerPhone:   req.CustomerPhone,
		InstructorID:    req.InstructorID,
		ServiceID:       svc.ID,
		Date:            date,
		StartMinutes:    startMinutes,
		DurationMinutes: duration,
		TotalAmount:     svc.Price,
		PaymentStatus:   entity.PaymentStatusUnpaid,
		Status:          entity.BookingStatusPending,
	}
	booking.RecomputeEnd()

	if err := uow.Begin(ctx); err != nil {
		return nil, apperror.Transaction(err, "failed to begin transaction")
	}
	defer uow.Rollback()

	// The advisory lock serializes slot claims for the day; without it two
	// transactions could both count zero under read committed and both
	// insert. The probe then runs race-free inside the transaction.
	if err := uow.BookingRepository().AcquireSlotLock(ctx, overlapQueryFor(booking, nil)); err != nil {
		return nil, apperror.Transaction(err, "failed to lock slot window")
	}
	count, err := uow.BookingRepository().CountOverlapping(ctx, overlapQueryFor(booking, nil))
	if err != nil {
		return nil, apperror.Transaction(err, "failed to check slot availability")
	}
	if count > 0 {
		return nil, apperror.Conflict("time slot %s on %s is already booked", booking.StartTime(), req.Date)
	}

	if err := uow.BookingRepository().Create(ctx, booking); err != nil {
		return nil, apperror.Transaction(err, "failed to create booking")
	}

	if err := uow.AuditLogRepository().Create(ctx, s.auditEntry(actorID, entity.AuditActionBookingCreated, booking.ID,
		fmt.Sprintf("Booking %s created for %s %s", booking.Reference, req.Date, booking.StartTime()),
		map[string]interface{}{
			"reference":  booking.Reference,
			"date":       req.Date,
			"start_time": booking.StartTime(),
		})); err != nil {
		return nil, apperror.Transaction(err, "failed to write audit entry")
	}

	if err := uow.Commit(); err != nil {
		return nil, apperror.Transaction(err, "failed to commit booking")
	}

	s.emitter.EmitBookingEvent(ctx, events.NewBookingEvent(events.BookingCreated, booking.ID, booking.Reference, map[string]interface{}{
		"customer_name": booking.CustomerName,
		"date":          req.Date,
		"start_time":    booking.StartTime(),
	}))

	res := mapper.ToBookingResponse(booking)
	return &res, nil
}

func (s *bookingService) Show(ctx context.Context, id uuid.UUID) (*dto.BookingResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	booking, err := uow.BookingRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return nil, err
	}
	if booking == nil {
		return nil, apperror.NotFound("booking %s not found", id)
	}
	res := mapper.ToBookingResponse(booking)
	return &res, nil
}

func (s *bookingService) ShowByReference(ctx context.Context, ref string) (*dto.BookingResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	booking, err := uow.BookingRepository().FindOne(ctx, specification.ByReference{Reference: ref})
	if err != nil {
		return nil, err
	}
	if booking == nil {
		return nil, apperror.NotFound("booking %s not found", ref)
	}
	res := mapper.ToBookingResponse(booking)
	return &res, nil
}

func (s *bookingService) ListByDate(ctx context.Context, date string, instructorID *uuid.UUID) ([]dto.BookingResponse, error) {
	day, err := time.Parse("2006-01-02", date)
	if err != nil {
		return nil, apperror.Validation("invalid date %q", date)
	}

	specs := []specification.Specification{
		specification.OnDate{Date: day},
		specification.OrderBy{Field: "start_time"},
	}
	if instructorID != nil {
		specs = append(specs, specification.ByInstructor{InstructorID: *instructorID})
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	bookings, err := uow.BookingRepository().FindAll(ctx, specs...)
	if err != nil {
		return nil, err
	}
	return mapper.ToBookingResponses(bookings), nil
}

func (s *bookingService) Confirm(ctx context.Context, id uuid.UUID, actorID *uuid.UUID) (*dto.BookingResponse, error) {
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
	if booking.Status != entity.BookingStatusPending {
		return nil, apperror.InvalidTransition("cannot confirm booking in status %q", booking.Status)
	}

	booking.Status = entity.BookingStatusConfirmed
	if err := uow.BookingRepository().Update(ctx, booking); err != nil {
		return nil, apperror.Transaction(err, "failed to confirm booking")
	}
	if err := uow.AuditLogRepository().Create(ctx, s.auditEntry(actorID, entity.AuditActionBookingConfirmed, booking.ID,
		fmt.Sprintf("Booking %s confirmed", booking.Reference), nil)); err != nil {
		return nil, apperror.Transaction(err, "failed to write audit entry")
	}
	if err := uow.Commit(); err != nil {
		return nil, apperror.Transaction(err, "failed to commit confirmation")
	}

	s.emitter.EmitBookingEvent(ctx, events.NewBookingEvent(events.BookingConfirmed, booking.ID, booking.Reference, nil))

	if booking.CustomerEmail != "" {
		if err := s.emailService.SendBookingConfirmation(
			booking.CustomerEmail,
			booking.CustomerName,
			booking.Reference,
			booking.Date.Format("2006-01-02"),
			booking.StartTime(),
		); err != nil {
			s.logger.Warn("BookingService", "Failed to send confirmation email", map[string]interface{}{
				"booking_id": booking.ID.String(),
				"error":      err.Error(),
			})
		}
	}

	res := mapper.ToBookingResponse(booking)
	return &res, nil
}

func (s *bookingService) CheckIn(ctx context.Context, id uuid.UUID, actorID *uuid.UUID) (*dto.BookingResponse, error) {
	now := s.clock.Now()

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
	if booking.CheckedIn {
		return nil, apperror.AlreadyCheckedIn("booking %s is already checked in", booking.Reference)
	}
	if booking.Status.Terminal() {
		return nil, apperror.AlreadyTerminal("booking %s is %s", booking.Reference, booking.Status)
	}
	if !schedule.SameDay(booking.Date, now) {
		return nil, apperror.WrongDay("booking %s is scheduled for %s, not today", booking.Reference, booking.Date.Format("2006-01-02"))
	}

	booking.CheckedIn = true
	booking.CheckedInAt = &now
	booking.Status = entity.BookingStatusInProgress
	if err := uow.BookingRepository().Update(ctx, booking); err != nil {
		return nil, apperror.Transaction(err, "failed to check in booking")
	}
	if err := uow.AuditLogRepository().Create(ctx, s.auditEntry(actorID, entity.AuditActionBookingCheckedIn, booking.ID,
		fmt.Sprintf("Booking %s checked in", booking.Reference), nil)); err != nil {
		return nil, apperror.Transaction(err, "failed to write audit entry")
	}
	if err := uow.Commit(); err != nil {
		return nil, apperror.Transaction(err, "failed to commit check-in")
	}

	s.emitter.EmitBookingEvent(ctx, events.NewBookingEvent(events.BookingCheckedIn, booking.ID, booking.Reference, nil))

	res := mapper.ToBookingResponse(booking)
	return &res, nil
}

func (s *bookingService) Complete(ctx context.Context, id uuid.UUID, actorID *uuid.UUID, req *dto.CompleteBookingRequest) (*dto.BookingResponse, error) {
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
	if booking.Status == entity.BookingStatusCompleted {
		return nil, apperror.InvalidTransition("booking %s is already completed", booking.Reference)
	}
	if booking.Status.Terminal() {
		return nil, apperror.AlreadyTerminal("booking %s is %s", booking.Reference, booking.Status)
	}

	points := s.cfg.DefaultXPAward
	if req != nil && req.XPAwarded != nil {
		points = *req.XPAwarded
	}

	booking.Status = entity.BookingStatusCompleted
	if err := uow.BookingRepository().Update(ctx, booking); err != nil {
		return nil, apperror.Transaction(err, "failed to complete booking")
	}
	if err := uow.AuditLogRepository().Create(ctx, s.auditEntry(actorID, entity.AuditActionBookingCompleted, booking.ID,
		fmt.Sprintf("Booking %s completed", booking.Reference),
		map[string]interface{}{"xp_awarded": points})); err != nil {
		return nil, apperror.Transaction(err, "failed to write audit entry")
	}
	if err := uow.Commit(); err != nil {
		return nil, apperror.Transaction(err, "failed to commit completion")
	}

	// XP award is best effort: completion already committed, a lost award
	// must never surface as a failed completion.
	if booking.CustomerID != nil && points > 0 {
		s.publishXPAward(ctx, *booking.CustomerID, booking.ID, points)
	}

	s.emitter.EmitBookingEvent(ctx, events.NewBookingEvent(events.BookingCompleted, booking.ID, booking.Reference, map[string]interface{}{
		"xp_awarded": points,
	}))

	res := mapper.ToBookingResponse(booking)
	return &res, nil
}

func (s *bookingService) Update(ctx context.Context, actorID *uuid.UUID, req *dto.UpdateBookingRequest) (*dto.BookingResponse, error) {
	if req.Date == nil && req.StartTime == nil && req.DurationMinutes == nil &&
		req.ServiceID == nil && req.Status == nil && req.PaymentStatus == nil {
		return nil, apperror.NoOp("no fields to update")
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, apperror.Transaction(err, "failed to begin transaction")
	}
	defer uow.Rollback()

	booking, err := uow.BookingRepository().FindOneForUpdate(ctx, specification.ByID{ID: req.ID})
	if err != nil {
		return nil, apperror.Transaction(err, "failed to load booking")
	}
	if booking == nil {
		return nil, apperror.NotFound("booking %s not found", req.ID)
	}

	scheduleChanged := false
	changed := map[string]interface{}{}

	if req.Date != nil {
		date, err := time.Parse("2006-01-02", *req.Date)
		if err != nil {
			return nil, apperror.Validation("invalid date %q", *req.Date)
		}
		booking.Date = date
		scheduleChanged = true
		changed["date"] = *req.Date
	}
	if req.StartTime != nil {
		startMinutes, err := schedule.ParseClock(*req.StartTime)
		if err != nil {
			return nil, apperror.Validation("invalid start time %q", *req.StartTime)
		}
		booking.StartMinutes = startMinutes
		scheduleChanged = true
		changed["start_time"] = *req.StartTime
	}
	if req.DurationMinutes != nil {
		booking.DurationMinutes = *req.DurationMinutes
		scheduleChanged = true
		changed["duration_minutes"] = *req.DurationMinutes
	}
	if req.ServiceID != nil {
		svc, err := uow.ServiceRepository().FindOne(ctx, specification.ByID{ID: *req.ServiceID})
		if err != nil {
			return nil, apperror.Transaction(err, "failed to load service")
		}
		if svc == nil {
			return nil, apperror.NotFound("service %s not found", *req.ServiceID)
		}
		booking.ServiceID = svc.ID
		changed["service_id"] = svc.ID.String()
	}
	if req.Status != nil {
		status := entity.BookingStatus(*req.Status)
		if !validStatus(status) {
			return nil, apperror.Validation("unknown status %q", *req.Status)
		}
		booking.Status = status
		changed["status"] = *req.Status
	}
	if req.PaymentStatus != nil {
		booking.PaymentStatus = entity.PaymentStatus(*req.PaymentStatus)
		changed["payment_status"] = *req.PaymentStatus
	}

	// End time is always derived, never supplied.
	booking.RecomputeEnd()

	if scheduleChanged {
		if err := uow.BookingRepository().AcquireSlotLock(ctx, overlapQueryFor(booking, &booking.ID)); err != nil {
			return nil, apperror.Transaction(err, "failed to lock slot window")
		}
		count, err := uow.BookingRepository().CountOverlapping(ctx, overlapQueryFor(booking, &booking.ID))
		if err != nil {
			return nil, apperror.Transaction(err, "failed to check slot availability")
		}
		if count > 0 {
			return nil, apperror.Conflict("time slot %s on %s is already booked", booking.StartTime(), booking.Date.Format("2006-01-02"))
		}
	}

	if err := uow.BookingRepository().Update(ctx, booking); err != nil {
		return nil, apperror.Transaction(err, "failed to update booking")
	}
	if err := uow.AuditLogRepository().Create(ctx, s.auditEntry(actorID, entity.AuditActionBookingUpdated, booking.ID,
		fmt.Sprintf("Booking %s updated", booking.Reference), changed)); err != nil {
		return nil, apperror.Transaction(err, "failed to write audit entry")
	}
	if err := uow.Commit(); err != nil {
		return nil, apperror.Transaction(err, "failed to commit update")
	}

	res := mapper.ToBookingResponse(booking)
	return &res, nil
}

func (s *bookingService) publishXPAward(ctx context.Context, customerID, bookingID uuid.UUID, points int) {
	payload, err := json.Marshal(dto.PublishXPAwardMessage{
		UserID:    customerID,
		BookingID: bookingID,
		Points:    points,
	})
	if err != nil {
		s.logger.Error("BookingService", "Failed to marshal XP award message", map[string]interface{}{
			"booking_id": bookingID.String(),
			"error":      err.Error(),
		})
		return
	}
	if err := s.publisherService.Publish(ctx, payload); err != nil {
		s.logger.Warn("BookingService", "Failed to publish XP award", map[string]interface{}{
			"booking_id": bookingID.String(),
			"user_id":    customerID.String(),
			"error":      err.Error(),
		})
	}
}

func (s *bookingService) auditEntry(actorID *uuid.UUID, action string, bookingID uuid.UUID, description string, metadata map[string]interface{}) *entity.AuditLogEntry {
	return &entity.AuditLogEntry{
		ID:          uuid.New(),
		ActorID:     actorID,
		Action:      action,
		EntityType:  "booking",
		EntityID:    bookingID,
		Description: description,
		Metadata:    metadata,
		CreatedAt:   s.clock.Now(),
	}
}

// overlapQueryFor probes the booking's own slot, optionally excluding one
// id (the booking itself when rescheduling or updating in place).
func overlapQueryFor(b *entity.Booking, excludeID *uuid.UUID) contract.OverlapQuery {
	return contract.OverlapQuery{
		Date:            b.Date.Format("2006-01-02"),
		StartMinutes:    b.StartMinutes,
		DurationMinutes: b.DurationMinutes,
		InstructorID:    b.InstructorID,
		ExcludeID:       excludeID,
	}
}

func validStatus(status entity.BookingStatus) bool {
	switch status {
	case entity.BookingStatusPending, entity.BookingStatusConfirmed, entity.BookingStatusInProgress,
		entity.BookingStatusCompleted, entity.BookingStatusCancelled, entity.BookingStatusRescheduled,
		entity.BookingStatusNoShow:
		return true
	}
	return false
}

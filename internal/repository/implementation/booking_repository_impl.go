package implementation

import (
	"context"
	"fmt"

	"studio-booking-be/internal/entity"
	"studio-booking-be/internal/model"
	"studio-booking-be/internal/repository/contract"
	"studio-booking-be/internal/repository/specification"
	"studio-booking-be/pkg/schedule"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type bookingRepositoryImpl struct {
	db *gorm.DB
}

func NewBookingRepository(db *gorm.DB) contract.BookingRepository {
	return &bookingRepositoryImpl{db: db}
}

func (r *bookingRepositoryImpl) Create(ctx context.Context, booking *entity.Booking) error {
	return r.db.WithContext(ctx).Create(r.mapToModel(booking)).Error
}

func (r *bookingRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Booking, error) {
	return r.findOne(r.db.WithContext(ctx), specs)
}

func (r *bookingRepositoryImpl) FindOneForUpdate(ctx context.Context, specs ...specification.Specification) (*entity.Booking, error) {
	query := r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"})
	return r.findOne(query, specs)
}

func (r *bookingRepositoryImpl) findOne(query *gorm.DB, specs []specification.Specification) (*entity.Booking, error) {
	var mb model.Booking
	for _, spec := range specs {
		query = spec.Apply(query)
	}

	if err := query.First(&mb).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}

	return r.mapToEntity(&mb)
}

func (r *bookingRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Booking, error) {
	var mbs []*model.Booking
	query := r.db.WithContext(ctx)

	for _, spec := range specs {
		query = spec.Apply(query)
	}

	if err := query.Find(&mbs).Error; err != nil {
		return nil, err
	}

	bookings := make([]*entity.Booking, 0, len(mbs))
	for _, mb := range mbs {
		b, err := r.mapToEntity(mb)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, b)
	}

	return bookings, nil
}

func (r *bookingRepositoryImpl) Update(ctx context.Context, booking *entity.Booking) error {
	return r.db.WithContext(ctx).Model(&model.Booking{}).
		Where("id = ?", booking.ID).
		Updates(map[string]interface{}{
			"date":                booking.Date.Format("2006-01-02"),
			"start_time":          schedule.FormatClock(booking.StartMinutes),
			"duration_minutes":    booking.DurationMinutes,
			"end_time":            schedule.FormatClock(booking.EndMinutes),
			"service_id":          booking.ServiceID,
			"instructor_id":       booking.InstructorID,
			"total_amount":        booking.TotalAmount,
			"payment_status":      string(booking.PaymentStatus),
			"status":              string(booking.Status),
			"checked_in":          booking.CheckedIn,
			"checked_in_at":       booking.CheckedInAt,
			"cancelled_at":        booking.CancelledAt,
			"cancelled_by":        booking.CancelledBy,
			"cancellation_reason": booking.CancellationReason,
			"refund_amount":       booking.RefundAmount,
			"rescheduling_fee":    booking.ReschedulingFee,
			"rescheduled_to":      booking.RescheduledTo,
			"rescheduled_from":    booking.RescheduledFrom,
		}).Error
}

// AcquireSlotLock serializes slot claims per day. A day holds a few dozen
// slots at most, so one advisory lock per date is coarse enough without
// hurting throughput. pg_advisory_xact_lock releases with the transaction.
func (r *bookingRepositoryImpl) AcquireSlotLock(ctx context.Context, q contract.OverlapQuery) error {
	return r.db.WithContext(ctx).
		Exec("SELECT pg_advisory_xact_lock(hashtext(?))", "booking_slots:"+q.Date).Error
}

// CountOverlapping loads the day's slot-occupying bookings and checks
// interval overlap in memory. Called inside the same transaction as the
// insert/update it guards, after AcquireSlotLock, so the check-then-act
// window is closed.
func (r *bookingRepositoryImpl) CountOverlapping(ctx context.Context, q contract.OverlapQuery) (int64, error) {
	query := r.db.WithContext(ctx).Model(&model.Booking{}).
		Where("date = ?", q.Date).
		Where("status NOT IN ?", []string{
			string(entity.BookingStatusCancelled),
			string(entity.BookingStatusRescheduled),
		})
	if q.InstructorID != nil {
		query = query.Where("instructor_id = ?", *q.InstructorID)
	}
	if q.ExcludeID != nil {
		query = query.Where("id <> ?", *q.ExcludeID)
	}

	var mbs []*model.Booking
	if err := query.Find(&mbs).Error; err != nil {
		return 0, err
	}

	start := q.StartMinutes
	end := clampAtMidnight(start, q.DurationMinutes)
	var count int64
	for _, mb := range mbs {
		otherStart, err := schedule.ParseClock(mb.StartTime)
		if err != nil {
			return 0, fmt.Errorf("booking %s has malformed start_time %q: %w", mb.ID, mb.StartTime, err)
		}
		otherEnd := clampAtMidnight(otherStart, mb.DurationMinutes)
		if start < otherEnd && end > otherStart {
			count++
		}
	}
	return count, nil
}

// clampAtMidnight truncates an interval at 24:00, matching the grid's
// occupancy rule: a booking never blocks the following date.
func clampAtMidnight(startMinutes, durationMinutes int) int {
	end := startMinutes + durationMinutes
	if end > 24*60 {
		return 24 * 60
	}
	return end
}

func (r *bookingRepositoryImpl) mapToModel(b *entity.Booking) *model.Booking {
	return &model.Booking{
		ID:                 b.ID,
		Reference:          b.Reference,
		CustomerID:         b.CustomerID,
		CustomerName:       b.CustomerName,
		CustomerEmail:      b.CustomerEmail,
		CustomerPhone:      b.CustomerPhone,
		InstructorID:       b.InstructorID,
		ServiceID:          b.ServiceID,
		Date:               b.Date,
		StartTime:          schedule.FormatClock(b.StartMinutes),
		DurationMinutes:    b.DurationMinutes,
		EndTime:            schedule.FormatClock(b.EndMinutes),
		TotalAmount:        b.TotalAmount,
		PaymentStatus:      string(b.PaymentStatus),
		Status:             string(b.Status),
		CheckedIn:          b.CheckedIn,
		CheckedInAt:        b.CheckedInAt,
		CancelledAt:        b.CancelledAt,
		CancelledBy:        b.CancelledBy,
		CancellationReason: b.CancellationReason,
		RefundAmount:       b.RefundAmount,
		ReschedulingFee:    b.ReschedulingFee,
		RescheduledTo:      b.RescheduledTo,
		RescheduledFrom:    b.RescheduledFrom,
	}
}

func (r *bookingRepositoryImpl) mapToEntity(mb *model.Booking) (*entity.Booking, error) {
	startMinutes, err := schedule.ParseClock(mb.StartTime)
	if err != nil {
		return nil, fmt.Errorf("booking %s has malformed start_time %q: %w", mb.ID, mb.StartTime, err)
	}
	endMinutes, err := schedule.ParseClock(mb.EndTime)
	if err != nil {
		return nil, fmt.Errorf("booking %s has malformed end_time %q: %w", mb.ID, mb.EndTime, err)
	}

	return &entity.Booking{
		ID:                 mb.ID,
		Reference:          mb.Reference,
		CustomerID:         mb.CustomerID,
		CustomerName:       mb.CustomerName,
		CustomerEmail:      mb.CustomerEmail,
		CustomerPhone:      mb.CustomerPhone,
		InstructorID:       mb.InstructorID,
		ServiceID:          mb.ServiceID,
		Date:               mb.Date,
		StartMinutes:       startMinutes,
		DurationMinutes:    mb.DurationMinutes,
		EndMinutes:         endMinutes,
		TotalAmount:        mb.TotalAmount,
		PaymentStatus:      entity.PaymentStatus(mb.PaymentStatus),
		Status:             entity.BookingStatus(mb.Status),
		CheckedIn:          mb.CheckedIn,
		CheckedInAt:        mb.CheckedInAt,
		CancelledAt:        mb.CancelledAt,
		CancelledBy:        mb.CancelledBy,
		CancellationReason: mb.CancellationReason,
		RefundAmount:       mb.RefundAmount,
		ReschedulingFee:    mb.ReschedulingFee,
		RescheduledTo:      mb.RescheduledTo,
		RescheduledFrom:    mb.RescheduledFrom,
		CreatedAt:          mb.CreatedAt,
		UpdatedAt:          mb.UpdatedAt,
	}, nil
}

package contract

import (
	"context"

	"studio-booking-be/internal/entity"
	"studio-booking-be/internal/repository/specification"

	"github.com/google/uuid"
)

type BookingRepository interface {
	Create(ctx context.Context, booking *entity.Booking) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Booking, error)
	// FindOneForUpdate reads with a row-level lock (SELECT ... FOR UPDATE).
	// Only meaningful inside a unit-of-work transaction; it serializes
	// concurrent mutations of the same booking.
	FindOneForUpdate(ctx context.Context, specs ...specification.Specification) (*entity.Booking, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Booking, error)
	Update(ctx context.Context, booking *entity.Booking) error
	// AcquireSlotLock takes a transaction-scoped advisory lock covering all
	// bookings on the query's date. Under read committed, two concurrent
	// inserts for the same free slot can both see a zero overlap count;
	// serializing the day closes that window. Released on commit/rollback.
	AcquireSlotLock(ctx context.Context, q OverlapQuery) error
	// CountOverlapping counts non-cancelled, non-rescheduled bookings on the
	// date whose interval overlaps [startMinutes, startMinutes+duration),
	// optionally restricted to one instructor and excluding one booking id.
	// Occupancy is truncated at midnight: a booking never blocks the
	// following date.
	CountOverlapping(ctx context.Context, q OverlapQuery) (int64, error)
}

// OverlapQuery describes a slot-conflict probe as an explicit optional
// field struct rather than assembled SQL strings.
type OverlapQuery struct {
	Date            string // "2006-01-02"
	StartMinutes    int
	DurationMinutes int
	InstructorID    *uuid.UUID
	ExcludeID       *uuid.UUID
}

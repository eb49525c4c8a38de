package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"studio-booking-be/internal/dto"
	"studio-booking-be/internal/pkg/apperror"
	"studio-booking-be/internal/repository/specification"
	"studio-booking-be/internal/repository/unitofwork"
	"studio-booking-be/pkg/schedule"
)

type IAvailabilityService interface {
	Resolve(ctx context.Context, date string, instructorID *uuid.UUID) (*dto.AvailabilityResponse, error)
}

type availabilityService struct {
	uowFactory unitofwork.RepositoryFactory
	grid       schedule.Grid
}

func NewAvailabilityService(uowFactory unitofwork.RepositoryFactory, grid schedule.Grid) IAvailabilityService {
	return &availabilityService{
		uowFactory: uowFactory,
		grid:       grid,
	}
}

// Resolve partitions the day's slot grid into free and occupied halves.
// Cancelled and rescheduled bookings free their slot; everything else
// blocks it.
func (s *availabilityService) Resolve(ctx context.Context, date string, instructorID *uuid.UUID) (*dto.AvailabilityResponse, error) {
	day, err := time.Parse("2006-01-02", date)
	if err != nil {
		return nil, apperror.Validation("invalid date %q", date)
	}

	specs := []specification.Specification{
		specification.OnDate{Date: day},
		specification.OccupyingSlot{},
	}
	if instructorID != nil {
		specs = append(specs, specification.ByInstructor{InstructorID: *instructorID})
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	bookings, err := uow.BookingRepository().FindAll(ctx, specs...)
	if err != nil {
		return nil, err
	}

	blocks := make([]schedule.Block, 0, len(bookings))
	for _, b := range bookings {
		blocks = append(blocks, schedule.Block{
			Start:    b.StartMinutes,
			Duration: b.DurationMinutes,
		})
	}

	free, occupied := s.grid.Partition(blocks)
	return &dto.AvailabilityResponse{
		Date:      date,
		Available: free,
		Occupied:  occupied,
	}, nil
}

package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"studio-booking-be/internal/entity"
	"studio-booking-be/internal/pkg/apperror"
	"studio-booking-be/pkg/schedule"
)

func TestResolveAvailability(t *testing.T) {
	store := newFakeStore()
	svc := NewAvailabilityService(newFakeFactory(store), schedule.DefaultGrid())
	day := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)

	seedBooking(store, entity.BookingStatusConfirmed, day, 14*60)   // blocks 14:00, 14:30
	seedBooking(store, entity.BookingStatusCancelled, day, 11*60)   // freed
	seedBooking(store, entity.BookingStatusRescheduled, day, 17*60) // freed
	seedBooking(store, entity.BookingStatusPending, day, 19*60)     // blocks 19:00, 19:30

	res, err := svc.Resolve(context.Background(), "2025-06-10", nil)
	require.NoError(t, err)

	assert.Equal(t, "2025-06-10", res.Date)
	assert.Len(t, res.Available, 16)
	assert.Len(t, res.Occupied, 4)
	assert.Contains(t, res.Occupied, "14:00")
	assert.Contains(t, res.Occupied, "14:30")
	assert.Contains(t, res.Occupied, "19:00")
	assert.Contains(t, res.Occupied, "19:30")
	assert.Contains(t, res.Available, "11:00", "cancelled bookings free their slot")
	assert.Contains(t, res.Available, "17:00", "rescheduled bookings free their slot")
}

func TestResolveAvailabilityEmptyDay(t *testing.T) {
	store := newFakeStore()
	svc := NewAvailabilityService(newFakeFactory(store), schedule.DefaultGrid())

	res, err := svc.Resolve(context.Background(), "2025-06-11", nil)
	require.NoError(t, err)
	assert.Len(t, res.Available, 20)
	assert.Empty(t, res.Occupied)
}

func TestResolveAvailabilityBadDate(t *testing.T) {
	store := newFakeStore()
	svc := NewAvailabilityService(newFakeFactory(store), schedule.DefaultGrid())

	_, err := svc.Resolve(context.Background(), "10-06-2025", nil)
	require.Error(t, err)
	assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))
}

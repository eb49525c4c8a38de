package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"studio-booking-be/internal/config"
	"studio-booking-be/internal/dto"
	"studio-booking-be/internal/entity"
	"studio-booking-be/internal/pkg/apperror"
	"studio-booking-be/pkg/clock"
)

var testBookingCfg = config.BookingConfig{
	OpenTime:               "10:00",
	CloseTime:              "20:00",
	SlotIntervalMinutes:    30,
	DefaultDurationMinutes: 60,
	DefaultXPAward:         100,
	RescheduleEmbargoHours: 8,
}

func newBookingFixture(now time.Time) (*fakeStore, IBookingService, *capturePublisher, *nopMailer, *nopEmitter) {
	store := newFakeStore()
	pub := &capturePublisher{}
	mail := &nopMailer{}
	emitter := &nopEmitter{}
	svc := NewBookingService(
		newFakeFactory(store),
		pub,
		emitter,
		mail,
		clock.Fixed{At: now},
		nopLogger{},
		testBookingCfg,
	)
	return store, svc, pub, mail, emitter
}

func seedService(store *fakeStore, duration int, price float64) *entity.Service {
	s := &entity.Service{
		ID:              uuid.New(),
		Name:            "Vocal Coaching",
		Price:           price,
		DurationMinutes: duration,
		Active:          true,
	}
	store.addService(s)
	return s
}

func seedBooking(store *fakeStore, status entity.BookingStatus, date time.Time, startMinutes int) *entity.Booking {
	b := &entity.Booking{
		ID:              uuid.New(),
		Reference:       "BK-20250601-ABC123",
		CustomerName:    "Dewi",
		CustomerEmail:   "dewi@example.com",
		ServiceID:       uuid.New(),
		Date:            date,
		StartMinutes:    startMinutes,
		DurationMinutes: 60,
		TotalAmount:     500,
		PaymentStatus:   entity.PaymentStatusPaid,
		Status:          status,
	}
	b.RecomputeEnd()
	store.addBooking(b)
	return b
}

func TestCreateBookingDefaults(t *testing.T) {
	now := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	store, svc, _, _, emitter := newBookingFixture(now)
	offering := seedService(store, 0, 350)

	res, err := svc.Create(context.Background(), nil, &dto.CreateBookingRequest{
		CustomerName: "Dewi",
		ServiceID:    offering.ID,
		Date:         "2025-06-10",
		StartTime:    "14:00",
	})
	require.NoError(t, err)

	assert.Equal(t, "pending", res.Status)
	assert.Equal(t, "unpaid", res.PaymentStatus)
	assert.Equal(t, 60, res.DurationMinutes, "duration defaults when neither request nor service set one")
	assert.Equal(t, "14:00", res.StartTime)
	assert.Equal(t, "15:00", res.EndTime)
	assert.Equal(t, 350.0, res.TotalAmount)
	assert.Contains(t, res.Reference, "BK-20250610-")

	stored := store.booking(res.ID)
	require.NotNil(t, stored)
	assert.Equal(t, entity.BookingStatusPending, stored.Status)

	assert.Contains(t, emitter.eventTypes, "BOOKING_CREATED")
}

func TestCreateBookingServiceDurationWins(t *testing.T) {
	now := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	store, svc, _, _, _ := newBookingFixture(now)
	offering := seedService(store, 90, 350)

	res, err := svc.Create(context.Background(), nil, &dto.CreateBookingRequest{
		CustomerName: "Dewi",
		ServiceID:    offering.ID,
		Date:         "2025-06-10",
		StartTime:    "14:00",
	})
	require.NoError(t, err)
	assert.Equal(t, 90, res.DurationMinutes)
	assert.Equal(t, "15:30", res.EndTime)
}

func TestCreateBookingSlotConflict(t *testing.T) {
	now := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	store, svc, _, _, _ := newBookingFixture(now)
	offering := seedService(store, 60, 350)
	day := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)
	seedBooking(store, entity.BookingStatusConfirmed, day, 14*60)

	_, err := svc.Create(context.Background(), nil, &dto.CreateBookingRequest{
		CustomerName: "Rudi",
		ServiceID:    offering.ID,
		Date:         "2025-06-10",
		StartTime:    "14:30",
	})
	require.Error(t, err)
	assert.Equal(t, apperror.KindConflict, apperror.KindOf(err))
}

func TestCreateBookingCancelledSlotIsFree(t *testing.T) {
	now := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	store, svc, _, _, _ := newBookingFixture(now)
	offering := seedService(store, 60, 350)
	day := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)
	seedBooking(store, entity.BookingStatusCancelled, day, 14*60)

	_, err := svc.Create(context.Background(), nil, &dto.CreateBookingRequest{
		CustomerName: "Rudi",
		ServiceID:    offering.ID,
		Date:         "2025-06-10",
		StartTime:    "14:00",
	})
	assert.NoError(t, err)
}

func TestConfirmRequiresPending(t *testing.T) {
	now := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	store, svc, _, mail, _ := newBookingFixture(now)
	day := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)

	pending := seedBooking(store, entity.BookingStatusPending, day, 14*60)
	res, err := svc.Confirm(context.Background(), pending.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, "confirmed", res.Status)
	assert.Equal(t, 1, mail.confirmations)

	// A second confirm is an invalid transition.
	_, err = svc.Confirm(context.Background(), pending.ID, nil)
	require.Error(t, err)
	assert.Equal(t, apperror.KindInvalidTransition, apperror.KindOf(err))
}

func TestCheckInSameDayOnly(t *testing.T) {
	now := time.Date(2025, 6, 10, 13, 0, 0, 0, time.UTC)
	store, svc, _, _, _ := newBookingFixture(now)

	tomorrow := time.Date(2025, 6, 11, 0, 0, 0, 0, time.UTC)
	wrongDay := seedBooking(store, entity.BookingStatusConfirmed, tomorrow, 14*60)
	_, err := svc.CheckIn(context.Background(), wrongDay.ID, nil)
	require.Error(t, err)
	assert.Equal(t, apperror.KindWrongDay, apperror.KindOf(err))

	today := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)
	b := seedBooking(store, entity.BookingStatusConfirmed, today, 14*60)
	res, err := svc.CheckIn(context.Background(), b.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, "in_progress", res.Status)
	assert.True(t, res.CheckedIn)
	require.NotNil(t, res.CheckedInAt)
	assert.Equal(t, now, *res.CheckedInAt)

	// Double check-in is rejected.
	_, err = svc.CheckIn(context.Background(), b.ID, nil)
	require.Error(t, err)
	assert.Equal(t, apperror.KindAlreadyCheckedIn, apperror.KindOf(err))
}

func TestCheckInTerminalBooking(t *testing.T) {
	now := time.Date(2025, 6, 10, 13, 0, 0, 0, time.UTC)
	store, svc, _, _, _ := newBookingFixture(now)
	today := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)

	cancelled := seedBooking(store, entity.BookingStatusCancelled, today, 14*60)
	_, err := svc.CheckIn(context.Background(), cancelled.ID, nil)
	require.Error(t, err)
	assert.Equal(t, apperror.KindAlreadyTerminal, apperror.KindOf(err))
}

func TestCompleteAwardsDefaultXP(t *testing.T) {
	now := time.Date(2025, 6, 10, 16, 0, 0, 0, time.UTC)
	store, svc, pub, _, _ := newBookingFixture(now)
	today := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)

	customerID := uuid.New()
	b := seedBooking(store, entity.BookingStatusInProgress, today, 14*60)
	b.CustomerID = &customerID
	store.addBooking(b)

	res, err := svc.Complete(context.Background(), b.ID, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "completed", res.Status)
	require.Len(t, pub.payloads, 1)
	assert.Contains(t, string(pub.payloads[0]), `"points":100`)

	// Completing twice fails.
	_, err = svc.Complete(context.Background(), b.ID, nil, nil)
	require.Error(t, err)
	assert.Equal(t, apperror.KindInvalidTransition, apperror.KindOf(err))
}

func TestCompleteExplicitXPOverride(t *testing.T) {
	now := time.Date(2025, 6, 10, 16, 0, 0, 0, time.UTC)
	store, svc, pub, _, _ := newBookingFixture(now)
	today := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)

	customerID := uuid.New()
	b := seedBooking(store, entity.BookingStatusInProgress, today, 14*60)
	b.CustomerID = &customerID
	store.addBooking(b)

	xp := 250
	_, err := svc.Complete(context.Background(), b.ID, nil, &dto.CompleteBookingRequest{XPAwarded: &xp})
	require.NoError(t, err)
	require.Len(t, pub.payloads, 1)
	assert.Contains(t, string(pub.payloads[0]), `"points":250`)
}

func TestCompleteSurvivesPublishFailure(t *testing.T) {
	now := time.Date(2025, 6, 10, 16, 0, 0, 0, time.UTC)
	store, svc, pub, _, _ := newBookingFixture(now)
	pub.fail = true
	today := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)

	customerID := uuid.New()
	b := seedBooking(store, entity.BookingStatusInProgress, today, 14*60)
	b.CustomerID = &customerID
	store.addBooking(b)

	res, err := svc.Complete(context.Background(), b.ID, nil, nil)
	require.NoError(t, err, "a lost XP award must not fail the completion")
	assert.Equal(t, "completed", res.Status)
	assert.Equal(t, entity.BookingStatusCompleted, store.booking(b.ID).Status)
}

func TestCompleteWalkInWithoutAccount(t *testing.T) {
	now := time.Date(2025, 6, 10, 16, 0, 0, 0, time.UTC)
	store, svc, pub, _, _ := newBookingFixture(now)
	today := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)

	b := seedBooking(store, entity.BookingStatusInProgress, today, 14*60)

	_, err := svc.Complete(context.Background(), b.ID, nil, nil)
	require.NoError(t, err)
	assert.Empty(t, pub.payloads, "no XP message for bookings without a customer account")
}

func TestUpdateNoFieldsIsNoOp(t *testing.T) {
	now := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	store, svc, _, _, _ := newBookingFixture(now)
	day := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)
	b := seedBooking(store, entity.BookingStatusConfirmed, day, 14*60)

	_, err := svc.Update(context.Background(), nil, &dto.UpdateBookingRequest{ID: b.ID})
	require.Error(t, err)
	assert.Equal(t, apperror.KindNoOp, apperror.KindOf(err))
}

func TestUpdateRecomputesEndTime(t *testing.T) {
	now := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	store, svc, _, _, _ := newBookingFixture(now)
	day := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)
	b := seedBooking(store, entity.BookingStatusConfirmed, day, 14*60)

	newStart := "16:00"
	duration := 90
	res, err := svc.Update(context.Background(), nil, &dto.UpdateBookingRequest{
		ID:              b.ID,
		StartTime:       &newStart,
		DurationMinutes: &duration,
	})
	require.NoError(t, err)
	assert.Equal(t, "16:00", res.StartTime)
	assert.Equal(t, "17:30", res.EndTime)
}

func TestSlotChecksTakeDayLock(t *testing.T) {
	now := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	store, svc, _, _, _ := newBookingFixture(now)
	offering := seedService(store, 60, 350)

	_, err := svc.Create(context.Background(), nil, &dto.CreateBookingRequest{
		CustomerName: "Dewi",
		ServiceID:    offering.ID,
		Date:         "2025-06-10",
		StartTime:    "14:00",
	})
	require.NoError(t, err)
	require.Equal(t, []string{"booking_slots:2025-06-10"}, store.slotLocks,
		"create must serialize on the day before probing for conflicts")

	// Moving a booking claims a slot too, so it locks the target day.
	day := time.Date(2025, 6, 12, 0, 0, 0, 0, time.UTC)
	b := seedBooking(store, entity.BookingStatusConfirmed, day, 16*60)
	newStart := "17:00"
	_, err = svc.Update(context.Background(), nil, &dto.UpdateBookingRequest{
		ID:        b.ID,
		StartTime: &newStart,
	})
	require.NoError(t, err)
	assert.Equal(t, "booking_slots:2025-06-12", store.slotLocks[len(store.slotLocks)-1])
}

func TestUpdateRejectsConflictingMove(t *testing.T) {
	now := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	store, svc, _, _, _ := newBookingFixture(now)
	day := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)
	seedBooking(store, entity.BookingStatusConfirmed, day, 16*60)
	b := seedBooking(store, entity.BookingStatusConfirmed, day, 14*60)

	newStart := "16:30"
	_, err := svc.Update(context.Background(), nil, &dto.UpdateBookingRequest{
		ID:        b.ID,
		StartTime: &newStart,
	})
	require.Error(t, err)
	assert.Equal(t, apperror.KindConflict, apperror.KindOf(err))
}

func TestUpdateMoveToOwnSlotSucceeds(t *testing.T) {
	now := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	store, svc, _, _, _ := newBookingFixture(now)
	day := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)
	b := seedBooking(store, entity.BookingStatusConfirmed, day, 14*60)

	// Shrinking in place overlaps only itself.
	duration := 30
	res, err := svc.Update(context.Background(), nil, &dto.UpdateBookingRequest{
		ID:              b.ID,
		DurationMinutes: &duration,
	})
	require.NoError(t, err)
	assert.Equal(t, "14:30", res.EndTime)
}

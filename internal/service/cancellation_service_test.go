package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"studio-booking-be/internal/dto"
	"studio-booking-be/internal/entity"
	"studio-booking-be/internal/pkg/apperror"
	"studio-booking-be/internal/repository/memory"
	"studio-booking-be/pkg/clock"
	"studio-booking-be/pkg/policy"
)

func seedStandardPolicies(store *fakeStore) {
	tiers := []struct {
		policyType policy.Type
		hours      int
		percentage float64
	}{
		{policy.TypeCancellation, 72, 100},
		{policy.TypeCancellation, 24, 50},
		{policy.TypeCancellation, 0, 0},
		{policy.TypeRescheduling, 48, 0},
		{policy.TypeRescheduling, 8, 10},
	}
	for _, tier := range tiers {
		store.policies = append(store.policies, &entity.CancellationPolicy{
			ID:                 uuid.New(),
			PolicyType:         tier.policyType,
			HoursBeforeBooking: tier.hours,
			Percentage:         tier.percentage,
			Active:             true,
		})
	}
}

func newCancellationFixture(now time.Time) (*fakeStore, ICancellationService, *nopMailer, *nopEmitter) {
	store := newFakeStore()
	seedStandardPolicies(store)

	factory := newFakeFactory(store)
	policySvc := NewPolicyService(factory, memory.NewPolicyCache())
	mail := &nopMailer{}
	emitter := &nopEmitter{}
	svc := NewCancellationService(
		factory,
		policySvc,
		policy.NewEngine(testBookingCfg.RescheduleEmbargoHours),
		emitter,
		mail,
		clock.Fixed{At: now},
		nopLogger{},
	)
	return store, svc, mail, emitter
}

func TestCancelWithRefund(t *testing.T) {
	// Booking starts 2025-06-10 14:00; 50 hours out lands in the 24h/50%
	// tier.
	now := time.Date(2025, 6, 8, 12, 0, 0, 0, time.UTC)
	store, svc, mail, emitter := newCancellationFixture(now)
	day := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)
	b := seedBooking(store, entity.BookingStatusConfirmed, day, 14*60)

	actor := uuid.New()
	res, err := svc.Cancel(context.Background(), b.ID, &actor, &dto.CancelBookingRequest{Reason: "schedule change"})
	require.NoError(t, err)

	assert.Equal(t, "cancelled", res.Booking.Status)
	assert.Equal(t, 250.0, res.Booking.RefundAmount)
	assert.Equal(t, "refunded_partial", res.Booking.PaymentStatus)

	require.NotNil(t, res.Refund)
	assert.Equal(t, 250.0, res.Refund.Amount)
	assert.Equal(t, "cancellation", res.Refund.Reason)
	assert.Equal(t, "pending", res.Refund.Status)

	stored := store.booking(b.ID)
	assert.Equal(t, entity.BookingStatusCancelled, stored.Status)
	require.NotNil(t, stored.CancelledAt)
	assert.Equal(t, now, *stored.CancelledAt)
	require.NotNil(t, stored.CancelledBy)
	assert.Equal(t, actor, *stored.CancelledBy)
	assert.Equal(t, "schedule change", stored.CancellationReason)

	require.Len(t, store.refunds, 1)
	require.Len(t, store.audits, 1)
	assert.Equal(t, entity.AuditActionBookingCancelled, store.audits[0].Action)
	assert.Equal(t, b.ID, store.audits[0].EntityID)

	assert.Equal(t, 1, mail.cancellations)
	assert.Equal(t, 250.0, mail.lastRefund)
	assert.Contains(t, emitter.eventTypes, "BOOKING_CANCELLED")
}

func TestCancelFullRefund(t *testing.T) {
	// 100 hours out qualifies for the 72h/100% tier.
	now := time.Date(2025, 6, 6, 10, 0, 0, 0, time.UTC)
	store, svc, _, _ := newCancellationFixture(now)
	day := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)
	b := seedBooking(store, entity.BookingStatusConfirmed, day, 14*60)

	res, err := svc.Cancel(context.Background(), b.ID, nil, &dto.CancelBookingRequest{Reason: "plans changed"})
	require.NoError(t, err)
	assert.Equal(t, 500.0, res.Booking.RefundAmount)
	assert.Equal(t, "refunded_full", res.Booking.PaymentStatus)
}

func TestCancelLastMinuteNoRefund(t *testing.T) {
	// 2 hours out falls to the 0h/0% tier: refund is zero, no refund
	// record is written, payment status stays as it was.
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)
	store, svc, _, _ := newCancellationFixture(now)
	day := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)
	b := seedBooking(store, entity.BookingStatusConfirmed, day, 14*60)

	res, err := svc.Cancel(context.Background(), b.ID, nil, &dto.CancelBookingRequest{Reason: "sick"})
	require.NoError(t, err)

	assert.Equal(t, "cancelled", res.Booking.Status)
	assert.Equal(t, 0.0, res.Booking.RefundAmount)
	assert.Equal(t, "paid", res.Booking.PaymentStatus)
	assert.Nil(t, res.Refund)
	assert.Empty(t, store.refunds)
	require.Len(t, store.audits, 1, "audit entry is written even without a refund")
}

func TestCancelZeroAmountBooking(t *testing.T) {
	now := time.Date(2025, 6, 6, 10, 0, 0, 0, time.UTC)
	store, svc, _, _ := newCancellationFixture(now)
	day := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)
	b := seedBooking(store, entity.BookingStatusConfirmed, day, 14*60)
	b.TotalAmount = 0
	store.addBooking(b)

	res, err := svc.Cancel(context.Background(), b.ID, nil, &dto.CancelBookingRequest{Reason: "free session"})
	require.NoError(t, err)
	assert.Equal(t, 0.0, res.Booking.RefundAmount)
	assert.Empty(t, store.refunds)
}

func TestCancelTwiceFails(t *testing.T) {
	now := time.Date(2025, 6, 6, 10, 0, 0, 0, time.UTC)
	store, svc, _, _ := newCancellationFixture(now)
	day := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)
	b := seedBooking(store, entity.BookingStatusConfirmed, day, 14*60)

	_, err := svc.Cancel(context.Background(), b.ID, nil, &dto.CancelBookingRequest{Reason: "first"})
	require.NoError(t, err)

	_, err = svc.Cancel(context.Background(), b.ID, nil, &dto.CancelBookingRequest{Reason: "second"})
	require.Error(t, err)
	assert.Equal(t, apperror.KindAlreadyTerminal, apperror.KindOf(err))
	assert.Len(t, store.refunds, 1, "second attempt writes nothing")
	assert.Len(t, store.audits, 1)
}

func TestCancelCompletedBookingFails(t *testing.T) {
	now := time.Date(2025, 6, 6, 10, 0, 0, 0, time.UTC)
	store, svc, _, _ := newCancellationFixture(now)
	day := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)
	b := seedBooking(store, entity.BookingStatusCompleted, day, 14*60)

	_, err := svc.Cancel(context.Background(), b.ID, nil, &dto.CancelBookingRequest{Reason: "late"})
	require.Error(t, err)
	assert.Equal(t, apperror.KindAlreadyTerminal, apperror.KindOf(err))
}

func TestCancelMissingBooking(t *testing.T) {
	now := time.Date(2025, 6, 6, 10, 0, 0, 0, time.UTC)
	_, svc, _, _ := newCancellationFixture(now)

	_, err := svc.Cancel(context.Background(), uuid.New(), nil, &dto.CancelBookingRequest{Reason: "ghost"})
	require.Error(t, err)
	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))
}

func TestRescheduleWithFee(t *testing.T) {
	// 30 hours out: above the 8h embargo, inside the 8h/10% fee tier.
	now := time.Date(2025, 6, 9, 8, 0, 0, 0, time.UTC)
	store, svc, mail, emitter := newCancellationFixture(now)
	day := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)
	b := seedBooking(store, entity.BookingStatusConfirmed, day, 14*60)

	res, err := svc.Reschedule(context.Background(), b.ID, nil, &dto.RescheduleBookingRequest{
		Date:      "2025-06-15",
		StartTime: "11:00",
	})
	require.NoError(t, err)

	assert.Equal(t, "rescheduled", res.OriginalBooking.Status)
	assert.Equal(t, 50.0, res.Fee)
	assert.Equal(t, "confirmed", res.NewBooking.Status)
	assert.Equal(t, "2025-06-15", res.NewBooking.Date)
	assert.Equal(t, "11:00", res.NewBooking.StartTime)
	assert.Equal(t, "12:00", res.NewBooking.EndTime, "duration carries over")
	assert.Equal(t, "R-"+b.Reference, res.NewBooking.Reference)
	assert.Equal(t, res.OriginalBooking.ID, *res.NewBooking.RescheduledFrom)
	assert.Equal(t, res.NewBooking.ID, *res.OriginalBooking.RescheduledTo)

	require.Len(t, store.refunds, 1)
	assert.Equal(t, -50.0, store.refunds[0].Amount, "fee is recorded as a negative adjustment")
	assert.Equal(t, "rescheduling_fee", store.refunds[0].Reason)

	require.Len(t, store.audits, 1)
	assert.Equal(t, entity.AuditActionBookingRescheduled, store.audits[0].Action)

	assert.Equal(t, 1, mail.reschedules)
	assert.Equal(t, 50.0, mail.lastRescheduleFee)
	assert.Contains(t, emitter.eventTypes, "BOOKING_RESCHEDULED")

	assert.Equal(t, []string{"booking_slots:2025-06-15"}, store.slotLocks,
		"the successor's slot claim serializes on its day")
}

func TestRescheduleFreeOutsideFeeTiers(t *testing.T) {
	// 100 hours out: the 48h/0% tier applies, no fee record.
	now := time.Date(2025, 6, 6, 10, 0, 0, 0, time.UTC)
	store, svc, _, _ := newCancellationFixture(now)
	day := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)
	b := seedBooking(store, entity.BookingStatusConfirmed, day, 14*60)

	res, err := svc.Reschedule(context.Background(), b.ID, nil, &dto.RescheduleBookingRequest{
		Date:      "2025-06-15",
		StartTime: "11:00",
	})
	require.NoError(t, err)
	assert.Equal(t, 0.0, res.Fee)
	assert.Empty(t, store.refunds)
}

func TestRescheduleEmbargoBlocksWithoutWrites(t *testing.T) {
	// 7 hours out: inside the 8h embargo. Nothing may be written.
	now := time.Date(2025, 6, 10, 7, 0, 0, 0, time.UTC)
	store, svc, _, _ := newCancellationFixture(now)
	day := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)
	b := seedBooking(store, entity.BookingStatusConfirmed, day, 14*60)

	_, err := svc.Reschedule(context.Background(), b.ID, nil, &dto.RescheduleBookingRequest{
		Date:      "2025-06-15",
		StartTime: "11:00",
	})
	require.Error(t, err)
	assert.Equal(t, apperror.KindReschedulingWindow, apperror.KindOf(err))

	assert.Equal(t, entity.BookingStatusConfirmed, store.booking(b.ID).Status)
	assert.Empty(t, store.refunds)
	assert.Empty(t, store.audits)
	assert.Equal(t, 0, store.commits)
}

func TestRescheduleExactlyAtEmbargoBoundary(t *testing.T) {
	// Exactly 8 hours before start is still allowed.
	now := time.Date(2025, 6, 10, 6, 0, 0, 0, time.UTC)
	store, svc, _, _ := newCancellationFixture(now)
	day := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)
	b := seedBooking(store, entity.BookingStatusConfirmed, day, 14*60)

	res, err := svc.Reschedule(context.Background(), b.ID, nil, &dto.RescheduleBookingRequest{
		Date:      "2025-06-15",
		StartTime: "11:00",
	})
	require.NoError(t, err)
	assert.Equal(t, 50.0, res.Fee)
}

func TestRescheduleIntoOccupiedSlot(t *testing.T) {
	now := time.Date(2025, 6, 6, 10, 0, 0, 0, time.UTC)
	store, svc, _, _ := newCancellationFixture(now)
	day := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)
	target := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)
	seedBooking(store, entity.BookingStatusConfirmed, target, 11*60)
	b := seedBooking(store, entity.BookingStatusConfirmed, day, 14*60)

	_, err := svc.Reschedule(context.Background(), b.ID, nil, &dto.RescheduleBookingRequest{
		Date:      "2025-06-15",
		StartTime: "11:00",
	})
	require.Error(t, err)
	assert.Equal(t, apperror.KindConflict, apperror.KindOf(err))
	assert.Equal(t, entity.BookingStatusConfirmed, store.booking(b.ID).Status)
}

func TestRescheduleTerminalBookingFails(t *testing.T) {
	now := time.Date(2025, 6, 6, 10, 0, 0, 0, time.UTC)
	store, svc, _, _ := newCancellationFixture(now)
	day := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)
	b := seedBooking(store, entity.BookingStatusRescheduled, day, 14*60)

	_, err := svc.Reschedule(context.Background(), b.ID, nil, &dto.RescheduleBookingRequest{
		Date:      "2025-06-15",
		StartTime: "11:00",
	})
	require.Error(t, err)
	assert.Equal(t, apperror.KindAlreadyTerminal, apperror.KindOf(err))
}

func TestRescheduleCarriesCustomerSnapshot(t *testing.T) {
	now := time.Date(2025, 6, 6, 10, 0, 0, 0, time.UTC)
	store, svc, _, _ := newCancellationFixture(now)
	day := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)
	b := seedBooking(store, entity.BookingStatusConfirmed, day, 14*60)
	customerID := uuid.New()
	b.CustomerID = &customerID
	b.CheckedIn = false
	store.addBooking(b)

	res, err := svc.Reschedule(context.Background(), b.ID, nil, &dto.RescheduleBookingRequest{
		Date:      "2025-06-15",
		StartTime: "11:00",
	})
	require.NoError(t, err)

	successor := store.booking(res.NewBooking.ID)
	require.NotNil(t, successor)
	assert.Equal(t, b.CustomerName, successor.CustomerName)
	assert.Equal(t, b.CustomerEmail, successor.CustomerEmail)
	assert.Equal(t, customerID, *successor.CustomerID)
	assert.Equal(t, b.TotalAmount, successor.TotalAmount)
	assert.False(t, successor.CheckedIn)
	assert.Nil(t, successor.CancelledAt)
	assert.Zero(t, successor.RefundAmount)
}

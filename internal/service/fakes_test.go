package service

import (
	"context"
	"errors"
	"sort"

	"github.com/google/uuid"

	"studio-booking-be/internal/entity"
	"studio-booking-be/internal/pkg/logger"
	"studio-booking-be/internal/repository/contract"
	"studio-booking-be/internal/repository/specification"
	"studio-booking-be/internal/repository/unitofwork"
	"studio-booking-be/pkg/events"
	"studio-booking-be/pkg/schedule"
)

// fakeStore is an in-memory stand-in for the database. Writes inside a
// transaction stage in pending maps and only land on Commit, so the
// atomicity guarantees of the orchestrator are observable in tests.
type fakeStore struct {
	bookings map[uuid.UUID]*entity.Booking
	policies []*entity.CancellationPolicy
	refunds  []*entity.RefundRecord
	audits   []*entity.AuditLogEntry
	users    map[uuid.UUID]*entity.User
	services map[uuid.UUID]*entity.Service

	xpAwards  map[uuid.UUID]int
	slotLocks []string

	failCommit bool
	commits    int
	rollbacks  int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		bookings: map[uuid.UUID]*entity.Booking{},
		users:    map[uuid.UUID]*entity.User{},
		services: map[uuid.UUID]*entity.Service{},
		xpAwards: map[uuid.UUID]int{},
	}
}

func (f *fakeStore) addBooking(b *entity.Booking) {
	cp := *b
	f.bookings[b.ID] = &cp
}

func (f *fakeStore) addService(s *entity.Service) {
	cp := *s
	f.services[s.ID] = &cp
}

func (f *fakeStore) addUser(u *entity.User) {
	cp := *u
	f.users[u.ID] = &cp
}

func (f *fakeStore) booking(id uuid.UUID) *entity.Booking {
	return f.bookings[id]
}

type fakeUow struct {
	store *fakeStore

	inTx            bool
	pendingBookings map[uuid.UUID]*entity.Booking
	pendingRefunds  []*entity.RefundRecord
	pendingAudits   []*entity.AuditLogEntry
}

type fakeFactory struct {
	store *fakeStore
}

func newFakeFactory(store *fakeStore) unitofwork.RepositoryFactory {
	return &fakeFactory{store: store}
}

func (f *fakeFactory) NewUnitOfWork(_ context.Context) unitofwork.UnitOfWork {
	return &fakeUow{
		store:           f.store,
		pendingBookings: map[uuid.UUID]*entity.Booking{},
	}
}

func (u *fakeUow) Begin(_ context.Context) error {
	u.inTx = true
	return nil
}

func (u *fakeUow) Commit() error {
	if u.store.failCommit {
		return errors.New("commit failed")
	}
	for id, b := range u.pendingBookings {
		u.store.bookings[id] = b
	}
	u.store.refunds = append(u.store.refunds, u.pendingRefunds...)
	u.store.audits = append(u.store.audits, u.pendingAudits...)
	u.pendingBookings = map[uuid.UUID]*entity.Booking{}
	u.pendingRefunds = nil
	u.pendingAudits = nil
	u.inTx = false
	u.store.commits++
	return nil
}

func (u *fakeUow) Rollback() error {
	if !u.inTx {
		return nil
	}
	u.pendingBookings = map[uuid.UUID]*entity.Booking{}
	u.pendingRefunds = nil
	u.pendingAudits = nil
	u.inTx = false
	u.store.rollbacks++
	return nil
}

func (u *fakeUow) BookingRepository() contract.BookingRepository {
	return &fakeBookingRepo{uow: u}
}

func (u *fakeUow) PolicyRepository() contract.PolicyRepository {
	return &fakePolicyRepo{uow: u}
}

func (u *fakeUow) RefundRepository() contract.RefundRepository {
	return &fakeRefundRepo{uow: u}
}

func (u *fakeUow) AuditLogRepository() contract.AuditLogRepository {
	return &fakeAuditRepo{uow: u}
}

func (u *fakeUow) UserRepository() contract.UserRepository {
	return &fakeUserRepo{uow: u}
}

func (u *fakeUow) ServiceRepository() contract.ServiceRepository {
	return &fakeServiceRepo{uow: u}
}

// visibleBooking resolves a booking through the staging layer first.
func (u *fakeUow) visibleBooking(id uuid.UUID) *entity.Booking {
	if b, ok := u.pendingBookings[id]; ok {
		return b
	}
	return u.store.bookings[id]
}

func (u *fakeUow) visibleBookings() []*entity.Booking {
	out := make([]*entity.Booking, 0, len(u.store.bookings)+len(u.pendingBookings))
	for id, b := range u.store.bookings {
		if _, staged := u.pendingBookings[id]; staged {
			continue
		}
		out = append(out, b)
	}
	for _, b := range u.pendingBookings {
		out = append(out, b)
	}
	return out
}

type fakeBookingRepo struct {
	uow *fakeUow
}

func (r *fakeBookingRepo) Create(_ context.Context, booking *entity.Booking) error {
	cp := *booking
	r.uow.pendingBookings[booking.ID] = &cp
	return nil
}

func (r *fakeBookingRepo) FindOne(_ context.Context, specs ...specification.Specification) (*entity.Booking, error) {
	for _, b := range r.uow.visibleBookings() {
		if matchBooking(b, specs) {
			cp := *b
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeBookingRepo) FindOneForUpdate(ctx context.Context, specs ...specification.Specification) (*entity.Booking, error) {
	return r.FindOne(ctx, specs...)
}

func (r *fakeBookingRepo) FindAll(_ context.Context, specs ...specification.Specification) ([]*entity.Booking, error) {
	var out []*entity.Booking
	for _, b := range r.uow.visibleBookings() {
		if matchBooking(b, specs) {
			cp := *b
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartMinutes < out[j].StartMinutes })
	return out, nil
}

func (r *fakeBookingRepo) Update(_ context.Context, booking *entity.Booking) error {
	cp := *booking
	r.uow.pendingBookings[booking.ID] = &cp
	return nil
}

func (r *fakeBookingRepo) AcquireSlotLock(_ context.Context, q contract.OverlapQuery) error {
	r.uow.store.slotLocks = append(r.uow.store.slotLocks, "booking_slots:"+q.Date)
	return nil
}

func (r *fakeBookingRepo) CountOverlapping(_ context.Context, q contract.OverlapQuery) (int64, error) {
	var count int64
	qEnd := clamp(q.StartMinutes + q.DurationMinutes)
	for _, b := range r.uow.visibleBookings() {
		if b.Date.Format("2006-01-02") != q.Date || !b.Status.OccupiesSlot() {
			continue
		}
		if q.ExcludeID != nil && b.ID == *q.ExcludeID {
			continue
		}
		if q.InstructorID != nil && (b.InstructorID == nil || *b.InstructorID != *q.InstructorID) {
			continue
		}
		bEnd := clamp(b.StartMinutes + b.DurationMinutes)
		if b.StartMinutes < qEnd && q.StartMinutes < bEnd {
			count++
		}
	}
	return count, nil
}

// clamp truncates an interval end at midnight, mirroring the repository's
// occupancy rule.
func clamp(endMinutes int) int {
	if endMinutes > 24*60 {
		return 24 * 60
	}
	return endMinutes
}

func matchBooking(b *entity.Booking, specs []specification.Specification) bool {
	for _, s := range specs {
		switch spec := s.(type) {
		case specification.ByID:
			if b.ID != spec.ID {
				return false
			}
		case specification.ByReference:
			if b.Reference != spec.Reference {
				return false
			}
		case specification.OnDate:
			if !schedule.SameDay(b.Date, spec.Date) {
				return false
			}
		case specification.OccupyingSlot:
			if !b.Status.OccupiesSlot() {
				return false
			}
		case specification.ByInstructor:
			if b.InstructorID == nil || *b.InstructorID != spec.InstructorID {
				return false
			}
		}
	}
	return true
}

type fakePolicyRepo struct {
	uow *fakeUow
}

func (r *fakePolicyRepo) Create(_ context.Context, p *entity.CancellationPolicy) error {
	cp := *p
	r.uow.store.policies = append(r.uow.store.policies, &cp)
	return nil
}

func (r *fakePolicyRepo) FindOne(_ context.Context, specs ...specification.Specification) (*entity.CancellationPolicy, error) {
	for _, p := range r.uow.store.policies {
		if matchPolicy(p, specs) {
			cp := *p
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakePolicyRepo) FindAll(_ context.Context, specs ...specification.Specification) ([]*entity.CancellationPolicy, error) {
	var out []*entity.CancellationPolicy
	for _, p := range r.uow.store.policies {
		if matchPolicy(p, specs) {
			cp := *p
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakePolicyRepo) Update(_ context.Context, p *entity.CancellationPolicy) error {
	for i, existing := range r.uow.store.policies {
		if existing.ID == p.ID {
			cp := *p
			r.uow.store.policies[i] = &cp
			return nil
		}
	}
	return nil
}

func (r *fakePolicyRepo) Delete(_ context.Context, id uuid.UUID) error {
	out := r.uow.store.policies[:0]
	for _, p := range r.uow.store.policies {
		if p.ID != id {
			out = append(out, p)
		}
	}
	r.uow.store.policies = out
	return nil
}

func matchPolicy(p *entity.CancellationPolicy, specs []specification.Specification) bool {
	for _, s := range specs {
		switch spec := s.(type) {
		case specification.ByID:
			if p.ID != spec.ID {
				return false
			}
		case specification.ActiveOnly:
			if !p.Active {
				return false
			}
		case specification.ByPolicyType:
			if string(p.PolicyType) != spec.PolicyType {
				return false
			}
		}
	}
	return true
}

type fakeRefundRepo struct {
	uow *fakeUow
}

func (r *fakeRefundRepo) Create(_ context.Context, refund *entity.RefundRecord) error {
	cp := *refund
	r.uow.pendingRefunds = append(r.uow.pendingRefunds, &cp)
	return nil
}

func (r *fakeRefundRepo) FindOne(_ context.Context, _ ...specification.Specification) (*entity.RefundRecord, error) {
	if len(r.uow.store.refunds) == 0 {
		return nil, nil
	}
	cp := *r.uow.store.refunds[0]
	return &cp, nil
}

func (r *fakeRefundRepo) FindAll(_ context.Context, _ ...specification.Specification) ([]*entity.RefundRecord, error) {
	out := make([]*entity.RefundRecord, 0, len(r.uow.store.refunds))
	for _, rec := range r.uow.store.refunds {
		cp := *rec
		out = append(out, &cp)
	}
	return out, nil
}

func (r *fakeRefundRepo) MarkProcessed(_ context.Context, id uuid.UUID, notes string) error {
	for _, rec := range r.uow.store.refunds {
		if rec.ID == id {
			rec.Status = entity.RefundStatusProcessed
			rec.Notes = notes
		}
	}
	return nil
}

type fakeAuditRepo struct {
	uow *fakeUow
}

func (r *fakeAuditRepo) Create(_ context.Context, entry *entity.AuditLogEntry) error {
	cp := *entry
	r.uow.pendingAudits = append(r.uow.pendingAudits, &cp)
	return nil
}

func (r *fakeAuditRepo) FindAll(_ context.Context, _ ...specification.Specification) ([]*entity.AuditLogEntry, error) {
	out := make([]*entity.AuditLogEntry, 0, len(r.uow.store.audits))
	for _, e := range r.uow.store.audits {
		cp := *e
		out = append(out, &cp)
	}
	return out, nil
}

func (r *fakeAuditRepo) Count(_ context.Context, _ ...specification.Specification) (int64, error) {
	return int64(len(r.uow.store.audits)), nil
}

type fakeUserRepo struct {
	uow *fakeUow
}

func (r *fakeUserRepo) Create(_ context.Context, u *entity.User) error {
	cp := *u
	r.uow.store.users[u.ID] = &cp
	return nil
}

func (r *fakeUserRepo) FindOne(_ context.Context, specs ...specification.Specification) (*entity.User, error) {
	for _, u := range r.uow.store.users {
		if matchUser(u, specs) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) FindAll(_ context.Context, _ ...specification.Specification) ([]*entity.User, error) {
	out := make([]*entity.User, 0, len(r.uow.store.users))
	for _, u := range r.uow.store.users {
		cp := *u
		out = append(out, &cp)
	}
	return out, nil
}

func (r *fakeUserRepo) Update(_ context.Context, u *entity.User) error {
	cp := *u
	r.uow.store.users[u.ID] = &cp
	return nil
}

func (r *fakeUserRepo) AddXP(_ context.Context, id uuid.UUID, points int) error {
	u, ok := r.uow.store.users[id]
	if !ok {
		return errors.New("user not found")
	}
	u.XP += points
	u.Level = entity.LevelForXP(u.XP)
	r.uow.store.xpAwards[id] += points
	return nil
}

func (r *fakeUserRepo) Count(_ context.Context) (int64, error) {
	return int64(len(r.uow.store.users)), nil
}

func matchUser(u *entity.User, specs []specification.Specification) bool {
	for _, s := range specs {
		switch spec := s.(type) {
		case specification.ByID:
			if u.ID != spec.ID {
				return false
			}
		case specification.ByEmail:
			if u.Email != spec.Email {
				return false
			}
		}
	}
	return true
}

type fakeServiceRepo struct {
	uow *fakeUow
}

func (r *fakeServiceRepo) Create(_ context.Context, s *entity.Service) error {
	cp := *s
	r.uow.store.services[s.ID] = &cp
	return nil
}

func (r *fakeServiceRepo) FindOne(_ context.Context, specs ...specification.Specification) (*entity.Service, error) {
	for _, s := range r.uow.store.services {
		if matchService(s, specs) {
			cp := *s
			return &cp, nil
		}
	}
	return nil, nil
}

func matchService(s *entity.Service, specs []specification.Specification) bool {
	for _, sp := range specs {
		if byID, ok := sp.(specification.ByID); ok && s.ID != byID.ID {
			return false
		}
	}
	return true
}

func (r *fakeServiceRepo) FindAll(_ context.Context, _ ...specification.Specification) ([]*entity.Service, error) {
	out := make([]*entity.Service, 0, len(r.uow.store.services))
	for _, s := range r.uow.store.services {
		cp := *s
		out = append(out, &cp)
	}
	return out, nil
}

func (r *fakeServiceRepo) Update(_ context.Context, s *entity.Service) error {
	cp := *s
	r.uow.store.services[s.ID] = &cp
	return nil
}

// nopEmitter swallows events, recording the types seen.
type nopEmitter struct {
	eventTypes []string
}

func (e *nopEmitter) EmitBookingEvent(_ context.Context, event events.Event) {
	e.eventTypes = append(e.eventTypes, event.EventType())
}

// nopMailer records sends without dialing anything.
type nopMailer struct {
	confirmations     int
	cancellations     int
	reschedules       int
	lastRefund        float64
	lastRescheduleFee float64
}

func (m *nopMailer) SendBookingConfirmation(_, _, _, _, _ string) error {
	m.confirmations++
	return nil
}

func (m *nopMailer) SendCancellationNotice(_, _, _ string, refundAmount float64) error {
	m.cancellations++
	m.lastRefund = refundAmount
	return nil
}

func (m *nopMailer) SendRescheduleNotice(_, _, _, _, _, _ string, fee float64) error {
	m.reschedules++
	m.lastRescheduleFee = fee
	return nil
}

// nopLogger keeps test output quiet.
type nopLogger struct{}

func (nopLogger) Debug(string, string, map[string]interface{}) {}
func (nopLogger) Info(string, string, map[string]interface{})  {}
func (nopLogger) Warn(string, string, map[string]interface{})  {}
func (nopLogger) Error(string, string, map[string]interface{}) {}
func (nopLogger) Sync() error                                  { return nil }
func (nopLogger) GetLogs(string, int, int) ([]logger.LogEntry, error) {
	return nil, nil
}
func (nopLogger) GetLogById(string) (*logger.LogEntry, error) {
	return nil, nil
}

// capturePublisher records published payloads.
type capturePublisher struct {
	payloads [][]byte
	fail     bool
}

func (p *capturePublisher) Publish(_ context.Context, payload []byte) error {
	if p.fail {
		return errors.New("publish failed")
	}
	p.payloads = append(p.payloads, payload)
	return nil
}

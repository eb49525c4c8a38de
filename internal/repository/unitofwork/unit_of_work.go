package unitofwork

import (
	"context"

	"studio-booking-be/internal/repository/contract"
)

// UnitOfWork scopes repository access to one logical operation. After
// Begin, every repository accessor runs on the same transaction, so a
// cancel/reschedule writes its booking update, refund record and audit
// entry all-or-nothing.
type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	BookingRepository() contract.BookingRepository
	PolicyRepository() contract.PolicyRepository
	RefundRepository() contract.RefundRepository
	AuditLogRepository() contract.AuditLogRepository
	UserRepository() contract.UserRepository
	ServiceRepository() contract.ServiceRepository
}

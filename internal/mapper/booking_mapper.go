package mapper

import (
	"studio-booking-be/internal/dto"
	"studio-booking-be/internal/entity"
)

func ToBookingResponse(b *entity.Booking) dto.BookingResponse {
	return dto.BookingResponse{
		ID:                 b.ID,
		Reference:          b.Reference,
		CustomerID:         b.CustomerID,
		CustomerName:       b.CustomerName,
		CustomerEmail:      b.CustomerEmail,
		CustomerPhone:      b.CustomerPhone,
		InstructorID:       b.InstructorID,
		ServiceID:          b.ServiceID,
		Date:               b.Date.Format("2006-01-02"),
		StartTime:          b.StartTime(),
		EndTime:            b.EndTime(),
		DurationMinutes:    b.DurationMinutes,
		TotalAmount:        b.TotalAmount,
		PaymentStatus:      string(b.PaymentStatus),
		Status:             string(b.Status),
		CheckedIn:          b.CheckedIn,
		CheckedInAt:        b.CheckedInAt,
		CancelledAt:        b.CancelledAt,
		CancellationReason: b.CancellationReason,
		RefundAmount:       b.RefundAmount,
		ReschedulingFee:    b.ReschedulingFee,
		RescheduledTo:      b.RescheduledTo,
		RescheduledFrom:    b.RescheduledFrom,
		CreatedAt:          b.CreatedAt,
	}
}

func ToBookingResponses(bookings []*entity.Booking) []dto.BookingResponse {
	out := make([]dto.BookingResponse, 0, len(bookings))
	for _, b := range bookings {
		out = append(out, ToBookingResponse(b))
	}
	return out
}

func ToRefundRecordResponse(r *entity.RefundRecord) *dto.RefundRecordResponse {
	if r == nil {
		return nil
	}
	return &dto.RefundRecordResponse{
		ID:        r.ID,
		BookingID: r.BookingID,
		Amount:    r.Amount,
		Reason:    r.Reason,
		Status:    string(r.Status),
		CreatedAt: r.CreatedAt,
	}
}

func ToPolicyResponse(p *entity.CancellationPolicy) dto.PolicyResponse {
	return dto.PolicyResponse{
		ID:                 p.ID,
		PolicyType:         string(p.PolicyType),
		HoursBeforeBooking: p.HoursBeforeBooking,
		Percentage:         p.Percentage,
		Active:             p.Active,
		CreatedAt:          p.CreatedAt,
	}
}

func ToAuditLogResponse(e *entity.AuditLogEntry) dto.AuditLogResponse {
	return dto.AuditLogResponse{
		ID:          e.ID,
		ActorID:     e.ActorID,
		Action:      e.Action,
		EntityType:  e.EntityType,
		EntityID:    e.EntityID,
		Description: e.Description,
		Metadata:    e.Metadata,
		CreatedAt:   e.CreatedAt,
	}
}

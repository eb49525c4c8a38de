package reference

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ReschedulePrefix marks references derived from a rescheduled booking.
const ReschedulePrefix = "R-"

// NewBookingRef generates a human-readable booking reference such as
// "BK-20250601-7F3A9C". The random suffix comes from a fresh UUID, so
// collisions within a day are practically impossible; the bookings table
// still carries a unique index as the backstop.
func NewBookingRef(date time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))[:6]
	return fmt.Sprintf("BK-%s-%s", date.Format("20060102"), suffix)
}

// Derive builds the successor reference for a rescheduled booking.
func Derive(original string) string {
	return ReschedulePrefix + original
}

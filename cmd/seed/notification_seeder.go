package main

import (
	"log"

	"studio-booking-be/internal/model"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// SeedNotificationTypes populates the database with default notification types.
func SeedNotificationTypes(db *gorm.DB) {
	types := []model.NotificationType{
		{
			Code:        "BOOKING_CREATED",
			DisplayName: "New Booking",
			Template:    "New booking {reference} for {date} at {start_time}",
			TargetType:  "STAFF",
			Priority:    "MEDIUM",
			IsActive:    true,
			Channels:    datatypes.JSON([]byte(`["web"]`)),
		},
		{
			Code:        "BOOKING_CONFIRMED",
			DisplayName: "Booking Confirmed",
			Template:    "Your booking {reference} on {date} is confirmed",
			TargetType:  "SELF",
			Priority:    "MEDIUM",
			IsActive:    true,
			Channels:    datatypes.JSON([]byte(`["web", "email"]`)),
		},
		{
			Code:        "BOOKING_CHECKED_IN",
			DisplayName: "Session Started",
			Template:    "Booking {reference} checked in and in progress",
			TargetType:  "STAFF",
			Priority:    "LOW",
			IsActive:    true,
			Channels:    datatypes.JSON([]byte(`["web"]`)),
		},
		{
			Code:        "BOOKING_COMPLETED",
			DisplayName: "Session Completed",
			Template:    "Your session {reference} is complete. You earned {points} XP!",
			TargetType:  "SELF",
			Priority:    "MEDIUM",
			IsActive:    true,
			Channels:    datatypes.JSON([]byte(`["web"]`)),
		},
		{
			Code:        "BOOKING_CANCELLED",
			DisplayName: "Booking Cancelled",
			Template:    "Booking {reference} was cancelled. Refund: {refund_amount}",
			TargetType:  "STAFF",
			Priority:    "HIGH",
			IsActive:    true,
			Channels:    datatypes.JSON([]byte(`["web", "email"]`)),
		},
		{
			Code:        "BOOKING_RESCHEDULED",
			DisplayName: "Booking Rescheduled",
			Template:    "Booking {reference} moved to {new_date} at {new_start_time}",
			TargetType:  "STAFF",
			Priority:    "HIGH",
			IsActive:    true,
			Channels:    datatypes.JSON([]byte(`["web", "email"]`)),
		},
	}

	for _, t := range types {
		err := db.Where("code = ?", t.Code).FirstOrCreate(&t).Error
		if err != nil {
			log.Printf("Error seeding notification type %s: %v", t.Code, err)
		}
	}
	log.Println("Notification types seeded successfully.")
}

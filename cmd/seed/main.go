package main

import (
	"log"
	"os"

	"studio-booking-be/internal/model"
	"studio-booking-be/pkg/database"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	// Load Environment Variables
	if err := godotenv.Load(); err != nil {
		log.Println("Info: No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}

	db, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	log.Println("Seeding Policy Tiers...")

	policies := []model.CancellationPolicy{
		{PolicyType: "cancellation", HoursBeforeBooking: 72, Percentage: 100, Active: true},
		{PolicyType: "cancellation", HoursBeforeBooking: 24, Percentage: 50, Active: true},
		{PolicyType: "cancellation", HoursBeforeBooking: 0, Percentage: 0, Active: true},
		{PolicyType: "rescheduling", HoursBeforeBooking: 48, Percentage: 0, Active: true},
		{PolicyType: "rescheduling", HoursBeforeBooking: 8, Percentage: 10, Active: true},
	}

	for _, p := range policies {
		var existing model.CancellationPolicy
		if err := db.Where("policy_type = ? AND hours_before_booking = ?", p.PolicyType, p.HoursBeforeBooking).First(&existing).Error; err == nil {
			log.Printf("Policy tier %s/%dh already exists, skipping...", p.PolicyType, p.HoursBeforeBooking)
			continue
		}

		if err := db.Create(&p).Error; err != nil {
			log.Printf("Error creating policy tier %s/%dh: %v", p.PolicyType, p.HoursBeforeBooking, err)
		} else {
			log.Printf("Created policy tier: %s >= %dh -> %.0f%%", p.PolicyType, p.HoursBeforeBooking, p.Percentage)
		}
	}

	log.Println("Seeding Services...")

	services := []model.Service{
		{Name: "Recording Session", Description: "Studio recording with engineer", Price: 500, DurationMinutes: 60, Active: true},
		{Name: "Mixing Session", Description: "Track mixing and mastering", Price: 750, DurationMinutes: 90, Active: true},
		{Name: "Rehearsal Slot", Description: "Band rehearsal room", Price: 300, DurationMinutes: 120, Active: true},
	}

	for _, s := range services {
		var existing model.Service
		if err := db.Where("name = ?", s.Name).First(&existing).Error; err == nil {
			log.Printf("Service '%s' already exists, skipping...", s.Name)
			continue
		}

		if err := db.Create(&s).Error; err != nil {
			log.Printf("Error creating service '%s': %v", s.Name, err)
		} else {
			log.Printf("Created service: %s (%d min)", s.Name, s.DurationMinutes)
		}
	}

	log.Println("Seeding Staff User...")

	staffEmail := os.Getenv("SEED_STAFF_EMAIL")
	if staffEmail == "" {
		staffEmail = "staff@studio.local"
	}
	staffPassword := os.Getenv("SEED_STAFF_PASSWORD")
	if staffPassword == "" {
		staffPassword = "changeme123"
	}

	var existingUser model.User
	if err := db.Where("email = ?", staffEmail).First(&existingUser).Error; err == nil {
		log.Printf("User '%s' already exists, skipping...", staffEmail)
	} else {
		hash, err := bcrypt.GenerateFromPassword([]byte(staffPassword), bcrypt.DefaultCost)
		if err != nil {
			log.Fatal("Error: Failed to hash staff password:", err)
		}
		hashStr := string(hash)
		user := model.User{
			Email:        staffEmail,
			PasswordHash: &hashStr,
			FullName:     "Front Desk",
			Role:         "staff",
			Status:       "active",
		}
		if err := db.Create(&user).Error; err != nil {
			log.Printf("Error creating staff user: %v", err)
		} else {
			log.Printf("Created staff user: %s", staffEmail)
		}
	}

	log.Println("Seeding Notification Types...")
	SeedNotificationTypes(db)

	log.Println("Seeding completed!")
}

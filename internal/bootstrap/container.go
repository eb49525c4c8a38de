package bootstrap

import (
	"context"
	"log"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"studio-booking-be/internal/config"
	"studio-booking-be/internal/controller"
	"studio-booking-be/internal/handler"
	"studio-booking-be/internal/pkg/logger"
	"studio-booking-be/internal/pkg/mailer"
	"studio-booking-be/internal/repository/implementation"
	"studio-booking-be/internal/repository/memory"
	"studio-booking-be/internal/repository/unitofwork"
	"studio-booking-be/internal/service"
	"studio-booking-be/internal/websocket"
	"studio-booking-be/pkg/clock"
	pktNats "studio-booking-be/pkg/nats"
	"studio-booking-be/pkg/policy"
	"studio-booking-be/pkg/schedule"
)

type Container struct {
	// Controllers
	AuthController         controller.IAuthController
	BookingController      controller.IBookingController
	AvailabilityController controller.IAvailabilityController
	PolicyController       controller.IPolicyController
	AuditController        controller.IAuditController

	// Background Services (Exposed for main.go to run)
	ProgressionService service.IProgressionService

	// WebSockets & Notification
	NotificationHandler *handler.NotificationHandler
	WebSocketHub        *websocket.Hub
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	emailService := mailer.NewEmailService(
		cfg.SMTP.Host,
		cfg.SMTP.Port,
		cfg.SMTP.Email,
		cfg.SMTP.Password,
		cfg.SMTP.SenderName,
	)

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 2.5 Infrastructure
	// NATS
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	}
	natsSub, err := pktNats.NewSubscriber(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Subscriber: %v", err)
	}

	// Redis
	opt, err := redis.ParseURL(cfg.App.RedisURL)
	if err != nil {
		log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
		opt = &redis.Options{
			Addr: cfg.App.RedisURL,
		}
	}
	rdb := redis.NewClient(opt)
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Printf("[WARN] Failed to connect to Redis: %v", err)
	}

	// WebSocket Hub
	wsLogger := logger.NewIsolatedLogger("logs/notification.log")
	wsHub := websocket.NewHub(rdb, wsLogger)
	go wsHub.Run()

	// 3. Domain Plumbing
	grid, err := schedule.NewGrid(cfg.Booking.OpenTime, cfg.Booking.CloseTime, cfg.Booking.SlotIntervalMinutes)
	if err != nil {
		log.Fatalf("[FATAL] Invalid booking grid configuration: %v", err)
	}
	engine := policy.NewEngine(cfg.Booking.RescheduleEmbargoHours)
	sysClock := clock.System{}
	policyCache := memory.NewPolicyCache()

	emitter := service.NewEventEmitter(natsPub, sysLogger)
	publisherService := service.NewPublisherService(pubSub, cfg.Topics.XPAwards)
	progressionService := service.NewProgressionService(
		pubSub,
		cfg.Topics.XPAwards,
		uowFactory,
		sysLogger,
	)

	// 4. Services
	authService := service.NewAuthService(uowFactory)
	policyService := service.NewPolicyService(uowFactory, policyCache)
	availabilityService := service.NewAvailabilityService(uowFactory, grid)
	auditService := service.NewAuditService(uowFactory)

	bookingService := service.NewBookingService(
		uowFactory,
		publisherService,
		emitter,
		emailService,
		sysClock,
		sysLogger,
		cfg.Booking,
	)
	cancellationService := service.NewCancellationService(
		uowFactory,
		policyService,
		engine,
		emitter,
		emailService,
		sysClock,
		sysLogger,
	)

	// 5. Notification System
	notifRepo := implementation.NewNotificationRepository(db)
	notifService := service.NewNotificationService(notifRepo, natsSub, wsHub, wsLogger)

	if natsSub != nil {
		go notifService.Start()
	}

	notifHandler := handler.NewNotificationHandler(notifService, natsPub, wsHub, wsLogger)

	return &Container{
		NotificationHandler: notifHandler,
		WebSocketHub:        wsHub,

		AuthController:         controller.NewAuthController(authService),
		BookingController:      controller.NewBookingController(bookingService, cancellationService, auditService),
		AvailabilityController: controller.NewAvailabilityController(availabilityService),
		PolicyController:       controller.NewPolicyController(policyService),
		AuditController:        controller.NewAuditController(auditService),

		ProgressionService: progressionService,
	}
}

package main

import (
	bookingshandler "renthub/internal/bookings/handler"
	bookingsrepo "renthub/internal/bookings/repository"
	bookingsservice "renthub/internal/bookings/service"
	bookingsvalidator "renthub/internal/bookings/validator"
	"renthub/internal/notify"
	paymentshandler "renthub/internal/payments/handler"
	paymentsrepo "renthub/internal/payments/repository"
	paymentsservice "renthub/internal/payments/service"
	rentalshandler "renthub/internal/rentals/handler"
	rentalsrepo "renthub/internal/rentals/repository"
	rentalsservice "renthub/internal/rentals/service"
	reviewshandler "renthub/internal/reviews/handler"
	reviewsrepo "renthub/internal/reviews/repository"
	reviewsservice "renthub/internal/reviews/service"
	usershandler "renthub/internal/users/handler"
	usersrepo "renthub/internal/users/repository"
	usersservice "renthub/internal/users/service"
	vehicleshandler "renthub/internal/vehicles/handler"
	vehiclesrepo "renthub/internal/vehicles/repository"
	vehiclesservice "renthub/internal/vehicles/service"
	"renthub/pkg/app"
	"renthub/pkg/config"
	"renthub/pkg/contracts"
	"renthub/pkg/kafka"
	kafka_config "renthub/pkg/kafka/config"
)

const ServiceName = "renthub"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()
	defer cfg.GracefulShutdown()

	cfg.Log.Info("Starting RentHub service")

	dispatcher := initDispatcher(cfg)
	defer func() {
		if err := dispatcher.Close(); err != nil {
			cfg.Log.Error("Failed to close notification dispatcher", "error", err)
		}
	}()

	handlers := initHandlers(cfg, dispatcher)

	serverApp := app.NewApplication(cfg)
	serverApp.SetApp(handlers...)
	serverApp.Run()
}

func initDispatcher(cfg *config.Config) *notify.Dispatcher {
	kafkaCfg := kafka_config.Load()
	kafkaCfg.LogConfiguration(cfg.Log.Info)

	producer, err := kafka.NewProducer(kafkaCfg, cfg.NotificationTopic, cfg.NotificationDLQ)
	if err != nil {
		cfg.Log.Fatal("Failed to initialize Kafka producer", "error", err)
	}

	return notify.NewDispatcher(producer, cfg.Log, ServiceName, cfg.RequestTimeout)
}

func initHandlers(cfg *config.Config, dispatcher *notify.Dispatcher) []contracts.Handler {
	userService := usersservice.NewUserService(usersrepo.NewMongoUserRepository(cfg), cfg)
	vehicleService := vehiclesservice.NewVehicleService(vehiclesrepo.NewMongoVehicleRepository(cfg), cfg)

	bookingRepo := bookingsrepo.NewMongoBookingRepository(cfg)
	bookingService := bookingsservice.NewBookingService(
		bookingRepo,
		bookingsrepo.NewVehicleLockRepository(cfg),
		bookingsservice.NewAvailabilityChecker(bookingRepo, cfg.Log),
		userService,
		vehicleService,
		dispatcher,
		bookingsvalidator.NewBookingValidator(cfg.Log),
		cfg,
	)

	rentalService := rentalsservice.NewRentalService(
		rentalsrepo.NewMongoRentalRepository(cfg),
		userService,
		vehicleService,
		cfg,
	)

	paymentService := paymentsservice.NewPaymentService(
		paymentsrepo.NewMongoPaymentRepository(cfg),
		userService,
		cfg,
	)

	reviewService := reviewsservice.NewReviewService(
		reviewsrepo.NewMongoReviewRepository(cfg),
		userService,
		vehicleService,
		cfg,
	)

	cfg.Log.Info("Domain services initialized", "database", cfg.MongoDatabaseName)

	return []contracts.Handler{
		bookingshandler.NewBookingHandler(bookingService, cfg.Log),
		usershandler.NewUserHandler(userService, cfg.Log),
		vehicleshandler.NewVehicleHandler(vehicleService, cfg.Log),
		rentalshandler.NewRentalHandler(rentalService, cfg.Log),
		paymentshandler.NewPaymentHandler(paymentService, cfg.Log),
		reviewshandler.NewReviewHandler(reviewService, cfg.Log),
	}
}

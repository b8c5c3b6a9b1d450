package main

import (
	"context"
	"time"

	bookingshandler "stayd/internal/bookings/handler"
	bookingsrepo "stayd/internal/bookings/repository"
	bookingssvc "stayd/internal/bookings/service"
	"stayd/internal/bookings/validator"
	catalogrepo "stayd/internal/catalog/repository"
	"stayd/internal/notifications"
	"stayd/internal/payments/gateway"
	paymentshandler "stayd/internal/payments/handler"
	paymentsrepo "stayd/internal/payments/repository"
	paymentssvc "stayd/internal/payments/service"
	"stayd/pkg/app"
	"stayd/pkg/config"
	"stayd/pkg/kafka"
)

const ServiceName = "server"

func main() {
	cfg := config.Load(ServiceName)

	if err := cfg.Validate(); err != nil {
		cfg.Log.Fatal("Invalid configuration", "error", err)
	}
	cfg.LogConfiguration()

	cfg.SetMongo()
	defer cfg.GracefulShutdown()

	cfg.Log.Info("Starting booking server")

	bookingHandler, paymentHandler := initServices(cfg)

	serverApp := app.NewApplication(cfg)
	serverApp.SetApp(bookingHandler, paymentHandler)
	serverApp.Run()
}

func initServices(cfg *config.Config) (*bookingshandler.BookingHandler, *paymentshandler.PaymentHandler) {
	bookingValidator := validator.NewBookingValidator(cfg.Log)

	bookingRepo := bookingsrepo.NewMongoBookingRepository(cfg)
	lockRepo := bookingsrepo.NewBookingLockRepository(cfg)
	catalogRepo := catalogrepo.NewMongoCatalogRepository(cfg)
	paymentRepo := paymentsrepo.NewMongoPaymentRepository(cfg)

	ensureIndexes(cfg, bookingRepo, lockRepo)

	bookingService := bookingssvc.NewBookingService(
		bookingRepo,
		lockRepo,
		catalogRepo,
		bookingValidator,
		cfg,
	)

	gatewayClient := gateway.NewFlutterwaveClient(
		cfg.GatewayBaseURL,
		cfg.GatewaySecretKey,
		cfg.GatewayTimeout,
	)

	paymentService := paymentssvc.NewPaymentService(
		paymentRepo,
		bookingRepo,
		catalogRepo,
		gatewayClient,
		bookingValidator,
		buildNotifier(cfg),
		cfg,
	)

	cfg.Log.Info("Services initialized", "database", cfg.MongoDatabaseName)
	return bookingshandler.NewBookingHandler(bookingService, cfg.Log),
		paymentshandler.NewPaymentHandler(paymentService, cfg.Log)
}

func ensureIndexes(cfg *config.Config, bookingRepo bookingsrepo.BookingRepository, lockRepo bookingsrepo.BookingLockRepository) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := bookingRepo.EnsureIndexes(ctx); err != nil {
		cfg.Log.Fatal("Failed to create booking indexes", "error", err)
	}
	if err := lockRepo.EnsureIndexes(ctx); err != nil {
		cfg.Log.Fatal("Failed to create booking lock indexes", "error", err)
	}
}

func buildNotifier(cfg *config.Config) notifications.Notifier {
	if len(cfg.KafkaBrokers) == 0 {
		cfg.Log.Info("No Kafka brokers configured, booking confirmations will be logged")
		return notifications.NewLogNotifier(cfg.Log)
	}

	producer, err := kafka.NewProducer(cfg.KafkaBrokers, cfg.NotificationsTopic)
	if err != nil {
		cfg.Log.Fatal("Failed to create Kafka producer", "error", err)
	}

	cfg.Log.Info("Kafka notifier configured",
		"brokers", cfg.KafkaBrokers,
		"topic", cfg.NotificationsTopic,
	)
	return notifications.NewKafkaNotifier(producer, cfg.Log)
}

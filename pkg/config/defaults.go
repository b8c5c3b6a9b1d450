package config

import "time"

const (
	DefaultMongoURI          = "mongodb://localhost:27017"
	DefaultMongoDatabaseName = "stayd"
	DefaultMongoConnTimeout  = 10 * time.Second

	DefaultPort     = "8080"
	DefaultLogLevel = "info"

	DefaultRateLimitRequests = 30
	DefaultRateLimitWindow   = 1 * time.Minute

	DefaultRequestTimeout = 30 * time.Second
	DefaultMaxRequestSize = 1 * 1024 * 1024 // 1MB

	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 15 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 30 * time.Second

	DefaultGatewayBaseURL     = "https://api.flutterwave.com/v3"
	DefaultGatewayTimeout     = 20 * time.Second
	DefaultPaymentRedirectURL = "https://stayd.example.com/thankyou"
	DefaultDefaultCurrency    = "NGN"

	DefaultAllowDraftBookings = false
	DefaultBookingLockTTL     = 10 * time.Second

	DefaultNotificationsTopic = "booking.confirmations"

	DefaultPaginationLimit = 100
)

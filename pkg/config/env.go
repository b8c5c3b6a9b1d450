package config

const (
	EnvMongoURI          = "MONGO_URI"
	EnvMongoDatabaseName = "MONGO_DATABASE_NAME"
	EnvMongoConnTimeout  = "MONGO_CONN_TIMEOUT"

	EnvPort     = "PORT"
	EnvLogLevel = "LOG_LEVEL"

	EnvRateLimitRequests = "RATE_LIMIT_REQUESTS"
	EnvRateLimitWindow   = "RATE_LIMIT_WINDOW"

	EnvRequestTimeout = "REQUEST_TIMEOUT"
	EnvMaxRequestSize = "MAX_REQUEST_SIZE"

	EnvReadTimeout     = "READ_TIMEOUT"
	EnvWriteTimeout    = "WRITE_TIMEOUT"
	EnvIdleTimeout     = "IDLE_TIMEOUT"
	EnvShutdownTimeout = "SHUTDOWN_TIMEOUT"

	EnvGatewayBaseURL     = "PAYMENT_GATEWAY_BASE_URL"
	EnvGatewaySecretKey   = "PAYMENT_GATEWAY_SECRET_KEY"
	EnvGatewayTimeout     = "PAYMENT_GATEWAY_TIMEOUT"
	EnvPaymentRedirectURL = "PAYMENT_REDIRECT_URL"
	EnvDefaultCurrency    = "DEFAULT_CURRENCY"

	EnvAllowDraftBookings = "ALLOW_DRAFT_BOOKINGS"
	EnvBookingLockTTL     = "BOOKING_LOCK_TTL"

	EnvKafkaBrokers       = "KAFKA_BROKERS"
	EnvNotificationsTopic = "NOTIFICATIONS_TOPIC"
)

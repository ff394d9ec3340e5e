package cmd

// Config carries the environment configuration of the service. Values are
// read from .env by cmd/app.
type Config struct {
	HTTPPort   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string

	RedisHost     string
	RedisPort     string
	RedisPassword string

	GeoAPIBaseURL     string
	RoutingAPIBaseURL string
	PaymentAPIBaseURL string

	BiddingExpiryCron  string
	DelayDetectionCron string
	DelayAfterMinutes  int
}

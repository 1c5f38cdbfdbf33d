package config

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL   string
	Port          string
	IsProduction  bool
	EnableDBCheck bool

	JWTSecret         string
	JWTExpiryDuration time.Duration
	JWTIssuer         string

	// Wallet and split engine
	DefaultCurrency         string
	CompanyRevenueAccountID string
	PartnerFeeAccountID     string

	// Payouts
	MinimumPayoutThreshold decimal.Decimal
	PayoutMaxRetries       int
	PaymentRailURL         string
	PaymentRailTimeout     time.Duration
	StuckPayoutAge         time.Duration

	// Notifications
	NATSURL string

	// Rate limiting, e.g. "100-M" for 100 requests per minute
	RateLimit string
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("ENABLE_DB_CHECK", false)
	viper.SetDefault("JWT_SECRET", "a-very-secret-key-should-be-longer-and-random")
	viper.SetDefault("JWT_EXPIRY_DURATION", "1h")
	viper.SetDefault("JWT_ISSUER", "distribution-backend")
	viper.SetDefault("DEFAULT_CURRENCY", "USD")
	viper.SetDefault("COMPANY_REVENUE_ACCOUNT_ID", "company-revenue")
	viper.SetDefault("PARTNER_FEE_ACCOUNT_ID", "partner-fees")
	viper.SetDefault("MINIMUM_PAYOUT_THRESHOLD", "25.00")
	viper.SetDefault("PAYOUT_MAX_RETRIES", 3)
	viper.SetDefault("PAYMENT_RAIL_URL", "")
	viper.SetDefault("PAYMENT_RAIL_TIMEOUT", "30s")
	viper.SetDefault("STUCK_PAYOUT_AGE", "1h")
	viper.SetDefault("NATS_URL", "")
	viper.SetDefault("RATE_LIMIT", "100-M")

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	cfg.Port = viper.GetString("PORT")
	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")
	cfg.EnableDBCheck = viper.GetBool("ENABLE_DB_CHECK")

	cfg.JWTSecret = viper.GetString("JWT_SECRET")
	if !cfg.IsProduction && cfg.JWTSecret == "a-very-secret-key-should-be-longer-and-random" {
		log.Println("Warning: JWT_SECRET not set. Using default insecure key.")
	}

	jwtExpiryStr := viper.GetString("JWT_EXPIRY_DURATION")
	jwtExpiryDuration, err := time.ParseDuration(jwtExpiryStr)
	if err != nil {
		jwtExpiryDuration = time.Hour
		log.Printf("Warning: Invalid value for JWT_EXPIRY_DURATION ('%s'). Defaulting to %s.\n", jwtExpiryStr, jwtExpiryDuration)
	}
	cfg.JWTExpiryDuration = jwtExpiryDuration
	cfg.JWTIssuer = viper.GetString("JWT_ISSUER")

	cfg.DefaultCurrency = viper.GetString("DEFAULT_CURRENCY")
	cfg.CompanyRevenueAccountID = viper.GetString("COMPANY_REVENUE_ACCOUNT_ID")
	cfg.PartnerFeeAccountID = viper.GetString("PARTNER_FEE_ACCOUNT_ID")

	thresholdStr := viper.GetString("MINIMUM_PAYOUT_THRESHOLD")
	threshold, err := decimal.NewFromString(thresholdStr)
	if err != nil || threshold.IsNegative() {
		threshold = decimal.NewFromInt(25)
		log.Printf("Warning: Invalid value for MINIMUM_PAYOUT_THRESHOLD ('%s'). Defaulting to %s.\n", thresholdStr, threshold)
	}
	cfg.MinimumPayoutThreshold = threshold

	cfg.PayoutMaxRetries = viper.GetInt("PAYOUT_MAX_RETRIES")
	if cfg.PayoutMaxRetries < 1 {
		cfg.PayoutMaxRetries = 3
	}

	cfg.PaymentRailURL = viper.GetString("PAYMENT_RAIL_URL")
	if cfg.PaymentRailURL == "" {
		log.Println("Warning: PAYMENT_RAIL_URL not set. Payout settlement will not function.")
	}

	railTimeoutStr := viper.GetString("PAYMENT_RAIL_TIMEOUT")
	railTimeout, err := time.ParseDuration(railTimeoutStr)
	if err != nil {
		railTimeout = 30 * time.Second
		log.Printf("Warning: Invalid value for PAYMENT_RAIL_TIMEOUT ('%s'). Defaulting to %s.\n", railTimeoutStr, railTimeout)
	}
	cfg.PaymentRailTimeout = railTimeout

	stuckAgeStr := viper.GetString("STUCK_PAYOUT_AGE")
	stuckAge, err := time.ParseDuration(stuckAgeStr)
	if err != nil {
		stuckAge = time.Hour
		log.Printf("Warning: Invalid value for STUCK_PAYOUT_AGE ('%s'). Defaulting to %s.\n", stuckAgeStr, stuckAge)
	}
	cfg.StuckPayoutAge = stuckAge

	cfg.NATSURL = viper.GetString("NATS_URL")
	cfg.RateLimit = viper.GetString("RATE_LIMIT")

	return cfg, nil
}

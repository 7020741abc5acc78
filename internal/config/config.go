package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Storage drivers
const (
	StorageDriverPostgres = "postgres"
	StorageDriverMemory   = "memory"
)

// Config holds the application configuration
type Config struct {
	Port        int
	LogLevel    string
	LogFormat   string
	ServiceName string
	Version     string
	Environment string
	APIKey      string // API key for authentication
	LogDir      string // optional; session logs are also written here when set

	// Storage
	StorageDriver     string
	DatabaseURL       string // takes precedence over the DB_* parts when set
	DBUser            string
	DBPassword        string
	DBHost            string
	DBPort            string
	DBName            string
	DBMaxConns        int
	DBMaxConnIdleTime time.Duration
	DBMaxConnLifetime time.Duration
	AutoMigrate       bool

	// Supabase identity
	SupabaseURL     string
	SupabaseAnonKey string
	AuthCacheTTL    time.Duration
	AuthCacheSize   int

	// Transaction retry for conflicting writes
	TxMaxAttempts    int
	TxRetryBaseDelay time.Duration

	// Catalogs
	RecipesPath       string
	ShopsPath         string
	ExchangeRatesPath string

	// Event publishing
	EventMaxRetries     int
	EventRetryDelay     time.Duration
	EventDeadLetterPath string

	TrustedProxies []string
}

// Load loads the configuration from environment variables
func Load() (*Config, error) {
	cfg := fromEnv()

	portStr := getEnv("PORT", "8080")
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, fmt.Errorf("invalid PORT value: %w", err)
	}
	cfg.Port = port

	// Validate API key is set
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("API_KEY environment variable must be set for security")
	}

	if err := cfg.validateStorage(); err != nil {
		return nil, err
	}

	if cfg.SupabaseURL != "" && cfg.SupabaseAnonKey == "" {
		return nil, fmt.Errorf("SUPABASE_ANON_KEY must be set when SUPABASE_URL is configured")
	}

	return cfg, nil
}

// LoadTooling loads the storage and catalog settings used by the admin CLI.
// Server-only requirements such as API_KEY are not checked.
func LoadTooling() (*Config, error) {
	cfg := fromEnv()
	if err := cfg.validateStorage(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func fromEnv() *Config {
	// Load .env file if it exists, but don't fail if it doesn't (could be real env vars)
	_ = godotenv.Load()

	cfg := &Config{
		LogLevel:    strings.ToLower(getEnv("LOG_LEVEL", "info")),
		LogFormat:   strings.ToLower(getEnv("LOG_FORMAT", "text")),
		ServiceName: getEnv("SERVICE_NAME", "hearthmarket"),
		Version:     getEnv("VERSION", "dev"),
		Environment: getEnv("ENVIRONMENT", "dev"),
		APIKey:      getEnv("API_KEY", ""),
		LogDir:      getEnv("LOG_DIR", ""),

		StorageDriver:     strings.ToLower(getEnv("STORAGE_DRIVER", StorageDriverPostgres)),
		DatabaseURL:       getEnv("DATABASE_URL", ""),
		DBUser:            getEnv("DB_USER", "postgres"),
		DBPassword:        getEnv("DB_PASSWORD", "postgres"),
		DBHost:            getEnv("DB_HOST", "localhost"),
		DBPort:            getEnv("DB_PORT", "5432"),
		DBName:            getEnv("DB_NAME", "hearthmarket"),
		DBMaxConns:        getEnvAsInt("DB_MAX_CONNS", 20),
		DBMaxConnIdleTime: getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", 5*time.Minute),
		DBMaxConnLifetime: getEnvAsDuration("DB_MAX_CONN_LIFETIME", 30*time.Minute),
		AutoMigrate:       getEnvAsBool("AUTO_MIGRATE", true),

		SupabaseURL:     strings.TrimRight(getEnv("SUPABASE_URL", ""), "/"),
		SupabaseAnonKey: getEnv("SUPABASE_ANON_KEY", ""),
		AuthCacheTTL:    getEnvAsDuration("AUTH_CACHE_TTL", time.Minute),
		AuthCacheSize:   getEnvAsInt("AUTH_CACHE_SIZE", 1024),

		TxMaxAttempts:    getEnvAsInt("TX_MAX_ATTEMPTS", 3),
		TxRetryBaseDelay: getEnvAsDuration("TX_RETRY_BASE_DELAY", 25*time.Millisecond),

		RecipesPath:       getEnv("RECIPES_PATH", ConfigPathRecipes),
		ShopsPath:         getEnv("SHOPS_PATH", ConfigPathShops),
		ExchangeRatesPath: getEnv("EXCHANGE_RATES_PATH", ConfigPathExchangeRates),

		EventMaxRetries:     getEnvAsInt("EVENT_MAX_RETRIES", 0),
		EventRetryDelay:     getEnvAsDuration("EVENT_RETRY_DELAY", 0),
		EventDeadLetterPath: getEnv("EVENT_DEADLETTER_PATH", ""),

		TrustedProxies: splitList(getEnv("TRUSTED_PROXIES", "")),
	}
	if cfg.TxMaxAttempts < 1 {
		cfg.TxMaxAttempts = 1
	}
	return cfg
}

func (c *Config) validateStorage() error {
	switch c.StorageDriver {
	case StorageDriverPostgres, StorageDriverMemory:
		return nil
	default:
		return fmt.Errorf("invalid STORAGE_DRIVER %q: expected %q or %q", c.StorageDriver, StorageDriverPostgres, StorageDriverMemory)
	}
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return v
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	v, err := time.ParseDuration(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return v
}

func getEnvAsBool(key string, defaultValue bool) bool {
	v, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return v
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// GetDBConnString returns the PostgreSQL connection string
func (c *Config) GetDBConnString() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.DBUser,
		c.DBPassword,
		c.DBHost,
		c.DBPort,
		c.DBName,
	)
}

// SupabaseEnabled reports whether bearer tokens are verified against Supabase
func (c *Config) SupabaseEnabled() bool {
	return c.SupabaseURL != ""
}

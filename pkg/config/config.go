package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration
type Config struct {
	Server       ServerConfig
	Database     DatabaseConfig
	Redis        RedisConfig
	Typesense    TypesenseConfig
	OpenAI       OpenAIConfig
	WebSearch    WebSearchConfig
	Location     LocationConfig
	Chat         ChatConfig
	Notification NotificationConfig
	WhatsApp     WhatsAppConfig
	OTEL         OTELConfig
	Environment  string
	LogLevel     string
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Host            string
	Port            int
	AllowedOrigins  []string
	ShutdownTimeout time.Duration

	// Per-client request rate for the chat endpoints; 0 disables limiting
	RateLimitRPS   float64
	RateLimitBurst int

	// Proxies (IPs or CIDRs) whose X-Forwarded-For and X-Real-IP headers are believed
	TrustedProxies []string
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
	Enabled  bool
}

// TypesenseConfig holds Typesense configuration
type TypesenseConfig struct {
	URL        string
	APIKey     string
	Collection string
}

// OpenAIConfig holds the LLM collaborator configuration
type OpenAIConfig struct {
	APIKey         string
	BaseURL        string
	Model          string
	RateLimitRPM   int
	RateLimitBurst int
	Timeout        time.Duration
}

// WebSearchConfig holds the citation search collaborator configuration
type WebSearchConfig struct {
	URL     string
	APIKey  string
	Results int
}

// LocationConfig configures the default-location fallback used when a message names no place
type LocationConfig struct {
	Provider  string
	APIKey    string
	Latitude  float64
	Longitude float64
	City      string
	State     string
}

// ChatConfig holds chat pipeline tunables
type ChatConfig struct {
	AuctionDeadlineHours int
	MaxListedProviders   int
	AnalysisCacheTTL     int
	RequestExpiryDays    int
	DirectoryBackend     string
}

// NotificationConfig holds provider notification settings
type NotificationConfig struct {
	Transport    string
	Concurrency  int
	RequestStore string
}

// WhatsAppConfig holds WhatsApp Cloud API credentials
type WhatsAppConfig struct {
	AccessToken   string
	PhoneNumberID string
	APIVersion    string
}

// OTELConfig holds OpenTelemetry configuration
type OTELConfig struct {
	ServiceName    string
	ServiceVersion string
	Endpoint       string
	Enabled        bool
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Environment: getEnv("ENVIRONMENT", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		Server: ServerConfig{
			Host:            getEnv("SERVER_HOST", "0.0.0.0"),
			Port:            getEnvAsInt("SERVER_PORT", 8080),
			AllowedOrigins:  getEnvAsList("ALLOWED_ORIGINS", []string{"http://localhost:3000"}),
			ShutdownTimeout: getEnvAsDuration("SERVER_SHUTDOWN_TIMEOUT", 30*time.Second),
			RateLimitRPS:    getEnvAsFloat("SERVER_RATE_LIMIT_RPS", 2),
			RateLimitBurst:  getEnvAsInt("SERVER_RATE_LIMIT_BURST", 10),
			TrustedProxies:  getEnvAsList("SERVER_TRUSTED_PROXIES", nil),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvAsInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Database: getEnv("DB_NAME", "doction"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnvAsInt("REDIS_PORT", 6379),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
			Enabled:  getEnvAsBool("REDIS_ENABLED", false),
		},
		Typesense: TypesenseConfig{
			URL:        getEnv("TYPESENSE_URL", "http://localhost:8108"),
			APIKey:     getEnv("TYPESENSE_API_KEY", "xyz"),
			Collection: getEnv("TYPESENSE_PROVIDER_COLLECTION", "providers"),
		},
		OpenAI: OpenAIConfig{
			APIKey:         getEnv("OPENAI_API_KEY", ""),
			BaseURL:        getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1"),
			Model:          getEnv("OPENAI_MODEL", "gpt-4o-mini"),
			RateLimitRPM:   getEnvAsInt("OPENAI_RATE_LIMIT_RPM", 60),
			RateLimitBurst: getEnvAsInt("OPENAI_RATE_LIMIT_BURST", 5),
			Timeout:        getEnvAsDuration("OPENAI_TIMEOUT", 20*time.Second),
		},
		WebSearch: WebSearchConfig{
			URL:     getEnv("WEB_SEARCH_URL", ""),
			APIKey:  getEnv("WEB_SEARCH_API_KEY", ""),
			Results: getEnvAsInt("WEB_SEARCH_RESULTS", 3),
		},
		Location: LocationConfig{
			Provider:  getEnv("DEFAULT_LOCATION_PROVIDER", "none"),
			APIKey:    getEnv("GEOLOCATION_API_KEY", ""),
			Latitude:  getEnvAsFloat("DEFAULT_LOCATION_LAT", 0),
			Longitude: getEnvAsFloat("DEFAULT_LOCATION_LON", 0),
			City:      getEnv("DEFAULT_LOCATION_CITY", ""),
			State:     getEnv("DEFAULT_LOCATION_STATE", ""),
		},
		Chat: ChatConfig{
			AuctionDeadlineHours: getEnvAsInt("CHAT_AUCTION_DEADLINE_HOURS", 72),
			MaxListedProviders:   getEnvAsInt("CHAT_MAX_LISTED_PROVIDERS", 3),
			AnalysisCacheTTL:     getEnvAsInt("CHAT_ANALYSIS_CACHE_TTL_SECONDS", 600),
			RequestExpiryDays:    getEnvAsInt("CHAT_REQUEST_EXPIRY_DAYS", 7),
			DirectoryBackend:     getEnv("DIRECTORY_BACKEND", "memory"),
		},
		Notification: NotificationConfig{
			Transport:    getEnv("NOTIFICATION_TRANSPORT", "log"),
			Concurrency:  getEnvAsInt("NOTIFICATION_CONCURRENCY", 4),
			RequestStore: getEnv("REQUEST_STORE", "memory"),
		},
		WhatsApp: WhatsAppConfig{
			AccessToken:   getEnv("WHATSAPP_ACCESS_TOKEN", ""),
			PhoneNumberID: getEnv("WHATSAPP_PHONE_NUMBER_ID", ""),
			APIVersion:    getEnv("WHATSAPP_API_VERSION", "v18.0"),
		},
		OTEL: OTELConfig{
			ServiceName:    getEnv("OTEL_SERVICE_NAME", "doction-chat"),
			ServiceVersion: getEnv("OTEL_SERVICE_VERSION", "1.0.0"),
			Endpoint:       getEnv("OTEL_ENDPOINT", ""),
			Enabled:        getEnvAsBool("OTEL_ENABLED", false),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings the services cannot run with
func (c *Config) Validate() error {
	if c.Server.Port <= 0 {
		return fmt.Errorf("invalid SERVER_PORT: %d", c.Server.Port)
	}
	if c.Chat.AuctionDeadlineHours <= 0 {
		return fmt.Errorf("invalid CHAT_AUCTION_DEADLINE_HOURS: %d", c.Chat.AuctionDeadlineHours)
	}
	if c.Chat.MaxListedProviders <= 0 {
		return fmt.Errorf("invalid CHAT_MAX_LISTED_PROVIDERS: %d", c.Chat.MaxListedProviders)
	}
	if c.Notification.Concurrency <= 0 {
		return fmt.Errorf("invalid NOTIFICATION_CONCURRENCY: %d", c.Notification.Concurrency)
	}
	switch c.Chat.DirectoryBackend {
	case "memory", "typesense":
	default:
		return fmt.Errorf("unknown DIRECTORY_BACKEND: %q", c.Chat.DirectoryBackend)
	}
	switch c.Notification.RequestStore {
	case "memory", "postgres":
	default:
		return fmt.Errorf("unknown REQUEST_STORE: %q", c.Notification.RequestStore)
	}
	return nil
}

// DatabaseDSN returns the PostgreSQL connection string
func (c *DatabaseConfig) DatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode,
	)
}

// RedisAddr returns the Redis address
func (c *RedisConfig) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getEnvAsList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

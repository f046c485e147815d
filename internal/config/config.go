package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"GuardianAngelAPI/internal/logger"

	"github.com/joho/godotenv"
)

type Config struct {
	Server    ServerConfig
	Security  SecurityConfig
	Storage   StorageConfig
	Database  DatabaseConfig
	Telemetry TelemetryConfig
	Alerting  AlertingConfig
	AI        AIConfig
	MQTT      MQTTConfig
	Logging   LoggingConfig
}

type ServerConfig struct {
	Host            string
	Port            int
	Environment     string
	ShutdownTimeout time.Duration
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	MaxHeaderBytes  int
}

type SecurityConfig struct {
	JWTSecret          string
	JWTExpirationHours int
	BcryptCost         int
	TOTPIssuer         string
	CORSAllowedOrigins []string
	CORSAllowedMethods []string
	RateLimitPerMinute int
	EnableRateLimit    bool
}

// StorageConfig selects the alert/user persistence backend. The default is
// flat JSON snapshot files under DataDir; "postgres" switches the alert
// repository to the database configured below.
type StorageConfig struct {
	Backend string // file | postgres
	DataDir string
}

type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	Database        string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

// TelemetryConfig controls where wearable samples come from. "simulator"
// runs the in-process random-walk source, "fitbit" pulls from the Fitbit Web
// API using OAuth2, "mqtt" ingests samples published by an external agent.
type TelemetryConfig struct {
	Source            string // simulator | fitbit | mqtt
	PollInterval      time.Duration
	SimulatorInterval time.Duration
	Fitbit            FitbitConfig
}

type FitbitConfig struct {
	ClientID     string
	ClientSecret string
	RefreshToken string
	RedirectURL  string
}

type AlertingConfig struct {
	HeartRateHigh float64
	HeartRateLow  float64
	SpO2Low       float64
	TempHigh      float64
	TempLow       float64
	DedupWindow   time.Duration
}

type AIConfig struct {
	APIKey      string
	BaseURL     string
	Model       string
	MaxTokens   int
	Temperature float64
	Timeout     time.Duration
}

type MQTTConfig struct {
	Broker         string
	Port           int
	ClientID       string
	Username       string
	Password       string
	TelemetryTopic string
	QoS            byte
	RetainMessages bool
	KeepAlive      time.Duration
	ConnectTimeout time.Duration
	AutoReconnect  bool
}

type LoggingConfig struct {
	Level      logger.Level
	FilePath   string
	UseColors  bool
	ShowCaller bool
}

var requiredEnvVars = []string{
	"OPENAI_API_KEY",
	"JWT_SECRET",
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		fmt.Println("No .env file found, using environment variables")
	}

	if err := validateRequired(); err != nil {
		return nil, err
	}

	cfg := &Config{
		Server:    loadServerConfig(),
		Security:  loadSecurityConfig(),
		Storage:   loadStorageConfig(),
		Database:  loadDatabaseConfig(),
		Telemetry: loadTelemetryConfig(),
		Alerting:  loadAlertingConfig(),
		AI:        loadAIConfig(),
		MQTT:      loadMQTTConfig(),
		Logging:   loadLoggingConfig(),
	}

	return cfg, nil
}

func validateRequired() error {
	var missing []string

	for _, key := range requiredEnvVars {
		if os.Getenv(key) == "" {
			missing = append(missing, key)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}

	return nil
}

func loadServerConfig() ServerConfig {
	return ServerConfig{
		Host:            getEnv("SERVER_HOST", "0.0.0.0"),
		Port:            getEnvAsInt("SERVER_PORT", 8080),
		Environment:     getEnv("ENVIRONMENT", "development"),
		ShutdownTimeout: getEnvAsDuration("SHUTDOWN_TIMEOUT", "15s"),
		ReadTimeout:     getEnvAsDuration("READ_TIMEOUT", "10s"),
		WriteTimeout:    getEnvAsDuration("WRITE_TIMEOUT", "30s"),
		MaxHeaderBytes:  getEnvAsInt("MAX_HEADER_BYTES", 1048576),
	}
}

func loadSecurityConfig() SecurityConfig {
	origins := getEnv("CORS_ALLOWED_ORIGINS", "*")
	methods := getEnv("CORS_ALLOWED_METHODS", "GET,POST,PUT,DELETE,OPTIONS")

	return SecurityConfig{
		JWTSecret:          getEnv("JWT_SECRET", ""),
		JWTExpirationHours: getEnvAsInt("JWT_EXPIRATION_HOURS", 24),
		BcryptCost:         getEnvAsInt("BCRYPT_COST", 12),
		TOTPIssuer:         getEnv("TOTP_ISSUER", "Guardian Angel"),
		CORSAllowedOrigins: strings.Split(origins, ","),
		CORSAllowedMethods: strings.Split(methods, ","),
		RateLimitPerMinute: getEnvAsInt("RATE_LIMIT_PER_MINUTE", 100),
		EnableRateLimit:    getEnvAsBool("ENABLE_RATE_LIMIT", true),
	}
}

func loadStorageConfig() StorageConfig {
	return StorageConfig{
		Backend: getEnv("STORAGE_BACKEND", "file"),
		DataDir: getEnv("DATA_DIR", "./data"),
	}
}

func loadDatabaseConfig() DatabaseConfig {
	return DatabaseConfig{
		Host:            getEnv("DB_HOST", "localhost"),
		Port:            getEnvAsInt("DB_PORT", 5432),
		User:            getEnv("DB_USER", "guardian_admin"),
		Password:        getEnv("DB_PASSWORD", ""),
		Database:        getEnv("DB_NAME", "guardian_angel"),
		SSLMode:         getEnv("DB_SSL_MODE", "disable"),
		MaxOpenConns:    getEnvAsInt("DB_MAX_OPEN_CONNS", 25),
		MaxIdleConns:    getEnvAsInt("DB_MAX_IDLE_CONNS", 5),
		ConnMaxLifetime: getEnvAsDuration("DB_CONN_MAX_LIFETIME", "5m"),
		ConnMaxIdleTime: getEnvAsDuration("DB_CONN_MAX_IDLE_TIME", "5m"),
	}
}

func loadTelemetryConfig() TelemetryConfig {
	return TelemetryConfig{
		Source:            getEnv("TELEMETRY_SOURCE", "simulator"),
		PollInterval:      getEnvAsDuration("TELEMETRY_POLL_INTERVAL", "30s"),
		SimulatorInterval: getEnvAsDuration("SIMULATOR_INTERVAL", "15s"),
		Fitbit: FitbitConfig{
			ClientID:     getEnv("FITBIT_CLIENT_ID", ""),
			ClientSecret: getEnv("FITBIT_CLIENT_SECRET", ""),
			RefreshToken: getEnv("FITBIT_REFRESH_TOKEN", ""),
			RedirectURL:  getEnv("FITBIT_REDIRECT_URL", ""),
		},
	}
}

func loadAlertingConfig() AlertingConfig {
	return AlertingConfig{
		HeartRateHigh: getEnvAsFloat("ALERT_HR_HIGH", 120),
		HeartRateLow:  getEnvAsFloat("ALERT_HR_LOW", 50),
		SpO2Low:       getEnvAsFloat("ALERT_SPO2_LOW", 92),
		TempHigh:      getEnvAsFloat("ALERT_TEMP_HIGH", 38.0),
		TempLow:       getEnvAsFloat("ALERT_TEMP_LOW", 35.0),
		DedupWindow:   getEnvAsDuration("ALERT_DEDUP_WINDOW", "1h"),
	}
}

func loadAIConfig() AIConfig {
	return AIConfig{
		APIKey:      getEnv("OPENAI_API_KEY", ""),
		BaseURL:     getEnv("OPENAI_BASE_URL", ""),
		Model:       getEnv("OPENAI_MODEL", "gpt-4o-mini"),
		MaxTokens:   getEnvAsInt("OPENAI_MAX_TOKENS", 512),
		Temperature: getEnvAsFloat("OPENAI_TEMPERATURE", 0.2),
		Timeout:     getEnvAsDuration("OPENAI_TIMEOUT", "30s"),
	}
}

func loadMQTTConfig() MQTTConfig {
	return MQTTConfig{
		Broker:         getEnv("MQTT_BROKER", "localhost"),
		Port:           getEnvAsInt("MQTT_PORT", 1883),
		ClientID:       getEnv("MQTT_CLIENT_ID", "guardian-backend"),
		Username:       getEnv("MQTT_USERNAME", ""),
		Password:       getEnv("MQTT_PASSWORD", ""),
		TelemetryTopic: getEnv("MQTT_TELEMETRY_TOPIC", "guardian/telemetry"),
		QoS:            byte(getEnvAsInt("MQTT_QOS", 1)),
		RetainMessages: getEnvAsBool("MQTT_RETAIN", false),
		KeepAlive:      getEnvAsDuration("MQTT_KEEP_ALIVE", "60s"),
		ConnectTimeout: getEnvAsDuration("MQTT_CONNECT_TIMEOUT", "10s"),
		AutoReconnect:  getEnvAsBool("MQTT_AUTO_RECONNECT", true),
	}
}

func loadLoggingConfig() LoggingConfig {
	return LoggingConfig{
		Level:      logger.ParseLevel(getEnv("LOG_LEVEL", "info")),
		FilePath:   getEnv("LOG_FILE_PATH", ""),
		UseColors:  getEnvAsBool("LOG_USE_COLORS", true),
		ShowCaller: getEnvAsBool("LOG_SHOW_CALLER", false),
	}
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

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	duration, _ := time.ParseDuration(defaultValue)
	return duration
}

func (c *Config) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.Database,
		c.Database.SSLMode,
	)
}

func (c *Config) Validate() error {
	var errors []string

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		errors = append(errors, "SERVER_PORT must be between 1 and 65535")
	}

	if len(c.Security.JWTSecret) < 16 {
		errors = append(errors, "JWT_SECRET must be at least 16 characters")
	}

	switch c.Storage.Backend {
	case "file":
		if c.Storage.DataDir == "" {
			errors = append(errors, "DATA_DIR cannot be empty when STORAGE_BACKEND=file")
		}
	case "postgres":
		if c.Database.Password == "" {
			errors = append(errors, "DB_PASSWORD cannot be empty when STORAGE_BACKEND=postgres")
		}
	default:
		errors = append(errors, fmt.Sprintf("unknown STORAGE_BACKEND: %s", c.Storage.Backend))
	}

	switch c.Telemetry.Source {
	case "simulator", "mqtt":
	case "fitbit":
		if c.Telemetry.Fitbit.ClientID == "" || c.Telemetry.Fitbit.ClientSecret == "" {
			errors = append(errors, "FITBIT_CLIENT_ID and FITBIT_CLIENT_SECRET are required when TELEMETRY_SOURCE=fitbit")
		}
	default:
		errors = append(errors, fmt.Sprintf("unknown TELEMETRY_SOURCE: %s", c.Telemetry.Source))
	}

	if c.Alerting.DedupWindow <= 0 {
		errors = append(errors, "ALERT_DEDUP_WINDOW must be positive")
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n  - %s", strings.Join(errors, "\n  - "))
	}

	return nil
}

func (c *Config) Print() {
	fmt.Println("╔══════════════════════════════════════════════════════════╗")
	fmt.Println("║           Guardian Angel - Configuration                 ║")
	fmt.Println("╚══════════════════════════════════════════════════════════╝")
	fmt.Printf("Environment:     %s\n", c.Server.Environment)
	fmt.Printf("Server:          %s:%d\n", c.Server.Host, c.Server.Port)
	fmt.Printf("Storage:         %s\n", c.Storage.Backend)
	fmt.Printf("Telemetry:       %s (poll %s)\n", c.Telemetry.Source, c.Telemetry.PollInterval)
	fmt.Printf("AI Model:        %s\n", c.AI.Model)
	fmt.Println("──────────────────────────────────────────────────────────")
}

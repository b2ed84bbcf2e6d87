package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/bibbank/kyc-risk-service/internal/domain/valueobject"
	"github.com/bibbank/kyc-risk-service/pkg/kafka"
	"github.com/bibbank/kyc-risk-service/pkg/postgres"
)

type DBConfig struct {
	Host     string
	User     string
	Password string
	Name     string
	SSLMode  string
	Port     int
	MaxConns int
}

// Enabled reports whether a database is configured. Without one the service
// runs on in-memory repositories.
func (c DBConfig) Enabled() bool {
	return c.Host != ""
}

// PoolConfig converts to the pkg/postgres pool settings.
func (c DBConfig) PoolConfig() postgres.Config {
	return postgres.Config{
		Host:           c.Host,
		Port:           c.Port,
		User:           c.User,
		Password:       c.Password,
		Database:       c.Name,
		SSLMode:        c.SSLMode,
		MaxConns:       int32(c.MaxConns),
		ConnectTimeout: 10 * time.Second,
	}
}

type KafkaConfig struct {
	Brokers        []string
	EventsTopic    string
	CustomerTopic  string
	ConsumerGroup  string
	SASLMechanism  string
	SASLUsername   string
	SASLPassword   string
	TLS            bool
	SASLEnabled    bool
	ConsumeUpdates bool
}

// Enabled reports whether a broker is configured.
func (c KafkaConfig) Enabled() bool {
	return len(c.Brokers) > 0
}

// ClientConfig converts to the pkg/kafka client settings.
func (c KafkaConfig) ClientConfig(clientID string) kafka.Config {
	return kafka.Config{
		Brokers:       c.Brokers,
		ClientID:      clientID,
		ConsumerGroup: c.ConsumerGroup,
		TLS:           c.TLS,
		SASLEnabled:   c.SASLEnabled,
		SASLMechanism: c.SASLMechanism,
		SASLUsername:  c.SASLUsername,
		SASLPassword:  c.SASLPassword,
	}
}

type TelemetryConfig struct {
	LogLevel       string
	LogFormat      string
	OTLPEndpoint   string
	ServiceVersion string
	SampleRatio    float64
	OTLPInsecure   bool
}

type AuthConfig struct {
	JWTPublicKeyFile string
	JWTSecret        string
	Issuer           string
	Audience         string
}

type TLSConfig struct {
	CertFile     string
	KeyFile      string
	ClientCAFile string
}

type RiskConfig struct {
	HomeCountry         string
	MissingDataPolicy   string
	ReferenceTablesPath string
	ReassessSchedule    string
	BatchWorkers        int
	BatchLimit          int
}

// Policy returns the configured missing-data policy. Validate guarantees it parses.
func (c RiskConfig) Policy() valueobject.MissingDataPolicy {
	p, err := valueobject.MissingDataPolicyFromString(c.MissingDataPolicy)
	if err != nil {
		return valueobject.MissingDataNeutral
	}
	return p
}

// Config holds the application configuration.
type Config struct {
	ServiceName    string
	DB             DBConfig
	Kafka          KafkaConfig
	Telemetry      TelemetryConfig
	Auth           AuthConfig
	TLS            TLSConfig
	Risk           RiskConfig
	GRPCPort       int
	HTTPPort       int
	GRPCReflection bool
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	return Config{
		GRPCPort:       getEnvInt("GRPC_PORT", 9094),
		HTTPPort:       getEnvInt("HTTP_PORT", 8094),
		GRPCReflection: getEnvBool("GRPC_REFLECTION", false),
		DB: DBConfig{
			Host:     getEnv("DB_HOST", ""),
			Port:     getEnvInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "bib"),
			Password: getEnv("DB_PASSWORD", ""),
			Name:     getEnv("DB_NAME", "bib_kycrisk"),
			SSLMode:  getEnv("DB_SSLMODE", "require"),
			MaxConns: getEnvInt("DB_MAX_CONNS", 10),
		},
		Kafka: KafkaConfig{
			Brokers:        splitList(getEnv("KAFKA_BROKERS", "")),
			EventsTopic:    getEnv("KAFKA_EVENTS_TOPIC", "kycrisk.events"),
			CustomerTopic:  getEnv("KAFKA_CUSTOMER_TOPIC", "kyc.customer.updated"),
			ConsumerGroup:  getEnv("KAFKA_CONSUMER_GROUP", "kyc-risk-service"),
			ConsumeUpdates: getEnvBool("KAFKA_CONSUME_CUSTOMER_UPDATES", true),
			TLS:            getEnvBool("KAFKA_TLS", false),
			SASLEnabled:    getEnvBool("KAFKA_SASL_ENABLED", false),
			SASLMechanism:  getEnv("KAFKA_SASL_MECHANISM", "SCRAM-SHA-512"),
			SASLUsername:   getEnv("KAFKA_SASL_USERNAME", ""),
			SASLPassword:   getEnv("KAFKA_SASL_PASSWORD", ""),
		},
		Telemetry: TelemetryConfig{
			LogLevel:       getEnv("LOG_LEVEL", "info"),
			LogFormat:      getEnv("LOG_FORMAT", "json"),
			OTLPEndpoint:   getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
			OTLPInsecure:   getEnvBool("OTEL_EXPORTER_OTLP_INSECURE", false),
			SampleRatio:    getEnvFloat("OTEL_TRACES_SAMPLE_RATIO", 1.0),
			ServiceVersion: getEnv("SERVICE_VERSION", "dev"),
		},
		Auth: AuthConfig{
			JWTPublicKeyFile: getEnv("JWT_PUBLIC_KEY_FILE", ""),
			JWTSecret:        getEnv("JWT_SECRET", ""),
			Issuer:           getEnv("JWT_ISSUER", "bib-identity"),
			Audience:         getEnv("JWT_AUDIENCE", "bib"),
		},
		TLS: TLSConfig{
			CertFile:     getEnv("GRPC_TLS_CERT_FILE", ""),
			KeyFile:      getEnv("GRPC_TLS_KEY_FILE", ""),
			ClientCAFile: getEnv("GRPC_TLS_CLIENT_CA_FILE", ""),
		},
		Risk: RiskConfig{
			HomeCountry:         getEnv("RISK_HOME_COUNTRY", "Iran"),
			MissingDataPolicy:   getEnv("RISK_MISSING_DATA_POLICY", "NEUTRAL"),
			ReferenceTablesPath: getEnv("RISK_REFERENCE_TABLES", ""),
			ReassessSchedule:    getEnv("RISK_REASSESS_SCHEDULE", "0 0 0 * * *"),
			BatchWorkers:        getEnvInt("RISK_BATCH_WORKERS", 8),
			BatchLimit:          getEnvInt("RISK_BATCH_LIMIT", 0),
		},
		ServiceName: "kyc-risk-service",
	}
}

// Validate checks that the configuration describes a runnable service.
func (c Config) Validate() error {
	var errs []error
	if c.DB.Enabled() && c.DB.Password == "" {
		errs = append(errs, errors.New("DB_PASSWORD is required when DB_HOST is set"))
	}
	if c.Auth.JWTPublicKeyFile == "" && c.Auth.JWTSecret == "" {
		errs = append(errs, errors.New("one of JWT_PUBLIC_KEY_FILE or JWT_SECRET is required"))
	}
	if (c.TLS.CertFile == "") != (c.TLS.KeyFile == "") {
		errs = append(errs, errors.New("GRPC_TLS_CERT_FILE and GRPC_TLS_KEY_FILE must be set together"))
	}
	if c.Kafka.Enabled() {
		if err := c.Kafka.ClientConfig(c.ServiceName).Validate(); err != nil {
			errs = append(errs, err)
		}
	}
	if _, err := valueobject.MissingDataPolicyFromString(c.Risk.MissingDataPolicy); err != nil {
		errs = append(errs, fmt.Errorf("RISK_MISSING_DATA_POLICY: %w", err))
	}
	if c.Risk.BatchWorkers < 1 {
		errs = append(errs, errors.New("RISK_BATCH_WORKERS must be at least 1"))
	}
	if c.Risk.BatchLimit < 0 {
		errs = append(errs, errors.New("RISK_BATCH_LIMIT must not be negative"))
	}
	if c.Risk.ReassessSchedule != "" {
		parser := cron.NewParser(cron.Second | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)
		if _, err := parser.Parse(c.Risk.ReassessSchedule); err != nil {
			errs = append(errs, fmt.Errorf("RISK_REASSESS_SCHEDULE: %w", err))
		}
	}
	if c.Telemetry.SampleRatio < 0 || c.Telemetry.SampleRatio > 1 {
		errs = append(errs, errors.New("OTEL_TRACES_SAMPLE_RATIO must be within [0,1]"))
	}
	return errors.Join(errs...)
}

// GRPCAddr returns the full gRPC listen address.
func (c Config) GRPCAddr() string {
	return fmt.Sprintf(":%d", c.GRPCPort)
}

// HTTPAddr returns the full HTTP listen address.
func (c Config) HTTPAddr() string {
	return fmt.Sprintf(":%d", c.HTTPPort)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
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

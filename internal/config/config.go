package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Service svcConfig
	Flink   FlinkConfig
}

type svcConfig struct {
	Address               string  `envconfig:"SQL_PROXY_ADDRESS" default:":8000"`
	MetricsAddress        string  `envconfig:"SQL_PROXY_METRICS_ADDRESS" default:":8090"`
	LogLevel              string  `envconfig:"SQL_PROXY_LOG_LEVEL" default:"info"`
	EventsTopic           string  `envconfig:"SQL_PROXY_EVENTS_TOPIC" default:""`
	AuthToken             string  `envconfig:"AUTH_TOKEN" default:""`
	HTTPTimeoutSeconds    float64 `envconfig:"HTTP_TIMEOUT_SECONDS" default:"10"`
	IdempotencyTTLSeconds int     `envconfig:"IDEMPOTENCY_TTL_SECONDS" default:"600"`
	StderrTruncateBytes   int     `envconfig:"STDERR_TRUNCATE_BYTES" default:"2048"`
}

type FlinkConfig struct {
	RestURL           string      `envconfig:"FLINK_REST_URL" default:"http://jobmanager:8081"`
	ApplicationName   string      `envconfig:"FLINK_APPLICATION_NAME" default:"sql-runner"`
	JobID             string      `envconfig:"FLINK_APPLICATION_JOB_ID" default:""`
	JarPath           string      `envconfig:"FLINK_APPLICATION_JAR_PATH" default:""`
	EntryClass        string      `envconfig:"FLINK_APPLICATION_ENTRY_CLASS" default:""`
	ProgramArgs       ProgramArgs `envconfig:"FLINK_APPLICATION_PROGRAM_ARGS" default:""`
	StatementEndpoint string      `envconfig:"FLINK_STATEMENT_ENDPOINT" default:""`
	LogsBaseURL       string      `envconfig:"FLINK_LOGS_BASE_URL" default:""`
}

// ProgramArgs holds the arguments passed to the application jar on launch.
// The env value is whitespace-delimited, the way JVM launchers expect, so
// envconfig's default comma splitting does not apply here.
type ProgramArgs []string

func (p *ProgramArgs) Decode(value string) error {
	*p = strings.Fields(value)
	return nil
}

func New() (*Config, error) {
	cfg := new(Config)
	if err := envconfig.Process("", cfg); err != nil {
		return nil, err
	}
	cfg.Flink.RestURL = strings.TrimRight(cfg.Flink.RestURL, "/")
	return cfg, nil
}

func (cfg *Config) Validate() error {
	if _, err := url.ParseRequestURI(cfg.Flink.RestURL); err != nil {
		return fmt.Errorf("FLINK_REST_URL: %w", err)
	}
	rangeChecks := []struct {
		value    float64
		min, max float64
		name     string
	}{
		{cfg.Service.HTTPTimeoutSeconds, 1, 120, "HTTP_TIMEOUT_SECONDS"},
		{float64(cfg.Service.IdempotencyTTLSeconds), 1, 3600, "IDEMPOTENCY_TTL_SECONDS"},
		{float64(cfg.Service.StderrTruncateBytes), 256, 16384, "STDERR_TRUNCATE_BYTES"},
	}
	for _, check := range rangeChecks {
		if check.value < check.min || check.value > check.max {
			return fmt.Errorf("%s must be between %v and %v, got %v", check.name, check.min, check.max, check.value)
		}
	}
	return nil
}

func (cfg *Config) HTTPTimeout() time.Duration {
	return time.Duration(cfg.Service.HTTPTimeoutSeconds * float64(time.Second))
}

func (cfg *Config) IdempotencyTTL() time.Duration {
	return time.Duration(cfg.Service.IdempotencyTTLSeconds) * time.Second
}

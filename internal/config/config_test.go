package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	cfg, err := New()
	require.NoError(t, err)

	require.Equal(t, "http://jobmanager:8081", cfg.Flink.RestURL)
	require.Equal(t, "sql-runner", cfg.Flink.ApplicationName)
	require.Equal(t, 10*time.Second, cfg.HTTPTimeout())
	require.Equal(t, 10*time.Minute, cfg.IdempotencyTTL())
	require.Equal(t, 2048, cfg.Service.StderrTruncateBytes)
	require.NoError(t, cfg.Validate())
}

func TestRestURLTrailingSlashTrimmed(t *testing.T) {
	t.Setenv("FLINK_REST_URL", "http://flink.example.com:8081/")

	cfg, err := New()
	require.NoError(t, err)
	require.Equal(t, "http://flink.example.com:8081", cfg.Flink.RestURL)
}

func TestProgramArgsSplitOnWhitespace(t *testing.T) {
	t.Setenv("FLINK_APPLICATION_PROGRAM_ARGS", "--mode streaming  --parallelism 2")

	cfg, err := New()
	require.NoError(t, err)
	require.Equal(t, ProgramArgs{"--mode", "streaming", "--parallelism", "2"}, cfg.Flink.ProgramArgs)
}

func TestValidateRejectsOutOfRangeValues(t *testing.T) {
	tests := []struct {
		name  string
		env   string
		value string
	}{
		{name: "timeout too low", env: "HTTP_TIMEOUT_SECONDS", value: "0.5"},
		{name: "timeout too high", env: "HTTP_TIMEOUT_SECONDS", value: "300"},
		{name: "ttl too low", env: "IDEMPOTENCY_TTL_SECONDS", value: "0"},
		{name: "ttl too high", env: "IDEMPOTENCY_TTL_SECONDS", value: "7200"},
		{name: "truncate too low", env: "STDERR_TRUNCATE_BYTES", value: "16"},
		{name: "truncate too high", env: "STDERR_TRUNCATE_BYTES", value: "65536"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			t.Setenv(test.env, test.value)

			cfg, err := New()
			require.NoError(t, err)
			require.Error(t, cfg.Validate())
		})
	}
}

func TestValidateRejectsMalformedRestURL(t *testing.T) {
	t.Setenv("FLINK_REST_URL", "not a url")

	cfg, err := New()
	require.NoError(t, err)
	require.Error(t, cfg.Validate())
}

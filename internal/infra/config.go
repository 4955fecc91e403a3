package infra

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config represents application configuration loaded from environment variables.
//
// The Tensor Art credentials carry no defaults on purpose: every credential
// must be supplied externally, and a missing one fails startup with the full
// list of missing variable names.
type Config struct {
	AppEnv string
	Port   string

	// Remote API credentials and endpoint.
	TamsAppID            string
	TamsAPIKey           string
	TamsPrivateKeyPath   string
	TamsPrivateKeyBase64 string
	TamsEndpoint         string
	TamsSigningScheme    string

	// Generation defaults.
	TamsModelID  string
	ImageWidth   int
	ImageHeight  int
	ImageSteps   int
	ImageSampler string

	// Job polling.
	PollInterval    time.Duration
	PollMaxAttempts int

	// Outbound and inbound HTTP timeouts.
	RequestTimeout   time.Duration
	HTTPReadTimeout  time.Duration
	HTTPWriteTimeout time.Duration
	HTTPIdleTimeout  time.Duration
}

// LoadConfig loads configuration from environment variables and applies
// defaults where a default is safe. Credentials never default.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		AppEnv: getEnv("APP_ENV", "development"),
		Port:   getEnv("PORT", "8080"),

		TamsAppID:            strings.TrimSpace(os.Getenv("TAMS_APP_ID")),
		TamsAPIKey:           strings.TrimSpace(os.Getenv("TAMS_API_KEY")),
		TamsPrivateKeyPath:   strings.TrimSpace(os.Getenv("TAMS_PRIVATE_KEY_PATH")),
		TamsPrivateKeyBase64: strings.TrimSpace(os.Getenv("TAMS_PRIVATE_KEY_BASE64")),
		TamsEndpoint:         strings.TrimSpace(os.Getenv("TAMS_API_ENDPOINT")),
		TamsSigningScheme:    getEnv("TAMS_SIGNING_SCHEME", "sha256-nonce"),

		TamsModelID:  strings.TrimSpace(os.Getenv("TAMS_MODEL_ID")),
		ImageWidth:   getEnvInt("IMAGE_WIDTH", 768),
		ImageHeight:  getEnvInt("IMAGE_HEIGHT", 768),
		ImageSteps:   getEnvInt("IMAGE_STEPS", 25),
		ImageSampler: getEnv("IMAGE_SAMPLER", "DPM++ 2M Karras"),

		PollInterval:    time.Second * time.Duration(getEnvInt("JOB_POLL_INTERVAL_SECONDS", 2)),
		PollMaxAttempts: getEnvInt("JOB_POLL_MAX_ATTEMPTS", 30),

		RequestTimeout:   time.Second * time.Duration(getEnvInt("API_REQUEST_TIMEOUT_SECONDS", 90)),
		HTTPReadTimeout:  time.Second * time.Duration(getEnvInt("HTTP_READ_TIMEOUT_SECONDS", 15)),
		HTTPWriteTimeout: time.Second * time.Duration(getEnvInt("HTTP_WRITE_TIMEOUT_SECONDS", 120)),
		HTTPIdleTimeout:  time.Second * time.Duration(getEnvInt("HTTP_IDLE_TIMEOUT_SECONDS", 60)),
	}

	var missing []string
	if cfg.TamsAppID == "" {
		missing = append(missing, "TAMS_APP_ID")
	}
	if cfg.TamsAPIKey == "" {
		missing = append(missing, "TAMS_API_KEY")
	}
	if cfg.TamsPrivateKeyPath == "" && cfg.TamsPrivateKeyBase64 == "" {
		missing = append(missing, "TAMS_PRIVATE_KEY_PATH or TAMS_PRIVATE_KEY_BASE64")
	}
	if cfg.TamsEndpoint == "" {
		missing = append(missing, "TAMS_API_ENDPOINT")
	}
	if cfg.TamsModelID == "" {
		missing = append(missing, "TAMS_MODEL_ID")
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

package config

import (
	"testing"
	"time"
)

func TestGetEnvOrDefault(t *testing.T) {
	tests := []struct {
		name       string
		key        string
		envValue   string
		defaultVal string
		expected   string
	}{
		{"uses env value", "TEST_VAR_1", "hello", "default", "hello"},
		{"uses default when empty", "TEST_VAR_2", "", "default", "default"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv(tc.key, tc.envValue)

			result := getEnvOrDefault(tc.key, tc.defaultVal)
			if result != tc.expected {
				t.Errorf("Expected %q, got %q", tc.expected, result)
			}
		})
	}
}

func TestGetEnvAsIntOrDefault(t *testing.T) {
	tests := []struct {
		name       string
		key        string
		envValue   string
		defaultVal int
		expected   int
	}{
		{"parses integer", "TEST_INT_1", "42", 10, 42},
		{"uses default for empty", "TEST_INT_2", "", 10, 10},
		{"uses default for non-numeric", "TEST_INT_3", "abc", 10, 10},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv(tc.key, tc.envValue)

			result := getEnvAsIntOrDefault(tc.key, tc.defaultVal)
			if result != tc.expected {
				t.Errorf("Expected %d, got %d", tc.expected, result)
			}
		})
	}
}

func TestGetEnvAsDurationOrDefault(t *testing.T) {
	tests := []struct {
		name       string
		envValue   string
		defaultVal time.Duration
		expected   time.Duration
	}{
		{"parses duration", "90s", time.Minute, 90 * time.Second},
		{"uses default for empty", "", time.Minute, time.Minute},
		{"uses default for garbage", "soon", time.Minute, time.Minute},
		{"uses default for negative", "-5m", time.Minute, time.Minute},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv("TEST_DURATION", tc.envValue)

			result := getEnvAsDurationOrDefault("TEST_DURATION", tc.defaultVal)
			if result != tc.expected {
				t.Errorf("Expected %s, got %s", tc.expected, result)
			}
		})
	}
}

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"PORT", "WEB_PORT", "BACKEND_URL", "DATABASE_URL", "REDIS_URL", "GEMINI_API_KEY", "ENV"} {
		t.Setenv(key, "")
	}

	cfg := Load()

	if cfg.Port != "8000" {
		t.Errorf("Expected API port 8000, got %q", cfg.Port)
	}
	if cfg.WebPort != "3000" {
		t.Errorf("Expected web port 3000, got %q", cfg.WebPort)
	}
	if cfg.BackendURL != "http://localhost:8000" {
		t.Errorf("Expected default backend URL, got %q", cfg.BackendURL)
	}
	if cfg.DatabaseURL != "" || cfg.RedisURL != "" || cfg.GeminiAPIKey != "" {
		t.Errorf("Expected optional backing services to be unset")
	}
	if !cfg.IsDevelopment() {
		t.Errorf("Expected development environment by default")
	}
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("BACKEND_URL", "http://tutor-api:9000")
	t.Setenv("SESSION_IDLE_TTL", "5m")
	t.Setenv("CHAT_RATE_LIMIT", "7")
	t.Setenv("ENV", "production")

	cfg := Load()

	if cfg.BackendURL != "http://tutor-api:9000" {
		t.Errorf("Expected backend URL from env, got %q", cfg.BackendURL)
	}
	if cfg.SessionIdleTTL != 5*time.Minute {
		t.Errorf("Expected 5m session TTL, got %s", cfg.SessionIdleTTL)
	}
	if cfg.ChatRateLimit != 7 {
		t.Errorf("Expected rate limit 7, got %d", cfg.ChatRateLimit)
	}
	if cfg.IsDevelopment() {
		t.Errorf("Expected production environment")
	}
}

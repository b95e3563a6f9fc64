package config

import (
	"os"
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
			if tc.envValue != "" {
				os.Setenv(tc.key, tc.envValue)
				defer os.Unsetenv(tc.key)
			}

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
			if tc.envValue != "" {
				os.Setenv(tc.key, tc.envValue)
				defer os.Unsetenv(tc.key)
			}

			result := getEnvAsIntOrDefault(tc.key, tc.defaultVal)
			if result != tc.expected {
				t.Errorf("Expected %d, got %d", tc.expected, result)
			}
		})
	}
}

func TestGetEnvAsSecondsOrDefault(t *testing.T) {
	tests := []struct {
		name     string
		envValue string
		expected time.Duration
	}{
		{"parses seconds", "5", 5 * time.Second},
		{"zero falls back", "0", 10 * time.Second},
		{"negative falls back", "-3", 10 * time.Second},
		{"garbage falls back", "soon", 10 * time.Second},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv("TEST_SECS", tc.envValue)

			result := getEnvAsSecondsOrDefault("TEST_SECS", 10)
			if result != tc.expected {
				t.Errorf("Expected %s, got %s", tc.expected, result)
			}
		})
	}
}

func TestGetEnvAsBoolOrDefault(t *testing.T) {
	tests := []struct {
		name       string
		envValue   string
		defaultVal bool
		expected   bool
	}{
		{"parses true", "true", false, true},
		{"parses 1", "1", false, true},
		{"parses false", "false", true, false},
		{"uses default for empty", "", true, true},
		{"uses default for garbage", "maybe", false, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv("TEST_BOOL", tc.envValue)
			if got := getEnvAsBoolOrDefault("TEST_BOOL", tc.defaultVal); got != tc.expected {
				t.Errorf("Expected %v, got %v", tc.expected, got)
			}
		})
	}
}

func TestLoad_NoCredentialsIsValid(t *testing.T) {
	for _, key := range []string{"GROQ_API_KEY", "OPENAI_API_KEY", "COHERE_API_KEY", "GEMINI_API_KEY", "PORT", "QUERY_TIMEOUT_SECONDS", "PROBE_TIMEOUT_SECONDS", "TRUST_PROXY"} {
		t.Setenv(key, "")
	}

	cfg := Load()
	if cfg.GroqAPIKey != "" || cfg.OpenAIAPIKey != "" || cfg.CohereAPIKey != "" || cfg.GeminiAPIKey != "" {
		t.Fatalf("expected no credentials, got %+v", cfg)
	}
	if cfg.TrustProxy {
		t.Errorf("Expected forwarded headers to be untrusted by default")
	}
	if cfg.Port != "8000" {
		t.Errorf("Expected default port 8000, got %q", cfg.Port)
	}
	if cfg.ProbeTimeout != 10*time.Second || cfg.QueryTimeout != 30*time.Second {
		t.Errorf("unexpected timeouts: probe=%s query=%s", cfg.ProbeTimeout, cfg.QueryTimeout)
	}
}

func TestLoad_ReadsCredentials(t *testing.T) {
	t.Setenv("GROQ_API_KEY", "gsk-test")
	t.Setenv("COHERE_API_KEY", "co-test")
	t.Setenv("OPENAI_API_KEY", "")

	cfg := Load()
	if cfg.GroqAPIKey != "gsk-test" {
		t.Errorf("Expected groq key, got %q", cfg.GroqAPIKey)
	}
	if cfg.CohereAPIKey != "co-test" {
		t.Errorf("Expected cohere key, got %q", cfg.CohereAPIKey)
	}
	if cfg.OpenAIAPIKey != "" {
		t.Errorf("Expected empty openai key, got %q", cfg.OpenAIAPIKey)
	}
}

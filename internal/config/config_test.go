package config

import (
	"testing"
	"time"
)

func TestParseOrigins(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []string
	}{
		{"empty means allow-all", "", nil},
		{"single", "https://exam.example.com", []string{"https://exam.example.com"}},
		{"multiple with spaces", "https://a.example.com, https://b.example.com",
			[]string{"https://a.example.com", "https://b.example.com"}},
		{"trailing comma", "https://a.example.com,", []string{"https://a.example.com"}},
		{"only commas", ",,", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseOrigins(tt.raw)
			if len(got) != len(tt.want) {
				t.Fatalf("parseOrigins(%q) = %v, want %v", tt.raw, got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("origin[%d] = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestGetEnvFallbacks(t *testing.T) {
	t.Setenv("EXAMCORE_TEST_STR", "value")
	if got := getEnv("EXAMCORE_TEST_STR", "fallback"); got != "value" {
		t.Errorf("getEnv = %q, want value", got)
	}
	if got := getEnv("EXAMCORE_TEST_MISSING", "fallback"); got != "fallback" {
		t.Errorf("getEnv = %q, want fallback", got)
	}

	t.Setenv("EXAMCORE_TEST_INT", "42")
	if got := getEnvInt("EXAMCORE_TEST_INT", 7); got != 42 {
		t.Errorf("getEnvInt = %d, want 42", got)
	}
	t.Setenv("EXAMCORE_TEST_INT", "not-a-number")
	if got := getEnvInt("EXAMCORE_TEST_INT", 7); got != 7 {
		t.Errorf("getEnvInt on garbage = %d, want fallback 7", got)
	}
}

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if cfg.ServerPort == "" {
		t.Error("ServerPort default missing")
	}
	if cfg.JWTExpiry <= 0 {
		t.Errorf("JWTExpiry = %v, want > 0", cfg.JWTExpiry)
	}
	if cfg.ExpirySweepInterval < time.Second {
		t.Errorf("ExpirySweepInterval = %v, want >= 1s", cfg.ExpirySweepInterval)
	}
}

func TestCacheKeys(t *testing.T) {
	if got := CacheKey.ExamSummaryKey("abc"); got != "exam:abc:summary" {
		t.Errorf("ExamSummaryKey = %q", got)
	}
	if got := CacheKey.AttemptDeadlinesKey(); got != "attempt_deadlines" {
		t.Errorf("AttemptDeadlinesKey = %q", got)
	}
}

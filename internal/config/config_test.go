package config

import (
	"testing"

	"github.com/guestlane/guestchat/internal/domain/resolution"
)

func validConfig() Config {
	cfg := Config{
		HTTP:     HTTPConfig{Port: 8080},
		Database: DatabaseConfig{Addrs: []string{"localhost:6379"}},
	}
	cfg.ApplyDefaults()
	return cfg
}

func TestApplyDefaults(t *testing.T) {
	cfg := validConfig()

	if cfg.Tenant.CacheTTLSec != 300 {
		t.Errorf("tenant.cache_ttl_sec default = %d, want 300", cfg.Tenant.CacheTTLSec)
	}
	if cfg.Tenant.CacheBackend != "memory" {
		t.Errorf("tenant.cache_backend default = %q, want memory", cfg.Tenant.CacheBackend)
	}
	if cfg.Retrieval.ChatResolution != string(resolution.Fast) {
		t.Errorf("retrieval.chat_resolution default = %q, want fast", cfg.Retrieval.ChatResolution)
	}
	if cfg.Retrieval.AdminResolution != string(resolution.Full) {
		t.Errorf("retrieval.admin_resolution default = %q, want full", cfg.Retrieval.AdminResolution)
	}
	if cfg.Classifier.AvoidConfidence != 0.85 {
		t.Errorf("classifier.avoid_confidence default = %v, want 0.85", cfg.Classifier.AvoidConfidence)
	}
	if cfg.Retrieval.MinSimilarity != 0.2 {
		t.Errorf("retrieval.min_similarity default = %v, want 0.2", cfg.Retrieval.MinSimilarity)
	}
	if cfg.Retrieval.IndexName != "guestchat:chunks:idx" {
		t.Errorf("retrieval.index_name default = %q", cfg.Retrieval.IndexName)
	}
}

func TestValidate_Valid(t *testing.T) {
	cfg := validConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_InvalidPort(t *testing.T) {
	cfg := validConfig()
	cfg.HTTP.Port = 0

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for invalid port")
	}
}

func TestValidate_MissingAddrs(t *testing.T) {
	cfg := validConfig()
	cfg.Database.Addrs = nil

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for missing database addrs")
	}
}

func TestValidate_InvalidResolution(t *testing.T) {
	cfg := validConfig()
	cfg.Retrieval.ChatResolution = "turbo"

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for unknown resolution")
	}
}

func TestValidate_InvalidCacheBackend(t *testing.T) {
	cfg := validConfig()
	cfg.Tenant.CacheBackend = "memcached"

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error for unknown cache backend")
	}

	expected := `tenant.cache_backend must be "memory" or "redis", got "memcached"`
	if err.Error() != expected {
		t.Errorf("unexpected error message:\ngot:  %q\nwant: %q", err.Error(), expected)
	}
}

func TestValidate_AvoidConfidenceRange(t *testing.T) {
	cfg := validConfig()
	cfg.Classifier.AvoidConfidence = 1.5

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for avoid_confidence > 1")
	}
}

func TestExpandEnvVars(t *testing.T) {
	t.Setenv("GC_TEST_SECRET", "s3cret")

	in := []byte("secret: ${GC_TEST_SECRET}\nmodel: ${GC_TEST_MODEL:-text-embedding-3-large}\n")
	out := string(expandEnvVars(in))

	want := "secret: s3cret\nmodel: text-embedding-3-large\n"
	if out != want {
		t.Errorf("expandEnvVars:\ngot:  %q\nwant: %q", out, want)
	}
}

package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config carries everything the API needs from the environment. It is
// loaded once in main and passed into each component's constructor, so
// tests can substitute their own values and fakes.
type Config struct {
	Port string

	// Supabase project settings
	SupabaseURL        string
	SupabaseAnonKey    string
	SupabaseServiceKey string
	SupabaseTimeout    time.Duration

	// Legacy shared admin secret (rotation-only; compared byte for byte)
	AdminPassword string

	// Private bucket holding uploaded resumes
	ResumeBucket string

	// Optional SMTP notification settings
	SMTPHost          string
	SMTPPort          int
	SMTPUser          string
	SMTPPass          string
	SMTPFrom          string
	SMTPSkipTLSVerify bool
	NotifyTo          string
}

// Load reads configuration from environment variables. SUPABASE_URL,
// SUPABASE_ANON_KEY, SUPABASE_SERVICE_ROLE_KEY and ADMIN_PASSWORD are
// required; everything else has a default or is optional.
func Load() (*Config, error) {
	cfg := &Config{
		Port:               os.Getenv("SERVER_PORT"),
		SupabaseURL:        os.Getenv("SUPABASE_URL"),
		SupabaseAnonKey:    os.Getenv("SUPABASE_ANON_KEY"),
		SupabaseServiceKey: os.Getenv("SUPABASE_SERVICE_ROLE_KEY"),
		AdminPassword:      os.Getenv("ADMIN_PASSWORD"),
		ResumeBucket:       os.Getenv("RESUME_BUCKET"),
		SMTPHost:           os.Getenv("SMTP_HOST"),
		SMTPUser:           os.Getenv("SMTP_USER"),
		SMTPPass:           os.Getenv("SMTP_PASS"),
		SMTPFrom:           os.Getenv("SMTP_FROM"),
		SMTPSkipTLSVerify:  os.Getenv("SMTP_SKIP_TLS_VERIFY") == "1",
		NotifyTo:           os.Getenv("NOTIFY_TO"),
	}

	if cfg.Port == "" {
		cfg.Port = "8080"
	}
	if cfg.ResumeBucket == "" {
		cfg.ResumeBucket = "resumes"
	}

	if p, _ := strconv.Atoi(os.Getenv("SMTP_PORT")); p != 0 {
		cfg.SMTPPort = p
	} else {
		cfg.SMTPPort = 587
	}

	if t, _ := strconv.Atoi(os.Getenv("SUPABASE_TIMEOUT_SECONDS")); t != 0 {
		cfg.SupabaseTimeout = time.Duration(t) * time.Second
	}

	if cfg.SupabaseURL == "" {
		return nil, fmt.Errorf("SUPABASE_URL not set")
	}
	if cfg.SupabaseAnonKey == "" {
		return nil, fmt.Errorf("SUPABASE_ANON_KEY not set")
	}
	if cfg.SupabaseServiceKey == "" {
		return nil, fmt.Errorf("SUPABASE_SERVICE_ROLE_KEY not set")
	}
	if cfg.AdminPassword == "" {
		return nil, fmt.Errorf("ADMIN_PASSWORD not set")
	}

	return cfg, nil
}

// MailEnabled reports whether submission notifications are configured.
func (c *Config) MailEnabled() bool {
	return c.SMTPHost != "" && c.SMTPFrom != "" && c.NotifyTo != ""
}

package config

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config contains runtime settings for the ATS bridge
type Config struct {
	LogLevel string
	Host     string // default 0.0.0.0
	Port     string // default PORT env or 8080

	Provider string // ATS_PROVIDER, default greenhouse
	APIKey   string
	BaseURL  string // optional override for the selected provider

	Greenhouse struct {
		OnBehalfOf string
	}
	Zoho struct {
		ClientID          string
		ClientSecret      string
		RefreshToken      string
		Region            string
		StrictAssociation bool
	}
	Workable struct {
		APIKey    string
		Subdomain string
	}

	HTTP struct {
		Timeout     time.Duration
		MaxAttempts int
		RateLimit   float64 // requests per second, 0 disables
	}
}

// Load populates config from environment variables, reading .env first when present
func Load() (Config, error) {
	// .env is optional
	_ = godotenv.Load()

	cfg := Config{
		LogLevel: "info",
		Host:     "0.0.0.0",
		Port:     "8080",
		Provider: "greenhouse",
	}

	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("HOST"); v != "" {
		cfg.Host = v
	}
	if v := os.Getenv("PORT"); v != "" {
		cfg.Port = v
	}
	if v := os.Getenv("ATS_PROVIDER"); v != "" {
		cfg.Provider = strings.ToLower(strings.TrimSpace(v))
	}

	cfg.APIKey = os.Getenv("ATS_API_KEY")
	cfg.BaseURL = os.Getenv("ATS_BASE_URL")

	cfg.Greenhouse.OnBehalfOf = os.Getenv("GREENHOUSE_ON_BEHALF_OF")

	cfg.Zoho.ClientID = os.Getenv("ZOHO_CLIENT_ID")
	cfg.Zoho.ClientSecret = os.Getenv("ZOHO_CLIENT_SECRET")
	cfg.Zoho.RefreshToken = os.Getenv("ZOHO_REFRESH_TOKEN")
	cfg.Zoho.Region = "com"
	if v := os.Getenv("ZOHO_REGION"); v != "" {
		cfg.Zoho.Region = v
	}

	cfg.Workable.APIKey = os.Getenv("WORKABLE_API_KEY")
	cfg.Workable.Subdomain = os.Getenv("WORKABLE_SUBDOMAIN")

	cfg.HTTP.Timeout = 30 * time.Second
	cfg.HTTP.MaxAttempts = 3

	var invalid []string

	if v := os.Getenv("ZOHO_STRICT_ASSOCIATION"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			invalid = append(invalid, "ZOHO_STRICT_ASSOCIATION")
		}
		cfg.Zoho.StrictAssociation = b
	}
	if v := os.Getenv("ATS_HTTP_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			invalid = append(invalid, "ATS_HTTP_TIMEOUT")
		} else {
			cfg.HTTP.Timeout = d
		}
	}
	if v := os.Getenv("ATS_MAX_ATTEMPTS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			invalid = append(invalid, "ATS_MAX_ATTEMPTS")
		} else {
			cfg.HTTP.MaxAttempts = n
		}
	}
	if v := os.Getenv("ATS_RATE_LIMIT_RPS"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil || f < 0 {
			invalid = append(invalid, "ATS_RATE_LIMIT_RPS")
		} else {
			cfg.HTTP.RateLimit = f
		}
	}

	if len(invalid) > 0 {
		return cfg, fmt.Errorf("invalid environment variables: %s", strings.Join(invalid, ", "))
	}

	if missing := cfg.Missing(); len(missing) > 0 {
		return cfg, fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}

	return cfg, nil
}

// Missing lists the credentials the selected provider needs but does not have.
// Unknown providers report nothing here; the provider registry rejects them.
func (c Config) Missing() []string {
	var missingVars []string

	switch c.Provider {
	case "greenhouse":
		if c.APIKey == "" {
			missingVars = append(missingVars, "ATS_API_KEY")
		}
	case "zoho_recruit":
		if c.Zoho.ClientID == "" {
			missingVars = append(missingVars, "ZOHO_CLIENT_ID")
		}
		if c.Zoho.ClientSecret == "" {
			missingVars = append(missingVars, "ZOHO_CLIENT_SECRET")
		}
		if c.Zoho.RefreshToken == "" {
			missingVars = append(missingVars, "ZOHO_REFRESH_TOKEN")
		}
	case "workable":
		if c.WorkableAPIKey() == "" {
			missingVars = append(missingVars, "WORKABLE_API_KEY")
		}
		if c.Workable.Subdomain == "" {
			missingVars = append(missingVars, "WORKABLE_SUBDOMAIN")
		}
	}

	return missingVars
}

// WorkableAPIKey falls back to ATS_API_KEY when WORKABLE_API_KEY is unset
func (c Config) WorkableAPIKey() string {
	if c.Workable.APIKey != "" {
		return c.Workable.APIKey
	}
	return c.APIKey
}

// Addr returns host:port for the HTTP listener
func (c Config) Addr() string {
	return net.JoinHostPort(c.Host, c.Port)
}

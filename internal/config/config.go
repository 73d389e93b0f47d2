// Package config holds the synchronizer's runtime settings.
package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"dashsync/internal/charts"
	"dashsync/internal/models"
)

// Config is populated from defaults, then CLI flags and DASHSYNC_* env vars.
type Config struct {
	Port        int `validate:"min=1,max=65535"`
	TLSEnabled  bool
	TLSCertPath string `validate:"required_if=TLSEnabled true"`
	TLSKeyPath  string `validate:"required_if=TLSEnabled true"`

	// StatsURL is polled by the scheduler. Empty means this server's own
	// /api/dashboard_stats over plain HTTP, so it is required with TLS.
	StatsURL          string        `validate:"omitempty,url"`
	PollInterval      time.Duration `validate:"min=1s"`
	FetchTimeout      time.Duration `validate:"min=0"`
	NotificationTTL   time.Duration `validate:"min=1ms"`
	HighlightDuration time.Duration `validate:"min=1ms"`

	Mounts       []string `validate:"dive,oneof=activityChart deviceChart"`
	DeviceLabels []string
	DeviceValues []float64 `validate:"dive,min=0"`

	RedisURL    string        `validate:"omitempty,url"`
	StatsWindow time.Duration `validate:"min=1h"`

	LogFile  string
	LogLevel string `validate:"oneof=trace debug info warn warning error fatal panic"`

	RateLimitPerMinute int `validate:"min=1"`
	RateLimitBurst     int `validate:"min=1"`

	ClipboardCommand []string
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Port:               5000,
		PollInterval:       30 * time.Second,
		FetchTimeout:       10 * time.Second,
		NotificationTTL:    5 * time.Second,
		HighlightDuration:  300 * time.Millisecond,
		Mounts:             []string{charts.ActivityMount, charts.DeviceMount},
		StatsWindow:        24 * time.Hour,
		LogLevel:           "info",
		RateLimitPerMinute: 100,
		RateLimitBurst:     10,
	}
}

var validate = validator.New()

// Validate checks field constraints and cross-field pairing.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if c.TLSEnabled && strings.TrimSpace(c.StatsURL) == "" {
		// the loopback address would not match the certificate's host name
		return fmt.Errorf("invalid config: a stats URL is required when TLS is enabled")
	}
	if len(c.DeviceLabels) != len(c.DeviceValues) {
		return fmt.Errorf("invalid config: %d device labels but %d device values", len(c.DeviceLabels), len(c.DeviceValues))
	}
	return nil
}

// DeviceSeed returns the seed share for the device chart.
func (c Config) DeviceSeed() models.DeviceShare {
	return models.DeviceShare{
		Labels: append([]string(nil), c.DeviceLabels...),
		Values: append([]float64(nil), c.DeviceValues...),
	}
}

// ResolvedStatsURL returns StatsURL or the local plain-HTTP endpoint.
func (c Config) ResolvedStatsURL() string {
	if strings.TrimSpace(c.StatsURL) != "" {
		return c.StatsURL
	}
	return "http://127.0.0.1:" + strconv.Itoa(c.Port)
}

// ParseFloats parses a list of decimal strings, as passed on the command line.
func ParseFloats(raw []string) ([]float64, error) {
	out := make([]float64, 0, len(raw))
	for _, r := range raw {
		r = strings.TrimSpace(r)
		if r == "" {
			continue
		}
		f, err := strconv.ParseFloat(r, 64)
		if err != nil {
			return nil, fmt.Errorf("parse %q: %w", r, err)
		}
		out = append(out, f)
	}
	return out, nil
}

package main

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"dashsync/internal/config"
)

func serveFlags() []cli.Flag {
	def := config.Default()
	return []cli.Flag{
		&cli.IntFlag{
			Name:    "port",
			Usage:   "listen port",
			EnvVars: []string{"DASHSYNC_PORT"},
			Value:   def.Port,
		},
		&cli.BoolFlag{
			Name:    "tls",
			Usage:   "serve HTTPS",
			EnvVars: []string{"DASHSYNC_USE_TLS"},
		},
		&cli.StringFlag{
			Name:    "tls-cert",
			Usage:   "TLS certificate path",
			EnvVars: []string{"DASHSYNC_TLS_CERT"},
		},
		&cli.StringFlag{
			Name:    "tls-key",
			Usage:   "TLS key path",
			EnvVars: []string{"DASHSYNC_TLS_KEY"},
		},
		&cli.StringFlag{
			Name:    "stats-url",
			Usage:   "statistics endpoint to poll (default: this server)",
			EnvVars: []string{"DASHSYNC_STATS_URL"},
		},
		&cli.DurationFlag{
			Name:    "poll-interval",
			Usage:   "auto-refresh period",
			EnvVars: []string{"DASHSYNC_POLL_INTERVAL"},
			Value:   def.PollInterval,
		},
		&cli.DurationFlag{
			Name:    "fetch-timeout",
			Usage:   "timeout of one statistics request (0 disables)",
			EnvVars: []string{"DASHSYNC_FETCH_TIMEOUT"},
			Value:   def.FetchTimeout,
		},
		&cli.DurationFlag{
			Name:    "notification-ttl",
			Usage:   "how long alerts stay on screen",
			EnvVars: []string{"DASHSYNC_NOTIFICATION_TTL"},
			Value:   def.NotificationTTL,
		},
		&cli.DurationFlag{
			Name:    "highlight",
			Usage:   "duration of the refresh highlight",
			EnvVars: []string{"DASHSYNC_HIGHLIGHT"},
			Value:   def.HighlightDuration,
		},
		&cli.StringSliceFlag{
			Name:    "mount",
			Usage:   "chart mount points present on the page",
			EnvVars: []string{"DASHSYNC_MOUNTS"},
			Value:   cli.NewStringSlice(def.Mounts...),
		},
		&cli.StringSliceFlag{
			Name:    "device-label",
			Usage:   "device chart seed labels",
			EnvVars: []string{"DASHSYNC_DEVICE_LABELS"},
		},
		&cli.StringSliceFlag{
			Name:    "device-value",
			Usage:   "device chart seed values",
			EnvVars: []string{"DASHSYNC_DEVICE_VALUES"},
		},
		&cli.StringFlag{
			Name:    "redis-url",
			Usage:   "redis URL for webhook counters (default: in memory)",
			EnvVars: []string{"DASHSYNC_REDIS_URL"},
		},
		&cli.DurationFlag{
			Name:    "stats-window",
			Usage:   "aggregation window of /api/dashboard_stats",
			EnvVars: []string{"DASHSYNC_STATS_WINDOW"},
			Value:   def.StatsWindow,
		},
		&cli.StringFlag{
			Name:    "log-file",
			Usage:   "log file path (\"-\" for stdout only)",
			EnvVars: []string{"DASHSYNC_LOG_FILE"},
		},
		&cli.StringFlag{
			Name:    "log-level",
			Usage:   "log level",
			EnvVars: []string{"DASHSYNC_LOG_LEVEL"},
			Value:   def.LogLevel,
		},
		&cli.IntFlag{
			Name:    "rate-limit",
			Usage:   "requests per minute per client on /api and /webhook",
			EnvVars: []string{"DASHSYNC_RATE_LIMIT"},
			Value:   def.RateLimitPerMinute,
		},
		&cli.IntFlag{
			Name:    "rate-burst",
			Usage:   "rate limiter burst",
			EnvVars: []string{"DASHSYNC_RATE_BURST"},
			Value:   def.RateLimitBurst,
		},
		clipboardCommandFlag(),
	}
}

func clipboardCommandFlag() cli.Flag {
	return &cli.StringSliceFlag{
		Name:    "clipboard-command",
		Usage:   "copy command reading stdin (default: detected)",
		EnvVars: []string{"DASHSYNC_CLIPBOARD_COMMAND"},
	}
}

// loadConfig reads flags over the defaults and validates the result.
func loadConfig(ctx *cli.Context) (config.Config, error) {
	cfg := config.Default()
	cfg.Port = ctx.Int("port")
	cfg.TLSEnabled = ctx.Bool("tls")
	cfg.TLSCertPath = ctx.String("tls-cert")
	cfg.TLSKeyPath = ctx.String("tls-key")
	cfg.StatsURL = ctx.String("stats-url")
	cfg.PollInterval = ctx.Duration("poll-interval")
	cfg.FetchTimeout = ctx.Duration("fetch-timeout")
	cfg.NotificationTTL = ctx.Duration("notification-ttl")
	cfg.HighlightDuration = ctx.Duration("highlight")
	cfg.Mounts = ctx.StringSlice("mount")
	cfg.DeviceLabels = ctx.StringSlice("device-label")
	values, err := config.ParseFloats(ctx.StringSlice("device-value"))
	if err != nil {
		return cfg, fmt.Errorf("device-value: %w", err)
	}
	cfg.DeviceValues = values
	cfg.RedisURL = ctx.String("redis-url")
	cfg.StatsWindow = ctx.Duration("stats-window")
	cfg.LogFile = ctx.String("log-file")
	cfg.LogLevel = ctx.String("log-level")
	cfg.RateLimitPerMinute = ctx.Int("rate-limit")
	cfg.RateLimitBurst = ctx.Int("rate-burst")
	cfg.ClipboardCommand = ctx.StringSlice("clipboard-command")
	return cfg, cfg.Validate()
}

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jonboulle/clockwork"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
	"golang.org/x/time/rate"

	"dashsync/internal/clipboard"
	"dashsync/internal/config"
	"dashsync/internal/dashboard"
	"dashsync/internal/handlers"
	"dashsync/internal/middleware"
	"dashsync/internal/notify"
	"dashsync/internal/page"
	"dashsync/internal/render"
	"dashsync/internal/stats"
	"dashsync/internal/store"
	"dashsync/internal/ui"
	"dashsync/internal/utils"
)

// App holds the running server's components.
type App struct {
	cfg         config.Config
	log         logrus.FieldLogger
	wsHub       *middleware.Hub
	rateLimiter *middleware.RateLimiter
	page        *page.Page
	dashboard   *dashboard.Dashboard
	queue       *notify.Queue
	store       store.Store
	handlers    *handlers.DashboardHandlers
}

// newApp builds every component. Nothing runs until start.
func newApp(ctx context.Context, cfg config.Config, log logrus.FieldLogger, clock clockwork.Clock) (*App, error) {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	var st store.Store
	if cfg.RedisURL != "" {
		rs, err := store.NewRedisStore(ctx, cfg.RedisURL, cfg.StatsWindow)
		if err != nil {
			return nil, fmt.Errorf("redis store: %w", err)
		}
		st = rs
	} else {
		st = store.NewMemoryStore(cfg.StatsWindow)
	}

	hub := middleware.NewHub(log)
	pg := page.New(hub, log,
		page.WithMounts(cfg.Mounts...),
		page.WithElement(page.WebhookCountID, "0", true),
	)
	hub.OnConnect(pg.SnapshotJSON)

	dash := dashboard.New(dashboard.Options{
		Host:       pg,
		Document:   pg,
		Fetcher:    stats.NewClient(cfg.ResolvedStatsURL(), cfg.FetchTimeout),
		DeviceSeed: cfg.DeviceSeed(),
		Clock:      clock,
		Interval:   cfg.PollInterval,
		Highlight:  cfg.HighlightDuration,
		Logger:     log,
	})
	hub.OnMessage(dash.Lifecycle.HandleMessage)

	queue := notify.NewQueue(pg, notify.WithClock(clock), notify.WithTTL(cfg.NotificationTTL))

	a := &App{
		cfg:         cfg,
		log:         log.WithField("component", "app"),
		wsHub:       hub,
		rateLimiter: middleware.NewRateLimiter(rate.Every(time.Minute/time.Duration(cfg.RateLimitPerMinute)), cfg.RateLimitBurst),
		page:        pg,
		dashboard:   dash,
		queue:       queue,
		store:       st,
	}
	a.handlers = handlers.NewDashboardHandlers(handlers.Deps{
		Store:     st,
		Page:      pg,
		Notifier:  queue,
		Clipboard: newClipboard(cfg, log),
		Status:    dash,
		Clients:   hub,
		Renderer:  render.SVG{},
		Clock:     clock,
		Logger:    log,
	})
	return a, nil
}

// newClipboard prefers OSC 52 on an attached terminal and falls back to
// the configured or detected copy command.
func newClipboard(cfg config.Config, log logrus.FieldLogger) *clipboard.Service {
	command := cfg.ClipboardCommand
	if len(command) == 0 {
		command = clipboard.DetectCommand()
	}
	var legacy clipboard.Document
	if len(command) > 0 {
		legacy = clipboard.CommandDocument{Command: command}
	}
	return clipboard.NewService(clipboard.TerminalDetector(os.Stdout), clipboard.OSC52{Out: os.Stdout}, legacy, log)
}

// start runs the websocket hub and begins auto-refresh.
func (a *App) start() {
	go a.wsHub.Run()
	a.dashboard.Start()
}

// close tears everything down in reverse order.
func (a *App) close() {
	a.dashboard.Close()
	a.queue.Close()
	a.rateLimiter.Stop()
	a.wsHub.Stop()
	if err := a.store.Close(); err != nil {
		a.log.WithError(err).Warn("failed to close stats store")
	}
}

func (a *App) setupRouter() *gin.Engine {
	r := gin.New()

	r.Use(gin.Recovery())

	r.Use(gin.LoggerWithFormatter(func(param gin.LogFormatterParams) string {
		return fmt.Sprintf("%s - [%s] \"%s %s %s %d %s \"%s\" %s\"\n",
			param.ClientIP,
			param.TimeStamp.Format(time.RFC1123),
			param.Method,
			param.Path,
			param.Request.Proto,
			param.StatusCode,
			param.Latency,
			param.Request.UserAgent(),
			param.ErrorMessage,
		)
	}))

	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS())

	r.StaticFS("/static", http.FS(ui.Static()))
	r.GET("/", func(c *gin.Context) {
		index, err := ui.Index()
		if err != nil {
			c.String(http.StatusInternalServerError, "dashboard page missing")
			return
		}
		c.Data(http.StatusOK, "text/html; charset=utf-8", index)
	})

	h := a.handlers
	r.GET("/healthz", h.Healthz)
	r.GET("/version", h.Version)
	r.GET("/charts/:file", h.ChartSVG)

	webhook := r.Group("/webhook")
	webhook.Use(a.rateLimiter.Middleware())
	{
		webhook.POST("/wialon", middleware.ValidateJSON(func() interface{} { return &handlers.WebhookRequest{} }), h.WebhookWialon)
	}

	api := r.Group("/api")
	api.Use(a.rateLimiter.Middleware())
	{
		api.GET("/dashboard_stats", h.APIDashboardStats)
		api.GET("/page", h.APIPage)
		api.POST("/notifications", middleware.ValidateJSON(func() interface{} { return &handlers.NotificationRequest{} }), h.APINotify)
		api.DELETE("/notifications/:id", h.APIDismissNotification)
		api.POST("/clipboard", middleware.ValidateJSON(func() interface{} { return &handlers.ClipboardRequest{} }), h.APIClipboard)
	}

	r.GET("/ws", a.wsHub.HandleWebSocket())

	return r
}

func runServe(ctx *cli.Context) error {
	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}

	logger := utils.NewLogger(cfg.LogFile, cfg.LogLevel)
	defer logger.Close()

	if os.Getenv("GIN_MODE") == "" {
		gin.SetMode(gin.ReleaseMode)
	}
	gin.DefaultWriter = logger.Writer()

	app, err := newApp(ctx.Context, cfg, logger, nil)
	if err != nil {
		return err
	}
	app.start()

	srv := &http.Server{
		Addr:           ":" + strconv.Itoa(cfg.Port),
		Handler:        app.setupRouter(),
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   10 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	serveErr := make(chan error, 1)
	go func() {
		var err error
		if cfg.TLSEnabled {
			logger.Infof("Starting HTTPS server on port %d", cfg.Port)
			err = srv.ListenAndServeTLS(cfg.TLSCertPath, cfg.TLSKeyPath)
		} else {
			logger.Infof("Starting server on port %d", cfg.Port)
			err = srv.ListenAndServe()
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	var runErr error
	select {
	case <-quit:
	case err, ok := <-serveErr:
		if ok {
			runErr = fmt.Errorf("server failed: %w", err)
		}
	}
	logger.Info("Shutting down server...")

	app.close()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Error("Server forced to shutdown")
	}

	logger.Info("Server exited")
	return runErr
}

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"kiosk/internal/api"
	"kiosk/internal/cache"
	"kiosk/internal/config"
	"kiosk/internal/database"
	"kiosk/internal/hours"
	"kiosk/internal/metrics"
	"kiosk/internal/notify"
	"kiosk/internal/settings"
	"kiosk/internal/status"
)

const (
	hoursWatchInterval   = 30 * time.Second
	preferenceMaxAge     = 400 * 24 * time.Hour
	preferenceSweepEvery = 24 * time.Hour
)

func main() {
	// .env is optional
	_ = godotenv.Load()

	output := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	logger := zerolog.New(output).With().Timestamp().Logger()

	cfg, err := config.Load(os.Getenv("KIOSK_CONFIG_PATH"))
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}
	logger = newLogger(cfg)

	if err := cfg.EnsureDirs(); err != nil {
		logger.Fatal().Err(err).Msg("failed to create data directories")
	}
	loc, err := cfg.Location()
	if err != nil {
		logger.Fatal().Err(err).Msg("invalid store timezone")
	}

	db, err := database.NewDB(cfg.Database.Path, &logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("open db error")
	}
	defer db.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var store settings.Store = db
	var rdb *redis.Client
	if cfg.Redis.Address != "" {
		rdb, err = cache.NewClient(ctx, cfg.Redis.Address, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			logger.Warn().Err(err).Str("addr", cfg.Redis.Address).Msg("redis unavailable, continuing without cache")
			rdb = nil
		} else {
			defer rdb.Close()
			store = cache.NewThemeStore(db, rdb, cfg.CacheTTL(), logger)
		}
	}

	if cfg.Monitoring.PrometheusEnabled {
		metrics.Register()
		go startMetricsServer(ctx, cfg.Monitoring.PrometheusPort, &logger)
	}

	// Initial load + hot reload of the weekly hours
	var ticker *status.Ticker
	err = config.WatchHours(ctx, cfg.HoursPath, hoursWatchInterval, func(hc *config.HoursConfig) {
		schedule, err := hc.Schedule()
		if err != nil {
			logger.Error().Err(err).Msg("invalid hours config")
			metrics.IncHoursReload(false)
			return
		}
		ev := hours.NewEvaluator(schedule, loc, hours.SystemClock)
		if ticker == nil {
			ticker = status.NewTicker(ev, cfg.RefreshInterval(), logger)
			logger.Info().Str("hours", hc.String()).Msg("hours loaded")
			return
		}
		ticker.Swap(ev)
		metrics.IncHoursReload(true)
		logger.Info().Str("hours", hc.String()).Time("reloaded_at", time.Now()).Msg("hours config reloaded")
	}, func(err error) {
		metrics.IncHoursReload(false)
		logger.Error().Err(err).Msg("failed to reload hours config")
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load hours config")
	}
	if ticker == nil {
		logger.Fatal().Msg("no usable hours config")
	}

	hub := api.NewHub(logger)
	ticker.Subscribe(hub.HandleSnapshot)
	ticker.Subscribe(func(_ context.Context, snap status.Snapshot) {
		metrics.ObserveStatus(snap.Open, snap.Transition)
	})
	ticker.Subscribe(func(ctx context.Context, snap status.Snapshot) {
		if !snap.Transition {
			return
		}
		if err := db.RecordTransition(ctx, snap.Open, snap.NextChange, snap.At); err != nil {
			logger.Error().Err(err).Msg("failed to record status transition")
		}
	})
	if rdb != nil {
		statusCache := cache.NewStatusCache(rdb)
		if prev, ok := statusCache.GetStatus(ctx); ok {
			ticker.Seed(prev)
			logger.Info().Bool("open", prev.Open).Time("at", prev.At).Msg("previous status restored")
		}
		ticker.Subscribe(func(ctx context.Context, snap status.Snapshot) {
			if err := statusCache.SetStatus(ctx, snap); err != nil {
				logger.Warn().Err(err).Msg("failed to cache status")
			}
		})
	}

	if cfg.Telegram.Enabled {
		bot, err := notify.NewBot(cfg.Telegram.BotToken)
		if err != nil {
			logger.Error().Err(err).Msg("telegram disabled")
		} else {
			notifier := notify.NewNotifier(bot, cfg.Telegram.ChatID, cfg.Store.Name, cfg.Telegram.MessagesPerMinute, logger)
			ticker.Subscribe(notifier.HandleSnapshot)
		}
	}

	checks := []api.Check{{Name: "db", Ping: db.PingContext}}
	if rdb != nil {
		checks = append(checks, api.Check{Name: "redis", Ping: func(ctx context.Context) error {
			return rdb.Ping(ctx).Err()
		}})
	}
	go startHealthServer(ctx, cfg.Monitoring.HealthCheckPort, api.HealthHandler(checks...), &logger)

	if cfg.Backup.Enabled {
		backups := database.NewBackupService(db, database.BackupConfig{
			Enabled:   true,
			Path:      cfg.Backup.Path,
			Interval:  cfg.BackupInterval(),
			Retention: time.Duration(cfg.Backup.RetentionDays) * 24 * time.Hour,
		}, &logger)
		go backups.Start(ctx)
	}
	go sweepPreferences(ctx, db, &logger)

	go ticker.Start(ctx)

	server := api.NewHTTPServer(cfg, ticker, settings.NewService(store, logger), db, hub, logger)
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		hub.CloseAll()
		_ = server.Shutdown(shutdownCtx)
	}()

	logger.Info().Str("store", cfg.Store.Name).Str("timezone", loc.String()).Msg("kiosk started")
	if err := server.Start(); err != nil {
		logger.Error().Err(err).Msg("http server error")
	}
	logger.Info().Msg("kiosk stopped")
}

func newLogger(cfg *config.Config) zerolog.Logger {
	level, err := zerolog.ParseLevel(strings.ToLower(cfg.Logging.Level))
	if err != nil || cfg.Logging.Level == "" {
		level = zerolog.InfoLevel
	}

	var logger zerolog.Logger
	if strings.EqualFold(cfg.Logging.Format, "json") {
		logger = zerolog.New(os.Stdout)
	} else {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})
	}
	return logger.Level(level).With().Timestamp().Logger()
}

func sweepPreferences(ctx context.Context, db *database.DB, logger *zerolog.Logger) {
	ticker := time.NewTicker(preferenceSweepEvery)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			deleted, err := db.DeleteStalePreferences(ctx, preferenceMaxAge)
			if err != nil {
				logger.Error().Err(err).Msg("preference cleanup failed")
			} else if deleted > 0 {
				logger.Info().Int64("deleted", deleted).Msg("removed stale theme preferences")
			}
		}
	}
}

func startHealthServer(ctx context.Context, port int, handler http.Handler, logger *zerolog.Logger) {
	serve(ctx, "health", port, handler, logger)
}

func startMetricsServer(ctx context.Context, port int, logger *zerolog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	serve(ctx, "metrics", port, mux, logger)
}

func serve(ctx context.Context, name string, port int, handler http.Handler, logger *zerolog.Logger) {
	srv := &http.Server{Addr: fmt.Sprintf(":%d", port), Handler: handler, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		<-ctx.Done()
		ctxShutdown, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctxShutdown)
	}()
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error().Err(err).Msgf("%s server error", name)
	}
}

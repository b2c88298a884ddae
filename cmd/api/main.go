package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"galli2globe/internal/api"
	"galli2globe/internal/catalog"
	"galli2globe/internal/config"
	"galli2globe/internal/currency"
	"galli2globe/internal/domain"
	"galli2globe/internal/events"
	"galli2globe/internal/export"
	"galli2globe/internal/logging"
	"galli2globe/internal/metrics"
	"galli2globe/internal/models"
	"galli2globe/internal/notify"
	"galli2globe/internal/service"
	"galli2globe/internal/session"
	"galli2globe/internal/sheets"
	"galli2globe/internal/store"
	"galli2globe/internal/worker"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	cfg, logger, closer, err := loadConfigAndLogger()
	if err != nil {
		return err
	}
	if closer != nil {
		defer (func() { _ = closer.Close() })()
	}

	kv, err := store.NewSQLiteKV(cfg.Database.Path)
	if err != nil {
		logger.Error().Err(err).Str("db_path", cfg.Database.Path).Msg("init store")
		return err
	}
	defer kv.Close()
	records := store.NewRecords(kv, &logger)

	cat := loadCatalog(cfg, &logger)
	table := loadCurrencyTable(cfg, &logger)
	sessions := initSessions(cfg, &logger)

	bus := events.NewEventBus()
	initTelegram(cfg, table, bus, &logger)

	syncWorker, startWorker := initSheetsSync(cfg, records, &logger)

	accounts := service.NewAccountService(records, sessions, bus, &logger)
	bookings := service.NewBookingService(records, cat, bus, syncWorker, &logger)
	currencies := service.NewCurrencyService(records, table, &logger)
	exporter := export.NewExcelExporter(cfg.Exports.Path, table, &logger)

	httpServer := api.NewHTTPServer(cfg.API, accounts, bookings, currencies, cat, sessions, exporter, &logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if startWorker != nil {
		go startWorker(ctx)
	}

	startMetrics(ctx, cfg, &logger)

	return startServer(ctx, httpServer, cfg, &logger)
}

func loadConfigAndLogger() (*config.Config, zerolog.Logger, io.Closer, error) {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "configs/config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, zerolog.Logger{}, nil, fmt.Errorf("load config: %w", err)
	}

	baseLogger, closer, err := logging.New(cfg.Logging, cfg.App)
	if err != nil {
		return nil, zerolog.Logger{}, nil, fmt.Errorf("init logger: %w", err)
	}
	logger := baseLogger.With().Str("component", "api-main").Logger()

	return cfg, logger, closer, nil
}

// loadCatalog reads the destination list; a failed load means an empty
// catalog, not a dead server.
func loadCatalog(cfg *config.Config, logger *zerolog.Logger) *catalog.Catalog {
	var (
		destinations []models.Destination
		err          error
	)

	switch {
	case cfg.Catalog.Path != "":
		destinations, err = catalog.LoadFile(cfg.Catalog.Path)
	case cfg.Catalog.URL != "":
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		destinations, err = catalog.FetchURL(ctx, cfg.Catalog.URL)
	}

	if err != nil {
		logger.Warn().Err(err).Msg("catalog load failed, continuing with empty catalog")
		destinations = nil
	} else {
		logger.Info().Int("destinations", len(destinations)).Msg("catalog loaded")
	}

	return catalog.New(destinations, logger)
}

func loadCurrencyTable(cfg *config.Config, logger *zerolog.Logger) *currency.Table {
	if cfg.Currency.Path == "" {
		return currency.DefaultTable()
	}

	table, err := currency.LoadFile(cfg.Currency.Path)
	if err != nil {
		logger.Warn().Err(err).Str("path", cfg.Currency.Path).Msg("currency table load failed, using defaults")
		return currency.DefaultTable()
	}
	return table
}

func initSessions(cfg *config.Config, logger *zerolog.Logger) *session.Manager {
	memory := session.NewMemoryRepository(cfg.Session.TTL)

	if !cfg.Redis.Enabled {
		return session.NewManager(memory, logger)
	}

	redisClient := session.NewRedisClient(cfg.Redis)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := session.Ping(ctx, redisClient); err != nil {
		logger.Warn().Err(err).Msg("redis connection failed, sessions stay in memory")
		return session.NewManager(memory, logger)
	}
	logger.Info().Str("addr", cfg.Redis.Address).Msg("redis connected")

	primary := session.NewRedisRepository(redisClient, cfg.Session.TTL)
	return session.NewManager(session.NewFailoverRepository(primary, memory, logger), logger)
}

func initTelegram(cfg *config.Config, table *currency.Table, bus *events.EventBus, logger *zerolog.Logger) {
	if !cfg.Telegram.Enabled {
		return
	}

	bot, err := tgbotapi.NewBotAPI(cfg.Telegram.BotToken)
	if err != nil {
		logger.Warn().Err(err).Msg("telegram init failed, continuing without staff notifications")
		return
	}
	bot.Debug = cfg.Telegram.Debug

	notifier := notify.NewTelegramNotifier(bot, cfg.Telegram.StaffChat, table, logger)
	notifier.SubscribeAll(bus)
	logger.Info().Str("bot", bot.Self.UserName).Msg("telegram notifier connected")
}

func initSheetsSync(cfg *config.Config, records *store.Records, logger *zerolog.Logger) (domain.SyncWorker, func(context.Context)) {
	if !cfg.Google.Enabled {
		return nil, nil
	}

	sheetsService, err := sheets.NewService(
		cfg.Google.GoogleCredentialsFile,
		cfg.Google.BookingSpreadSheetID,
		cfg.Google.SheetName,
	)
	if err != nil {
		logger.Warn().Err(err).Msg("google sheets init failed, continuing without sheets sync")
		return nil, nil
	}
	logger.Info().Msg("google sheets connected")

	syncWorker := worker.NewSyncWorker(records, sheetsService, worker.RetryPolicy{}, logger)
	return syncWorker, syncWorker.Start
}

func startMetrics(ctx context.Context, cfg *config.Config, logger *zerolog.Logger) {
	if !cfg.Monitoring.PrometheusEnabled {
		return
	}

	metrics.Register()
	port := cfg.Monitoring.PrometheusPort
	if port == 0 {
		port = 9090
	}
	go startMetricsServer(ctx, port, logger)
}

func startServer(ctx context.Context, httpServer *api.HTTPServer, cfg *config.Config, logger *zerolog.Logger) error {
	go func() {
		if err := httpServer.Start(); err != nil {
			logger.Error().Err(err).Msg("http server stopped")
		}
	}()

	logger.Info().Int("http_port", cfg.API.HTTP.Port).Msg("API server started")

	<-ctx.Done()
	logger.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_ = httpServer.Shutdown(shutdownCtx)

	logger.Info().Msg("API server stopped")
	return nil
}

func startMetricsServer(ctx context.Context, port int, logger *zerolog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{Addr: fmt.Sprintf(":%d", port), Handler: mux}
	go func() {
		<-ctx.Done()
		ctxShutdown, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctxShutdown)
	}()
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error().Err(err).Msg("metrics server error")
	}
}

package internal

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/fluent/fluent-logger-golang/fluent"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"lbc-crawler-service/internal/adapters/filestorage"
	"lbc-crawler-service/internal/adapters/geocoder"
	"lbc-crawler-service/internal/adapters/lbcfetcher"
	logger_adapter "lbc-crawler-service/internal/adapters/logger"
	postgres_adapter "lbc-crawler-service/internal/adapters/postgres"
	rabbitmq_adapter "lbc-crawler-service/internal/adapters/rabbitmq"
	"lbc-crawler-service/internal/adapters/rest"
	"lbc-crawler-service/internal/adapters/urlquery"
	"lbc-crawler-service/internal/configs"
	"lbc-crawler-service/internal/constants"
	"lbc-crawler-service/internal/contextkeys"
	"lbc-crawler-service/internal/core/domain"
	"lbc-crawler-service/internal/core/port"
	"lbc-crawler-service/internal/core/port/usecases"
	"lbc-crawler-service/internal/core/usecase"
	fluentlogger "lbc-crawler-service/pkg/fluent_logger"
	"lbc-crawler-service/pkg/postgres"
	"lbc-crawler-service/pkg/rabbitmq/rabbitmq_common"
	"lbc-crawler-service/pkg/rabbitmq/rabbitmq_producer"
)

const (
	searchAPIURL = "https://api.leboncoin.fr/finder/search"

	recordsExchangeName = "crawler_exchange"
	recordsRoutingKey   = "crawler.records"
)

// App wires the adapters to the core and owns their lifecycles.
type App struct {
	config        *configs.AppConfig
	dbPool        *pgxpool.Pool
	eventProducer *rabbitmq_producer.Publisher
	fluentClient  *fluent.Fluent
	logger        port.LoggerPort
	baseLogger    port.LoggerPort

	crawlRunUC usecases.CrawlRunPort
	sources    []port.QuerySourcePort
	settings   domain.CrawlSettings
	restServer *rest.Server
}

// NewApp is the composition root: every dependency is created and wired here.
func NewApp() (*App, error) {
	appConfig, err := configs.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("error loading application configuration: %w", err)
	}

	// --- loggers ---
	var activeLoggers []port.LoggerPort

	slogCfg := logger_adapter.SlogConfig{
		Level:    parseLogLevel(appConfig.StdoutLogger.Level),
		IsJSON:   false,
		UseColor: true,
	}
	stdoutLogger := logger_adapter.NewSlogAdapter(slogCfg)
	activeLoggers = append(activeLoggers, stdoutLogger)

	var fluentClient *fluent.Fluent
	if appConfig.FluentBit.Enabled {
		fluentClient, err = fluentlogger.NewClient(fluentlogger.Config{
			Host:      appConfig.FluentBit.Host,
			Port:      appConfig.FluentBit.Port,
			TagPrefix: appConfig.AppName,
		})
		if err != nil {
			stdoutLogger.Error("Failed to create fluentbit client", err, nil)
			return nil, fmt.Errorf("failed to create fluentbit client: %w", err)
		}

		fluentAdapter, err := logger_adapter.NewFluentLoggerAdapter(fluentClient, parseLogLevel(appConfig.FluentBit.Level))
		if err != nil {
			stdoutLogger.Error("Failed to create fluentbit adapter", err, nil)
			fluentClient.Close()
			return nil, err
		}
		activeLoggers = append(activeLoggers, fluentAdapter)
	}

	multiLogger, err := logger_adapter.NewMultiloggerAdapter(activeLoggers...)
	if err != nil {
		return nil, fmt.Errorf("failed to create multi-logger: %w", err)
	}

	baseLogger := multiLogger.WithFields(port.Fields{
		"service_name": appConfig.AppName,
	})

	appLogger := baseLogger.WithFields(port.Fields{"component": "app"})
	appLogger.Info("Logger system initialized", port.Fields{
		"active_loggers": len(activeLoggers), "fluent_enabled": appConfig.FluentBit.Enabled,
	})

	// --- record sink ---
	var (
		sink          port.RecordSinkPort
		dbPool        *pgxpool.Pool
		eventProducer *rabbitmq_producer.Publisher
	)

	switch appConfig.Sink.Kind {
	case "file":
		sink, err = filestorage.NewRecordsFileSinkAdapter(appConfig.Sink.OutputFile)
		if err != nil {
			appLogger.Error("Failed to create file sink", err, nil)
			return nil, fmt.Errorf("failed to create file sink: %w", err)
		}
		appLogger.Info("File sink initialized.", port.Fields{"file": appConfig.Sink.OutputFile})

	case "postgres":
		dbPool, err = postgres.NewClient(context.Background(), postgres.Config{DatabaseURL: appConfig.Sink.DatabaseURL})
		if err != nil {
			appLogger.Error("Failed to connect to PostgreSQL", err, nil)
			return nil, fmt.Errorf("failed to connect to PostgreSQL: %w", err)
		}
		appLogger.Info("Successfully connected to PostgreSQL pool!", nil)

		sink, err = postgres_adapter.NewRecordsPostgresSinkAdapter(dbPool)
		if err != nil {
			dbPool.Close()
			return nil, fmt.Errorf("failed to create postgres sink: %w", err)
		}

	case "rabbitmq":
		producerCfg := rabbitmq_producer.PublisherConfig{
			Config:                   rabbitmq_common.Config{URL: appConfig.Sink.RabbitMQURL},
			ExchangeName:             recordsExchangeName,
			ExchangeType:             "direct",
			DurableExchange:          true,
			DeclareExchangeIfMissing: true,
		}
		eventProducer, err = rabbitmq_producer.NewPublisher(producerCfg)
		if err != nil {
			appLogger.Error("Failed to create record producer", err, nil)
			return nil, fmt.Errorf("failed to create record producer: %w", err)
		}
		appLogger.Info("RabbitMQ record producer initialized.", nil)

		sink, err = rabbitmq_adapter.NewRecordsQueueSinkAdapter(eventProducer, recordsRoutingKey)
		if err != nil {
			eventProducer.Close()
			return nil, fmt.Errorf("failed to create rabbitmq sink: %w", err)
		}
	}

	// --- outgoing adapters ---
	fetcherAdapter, err := lbcfetcher.NewLbcFetcherAdapter(searchAPIURL, appConfig.Crawler.ProxyURL)
	if err != nil {
		appLogger.Error("Failed to create search client adapter", err, nil)
		closeResources(dbPool, eventProducer)
		return nil, fmt.Errorf("failed to initialize search client: %w", err)
	}
	appLogger.Info("Search client adapter initialized.", nil)

	geocoderAdapter, err := geocoder.NewNominatimAdapter()
	if err != nil {
		appLogger.Error("Failed to create geocoder adapter", err, nil)
		closeResources(dbPool, eventProducer)
		return nil, fmt.Errorf("failed to initialize geocoder: %w", err)
	}

	parser := urlquery.NewParser(urlquery.DefaultTables(), geocoderAdapter)
	appLogger.Info("All outgoing adapters initialized.", nil)

	// --- use cases ---
	normalizer := usecase.NewRecordNormalizer(constants.DefaultAttributeDenyList, appConfig.Crawler.OutputFormat, time.Now)
	crawlQueryUC := usecase.NewCrawlQueryUseCase(fetcherAdapter, sink, normalizer, time.Now)
	crawlRunUC := usecase.NewCrawlRunUseCase(crawlQueryUC)
	appLogger.Info("All use cases initialized.", nil)

	settings := domain.CrawlSettings{
		MaxPages:            appConfig.Crawler.MaxPages,
		PageSize:            appConfig.Crawler.PageSize,
		PageDelay:           appConfig.Crawler.PageDelay,
		QueryDelay:          appConfig.Crawler.QueryDelay,
		MaxAgeDays:          appConfig.Crawler.MaxAgeDays,
		ConsecutiveOldLimit: appConfig.Crawler.ConsecutiveOldLimit,
		OutputFormat:        appConfig.Crawler.OutputFormat,
	}

	// structured filters win over URLs when both are configured
	var sources []port.QuerySourcePort
	if len(appConfig.Crawler.SearchFilters) > 0 {
		for i, args := range appConfig.Crawler.SearchFilters {
			label := fmt.Sprintf("filters[%d]", i)
			sources = append(sources, urlquery.NewFilterSource(parser, label, args))
		}
	} else {
		for _, rawURL := range appConfig.Crawler.SearchURLs {
			sources = append(sources, urlquery.NewURLSource(parser, rawURL))
		}
	}

	// --- incoming adapters ---
	var restServer *rest.Server
	if appConfig.HTTP.Port != "" {
		handlers := rest.NewCrawlHandlers(crawlRunUC, parser, settings, baseLogger)
		restServer = rest.NewServer(appConfig.HTTP.Port, handlers, baseLogger)
		appLogger.Info("REST server initialized.", port.Fields{"port": appConfig.HTTP.Port})
	}

	application := &App{
		config:        appConfig,
		dbPool:        dbPool,
		eventProducer: eventProducer,
		fluentClient:  fluentClient,
		logger:        appLogger,
		baseLogger:    baseLogger,
		crawlRunUC:    crawlRunUC,
		sources:       sources,
		settings:      settings,
		restServer:    restServer,
	}

	return application, nil
}

func closeResources(dbPool *pgxpool.Pool, producer *rabbitmq_producer.Publisher) {
	if producer != nil {
		_ = producer.Close()
	}
	if dbPool != nil {
		dbPool.Close()
	}
}

// Run starts the configured surfaces and blocks until shutdown.
func (a *App) Run() error {
	appCtx, cancelApp := context.WithCancel(context.Background())

	var wg sync.WaitGroup

	defer func() {
		a.logger.Info("Shutdown sequence initiated...", nil)

		// the server goroutine only returns once Stop is called
		if a.restServer != nil {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			if err := a.restServer.Stop(shutdownCtx); err != nil {
				a.logger.Error("Error stopping REST server", err, nil)
			}
			cancel()
		}

		a.logger.Info("Waiting for background processes to finish...", nil)
		wg.Wait()
		a.logger.Info("All background processes finished.", nil)
		if a.eventProducer != nil {
			if err := a.eventProducer.Close(); err != nil {
				a.logger.Error("Error closing record producer", err, nil)
			}
		}
		if a.dbPool != nil {
			a.dbPool.Close()
			a.logger.Info("PostgreSQL pool closed.", nil)
		}

		a.logger.Info("Application shut down gracefully.", nil)

		if a.fluentClient != nil {
			a.logger.Info("Closing Fluent Bit connection...", nil)
			if err := a.fluentClient.Close(); err != nil {
				log.Printf("App: Error closing fluent client: %v\n", err)
			}
		}
	}()

	a.logger.Info("Application is starting...", nil)

	serverErrors := make(chan error, 1)
	runDone := make(chan struct{}, 1)

	if a.restServer != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := a.restServer.Start(); err != nil {
				serverErrors <- err
			}
		}()
	}

	if a.config.HTTP.RunOnStart {
		wg.Add(1)
		go func() {
			defer wg.Done()
			runCtx := contextkeys.ContextWithLogger(appCtx, a.baseLogger)
			if _, err := a.crawlRunUC.Execute(runCtx, uuid.New(), a.sources, a.settings); err != nil {
				a.logger.Error("Startup crawl run aborted", err, nil)
			}
			runDone <- struct{}{}
		}()
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	a.logger.Info("Application running. Waiting for signals...", nil)
	select {
	case receivedSignal := <-quit:
		a.logger.Warn("Received signal, shutting down", port.Fields{"signal": receivedSignal.String()})
	case err := <-serverErrors:
		a.logger.Error("A critical component failed, shutting down", err, nil)
	case <-runDone:
		// one-shot mode without an HTTP surface exits once the run finishes
		if a.restServer == nil {
			a.logger.Info("Startup crawl run finished, exiting.", nil)
		} else {
			a.logger.Info("Startup crawl run finished.", nil)
			select {
			case receivedSignal := <-quit:
				a.logger.Warn("Received signal, shutting down", port.Fields{"signal": receivedSignal.String()})
			case err := <-serverErrors:
				a.logger.Error("A critical component failed, shutting down", err, nil)
			}
		}
	}

	cancelApp()

	return nil
}

func parseLogLevel(levelStr string) slog.Level {
	switch strings.ToLower(levelStr) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		log.Printf("Warning: Unknown log level '%s'. Defaulting to 'info'.", levelStr)
		return slog.LevelInfo
	}
}

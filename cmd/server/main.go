package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"telegram-reply-tracker/internal/adapters/notifier"
	"telegram-reply-tracker/internal/cache"
	"telegram-reply-tracker/internal/content"
	"telegram-reply-tracker/internal/core/services"
	applog "telegram-reply-tracker/internal/log"
	"telegram-reply-tracker/internal/metrics"
	"telegram-reply-tracker/internal/pkg/config"
	"telegram-reply-tracker/internal/server"
	"telegram-reply-tracker/internal/server/usecase"
)

func main() {
	if err := run(); err != nil {
		slog.Error("application run failed", "error", err)
		os.Exit(1)
	}
}

// run инкапсулирует всю логику инициализации и запуска приложения.
func run() error {
	configPath := flag.String("config", "", "Path to config.yml")
	flag.Parse()

	// 1. Загрузка конфигурации
	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		// Логгер еще не инициализирован, выводим в stderr
		_, _ = fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// 2. Инициализация логгера
	logger := applog.NewLogger(os.Stdout, cfg.Logging.Level, cfg.Logging.Format)
	slog.SetDefault(logger)

	// 3. Валидация конфигурации (после инициализации логгера)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	// 4. Инициализация зависимостей
	opts := []services.Option{
		services.WithLogger(logger),
		services.WithQuoteLengthMax(cfg.Reply.QuoteLengthMax),
		services.WithSessionCount(cfg.Reply.SessionCount),
		services.WithBot(cfg.Reply.IsBot),
	}

	var metricsHandler http.Handler
	if cfg.Metrics.Enabled {
		registry := prometheus.NewRegistry()
		registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		replyMetrics, err := metrics.NewReplyMetrics(cfg.Metrics.Namespace, registry)
		if err != nil {
			return fmt.Errorf("failed to create metrics: %w", err)
		}
		opts = append(opts, services.WithMetrics(replyMetrics))
		metricsHandler = promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
	}

	if cfg.Events.AMQPURL != "" {
		amqpNotifier, err := notifier.NewAMQPNotifier(cfg.Events.AMQPURL, cfg.Events.Exchange, logger)
		if err != nil {
			return fmt.Errorf("failed to create notifier: %w", err)
		}
		defer amqpNotifier.Close()
		opts = append(opts, services.WithNotifier(amqpNotifier))
		slog.Info("Publishing reply changes", "exchange", cfg.Events.Exchange)
	}

	layer := content.NewLayer(content.WithLogger(logger))
	forwards, err := cache.NewForwardIndex(cfg.Cache.ForwardIndexSize, layer)
	if err != nil {
		return err
	}
	snapshots := cache.NewSnapshotStore(cfg.Cache.SnapshotTTL)
	replySvc := services.NewReplyService(layer, snapshots, forwards, opts...)
	processor := usecase.NewProcessReplyUseCase(replySvc)

	appCtx, appCancel := context.WithCancel(context.Background())
	defer appCancel()
	replySvc.StartCleanup(appCtx, cfg.Cache.CleanupInterval)

	// 5. Создание HTTP-сервера
	srv, err := server.New(cfg, processor, metricsHandler, logger)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	// 6. Запуск сервера и graceful shutdown
	serverDone := make(chan struct{})
	go func() {
		defer close(serverDone)
		slog.Info("Starting server", "addr", cfg.Address())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("Server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("Signal received, shutting down...")

	// Сначала останавливаем фоновую очистку
	appCancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
	}

	<-serverDone
	slog.Info("Application exited gracefully")
	return nil
}

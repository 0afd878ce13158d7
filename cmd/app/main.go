package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/clinicdesk/schedule-aggregator/internal/adapters/in/http"
	"github.com/clinicdesk/schedule-aggregator/internal/adapters/in/rabbitmq"
	"github.com/clinicdesk/schedule-aggregator/internal/adapters/out/cache"
	"github.com/clinicdesk/schedule-aggregator/internal/adapters/out/ehr"
	"github.com/clinicdesk/schedule-aggregator/internal/adapters/out/logger"
	"github.com/clinicdesk/schedule-aggregator/internal/config"
	"github.com/clinicdesk/schedule-aggregator/internal/core/ports/out"
	"github.com/clinicdesk/schedule-aggregator/internal/core/services"
	"github.com/gin-gonic/gin"
)

func main() {
	// Загрузка конфигурации
	cfg, err := config.NewConfig()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Инициализация логгера с таймзоной
	mainLogger, err := logger.NewConsoleLogger(cfg.App.Timezone)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	logger := mainLogger.WithModule("Main")

	logger.Info("app.starting", out.LogFields{
		"version":         cfg.App.Version,
		"env":             cfg.App.Env,
		"timezone":        cfg.App.Timezone,
		"rabbitmqEnabled": cfg.RabbitMq.Enabled,
		"cacheEnabled":    cfg.Cache.Enabled,
	})

	// Настройка Gin в зависимости от окружения
	if cfg.IsNotLocal() {
		gin.SetMode(gin.ReleaseMode)
	}

	// Инициализация адаптеров
	ehrAdapter := ehr.NewEhrAdapter(cfg, logger.WithModule("EhrAdapter"))

	var cacheAdapter out.CachePort
	if cfg.Cache.Enabled {
		adapter, err := cache.NewCacheAdapter(cfg, logger.WithModule("CacheAdapter"))
		if err != nil {
			logger.Error("app.cache.init_failed", out.LogFields{
				"error": err.Error(),
			})
			os.Exit(1)
		}
		cacheAdapter = adapter
	}

	// Инициализация сервиса
	aggregatorService := services.NewScheduleAggregatorService(
		ehrAdapter,
		cacheAdapter,
		cfg,
		logger.WithModule("ScheduleAggregatorService"),
	)

	// Настройка HTTP сервера
	router := gin.Default()
	controller := http.NewScheduleReportController(aggregatorService, cfg)
	controller.RegisterRoutes(router)

	// Настройка RabbitMQ слушателя только если он включен
	if cfg.RabbitMq.Enabled {
		listener, err := rabbitmq.NewAppointmentEventListener(
			aggregatorService,
			cfg,
			logger.WithModule("RabbitMQListener"),
		)
		if err != nil {
			logger.Error("app.rabbitmq.init_failed", out.LogFields{
				"error": err.Error(),
			})
			os.Exit(1)
		}

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		if err := listener.Start(ctx); err != nil {
			logger.Error("app.rabbitmq.start_failed", out.LogFields{
				"error": err.Error(),
			})
			os.Exit(1)
		}

		defer func() {
			if err := listener.Stop(); err != nil {
				logger.Error("app.rabbitmq.stop_failed", out.LogFields{
					"error": err.Error(),
				})
			}
		}()
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		logger.Info("app.http.starting", out.LogFields{
			"host": cfg.HTTP.Host,
			"port": cfg.HTTP.Port,
		})

		if err := router.Run(cfg.HTTP.Host + ":" + cfg.HTTP.Port); err != nil {
			logger.Error("app.http.failed", out.LogFields{
				"error": err.Error(),
			})
			sigChan <- syscall.SIGTERM
		}
	}()

	sig := <-sigChan
	logger.Info("app.shutdown.initiated", out.LogFields{
		"signal": sig.String(),
	})

	// Дополнительное логирование для разработки
	if cfg.IsLocal() {
		logger.Debug("app.config.debug", out.LogFields{
			"config": map[string]interface{}{
				"http": map[string]string{
					"host": cfg.HTTP.Host,
					"port": cfg.HTTP.Port,
				},
				"ehr": map[string]string{
					"url":      cfg.Ehr.URL,
					"username": cfg.Ehr.Username,
				},
				"rabbitmq": map[string]interface{}{
					"enabled": cfg.RabbitMq.Enabled,
					"queue":   cfg.RabbitMq.QueueConfig.AppointmentQueueName,
				},
				"cache": map[string]interface{}{
					"enabled":      cfg.Cache.Enabled,
					"reports_size": cfg.Cache.ReportsSize,
				},
				"calendar": map[string]interface{}{
					"week_start": cfg.Calendar.WeekStart,
					"labels":     cfg.Calendar.WeekdayLabels,
					"hours":      []int{cfg.Calendar.HourMin, cfg.Calendar.HourMax},
				},
			},
		})
	}
}

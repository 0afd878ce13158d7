package config

import (
	"strings"
	"time"

	"github.com/caarlos0/env/v6"
)

type Environment string

const (
	EnvLocal      Environment = "local"
	EnvDev        Environment = "dev"
	EnvStage      Environment = "stage"
	EnvProduction Environment = "production"
)

// TimeZone — таймзона приложения, устанавливается при загрузке конфигурации
var TimeZone = time.UTC

type ConfigBasicClient struct {
	Username string
	Password string
}

type Config struct {
	App struct {
		Version  string      `env:"APP_VERSION" envDefault:"local"`
		Env      Environment `env:"APP_ENV" envDefault:"local"`
		Timezone string      `env:"APP_TIMEZONE" envDefault:"Europe/Paris"`
	}

	HTTP struct {
		Port string `env:"HTTP_SERVER_PORT" envDefault:"8080"`
		Host string `env:"HTTP_SERVER_HOST" envDefault:"localhost"`
	}

	Ehr struct {
		URL      string `env:"EHR_URL"`
		Username string `env:"EHR_USERNAME"`
		Password string `env:"EHR_PASSWORD"`
	}

	Auth struct {
		BasicClientsString string `env:"AUTH_BASIC_CLIENTS" envDefault:"schedule_aggregator:schedule_aggregator"`
		BasicClients       []ConfigBasicClient
	}

	RabbitMq struct {
		Enabled bool   `env:"RABBITMQ_ENABLED"`
		AmqpUri string `env:"RABBITMQ_URI"`

		QueueConfig struct {
			AppointmentQueueName     string `env:"RABBITMQ_APPOINTMENT_QUEUE" envDefault:"schedule_aggregator.appointment"`
			AppointmentQueueBind     string `env:"RABBITMQ_APPOINTMENT_QUEUE_BIND" envDefault:"appointment.*"`
			AppointmentQueueExchange string `env:"RABBITMQ_APPOINTMENT_QUEUE_EXCHANGE" envDefault:"clinic.events"`
		}
	}

	Cache struct {
		Enabled         bool `env:"CACHE_ENABLED"`
		ReportsSize     int  `env:"CACHE_REPORTS_SIZE" envDefault:"1000"`
		RulesSize       int  `env:"CACHE_RULES_SIZE" envDefault:"256"`
		RulesTtlMinutes int  `env:"CACHE_RULES_TTL_MINUTES" envDefault:"30"`
	}

	Calendar struct {
		WeekStart           string `env:"CALENDAR_WEEK_START" envDefault:"monday"`
		WeekdayLabelsString string `env:"CALENDAR_WEEKDAY_LABELS" envDefault:"lundi,mardi,mercredi,jeudi,vendredi,samedi,dimanche"`
		WeekdayLabels       []string
		HourMin             int `env:"CALENDAR_HOUR_MIN" envDefault:"8"`
		HourMax             int `env:"CALENDAR_HOUR_MAX" envDefault:"19"`
		SlotMinutes         int `env:"CALENDAR_SLOT_MINUTES" envDefault:"30"`
	}
}

func NewConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	// Приведение окружения к нижнему регистру для унификации
	cfg.App.Env = Environment(strings.ToLower(string(cfg.App.Env)))

	// Загружаем таймзону приложения, при ошибке остаемся на UTC
	if loc, err := time.LoadLocation(cfg.App.Timezone); err == nil {
		TimeZone = loc
	}

	// Разбор клиентов basic-авторизации
	if cfg.Auth.BasicClients == nil {
		cfg.Auth.BasicClients = []ConfigBasicClient{}
	}
	clientPairs := strings.Split(cfg.Auth.BasicClientsString, ",")
	for _, pair := range clientPairs {
		parts := strings.Split(pair, ":")
		if len(parts) == 2 {
			cfg.Auth.BasicClients = append(cfg.Auth.BasicClients, ConfigBasicClient{
				Username: parts[0],
				Password: parts[1],
			})
		}
	}

	// Разбор подписей дней недели
	cfg.Calendar.WeekdayLabels = []string{}
	for _, label := range strings.Split(cfg.Calendar.WeekdayLabelsString, ",") {
		label = strings.TrimSpace(label)
		if label != "" {
			cfg.Calendar.WeekdayLabels = append(cfg.Calendar.WeekdayLabels, label)
		}
	}

	// Без RabbitMQ кэш не инвалидируется, поэтому не включаем его
	if !cfg.RabbitMq.Enabled {
		cfg.Cache.Enabled = false
	}

	return cfg, nil
}

func (c *Config) IsLocal() bool {
	return c.App.Env == EnvLocal
}

func (c *Config) IsNotLocal() bool {
	return c.App.Env == EnvDev || c.App.Env == EnvStage || c.App.Env == EnvProduction
}

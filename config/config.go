package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config содержит параметры приложения: настройки Telegram-бота,
// адрес REST-бэкенда квизов и параметры самого квиза. Базовые значения
// читаются из YAML-файла, переменные окружения имеют приоритет.
type Config struct {
	Telegram struct {
		Token        string        `yaml:"token"`         // токен бота, обязательный параметр
		Mode         string        `yaml:"mode"`          // "polling" или "webhook"
		WebhookURL   string        `yaml:"webhook_url"`   // публичный URL (режим webhook)
		ListenAddr   string        `yaml:"listen_addr"`   // адрес вебхук-сервера
		PollSeconds  int           `yaml:"poll_interval"` // интервал лонгпуллинга, сек
		PollInterval time.Duration `yaml:"-"`
	} `yaml:"telegram"`

	API struct {
		BaseURL        string        `yaml:"base_url"` // базовый URL бэкенда, например http://localhost:5000/api
		TimeoutSeconds int           `yaml:"timeout"`  // таймаут HTTP-запросов, сек
		Timeout        time.Duration `yaml:"-"`
	} `yaml:"api"`

	Quiz struct {
		MaxQuestions int `yaml:"max_questions"` // верхняя граница размера квиза
	} `yaml:"quiz"`

	Debug bool `yaml:"debug"`
}

// LoadConfig загружает конфигурацию: сначала YAML-файл (если указан и
// существует), затем .env и переменные окружения поверх него.
func LoadConfig(path string) (*Config, error) {
	cfg := &Config{}
	cfg.Telegram.Mode = "polling"
	cfg.Telegram.ListenAddr = ":8443"
	cfg.Telegram.PollSeconds = 2
	cfg.API.BaseURL = "http://localhost:5000/api"
	cfg.API.TimeoutSeconds = 15
	cfg.Quiz.MaxQuestions = 10

	if path != "" {
		if f, err := os.Open(path); err == nil {
			err = yaml.NewDecoder(f).Decode(cfg)
			f.Close()
			if err != nil {
				return nil, fmt.Errorf("config: decode %s: %w", path, err)
			}
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("config: open %s: %w", path, err)
		}
	}

	// Загружаем .env, если он есть; затем применяем окружение.
	_ = godotenv.Load()
	applyEnv(cfg)

	if cfg.Telegram.Token == "" {
		return nil, fmt.Errorf("config: переменная TELEGRAM_BOT_TOKEN не задана")
	}
	if cfg.Telegram.Mode == "webhook" && cfg.Telegram.WebhookURL == "" {
		return nil, fmt.Errorf("config: в режиме webhook должен быть задан WEBHOOK_URL")
	}

	cfg.Telegram.PollInterval = time.Duration(cfg.Telegram.PollSeconds) * time.Second
	cfg.API.Timeout = time.Duration(cfg.API.TimeoutSeconds) * time.Second
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Telegram.Token = v
	}
	if v := os.Getenv("BOT_MODE"); v != "" {
		cfg.Telegram.Mode = v
	}
	if v := os.Getenv("WEBHOOK_URL"); v != "" {
		cfg.Telegram.WebhookURL = v
	}
	if v := os.Getenv("LISTEN_ADDR"); v != "" {
		cfg.Telegram.ListenAddr = v
	}
	if v := os.Getenv("POLL_INTERVAL"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Telegram.PollSeconds = n
		}
	}
	if v := os.Getenv("API_BASE_URL"); v != "" {
		cfg.API.BaseURL = v
	}
	if v := os.Getenv("API_TIMEOUT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.API.TimeoutSeconds = n
		}
	}
	if v := os.Getenv("QUIZ_MAX_QUESTIONS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Quiz.MaxQuestions = n
		}
	}
	if v := os.Getenv("DEBUG"); v == "true" || v == "1" {
		cfg.Debug = true
	}
}

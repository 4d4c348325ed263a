package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadConfigFromYAML(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "")
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	data := []byte(`
telegram:
  token: yaml-token
  mode: webhook
  webhook_url: https://example.com/bot
  listen_addr: ":9000"
api:
  base_url: http://backend:5000/api
  timeout: 30
quiz:
  max_questions: 5
`)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("неожиданная ошибка: %v", err)
	}
	if cfg.Telegram.Token != "yaml-token" || cfg.Telegram.Mode != "webhook" {
		t.Errorf("телеграм-секция разобрана неверно: %+v", cfg.Telegram)
	}
	if cfg.API.BaseURL != "http://backend:5000/api" || cfg.API.Timeout != 30*time.Second {
		t.Errorf("api-секция разобрана неверно: %+v", cfg.API)
	}
	if cfg.Quiz.MaxQuestions != 5 {
		t.Errorf("ожидался лимит 5, получен %d", cfg.Quiz.MaxQuestions)
	}
}

func TestEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("telegram:\n  token: from-file\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	t.Setenv("TELEGRAM_BOT_TOKEN", "from-env")
	t.Setenv("API_BASE_URL", "http://override:5000/api")
	t.Setenv("QUIZ_MAX_QUESTIONS", "3")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("неожиданная ошибка: %v", err)
	}
	if cfg.Telegram.Token != "from-env" {
		t.Errorf("окружение должно быть сильнее файла, получен %q", cfg.Telegram.Token)
	}
	if cfg.API.BaseURL != "http://override:5000/api" {
		t.Errorf("базовый URL не переопределён: %q", cfg.API.BaseURL)
	}
	if cfg.Quiz.MaxQuestions != 3 {
		t.Errorf("лимит не переопределён: %d", cfg.Quiz.MaxQuestions)
	}
}

func TestMissingTokenFails(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "")
	if _, err := LoadConfig(""); err == nil {
		t.Fatal("без токена конфигурация должна отклоняться")
	}
}

func TestWebhookModeRequiresURL(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "tok")
	t.Setenv("BOT_MODE", "webhook")
	t.Setenv("WEBHOOK_URL", "")
	if _, err := LoadConfig(""); err == nil {
		t.Fatal("режим webhook без URL должен отклоняться")
	}
}

func TestDefaults(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "tok")
	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("неожиданная ошибка: %v", err)
	}
	if cfg.Telegram.Mode != "polling" || cfg.Telegram.PollInterval != 2*time.Second {
		t.Errorf("режим по умолчанию искажён: %+v", cfg.Telegram)
	}
	if cfg.Quiz.MaxQuestions != 10 {
		t.Errorf("лимит по умолчанию искажён: %d", cfg.Quiz.MaxQuestions)
	}
	if cfg.API.Timeout != 15*time.Second {
		t.Errorf("таймаут по умолчанию искажён: %v", cfg.API.Timeout)
	}
}

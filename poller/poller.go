package poller

import (
	"log"

	tele "gopkg.in/telebot.v4"

	"github.com/IT-Nick/studybot/config"
)

// NewPoller создаёт Poller в зависимости от режима из конфигурации.
func NewPoller(cfg *config.Config) tele.Poller {
	if cfg.Telegram.Mode == "webhook" {
		if cfg.Telegram.WebhookURL == "" {
			log.Fatalf("В режиме webhook переменная WEBHOOK_URL должна быть задана")
		}
		return &tele.Webhook{
			Listen: cfg.Telegram.ListenAddr,
			Endpoint: &tele.WebhookEndpoint{
				PublicURL: cfg.Telegram.WebhookURL,
			},
		}
	}
	return &tele.LongPoller{Timeout: cfg.Telegram.PollInterval}
}

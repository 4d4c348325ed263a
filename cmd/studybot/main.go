package main

import (
	"log"
	"os"
	"time"

	tele "gopkg.in/telebot.v4"

	"github.com/IT-Nick/studybot/api"
	"github.com/IT-Nick/studybot/auth"
	"github.com/IT-Nick/studybot/config"
	"github.com/IT-Nick/studybot/database"
	"github.com/IT-Nick/studybot/handlers"
	"github.com/IT-Nick/studybot/helpers"
	"github.com/IT-Nick/studybot/middleware"
	"github.com/IT-Nick/studybot/poller"
	"github.com/IT-Nick/studybot/wizard"
)

func main() {
	logger := log.New(os.Stdout, "[bot] ", log.LstdFlags)

	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		path = "configs/config.yaml"
	}
	cfg, err := config.LoadConfig(path)
	if err != nil {
		logger.Fatalf("Ошибка загрузки конфигурации: %v", err)
	}

	client := api.NewClient(cfg.API.BaseURL, cfg.API.Timeout)
	store := database.NewMemoryStore()
	authm := auth.NewManager(client, store)
	machine := wizard.NewMachine(cfg.Quiz.MaxQuestions)
	pacer := helpers.NewPacer(700 * time.Millisecond)

	bot, err := tele.NewBot(tele.Settings{
		Token:  cfg.Telegram.Token,
		Poller: poller.NewPoller(cfg),
		OnError: func(err error, c tele.Context) {
			logger.Printf("Ошибка обработчика: %v", err)
		},
	})
	if err != nil {
		logger.Fatalf("Ошибка создания бота: %v", err)
	}

	bot.Use(middleware.Recover())
	bot.Use(middleware.AutoRespond())
	if cfg.Debug {
		bot.Use(middleware.Logger(logger))
		bot.Use(middleware.DebugUserActions(true, store))
	}

	handlers.RegisterHandlers(bot, store, client, authm, machine, pacer)

	logger.Printf("Бот запущен в режиме %s, бэкенд: %s", cfg.Telegram.Mode, cfg.API.BaseURL)
	bot.Start()
}

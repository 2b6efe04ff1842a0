package main

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"birthday_reminder_bot/internal/app"
	"birthday_reminder_bot/internal/infra/config"
	idb "birthday_reminder_bot/internal/infra/database"
	"birthday_reminder_bot/internal/infra/logger"
	"birthday_reminder_bot/internal/infra/scheduler"
	"birthday_reminder_bot/internal/infra/statefile"
	itg "birthday_reminder_bot/internal/infra/telegram"

	"gopkg.in/telebot.v3"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Log.Fatalf("FATAL: Could not load application configuration: %v", err)
	}

	logger.Init(cfg)
	log := logger.Get()
	log.Infof("Configuration loaded. LogLevel: %s, Environment: %s, Timezone: %s, Trigger: %02d:%02d",
		cfg.LogLevel, cfg.Environment, cfg.Timezone, cfg.TriggerHour, cfg.TriggerMinute)

	location, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		log.Fatalf("FATAL: Unknown timezone %q: %v", cfg.Timezone, err)
	}

	// Initialize Database Connection
	db, err := idb.NewPostgresConnection(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("FATAL: Could not connect to database: %v", err)
	}
	defer db.Close()
	log.Info("Database connection established successfully.")

	// Initialize Repositories and State Store
	birthdayRepo := idb.NewPostgresBirthdayRepository(db)
	log.Info("Birthday repository initialized.")
	stateStore := statefile.NewStore(cfg.StateFilePath, location)
	log.Infof("Run-state store initialized at %s.", cfg.StateFilePath)

	// Initialize Telegram Bot
	pref := telebot.Settings{
		Token:  cfg.TelegramToken,
		Poller: &telebot.LongPoller{Timeout: 10 * time.Second},
		OnError: func(err error, c telebot.Context) { // Global error handler
			log.Errorf("telebot: %v", err)
			if c != nil && c.Sender() != nil && c.Chat() != nil {
				log.Errorf("telebot context: Message: %s, Sender: %d, Chat: %d", c.Text(), c.Sender().ID, c.Chat().ID)
			}
		},
	}
	bot, err := telebot.NewBot(pref)
	if err != nil {
		log.Fatalf("FATAL: Could not create Telegram bot: %v", err)
	}
	telegramClient := itg.NewTelebotAdapter(bot)

	// Initialize EvaluationService
	evalService := app.NewEvaluationServiceImpl(
		birthdayRepo,
		stateStore,
		telegramClient,
		log,
		cfg.DefaultNoticeDays,
		location,
	)
	log.Info("Evaluation service initialized.")

	// Initialize and start the daily trigger (includes startup catch-up)
	trigger := scheduler.NewDailyTrigger(evalService, log, location, cfg.TriggerHour, cfg.TriggerMinute)
	if err := trigger.Start(); err != nil {
		log.Fatalf("FATAL: Could not start daily trigger: %v", err)
	}

	log.Info("Application setup complete. Bot and trigger are starting...")

	// Start bot in a goroutine so it doesn't block graceful shutdown handling
	go bot.Start()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit // Block until a signal is received

	log.Info("Shutting down application...")
	trigger.Stop() // Waits for a pass in flight; the state file stays consistent
	log.Info("Application shut down gracefully.")
}

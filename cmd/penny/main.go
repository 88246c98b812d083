package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/jthorne/penny/internal/config"
	"github.com/jthorne/penny/internal/database"
	"github.com/jthorne/penny/internal/email"
	"github.com/jthorne/penny/internal/logging"
	"github.com/jthorne/penny/internal/push"
	"github.com/jthorne/penny/internal/recurring"
	"github.com/jthorne/penny/internal/reminder"
	"github.com/jthorne/penny/internal/store"
)

func main() {
	// A missing .env is fine; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString("config error: " + err.Error() + "\n")
		os.Exit(2)
	}

	logger := logging.Setup(cfg.LogLevel, cfg.LogFormat)

	db, err := database.Open(cfg.DBPath)
	if err != nil {
		logger.Error("open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	userStore := store.NewUserStore(db)
	expenseStore := store.NewExpenseStore(db)
	recurringStore := store.NewRecurringStore(db)
	settingStore := store.NewSettingStore(db)
	tokenStore := store.NewTokenStore(db)
	logStore := store.NewReminderLogStore(db)

	pushCfg := push.Config{
		VAPIDPublicKey:  cfg.VAPIDPublicKey,
		VAPIDPrivateKey: cfg.VAPIDPrivateKey,
		Subscriber:      cfg.PushSubscriber,
	}
	if pushCfg.VAPIDPublicKey == "" || pushCfg.VAPIDPrivateKey == "" {
		pub, priv, err := push.GenerateVAPIDKeys()
		if err != nil {
			logger.Error("generate VAPID keys", "error", err)
			os.Exit(1)
		}
		pushCfg.VAPIDPublicKey = pub
		pushCfg.VAPIDPrivateKey = priv
		logger.Warn("using ephemeral VAPID keys; existing push subscriptions will stop working on restart")
	}
	pushService := push.NewService(pushCfg)
	emailClient := email.NewClient(cfg.PostmarkToken, cfg.EmailFrom)
	if !emailClient.Configured() {
		logger.Warn("email not configured; reminder fallback emails will fail")
	}

	scheduler := reminder.NewScheduler(settingStore, logger.With("component", "scheduler"))
	orchestrator := reminder.NewOrchestrator(
		tokenStore, expenseStore, logStore, userStore,
		pushService, emailClient, scheduler,
		reminder.OrchestratorConfig{
			FrontendURL:   cfg.FrontendURL,
			FollowUpDelay: cfg.FollowUpDelay,
		},
		logger.With("component", "reminder"),
	)
	scheduler.SetHandler(orchestrator)

	if err := scheduler.LoadAll(); err != nil {
		logger.Error("load reminder triggers", "error", err)
		os.Exit(1)
	}

	engine := recurring.NewEngine(recurringStore, logger.With("component", "recurring"))
	sweeper := recurring.NewSweeper(engine, recurringStore, cfg.SweepInterval, logger.With("component", "recurring"))
	sweeper.Start(context.Background())

	logger.Info("penny running", "db", cfg.DBPath)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	sweeper.Stop()
	scheduler.Stop()
}

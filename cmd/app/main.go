package main

import (
	"os"
	"os/signal"
	"syscall"

	"craftgate/internal/application"
	"craftgate/internal/console"
	"craftgate/internal/delivery/telegram"
	"craftgate/internal/gameserver"
	"craftgate/internal/repository"
	"craftgate/pkg/config"
	"craftgate/pkg/logger"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
)

func main() {
	envFile := pflag.String("env-file", ".env", "path to the .env file")
	pflag.Parse()

	_ = godotenv.Load(*envFile)

	cfg := config.Config{}
	if err := config.ReadEnvConfig(&cfg); err != nil {
		panic(err)
	}

	log := logger.NewLogger(&logger.Config{Level: cfg.LogLevel})

	repos, err := repository.NewRepository(cfg.LinksFile, cfg.UsersFile)
	if err != nil {
		log.Warn("starting with empty state: %s", err.Error())
	}

	rconClient := console.NewClient(cfg.Rcon.Address(), cfg.Rcon.Password, cfg.Rcon.Timeout())
	control := gameserver.NewController(cfg.StartScript, cfg.StartStdoutLog, cfg.StartStderrLog)

	policy := application.NewCommandPolicy(cfg.CommandsFile)
	if err := policy.Reload(); err != nil {
		log.Warn("command list load: %s", err.Error())
	}
	gate := application.NewAdminGate(cfg.AdminIDs, cfg.AllowedChatIDs)
	limiter := application.NewRateLimiter(cfg.RateLimit())

	services := application.NewService(repos, rconClient, control, policy, gate, application.Options{
		TriggerObjective: cfg.TriggerObjective,
		LinkCodeTTL:      cfg.LinkCodeTTL(),
		RestartDelay:     cfg.RestartDelay(),
	}, log)

	bot, err := telegram.NewBot(cfg.TelegramToken, services, gate, limiter, repos.Users, log)
	if err != nil {
		log.Error("failed to init bot: %s", err.Error())
		return
	}
	services.Session.SetNotifier(bot.SendText)

	go bot.Start()
	log.Info("Bot started. objective=%s admins=%d", cfg.TriggerObjective, len(cfg.AdminIDs))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)
	<-quit

	bot.Stop()
	log.Info("Bot stopped")
}

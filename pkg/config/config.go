package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

type RconConfig struct {
	Host           string `env:"MC_RCON_HOST" envDefault:"127.0.0.1"`
	Port           int    `env:"MC_RCON_PORT" envDefault:"25575"`
	Password       string `env:"MC_RCON_PASSWORD" envDefault:""`
	TimeoutSeconds int    `env:"MC_RCON_TIMEOUT_SECONDS" envDefault:"5"`
}

func (r *RconConfig) Address() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

func (r *RconConfig) Timeout() time.Duration {
	return time.Duration(r.TimeoutSeconds) * time.Second
}

type Config struct {
	Rcon RconConfig

	TelegramToken  string  `env:"TG_BOT_TOKEN" envDefault:""`
	AdminIDs       []int64 `env:"TG_ADMIN_IDS" envSeparator:"," envDefault:""`
	AllowedChatIDs []int64 `env:"TG_ALLOWED_CHAT_IDS" envSeparator:"," envDefault:""`
	LogLevel       string  `env:"LOGGER_LEVEL" envDefault:"info"`

	RateLimitSeconds    float64 `env:"TG_RATE_LIMIT_SECONDS" envDefault:"1.5"`
	LinkCodeTTLSeconds  int     `env:"LINK_CODE_TTL" envDefault:"300"`
	TriggerObjective    string  `env:"TG_TRIGGER_OBJECTIVE" envDefault:"tgauth"`
	RestartDelaySeconds int     `env:"MC_RESTART_DELAY_SECONDS" envDefault:"10"`

	StartScript    string `env:"MC_START_SCRIPT" envDefault:"./start.sh"`
	StartStdoutLog string `env:"MC_START_STDOUT_LOG" envDefault:"./start_stdout.log"`
	StartStderrLog string `env:"MC_START_STDERR_LOG" envDefault:"./start_stderr.log"`

	CommandsFile string `env:"BOT_COMMANDS_FILE" envDefault:"./commands.yaml"`
	LinksFile    string `env:"LINKS_DB_FILE" envDefault:"./links.json"`
	UsersFile    string `env:"TG_USERS_DB_FILE" envDefault:"./tg_users.json"`
}

func (c *Config) RateLimit() time.Duration {
	return time.Duration(c.RateLimitSeconds * float64(time.Second))
}

func (c *Config) LinkCodeTTL() time.Duration {
	return time.Duration(c.LinkCodeTTLSeconds) * time.Second
}

func (c *Config) RestartDelay() time.Duration {
	return time.Duration(c.RestartDelaySeconds) * time.Second
}

func ReadEnvConfig(cfg *Config) error {
	if err := env.Parse(cfg); err != nil {
		return err
	}
	return cfg.validate()
}

// validate refuses to start half-configured: without the bot token or the
// RCON password the process could neither receive commands nor act on them.
func (c *Config) validate() error {
	if c.TelegramToken == "" {
		return errors.New("TG_BOT_TOKEN is empty")
	}
	if c.Rcon.Password == "" {
		return errors.New("MC_RCON_PASSWORD is empty")
	}
	return nil
}

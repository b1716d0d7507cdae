package tombola

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/disgoorg/snowflake/v2"
	"github.com/ellavondegurechaff/tombola/tombola/config"
	"github.com/ellavondegurechaff/tombola/tombola/database"
	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
)

// Environment variables that override secrets from the config file.
const (
	EnvToken         = "TOMBOLA_TOKEN"
	EnvDBPassword    = "TOMBOLA_DB_PASSWORD"
	EnvSpacesSecret  = "TOMBOLA_SPACES_SECRET"
	EnvSpacesKey     = "TOMBOLA_SPACES_KEY"
	minimumRetention = time.Hour
)

func LoadConfig(path string) (*Config, error) {
	// .env is optional
	_ = godotenv.Load()

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config: %w", err)
	}
	defer file.Close()

	var cfg Config
	if err = toml.NewDecoder(file).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	cfg.applyEnv()
	cfg.applyDefaults()
	if err = cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type Config struct {
	Log       LogConfig         `toml:"log"`
	Bot       BotConfig         `toml:"bot"`
	DB        database.DBConfig `toml:"db"`
	Giveaway  GiveawayConfig    `toml:"giveaway"`
	Starboard StarboardConfig   `toml:"starboard"`
	Stats     StatsConfig       `toml:"stats"`
	Spaces    SpacesConfig      `toml:"spaces"`
}

type BotConfig struct {
	DevGuilds []snowflake.ID `toml:"dev_guilds"`
	Token     string         `toml:"token"`
}

type LogConfig struct {
	Level slog.Level `toml:"level"`
}

type GiveawayConfig struct {
	PollInterval Duration `toml:"poll_interval"`
	Retention    Duration `toml:"retention"`
	MaxActive    int      `toml:"max_active"`
}

type StarboardConfig struct {
	ThrottleWindow Duration `toml:"throttle_window"`
	LockIdleTTL    Duration `toml:"lock_idle_ttl"`
}

type StatsConfig struct {
	FlushInterval Duration `toml:"flush_interval"`
	XPPerMessage  int      `toml:"xp_per_message"`
	XPCooldown    Duration `toml:"xp_cooldown"`
}

// SpacesConfig points at an S3 compatible bucket used to mirror starboard
// attachments that exceed the guild upload limit. Empty Bucket disables it.
type SpacesConfig struct {
	Key      string `toml:"key"`
	Secret   string `toml:"secret"`
	Region   string `toml:"region"`
	Endpoint string `toml:"endpoint"`
	Bucket   string `toml:"bucket"`
	Root     string `toml:"root"`
}

func (s SpacesConfig) Enabled() bool {
	return s.Bucket != "" && s.Key != "" && s.Secret != ""
}

// Duration decodes TOML strings such as "15s" or "120h".
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", string(text), err)
	}
	d.Duration = parsed
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv(EnvToken); v != "" {
		c.Bot.Token = v
	}
	if v := os.Getenv(EnvDBPassword); v != "" {
		c.DB.Password = v
	}
	if v := os.Getenv(EnvSpacesKey); v != "" {
		c.Spaces.Key = v
	}
	if v := os.Getenv(EnvSpacesSecret); v != "" {
		c.Spaces.Secret = v
	}
}

func (c *Config) applyDefaults() {
	if c.Giveaway.PollInterval.Duration == 0 {
		c.Giveaway.PollInterval.Duration = config.DefaultPollInterval
	}
	if c.Giveaway.Retention.Duration == 0 {
		c.Giveaway.Retention.Duration = config.DefaultRetention
	}
	if c.Giveaway.MaxActive == 0 {
		c.Giveaway.MaxActive = config.DefaultMaxActive
	}
	if c.Starboard.ThrottleWindow.Duration == 0 {
		c.Starboard.ThrottleWindow.Duration = config.DefaultThrottleWindow
	}
	if c.Starboard.LockIdleTTL.Duration == 0 {
		c.Starboard.LockIdleTTL.Duration = config.DefaultLockIdleTTL
	}
	if c.Stats.FlushInterval.Duration == 0 {
		c.Stats.FlushInterval.Duration = config.DefaultFlushInterval
	}
	if c.Stats.XPPerMessage == 0 {
		c.Stats.XPPerMessage = config.DefaultXPPerMessage
	}
	if c.Stats.XPCooldown.Duration == 0 {
		c.Stats.XPCooldown.Duration = config.DefaultXPCooldown
	}
}

// Validate reports configuration that the bot cannot run with.
func (c *Config) Validate() error {
	var errs []error
	if c.Bot.Token == "" {
		errs = append(errs, fmt.Errorf("bot.token is required (or set %s)", EnvToken))
	}
	if c.Giveaway.PollInterval.Duration <= 0 {
		errs = append(errs, errors.New("giveaway.poll_interval must be positive"))
	}
	if c.Giveaway.Retention.Duration < minimumRetention {
		errs = append(errs, fmt.Errorf("giveaway.retention must be at least %s", minimumRetention))
	}
	if c.Giveaway.MaxActive < 0 {
		errs = append(errs, errors.New("giveaway.max_active must not be negative"))
	}
	if c.Starboard.ThrottleWindow.Duration < 0 {
		errs = append(errs, errors.New("starboard.throttle_window must not be negative"))
	}
	return errors.Join(errs...)
}

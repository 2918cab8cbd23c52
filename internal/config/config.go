package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/dkeye/CodeRoom/internal/domain"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

type Executor struct {
	URL     string        `mapstructure:"url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type Config struct {
	Mode           string        `mapstructure:"mode"`
	Port           int           `mapstructure:"port"`
	LogLevel       string        `mapstructure:"log_level"`
	AllowedOrigins []string      `mapstructure:"allowed_origins"`
	ReadLimit      int64         `mapstructure:"read_limit"`
	PingPeriod     time.Duration `mapstructure:"ping_period"`
	SendBuffer     int           `mapstructure:"send_buffer"`
	Presence       string        `mapstructure:"presence"`
	Backpressure   string        `mapstructure:"backpressure"`
	RoomClaimTTL   time.Duration `mapstructure:"room_claim_ttl"`
	Secret         string        `mapstructure:"secret"`
	Executor       Executor      `mapstructure:"executor"`
}

func Load() (*Config, error) {
	// .env is optional; real environment variables win.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Warn().Err(err).Str("module", "config").Msg("failed to read .env")
	}

	v := viper.New()
	v.SetConfigType("yaml")

	env := os.Getenv("CONFIG_ENV")
	if env == "" {
		env = "dev"
	}
	fileName := fmt.Sprintf("config/config.%s.yaml", env)

	v.SetConfigFile(fileName)
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	v.SetDefault("mode", "release")
	v.SetDefault("port", 5000)
	v.SetDefault("log_level", "info")
	v.SetDefault("allowed_origins", []string{"*"})
	v.SetDefault("read_limit", 1<<20)
	v.SetDefault("ping_period", "54s")
	v.SetDefault("send_buffer", 64)
	v.SetDefault("presence", string(domain.PresenceByName))
	v.SetDefault("backpressure", "kick")
	v.SetDefault("room_claim_ttl", "10m")
	v.SetDefault("secret", "change-me")
	v.SetDefault("executor.url", "https://emkc.org/api/v2/piston")
	v.SetDefault("executor.timeout", "20s")

	v.SetEnvPrefix("CODEROOM")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	_ = v.BindEnv("port", "CODEROOM_PORT", "PORT")
	_ = v.BindEnv("allowed_origins", "CODEROOM_ALLOWED_ORIGINS", "CORS_ORIGIN")
	_ = v.BindEnv("executor.url", "CODEROOM_EXECUTOR_URL", "EXECUTOR_URL")

	if err := v.ReadInConfig(); err != nil {
		log.Warn().Str("module", "config").Str("file", fileName).Msg("config file not found, using defaults")
	} else {
		log.Info().Str("module", "config").Str("file", fileName).Msg("loaded config")
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	log.Info().Str("module", "config").Str("mode", cfg.Mode).Int("port", cfg.Port).Str("executor", cfg.Executor.URL).Strs("origins", cfg.AllowedOrigins).Msg("config ready")
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}
	if c.Executor.URL == "" {
		return errors.New("executor.url is required")
	}
	if c.SendBuffer <= 0 {
		return fmt.Errorf("send_buffer must be positive, got %d", c.SendBuffer)
	}
	if _, err := domain.ParsePresenceMode(c.Presence); err != nil {
		return err
	}
	return nil
}

// PresenceMode returns the validated presence mode.
func (c *Config) PresenceMode() domain.PresenceMode {
	m, _ := domain.ParsePresenceMode(c.Presence)
	return m
}

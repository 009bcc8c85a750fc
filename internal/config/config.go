package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Upstream UpstreamConfig `mapstructure:"upstream"`
	Live     LiveConfig     `mapstructure:"live"`
	Games    GamesConfig    `mapstructure:"games"`
	Server   ServerConfig   `mapstructure:"server"`
	Players  PlayersConfig  `mapstructure:"players"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

type UpstreamConfig struct {
	BaseURL       string `mapstructure:"base_url"`
	TimeoutSec    int    `mapstructure:"timeout_sec"`
	RatePerSecond int    `mapstructure:"rate_per_second"`
	ReplayDir     string `mapstructure:"replay_dir"`
	ReplayDate    string `mapstructure:"replay_date"`
}

func (c UpstreamConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSec) * time.Second
}

type LiveConfig struct {
	PollIntervalSec      int `mapstructure:"poll_interval_sec"`
	InactivityTimeoutSec int `mapstructure:"inactivity_timeout_sec"`
}

func (c LiveConfig) PollInterval() time.Duration {
	return time.Duration(c.PollIntervalSec) * time.Second
}

func (c LiveConfig) InactivityTimeout() time.Duration {
	return time.Duration(c.InactivityTimeoutSec) * time.Second
}

type GamesConfig struct {
	Timezone        string `mapstructure:"timezone"`
	LiveWindowHours int    `mapstructure:"live_window_hours"`
}

func (c GamesConfig) LiveWindow() time.Duration {
	return time.Duration(c.LiveWindowHours) * time.Hour
}

type ServerConfig struct {
	Port                  string `mapstructure:"port"`
	WSEnabled             bool   `mapstructure:"ws_enabled"`
	ScoreboardIntervalSec int    `mapstructure:"scoreboard_interval_sec"`
}

func (c ServerConfig) ScoreboardInterval() time.Duration {
	return time.Duration(c.ScoreboardIntervalSec) * time.Second
}

type PlayersConfig struct {
	RosterFile string `mapstructure:"roster_file"`
}

type LoggingConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Directory string `mapstructure:"directory"`
	Level     string `mapstructure:"level"`
}

func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Set defaults
	v.SetDefault("upstream.base_url", "https://cdn.nba.com")
	v.SetDefault("upstream.timeout_sec", 30)
	v.SetDefault("upstream.rate_per_second", 5)
	v.SetDefault("upstream.replay_dir", "")
	v.SetDefault("upstream.replay_date", "")
	v.SetDefault("live.poll_interval_sec", 3)
	v.SetDefault("live.inactivity_timeout_sec", 1500)
	v.SetDefault("games.timezone", "America/Los_Angeles")
	v.SetDefault("games.live_window_hours", 3)
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.ws_enabled", true)
	v.SetDefault("server.scoreboard_interval_sec", 30)
	v.SetDefault("logging.enabled", true)
	v.SetDefault("logging.directory", "logs")
	v.SetDefault("logging.level", "info")

	// Environment variable support
	v.SetEnvPrefix("COURTSIDE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	// Load config file
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("default")
		v.SetConfigType("yaml")
		v.AddConfigPath("./configs")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return &cfg, nil
}

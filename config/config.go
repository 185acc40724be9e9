package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Workers     int   `toml:"workers" mapstructure:"workers"`
	PublicStore bool  `toml:"public_store" mapstructure:"public_store" json:"public_store"`
	AutoDelete  int64 `toml:"auto_delete" mapstructure:"auto_delete" json:"auto_delete"`

	Admins []int64 `toml:"admins" mapstructure:"admins"`

	Log      logConfig      `toml:"log" mapstructure:"log"`
	DB       dbConfig       `toml:"db" mapstructure:"db"`
	Telegram telegramConfig `toml:"telegram" mapstructure:"telegram"`
	Clone    cloneConfig    `toml:"clone" mapstructure:"clone"`
}

type logConfig struct {
	Level string `toml:"level" mapstructure:"level"`
	File  string `toml:"file" mapstructure:"file"`
}

type dbConfig struct {
	Path    string `toml:"path" mapstructure:"path"`
	Session string `toml:"session" mapstructure:"session"`
}

type cloneConfig struct {
	Enable bool `toml:"enable" mapstructure:"enable"`
}

var cfg *Config

// C returns the loaded configuration.
func C() *Config {
	return cfg
}

func Init() error {
	viper.SetConfigName("config")
	viper.AddConfigPath(".")
	viper.AddConfigPath("/etc/stashbot/")
	viper.SetConfigType("toml")
	viper.SetEnvPrefix("STASHBOT")
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	viper.SetDefault("workers", 3)
	viper.SetDefault("public_store", true)
	viper.SetDefault("auto_delete", 0)

	viper.SetDefault("telegram.app_id", 1025907)
	viper.SetDefault("telegram.app_hash", "452b0359b988148995f22ff0f4229750")
	viper.SetDefault("telegram.flood_retry", 5)
	viper.SetDefault("telegram.rpc_retry", 5)

	viper.SetDefault("log.level", "INFO")

	viper.SetDefault("db.path", "data/stashbot.db")
	viper.SetDefault("db.session", "data/session.db")

	viper.SetDefault("clone.enable", false)

	if err := viper.SafeWriteConfigAs("config.toml"); err != nil {
		if _, ok := err.(viper.ConfigFileAlreadyExistsError); !ok {
			return fmt.Errorf("error saving default config: %w", err)
		}
	}

	if err := viper.ReadInConfig(); err != nil {
		return fmt.Errorf("error reading config file: %w", err)
	}

	cfg = &Config{}
	if err := viper.Unmarshal(cfg); err != nil {
		return fmt.Errorf("error unmarshalling config file: %w", err)
	}

	if cfg.Telegram.Token == "" {
		return fmt.Errorf("telegram.token is required")
	}
	if cfg.Telegram.LogChannelID == 0 {
		return fmt.Errorf("telegram.log_channel_id is required")
	}
	if cfg.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", cfg.Workers)
	}

	return nil
}

// Set stages a config value; ReloadConfig persists and re-reads it.
func Set(key string, value any) {
	viper.Set(key, value)
}

func ReloadConfig() error {
	if err := viper.WriteConfig(); err != nil {
		return err
	}
	if err := viper.ReadInConfig(); err != nil {
		return err
	}
	return viper.Unmarshal(cfg)
}

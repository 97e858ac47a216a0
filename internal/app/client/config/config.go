package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	defaultServerAddress   = "http://localhost:8080"
	defaultLogLevel        = "info"
	defaultEnv             = "local"
	defaultConfigDir       = ".pontosync"
	defaultSyncInterval    = 60
	defaultRequestTimeout  = 20
	defaultStaleDirtyHours = 168
)

type Config struct {
	Env                   string `mapstructure:"app_env"`
	ServerAddress         string `mapstructure:"server_address"`
	LogLevel              string `mapstructure:"log_level"`
	ConfigDir             string `mapstructure:"config_dir"`
	DataPath              string `mapstructure:"data_path"`
	SyncIntervalSeconds   int    `mapstructure:"sync_interval_seconds"`
	RequestTimeoutSeconds int    `mapstructure:"request_timeout_seconds"`
	StaleDirtyHours       int    `mapstructure:"stale_dirty_hours"`
}

func MustLoad() *Config {
	envPath := ".env"
	if _, err := os.Stat(envPath); os.IsNotExist(err) {
		envPath = "../.env"
	}

	if _, err := os.Stat(envPath); err == nil {
		if err := godotenv.Load(envPath); err != nil {
			fmt.Printf("falha ao carregar %s: %v\n", envPath, err)
		}
	}

	viper.AutomaticEnv()

	viper.SetDefault("APP_ENV", defaultEnv)
	viper.SetDefault("SERVER_ADDRESS", defaultServerAddress)
	viper.SetDefault("LOG_LEVEL", defaultLogLevel)
	viper.SetDefault("CONFIG_DIR", defaultConfigDir)
	viper.SetDefault("SYNC_INTERVAL_SECONDS", defaultSyncInterval)
	viper.SetDefault("REQUEST_TIMEOUT_SECONDS", defaultRequestTimeout)
	viper.SetDefault("STALE_DIRTY_HOURS", defaultStaleDirtyHours)

	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = "."
	}

	configDir := viper.GetString("CONFIG_DIR")
	if configDir == defaultConfigDir {
		configDir = filepath.Join(homeDir, configDir)
	}

	if err := os.MkdirAll(configDir, 0700); err != nil {
		fmt.Printf("falha ao criar diretório de configuração: %v\n", err)
	}

	dataPath := viper.GetString("DATA_PATH")
	if dataPath == "" {
		dataPath = filepath.Join(configDir, "pontosync.db")
	}

	config := &Config{
		Env:                   viper.GetString("APP_ENV"),
		ServerAddress:         viper.GetString("SERVER_ADDRESS"),
		LogLevel:              viper.GetString("LOG_LEVEL"),
		ConfigDir:             configDir,
		DataPath:              dataPath,
		SyncIntervalSeconds:   viper.GetInt("SYNC_INTERVAL_SECONDS"),
		RequestTimeoutSeconds: viper.GetInt("REQUEST_TIMEOUT_SECONDS"),
		StaleDirtyHours:       viper.GetInt("STALE_DIRTY_HOURS"),
	}

	return config
}

func (c *Config) IsProd() bool {
	return c.Env == "prod"
}

func (c *Config) IsLocal() bool {
	return c.Env == "local" || c.Env == ""
}

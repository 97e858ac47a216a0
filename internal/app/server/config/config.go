package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	envPath  = ".env"
	EnvLocal = "local"
	EnvDev   = "dev"
	EnvProd  = "prod"

	defaultRunAddress = ":8080"
	defaultMigrations = "migrations"
	defaultSecret     = "pontosync-dev-secret"
)

type Config struct {
	Env    string
	DB     db
	Server server
	Auth   auth
	Logger logger
}

type db struct {
	DatabaseURI string `env:"DATABASE_URI"`
	Migrations  string `env:"MIGRATIONS_PATH"`
}

type server struct {
	RunAddress string `env:"RUN_ADDRESS"`
}

type auth struct {
	Secret string `env:"AUTH_SECRET"`
	Pepper string `env:"PASSWORD_PEPPER"`
}

type logger struct {
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
}

func MustLoad() *Config {
	if _, err := os.Stat(envPath); err == nil {
		if err := godotenv.Load(envPath); err != nil {
			log.Printf("failed to load %s: %v", envPath, err)
		}
	}

	viper.AutomaticEnv()
	viper.SetDefault("RUN_ADDRESS", defaultRunAddress)
	viper.SetDefault("MIGRATIONS_PATH", defaultMigrations)
	viper.SetDefault("APP_ENV", EnvLocal)
	viper.SetDefault("LOG_LEVEL", "info")

	secret := viper.GetString("AUTH_SECRET")
	if secret == "" {
		secret = defaultSecret
	}

	config := Config{
		Env: viper.GetString("APP_ENV"),
		DB: db{
			DatabaseURI: viper.GetString("DATABASE_URI"),
			Migrations:  viper.GetString("MIGRATIONS_PATH"),
		},
		Server: server{RunAddress: viper.GetString("RUN_ADDRESS")},
		Auth: auth{
			Secret: secret,
			Pepper: viper.GetString("PASSWORD_PEPPER"),
		},
		Logger: logger{LogLevel: viper.GetString("LOG_LEVEL")},
	}

	return &config
}

package config

import (
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	Env         string `yaml:"env" env:"ENV" env-default:"local"`
	StoragePath string `yaml:"storage_path" env:"STORAGE_PATH" env-required:"true"`
	RedisAddr   string `yaml:"redis_addr" env:"REDIS_ADDR" env-default:"localhost:6379"`
	Timezone    string `yaml:"timezone" env:"TIMEZONE" env-default:"Europe/London"`
	HTTPServer  `yaml:"http_server"`
	Admin       Admin    `yaml:"admin"`
	Mail        Mail     `yaml:"mail"`
	Reminder    Reminder `yaml:"reminder"`
}

type HTTPServer struct {
	Address         string        `yaml:"address" env-default:"localhost:8080"`
	Timeout         time.Duration `yaml:"timeout" env-default:"4s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" env-default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env-default:"15s"`
}

type Admin struct {
	Username     string        `yaml:"username" env:"ADMIN_USERNAME" env-default:"admin"`
	PasswordHash string        `yaml:"password_hash" env:"ADMIN_PASSWORD_HASH" env-required:"true"`
	JWTSecret    string        `yaml:"jwt_secret" env:"JWT_SECRET" env-required:"true"`
	TokenTTL     time.Duration `yaml:"token_ttl" env-default:"24h"`
}

type Mail struct {
	ResendAPIKey string `yaml:"resend_api_key" env:"RESEND_API_KEY"`
	From         string `yaml:"from" env-default:"Hebron Schedule <noreply@upperroom.hebronpentecostalassembly.org>"`
	ZoomURL      string `yaml:"zoom_url" env-default:"https://us02web.zoom.us/j/9033071964"`
}

type Reminder struct {
	Enabled bool `yaml:"enabled" env-default:"true"`
	// Daily at 16:00, four hours before the meeting.
	Cron string `yaml:"cron" env-default:"0 16 * * *"`
}

func MustLoad() *Config {
	var cfg Config

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "./config/config.yaml"
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		log.Fatalf("Config file does not exist: %s", configPath)
	}

	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		log.Fatalf("Failed to read config file: %v", err)
	}

	return &cfg
}

package config

import (
	"gopkg.in/yaml.v3"
	"os"
)

type EmailConfig struct {
	SMTPHost      string `yaml:"smtp_host"`
	SMTPPort      int    `yaml:"smtp_port"`
	SMTPUser      string `yaml:"smtp_user"`
	SMTPPassword  string `yaml:"smtp_password"`
	SMTPSecure    bool   `yaml:"smtp_secure"`
	FromEmail     string `yaml:"from_email"`
	FallbackEmail string `yaml:"fallback_email"`
}

type TelegramConfig struct {
	BotToken string `yaml:"bot_token"`
	ChatID   int64  `yaml:"chat_id"`
}

type Config struct {
	Server struct {
		Port int `yaml:"port"`
	} `yaml:"server"`
	Email    EmailConfig       `yaml:"email"`
	Offices  map[string]string `yaml:"offices"`
	Telegram TelegramConfig    `yaml:"telegram"`
}

// DefaultOffices routes a location choice to its HR inbox when the config
// file does not carry its own table.
var DefaultOffices = map[string]string{
	"Bala Cynwyd Office":                  "qwenton.balawejder@batp.org",
	"Philadelphia Office":                 "samantha.power@batp.org",
	"South Philadelphia Satellite Office": "williampower@batp.org",
}

func LoadConfig() *Config {
	f, err := os.Open("config/config.yaml")
	if err != nil {
		panic("Failed to open config.yaml: " + err.Error())
	}
	defer f.Close()

	var cfg Config
	if err := yaml.NewDecoder(f).Decode(&cfg); err != nil {
		panic("Failed to parse config.yaml: " + err.Error())
	}

	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Email.SMTPHost == "" {
		cfg.Email.SMTPHost = "smtp.gmail.com"
	}
	if cfg.Email.SMTPPort == 0 {
		cfg.Email.SMTPPort = 587
	}
	if len(cfg.Offices) == 0 {
		cfg.Offices = DefaultOffices
	}
	return &cfg
}

package main

import (
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	// CHAT_SERVER_URL is the HTTP base of the relay, websocket included.
	ServerURL string `envconfig:"CHAT_SERVER_URL" default:"http://localhost:8080"`
	// CHAT_TOKEN skips the login step when already set.
	Token    string `envconfig:"CHAT_TOKEN"`
	Email    string `envconfig:"CHAT_EMAIL"`
	Password string `envconfig:"CHAT_PASSWORD"`
	// CHAT_ROOM is joined right after connecting when non-empty.
	Room string `envconfig:"CHAT_ROOM"`
	// CHAT_COLOURS enables colorized output for better readability.
	Colours  bool   `envconfig:"CHAT_COLOURS" default:"true"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"INFO"`
}

func LoadConfig() (Config, error) {
	var cfg Config
	err := envconfig.Process("", &cfg)
	return cfg, err
}

package config

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Mode selects what this process runs as: a relay broker, a hosting
// player, or a joining player.
const (
	ModeRelay = "relay"
	ModeHost  = "host"
	ModeJoin  = "join"
)

type Config struct {
	LogLevel string `yaml:"log-level" env:"LOG_LEVEL" env-default:"info"`
	Mode     string `yaml:"mode" env:"MODE" env-default:"host"`

	Name   string `yaml:"name" env:"PLAYER_NAME" env-default:""`
	Avatar string `yaml:"avatar" env:"PLAYER_AVATAR" env-default:""`

	// Room is the desired room code when hosting, or the code to join.
	Room string `yaml:"room" env:"ROOM" env-default:""`

	RelayURL  string `yaml:"relay-url" env:"RELAY_URL" env-default:"ws://localhost:9190/ws"`
	RelayPort string `yaml:"relay-port" env:"RELAY_PORT" env-default:"9190"`

	Game       Game       `yaml:"game"`
	Resilience Resilience `yaml:"resilience"`
}

type Game struct {
	Rounds           int    `yaml:"rounds" env-default:"3"`
	DrawTime         int    `yaml:"draw-time" env-default:"60"`
	SelectTime       int    `yaml:"select-time" env-default:"30"`
	ResultsTime      int    `yaml:"results-time" env-default:"5"`
	EarlyEndDelay    int    `yaml:"early-end-delay" env-default:"2"`
	Category         string `yaml:"category" env-default:"Mix"`
	AllowDrawerGuess bool   `yaml:"allow-drawer-guess" env-default:"false"`
	AutoStartPlayers int    `yaml:"auto-start-players" env-default:"0"`
}

type Resilience struct {
	MaxRetries          int `yaml:"max-retries" env-default:"5"`
	InitialDelayMS      int `yaml:"initial-delay-ms" env-default:"1000"`
	MaxDelayMS          int `yaml:"max-delay-ms" env-default:"30000"`
	HeartbeatIntervalMS int `yaml:"heartbeat-interval-ms" env-default:"3000"`
	HeartbeatTimeoutMS  int `yaml:"heartbeat-timeout-ms" env-default:"8000"`
}

// MustLoad - load all configurations in config.yml file.
func MustLoad(path string) *Config {
	config := &Config{}

	if err := cleanenv.ReadConfig(path, config); err != nil {
		panic(fmt.Errorf("unable to load config file: %w", err))
	}

	return config
}

func (that *Resilience) InitialDelay() time.Duration {
	return time.Duration(that.InitialDelayMS) * time.Millisecond
}

func (that *Resilience) MaxDelay() time.Duration {
	return time.Duration(that.MaxDelayMS) * time.Millisecond
}

func (that *Resilience) HeartbeatInterval() time.Duration {
	return time.Duration(that.HeartbeatIntervalMS) * time.Millisecond
}

func (that *Resilience) HeartbeatTimeout() time.Duration {
	return time.Duration(that.HeartbeatTimeoutMS) * time.Millisecond
}

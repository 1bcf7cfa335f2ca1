package config

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

const (
	StoreTypeFile  = "file"
	StoreTypeRedis = "redis"
)

type Config struct {
	LogLevel     string        `yaml:"log-level" env:"LOG_LEVEL" env-default:"info"`
	HTTPPort     string        `yaml:"http-port" env:"HTTP_PORT" env-default:"9090"`
	StoreTimeout time.Duration `yaml:"store-timeout" env:"STORE_TIMEOUT" env-default:"5s"`
	AccountStore AccountStore  `yaml:"account-store"`
	Redis        Redis         `yaml:"redis"`
	Websocket    Websocket     `yaml:"websocket"`
}

type AccountStore struct {
	Type     string `yaml:"type" env:"ACCOUNT_STORE_TYPE" env-default:"file"`
	FilePath string `yaml:"file-path" env:"ACCOUNT_STORE_FILE_PATH" env-default:"accounts.txt"`
}

type Redis struct {
	Host string `yaml:"host" env:"REDIS_HOST" env-default:"localhost"`
	Port string `yaml:"port" env:"REDIS_PORT" env-default:"6379"`
}

type Websocket struct {
	MaxConnections    int     `yaml:"max-connections" env:"WS_MAX_CONNECTIONS" env-default:"1000"`
	ReadLimit         int64   `yaml:"read-limit" env:"WS_READ_LIMIT" env-default:"4096"`
	SendBuffer        int     `yaml:"send-buffer" env:"WS_SEND_BUFFER" env-default:"256"`
	MessagesPerSecond float64 `yaml:"messages-per-second" env:"WS_MESSAGES_PER_SECOND" env-default:"20"`
	Burst             int     `yaml:"burst" env:"WS_BURST" env-default:"40"`
}

// MustLoad - load all configurations in config.yml file, environment variables take precedence.
func MustLoad(path string) *Config {
	config := &Config{}

	if err := cleanenv.ReadConfig(path, config); err != nil {
		panic(fmt.Errorf("unable to load config file: %w", err))
	}

	if err := config.Validate(); err != nil {
		panic(fmt.Errorf("invalid config: %w", err))
	}

	return config
}

func (that *Config) Validate() error {
	switch that.AccountStore.Type {
	case StoreTypeFile, StoreTypeRedis:
	default:
		return fmt.Errorf("unknown account store type %q", that.AccountStore.Type)
	}

	return nil
}

func (that *Redis) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", that.Host, that.Port)
}

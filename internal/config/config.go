package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"
)

const (
	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"
	DriverSQLite   = "sqlite"
	DriverMongo    = "mongo"

	BrokerLocal    = "local"
	BrokerRabbitMQ = "rabbitmq"
)

type Config struct {
	Server struct {
		Host string `yaml:"host"`
		Port int    `yaml:"port"`
		Env  string `yaml:"env"`
	} `yaml:"server"`

	Database struct {
		Driver string `yaml:"driver"` // postgres, mysql, sqlite, mongo
		DSN    string `yaml:"url"`
		Name   string `yaml:"name"` // имя базы для mongo
	} `yaml:"database"`

	JWT struct {
		Secret string `yaml:"secret"`
		TTL    int    `yaml:"ttl"` // минуты
	} `yaml:"jwt"`

	Push struct {
		SendBuffer     int           `yaml:"send_buffer"`
		WriteWait      time.Duration `yaml:"write_wait"`
		PongWait       time.Duration `yaml:"pong_wait"`
		MaxMessageSize int64         `yaml:"max_message_size"`
	} `yaml:"push"`

	Broker struct {
		Type     string `yaml:"type"` // local, rabbitmq
		URL      string `yaml:"url"`
		Exchange string `yaml:"exchange"`
	} `yaml:"broker"`

	CORS struct {
		AllowedOrigins []string `yaml:"allowed_origins"`
	} `yaml:"cors"`

	RateLimit struct {
		RPS       float64 `yaml:"rps"`
		Burst     int     `yaml:"burst"`
		AuthRPS   float64 `yaml:"auth_rps"`
		AuthBurst int     `yaml:"auth_burst"`
	} `yaml:"rate_limit"`
}

var AppConfig *Config

// Load читает .env, затем YAML-файл (если есть), затем переменные окружения.
// Если файла нет, но задан DATABASE_URL - конфиг собирается только из окружения (режим теста).
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf(".env не загружен: %v", err)
	}

	cfg := Defaults()

	if path == "" {
		path = os.Getenv("CONFIG_PATH")
	}
	if path == "" {
		path = "config/config.yaml"
	}

	f, err := os.Open(path)
	switch {
	case err == nil:
		defer f.Close()
		if err := yaml.NewDecoder(f).Decode(cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file at %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist) && os.Getenv("DATABASE_URL") != "":
		// env-only
	default:
		return nil, fmt.Errorf("failed to open config file at %s: %w", path, err)
	}

	applyEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Defaults - значения, которые подходят для локального запуска
func Defaults() *Config {
	cfg := &Config{}
	cfg.Server.Host = "0.0.0.0"
	cfg.Server.Port = 3002
	cfg.Server.Env = "development"

	cfg.Database.Driver = DriverPostgres
	cfg.Database.Name = "jobnest"

	cfg.JWT.TTL = 60 * 24 * 7

	cfg.Push.SendBuffer = 256
	cfg.Push.WriteWait = 10 * time.Second
	cfg.Push.PongWait = 60 * time.Second
	cfg.Push.MaxMessageSize = 64 * 1024

	cfg.Broker.Type = BrokerLocal
	cfg.Broker.Exchange = "jobnest.push"

	cfg.CORS.AllowedOrigins = []string{"http://localhost:3000"}

	cfg.RateLimit.RPS = 20
	cfg.RateLimit.Burst = 50
	cfg.RateLimit.AuthRPS = 1
	cfg.RateLimit.AuthBurst = 10
	return cfg
}

func applyEnv(cfg *Config) {
	setString(&cfg.Database.Driver, "DATABASE_DRIVER")
	setString(&cfg.Database.DSN, "DATABASE_URL")
	setString(&cfg.Database.Name, "MONGO_DATABASE")
	setString(&cfg.Server.Host, "SERVER_HOST")
	setString(&cfg.Server.Env, "SERVER_ENV")
	setString(&cfg.JWT.Secret, "JWT_SECRET")
	setString(&cfg.Broker.URL, "RABBITMQ_URL")

	if v := os.Getenv("SERVER_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("JWT_TTL"); v != "" {
		if ttl, err := strconv.Atoi(v); err == nil {
			cfg.JWT.TTL = ttl
		}
	}
	if cfg.Broker.URL != "" && os.Getenv("RABBITMQ_URL") != "" {
		cfg.Broker.Type = BrokerRabbitMQ
	}
	if v := os.Getenv("CORS_ORIGINS"); v != "" {
		cfg.CORS.AllowedOrigins = strings.Split(v, ",")
	}
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func (c *Config) Validate() error {
	switch c.Database.Driver {
	case DriverPostgres, DriverMySQL, DriverSQLite, DriverMongo:
	default:
		return fmt.Errorf("unknown database driver %q", c.Database.Driver)
	}
	switch c.Broker.Type {
	case BrokerLocal:
	case BrokerRabbitMQ:
		if c.Broker.URL == "" {
			return errors.New("broker.url is required for rabbitmq")
		}
	default:
		return fmt.Errorf("unknown broker type %q", c.Broker.Type)
	}
	if c.JWT.Secret == "" {
		return errors.New("jwt.secret is required")
	}
	if c.Server.Port <= 0 {
		return fmt.Errorf("invalid server port %d", c.Server.Port)
	}
	return nil
}

// IsProduction - выключает подробности внутренних ошибок в ответах
func (c *Config) IsProduction() bool {
	return c.Server.Env == "production"
}

// Addr - адрес для http.Server
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// LoadConfig загружает глобальный AppConfig, ошибка конфигурации фатальна
func LoadConfig() {
	cfg, err := Load("")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	AppConfig = cfg
}

func GetConfig() *Config {
	if AppConfig == nil {
		LoadConfig()
	}
	return AppConfig
}

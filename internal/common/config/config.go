package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	Debug         bool `env:"DEBUG" envDefault:"false"`
	DBAutoMigrate bool `env:"DB_AUTO_MIGRATE" envDefault:"false"`

	Server struct {
		Port   int    `env:"PORT" envDefault:"8080"`
		Origin string `env:"ORIGIN" envDefault:"http://localhost:3000"`
	}

	Postgres PostgresConfig

	Redis struct {
		Host     string `env:"REDIS_HOST" envDefault:"localhost"`
		Port     int    `env:"REDIS_PORT" envDefault:"6379"`
		Password string `env:"REDIS_PASSWORD" envDefault:""`
		DB       int    `env:"REDIS_DB" envDefault:"0"`
	}

	Draw struct {
		// Сколько раз переиздаём всю пачку билетов при конфликте нумерации
		AllocationRetries int           `env:"DRAW_ALLOCATION_RETRIES" envDefault:"3"`
		RetryDelay        time.Duration `env:"DRAW_RETRY_DELAY" envDefault:"50ms"`
		EventStream       string        `env:"DRAW_EVENT_STREAM" envDefault:"draw:events"`
		EventStreamMaxLen int64         `env:"DRAW_EVENT_STREAM_MAXLEN" envDefault:"10000"`
	}
}

type PostgresConfig struct {
	Host            string        `env:"POSTGRES_HOST" envDefault:"localhost"`
	Port            int           `env:"POSTGRES_PORT" envDefault:"5432"`
	User            string        `env:"POSTGRES_USER" envDefault:"postgres"`
	Password        string        `env:"POSTGRES_PASSWORD" envDefault:""`
	Database        string        `env:"POSTGRES_DB" envDefault:"prize_draw"`
	SSLMode         string        `env:"POSTGRES_SSLMODE" envDefault:"disable"`
	MaxOpenConns    int           `env:"POSTGRES_MAX_OPEN_CONNS" envDefault:"25"`
	MaxIdleConns    int           `env:"POSTGRES_MAX_IDLE_CONNS" envDefault:"5"`
	ConnMaxLifetime time.Duration `env:"POSTGRES_CONN_MAX_LIFETIME" envDefault:"5m"`
}

// GetDSN собирает строку подключения для lib/pq
func (p PostgresConfig) GetDSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		p.User, p.Password, p.Host, p.Port, p.Database, p.SSLMode)
}

// RedisAddr возвращает host:port для go-redis
func (c *Config) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Redis.Host, c.Redis.Port)
}

func Load() *Config {
	// В production переменные приходят из окружения, .env может отсутствовать
	_ = godotenv.Load()

	cfg, err := Parse()
	if err != nil {
		panic(err)
	}

	return cfg
}

// Parse читает конфигурацию только из окружения
func Parse() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if cfg.Draw.AllocationRetries < 1 {
		cfg.Draw.AllocationRetries = 1
	}
	return cfg, nil
}

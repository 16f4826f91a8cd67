package config

import (
	"errors"
	"io/fs"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"listing-radar/internal/extractor"
)

type Config struct {
	Database struct {
		Driver string `env:"DATABASE_DRIVER" envDefault:"postgres"`
		DSN    string `env:"DATABASE_DSN" envDefault:"host=localhost user=postgres password=password dbname=listing_radar port=5432 sslmode=disable"`
	}

	RedisAddr string `env:"REDIS_ADDR" envDefault:"localhost:6379"`

	Kafka struct {
		Brokers []string `env:"KAFKA_BROKERS" envDefault:"localhost:9092" envSeparator:","`
		Topic   string   `env:"KAFKA_TOPIC" envDefault:"listing-events"`
	}

	BotToken string `env:"BOT_TOKEN"`
	HTTPAddr string `env:"HTTP_ADDR" envDefault:":8080"`

	Log struct {
		Level  string `env:"LOG_LEVEL" envDefault:"info"`
		Format string `env:"LOG_FORMAT" envDefault:"text"`
	}

	UserAgent string `env:"FETCH_USER_AGENT" envDefault:"Mozilla/5.0"`

	// Selectors locate listing blocks and their fields in fetched pages.
	// Empty optional selectors leave the matching fields blank.
	Selectors struct {
		Container string `env:"SELECTOR_CONTAINER" envDefault:"div.listing-item"`
		Price     string `env:"SELECTOR_PRICE" envDefault:"span.price"`
		Address   string `env:"SELECTOR_ADDRESS" envDefault:"span.address"`
		Area      string `env:"SELECTOR_AREA"`
		Rooms     string `env:"SELECTOR_ROOMS"`
		District  string `env:"SELECTOR_DISTRICT"`
		Link      string `env:"SELECTOR_LINK"`
	}
}

// Load reads .env when present and then the process environment.
func Load(files ...string) (*Config, error) {
	if err := godotenv.Load(files...); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
		logrus.Info("Env file is not found")
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) ExtractorSelectors() extractor.Selectors {
	return extractor.Selectors{
		Container: c.Selectors.Container,
		Price:     c.Selectors.Price,
		Address:   c.Selectors.Address,
		Area:      c.Selectors.Area,
		Rooms:     c.Selectors.Rooms,
		District:  c.Selectors.District,
		Link:      c.Selectors.Link,
	}
}

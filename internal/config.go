package internal

import (
	"chat-presence/errors"
	"fmt"
	"time"

	"github.com/Netflix/go-env"
)

const (
	StoreBadger = "badger"
	StoreSQLite = "sqlite"
)

type Config struct {
	StoreDriver     string        `env:"STORE_DRIVER,default=badger"`
	BadgerFilepath  string        `env:"BADGER_FILEPATH,default=data/badger"`
	SQLiteFilepath  string        `env:"SQLITE_FILEPATH,default=data/chat.db"`
	LogLevel        string        `env:"LOG_LEVEL,default=INFO"`
	Host            string        `env:"HOST,default=localhost"`
	Port            int           `env:"PORT,default=5000"`
	SweepInterval   time.Duration `env:"SWEEP_INTERVAL,default=15s"`
	StaleAfter      time.Duration `env:"STALE_AFTER,default=10s"`
	RestartInterval time.Duration `env:"RESTART_INTERVAL,default=200ms"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT,default=5s"`
	StatsInterval   time.Duration `env:"STATS_INTERVAL,default=0s"`
	TimeZone        string        `env:"TIME_ZONE,default=Local"`
	CensoredWords   string        `env:"CENSORED_WORDS"`
	CharReplacement string        `env:"CHARACTER_REPLACEMENT,default=*"`
}

// LoadConfig reads the configuration from the process environment.
func LoadConfig() (Config, error) {
	var config Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return Config{}, fmt.Errorf("config error: %w", err)
	}
	if err := config.Validate(); err != nil {
		return Config{}, err
	}
	return config, nil
}

func (c Config) Validate() error {
	if c.StoreDriver != StoreBadger && c.StoreDriver != StoreSQLite {
		return fmt.Errorf("%w: STORE_DRIVER must be %q or %q, got %q", errors.ErrUnknownStoreDriver, StoreBadger, StoreSQLite, c.StoreDriver)
	}
	if c.SweepInterval <= 0 {
		return fmt.Errorf("SWEEP_INTERVAL must be positive, got %s", c.SweepInterval)
	}
	if c.StaleAfter <= 0 {
		return fmt.Errorf("STALE_AFTER must be positive, got %s", c.StaleAfter)
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("PORT out of range: %d", c.Port)
	}
	return nil
}

func (c Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Location resolves TIME_ZONE, used to render message times.
func (c Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.TimeZone)
	if err != nil {
		return nil, fmt.Errorf("TIME_ZONE %q: %w", c.TimeZone, err)
	}
	return loc, nil
}

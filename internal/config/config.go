package config

import (
	"fmt"
	"path/filepath"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	Addr      string `env:"YUKI_ADDR" envDefault:":55555"`
	DataDir   string `env:"YUKI_DATA_DIR" envDefault:"data"`
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"text"`
}

func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse environment: %w", err)
	}
	return cfg, nil
}

// DatabasePath is the SQLite file under the data directory.
func (c Config) DatabasePath() string {
	return filepath.Join(c.DataDir, "yuki.db")
}

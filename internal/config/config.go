package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog/log"
)

// Prefix of every environment variable, e.g. TADA_STORAGE_BACKEND.
const Prefix = "TADA"

const (
	BackendFile   = "file"
	BackendRedis  = "redis"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

// Leaf fields have no envconfig tag: a tag makes envconfig also read the bare
// name (PATH, DB ...) when the prefixed variable is unset.
type Config struct {
	LogLevel string `split_words:"true" default:"error"`
	Theme    string `default:"classic"`

	Storage Storage
}

type Storage struct {
	Backend string `default:"file"`
	// Dir holds todos.json (file) and the default todos.db (sqlite).
	// Empty means the working directory.
	Dir string

	SQLite struct {
		Path string
	}

	Redis struct {
		Addr     string `default:"localhost:6379"`
		Password string
		DB       int
	}
}

// Load reads .env files (when present) into the environment, then builds a
// Config from TADA_* variables. Variables already set win over .env values.
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, p := range envFiles {
		if err := godotenv.Load(p); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return nil, fmt.Errorf("loading %s: %w", p, err)
		}
		log.Debug().Str("file", p).Msg("loaded variables from env file")
	}

	var conf Config
	if err := envconfig.Process(Prefix, &conf); err != nil {
		return nil, fmt.Errorf("processing environment: %w", err)
	}
	if err := conf.Validate(); err != nil {
		return nil, err
	}
	return &conf, nil
}

// Validate normalizes the backend name and rejects unknown ones.
func (c *Config) Validate() error {
	c.Storage.Backend = strings.ToLower(strings.TrimSpace(c.Storage.Backend))
	switch c.Storage.Backend {
	case BackendFile, BackendRedis, BackendSQLite, BackendMemory:
		return nil
	case "":
		c.Storage.Backend = BackendFile
		return nil
	}
	return fmt.Errorf("unknown storage backend %q (want %s, %s, %s or %s)",
		c.Storage.Backend, BackendFile, BackendRedis, BackendSQLite, BackendMemory)
}

package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/mcdev12/debatify/go/internal/dbconfig"
	"github.com/mcdev12/debatify/go/internal/timer"
)

// Timer store backends.
const (
	storeFile     = "file"
	storeMemory   = "memory"
	storeNATS     = "nats"
	storePostgres = "postgres"
)

type Config struct {
	Server struct {
		Port string `yaml:"port"`
	} `yaml:"server"`

	Log struct {
		Level  string `yaml:"level"`
		Pretty bool   `yaml:"pretty"`
	} `yaml:"log"`

	Timer struct {
		Store          string        `yaml:"store"`
		StateDir       string        `yaml:"state_dir"`
		StorageTimeout time.Duration `yaml:"storage_timeout"`
		DefaultPreset  int           `yaml:"default_preset"`
	} `yaml:"timer"`

	NATS struct {
		URL     string `yaml:"url"`
		Bucket  string `yaml:"bucket"`
		Subject string `yaml:"subject"`
	} `yaml:"nats"`

	Database dbconfig.Config `yaml:"database"`

	// Debates enables the debate service. It needs Postgres.
	Debates struct {
		Enabled bool `yaml:"enabled"`
	} `yaml:"debates"`
}

func defaultConfig() *Config {
	var c Config
	c.Server.Port = "8080"
	c.Log.Level = "info"
	c.Log.Pretty = true
	c.Timer.Store = storeFile
	c.Timer.StateDir = ".debatify"
	c.Timer.StorageTimeout = 2 * time.Second
	c.Timer.DefaultPreset = timer.DefaultPreset
	c.Database = dbconfig.Default()
	return &c
}

// loadConfig reads path over the defaults, then applies environment
// overrides. A missing file is not an error.
func loadConfig(path string) (*Config, error) {
	config := defaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("failed to read config file: %w", err)
	default:
		if err := yaml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	config.applyEnv()
	if err := config.validate(); err != nil {
		return nil, err
	}
	return config, nil
}

func (c *Config) applyEnv() {
	c.Server.Port = getEnv("PORT", c.Server.Port)
	c.Log.Level = getEnv("LOG_LEVEL", c.Log.Level)
	c.Log.Pretty = getEnvAsBool("LOG_PRETTY", c.Log.Pretty)
	c.Timer.Store = getEnv("TIMER_STORE", c.Timer.Store)
	c.Timer.StateDir = getEnv("TIMER_STATE_DIR", c.Timer.StateDir)
	c.Timer.StorageTimeout = getEnvAsDuration("TIMER_STORAGE_TIMEOUT", c.Timer.StorageTimeout)
	c.Timer.DefaultPreset = getEnvAsInt("TIMER_DEFAULT_PRESET", c.Timer.DefaultPreset)
	c.NATS.URL = getEnv("NATS_URL", c.NATS.URL)
	c.NATS.Bucket = getEnv("NATS_BUCKET", c.NATS.Bucket)
	c.NATS.Subject = getEnv("NATS_SUBJECT", c.NATS.Subject)
	c.Debates.Enabled = getEnvAsBool("DEBATES_ENABLED", c.Debates.Enabled)

	c.Database.Host = getEnv("DB_HOST", c.Database.Host)
	c.Database.Port = getEnvAsInt("DB_PORT", c.Database.Port)
	c.Database.User = getEnv("DB_USER", c.Database.User)
	c.Database.Password = getEnv("DB_PASSWORD", c.Database.Password)
	c.Database.Name = getEnv("DB_NAME", c.Database.Name)
	c.Database.SSLMode = getEnv("DB_SSLMODE", c.Database.SSLMode)
}

func (c *Config) validate() error {
	switch c.Timer.Store {
	case storeFile, storeMemory, storePostgres:
	case storeNATS:
		if c.NATS.URL == "" {
			return errors.New("timer.store is nats but nats.url is empty")
		}
	default:
		return fmt.Errorf("unknown timer.store %q", c.Timer.Store)
	}
	if c.Timer.DefaultPreset <= 0 {
		return fmt.Errorf("timer.default_preset must be positive, got %d", c.Timer.DefaultPreset)
	}
	if c.needsDatabase() {
		if err := c.Database.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// needsDatabase reports whether any component talks to Postgres.
func (c *Config) needsDatabase() bool {
	return c.Timer.Store == storePostgres || c.Debates.Enabled
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

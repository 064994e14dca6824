// Package dbconfig describes the Postgres connection shared by the timer
// store and the debate repository.
package dbconfig

import (
	"errors"
	"net"
	"net/url"
	"strconv"
)

// Config holds Postgres connection settings. It is the database: section of
// the process config.
type Config struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
	SSLMode  string `yaml:"sslmode"`
}

// Default is a local development database.
func Default() Config {
	return Config{
		Host:     "localhost",
		Port:     5432,
		User:     "postgres",
		Password: "postgres",
		Name:     "debatify",
		SSLMode:  "disable",
	}
}

// Validate reports settings that cannot form a DSN.
func (c Config) Validate() error {
	switch {
	case c.Host == "":
		return errors.New("database.host is empty")
	case c.Port <= 0 || c.Port > 65535:
		return errors.New("database.port out of range")
	case c.Name == "":
		return errors.New("database.name is empty")
	}
	return nil
}

// DSN returns the Postgres connection URL with credentials escaped.
func (c Config) DSN() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     net.JoinHostPort(c.Host, strconv.Itoa(c.Port)),
		Path:     "/" + c.Name,
		RawQuery: url.Values{"sslmode": {c.SSLMode}}.Encode(),
	}
	return u.String()
}

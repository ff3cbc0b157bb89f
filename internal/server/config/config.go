// Package config handles configuration for the server component: defaults,
// an optional JSON file, a .env file and environment variables, and finally
// command-line flags, each layer overriding the previous one.
package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"strconv"
)

const (
	DBTypePostgres = "postgres"
	DBTypeMemory   = "memory"
)

// S3Seed locates an optional question seed object in S3 compatible storage.
// An empty Bucket means the embedded dataset is used.
type S3Seed struct {
	Bucket    string
	Key       string
	Region    string
	Endpoint  string
	AccessKey string
	SecretKey string
}

// Config holds runtime settings for the Q&A server. It is built once at
// startup and not modified afterwards.
type Config struct {
	GRPCAddress    string
	MetricsAddress string
	LogLevel       string
	SecretKey      string

	DBType         string
	DBUser         string
	DBPassword     string
	DBHost         string
	DBPort         int
	DBName         string
	DBMaxOpenConns int

	Seed S3Seed
}

// LoadDefaults populates Config with development defaults. SecretKey is
// intentionally left empty so that a deployment must supply one.
func (c *Config) LoadDefaults() {
	c.GRPCAddress = ":50051"
	c.MetricsAddress = ":9090"
	c.LogLevel = "warn"
	c.DBType = DBTypePostgres
	c.DBUser = "postgres"
	c.DBHost = "localhost"
	c.DBPort = 5432
	c.DBName = "rush"
	c.DBMaxOpenConns = 10
	c.Seed.Key = "questions.json"
	c.Seed.Region = "us-east-1"
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from an optional JSON file, the environment and command-line flags.
// The result is validated.
func LoadConfig() (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if err := parseJSON(cfg); err != nil {
		return nil, fmt.Errorf("json config: %w", err)
	}
	if err := parseEnv(cfg); err != nil {
		return nil, fmt.Errorf("env config: %w", err)
	}
	if err := parseFlags(cfg); err != nil {
		return nil, fmt.Errorf("flags: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports settings the server cannot start with.
func (c *Config) Validate() error {
	var errs []error
	if c.SecretKey == "" {
		errs = append(errs, errors.New("secret key is not set"))
	}
	switch c.DBType {
	case DBTypePostgres, DBTypeMemory:
	default:
		errs = append(errs, fmt.Errorf("unknown db type %q", c.DBType))
	}
	if c.DBPort <= 0 || c.DBPort > 65535 {
		errs = append(errs, fmt.Errorf("invalid db port %d", c.DBPort))
	}
	if c.DBMaxOpenConns < 0 {
		errs = append(errs, fmt.Errorf("invalid db max open conns %d", c.DBMaxOpenConns))
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}

// DatabaseDSN returns the PostgreSQL connection URL for the db settings.
func (c *Config) DatabaseDSN() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.DBUser, c.DBPassword),
		Host:     net.JoinHostPort(c.DBHost, strconv.Itoa(c.DBPort)),
		Path:     "/" + c.DBName,
		RawQuery: "sslmode=disable",
	}
	return u.String()
}

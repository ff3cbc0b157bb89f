package config

import (
	"errors"
	"io/fs"

	"github.com/joeshaw/envdecode"
	"github.com/joho/godotenv"
)

// dotEnvFile is loaded into the process environment before decoding.
// Variables already present in the environment win.
var dotEnvFile = ".env"

type envConfig struct {
	GRPCAddress    string `env:"GRPC_ADDRESS"`
	MetricsAddress string `env:"METRICS_ADDRESS"`
	LogLevel       string `env:"LOG_LEVEL"`
	SecretKey      string `env:"SECRET_KEY"`
	DBType         string `env:"DB_TYPE"`
	DBUser         string `env:"POSTGRES_USER"`
	DBPassword     string `env:"POSTGRES_PASSWORD"`
	DBHost         string `env:"POSTGRES_HOST"`
	DBPort         int    `env:"POSTGRES_PORT"`
	DBName         string `env:"POSTGRES_DB"`
	DBMaxOpenConns int    `env:"DB_MAX_OPEN_CONNS"`

	SeedS3Bucket    string `env:"SEED_S3_BUCKET"`
	SeedS3Key       string `env:"SEED_S3_KEY"`
	SeedS3Region    string `env:"SEED_S3_REGION"`
	SeedS3Endpoint  string `env:"SEED_S3_ENDPOINT"`
	SeedS3AccessKey string `env:"SEED_S3_ACCESS_KEY"`
	SeedS3SecretKey string `env:"SEED_S3_SECRET_KEY"`
}

// parseEnv overlays non-empty environment variables onto config.
// A missing .env file is not an error.
func parseEnv(config *Config) error {
	if err := godotenv.Load(dotEnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}

	var e envConfig
	if err := envdecode.Decode(&e); err != nil {
		if errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
			return nil
		}
		return err
	}

	setNonZero(&config.GRPCAddress, e.GRPCAddress)
	setNonZero(&config.MetricsAddress, e.MetricsAddress)
	setNonZero(&config.LogLevel, e.LogLevel)
	setNonZero(&config.SecretKey, e.SecretKey)
	setNonZero(&config.DBType, e.DBType)
	setNonZero(&config.DBUser, e.DBUser)
	setNonZero(&config.DBPassword, e.DBPassword)
	setNonZero(&config.DBHost, e.DBHost)
	setNonZero(&config.DBPort, e.DBPort)
	setNonZero(&config.DBName, e.DBName)
	setNonZero(&config.DBMaxOpenConns, e.DBMaxOpenConns)
	setNonZero(&config.Seed.Bucket, e.SeedS3Bucket)
	setNonZero(&config.Seed.Key, e.SeedS3Key)
	setNonZero(&config.Seed.Region, e.SeedS3Region)
	setNonZero(&config.Seed.Endpoint, e.SeedS3Endpoint)
	setNonZero(&config.Seed.AccessKey, e.SeedS3AccessKey)
	setNonZero(&config.Seed.SecretKey, e.SeedS3SecretKey)

	return nil
}

func setNonZero[T comparable](dst *T, v T) {
	var zero T
	if v != zero {
		*dst = v
	}
}

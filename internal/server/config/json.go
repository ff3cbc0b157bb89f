package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/rush/internal/flagx"
)

// jsonConfig is the on-disk shape of the config file. Pointer fields
// distinguish an absent key from an explicit zero value, so a file may
// set only the keys it cares about.
type jsonConfig struct {
	GRPCAddress    *string `json:"grpc_address"`
	MetricsAddress *string `json:"metrics_address"`
	LogLevel       *string `json:"log_level"`
	SecretKey      *string `json:"secret_key"`
	DBType         *string `json:"db_type"`
	DBUser         *string `json:"db_user"`
	DBPassword     *string `json:"db_password"`
	DBHost         *string `json:"db_host"`
	DBPort         *int    `json:"db_port"`
	DBName         *string `json:"db_name"`
	DBMaxOpenConns *int    `json:"db_max_open_conns"`

	SeedS3Bucket    *string `json:"seed_s3_bucket"`
	SeedS3Key       *string `json:"seed_s3_key"`
	SeedS3Region    *string `json:"seed_s3_region"`
	SeedS3Endpoint  *string `json:"seed_s3_endpoint"`
	SeedS3AccessKey *string `json:"seed_s3_access_key"`
	SeedS3SecretKey *string `json:"seed_s3_secret_key"`
}

// parseJSON overlays the file named by -c/-config onto config. Nothing
// happens when no file is given.
func parseJSON(config *Config) error {
	path := flagx.ConfigFileFlag()
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var c jsonConfig
	if err := json.Unmarshal(data, &c); err != nil {
		return err
	}

	set(&config.GRPCAddress, c.GRPCAddress)
	set(&config.MetricsAddress, c.MetricsAddress)
	set(&config.LogLevel, c.LogLevel)
	set(&config.SecretKey, c.SecretKey)
	set(&config.DBType, c.DBType)
	set(&config.DBUser, c.DBUser)
	set(&config.DBPassword, c.DBPassword)
	set(&config.DBHost, c.DBHost)
	set(&config.DBPort, c.DBPort)
	set(&config.DBName, c.DBName)
	set(&config.DBMaxOpenConns, c.DBMaxOpenConns)
	set(&config.Seed.Bucket, c.SeedS3Bucket)
	set(&config.Seed.Key, c.SeedS3Key)
	set(&config.Seed.Region, c.SeedS3Region)
	set(&config.Seed.Endpoint, c.SeedS3Endpoint)
	set(&config.Seed.AccessKey, c.SeedS3AccessKey)
	set(&config.Seed.SecretKey, c.SeedS3SecretKey)

	return nil
}

func set[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}

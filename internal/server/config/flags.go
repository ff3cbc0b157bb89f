package config

import (
	"flag"
	"io"
	"os"

	"github.com/dmitrijs2005/rush/internal/flagx"
)

// parseFlags populates server Config fields from command-line flags.
//
// Supported flags:
//
//	-a string             gRPC bind address (e.g. ":50051")
//	-m string             metrics HTTP bind address
//	-s string             token secret key
//	-log-level string     debug, info, warn or error
//	-db-type string       postgres or memory
//	-db-user string
//	-db-password string
//	-db-host string
//	-db-port int
//	-db-name string
//	-db-max-open-conns int
//
// os.Args is filtered with flagx.FilterArgs first, so flags owned by other
// layers (-c) do not cause parse errors.
func parseFlags(config *Config) error {
	args := flagx.FilterArgs(os.Args[1:], []string{
		"-a", "-m", "-s", "-log-level",
		"-db-type", "-db-user", "-db-password", "-db-host", "-db-port", "-db-name", "-db-max-open-conns",
	})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&config.GRPCAddress, "a", config.GRPCAddress, "address and port to run gRPC server")
	fs.StringVar(&config.MetricsAddress, "m", config.MetricsAddress, "address and port to expose metrics")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "session token secret key")
	fs.StringVar(&config.LogLevel, "log-level", config.LogLevel, "log level")

	fs.StringVar(&config.DBType, "db-type", config.DBType, "database type (postgres or memory)")
	fs.StringVar(&config.DBUser, "db-user", config.DBUser, "database user")
	fs.StringVar(&config.DBPassword, "db-password", config.DBPassword, "database password")
	fs.StringVar(&config.DBHost, "db-host", config.DBHost, "database host")
	fs.IntVar(&config.DBPort, "db-port", config.DBPort, "database port")
	fs.StringVar(&config.DBName, "db-name", config.DBName, "database name")
	fs.IntVar(&config.DBMaxOpenConns, "db-max-open-conns", config.DBMaxOpenConns, "maximum open database connections")

	return fs.Parse(args)
}

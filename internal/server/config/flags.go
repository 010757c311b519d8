package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/userapp/internal/flagx"
)

// parseFlags populates Config fields from command-line flags.
//
// Supported flags:
//
//	-a string   HTTP bind address (e.g., ":5000")
//	-g string   gRPC bind address (e.g., ":50051")
//	-d string   database DSN, "memory://" for the in-memory store
//	-r int      store connection retry interval, seconds
//	-s          strict mode
//	-p string   password scheme: plain, bcrypt, argon2id
//	-l string   Redis URL for strict mode locks
//	-v string   log level
//
// os.Args is filtered through flagx.FilterArgs first so -c and -e, which
// are consumed earlier, do not trip the parser.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-g", "-d", "-r", "-s", "-p", "-l", "-v"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddrHTTP, "a", config.EndpointAddrHTTP, "HTTP address and port to run server")
	fs.StringVar(&config.EndpointAddrGRPC, "g", config.EndpointAddrGRPC, "gRPC address and port to run health endpoint")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	retryInterval := fs.Int("r", int(config.ConnectRetryInterval.Seconds()), "store connection retry interval (in seconds)")
	fs.BoolVar(&config.StrictMode, "s", config.StrictMode, "serialize writes per username")
	fs.StringVar(&config.PasswordScheme, "p", config.PasswordScheme, "password scheme (plain, bcrypt, argon2id)")
	fs.StringVar(&config.RedisURL, "l", config.RedisURL, "Redis URL for strict mode locks")
	fs.StringVar(&config.LogLevel, "v", config.LogLevel, "log level")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	fs.Visit(func(f *flag.Flag) {
		if f.Name == "r" {
			config.ConnectRetryInterval = time.Duration(*retryInterval) * time.Second
		}
	})
}

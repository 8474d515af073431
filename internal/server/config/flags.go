package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/streamdesk/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags:
//
//	-a string        HTTP bind address (e.g., ":3001")
//	-g string        gRPC health bind address, empty disables it
//	-d string        PostgreSQL DSN, empty uses the in-memory store
//	-s string        token HMAC secret key
//	-t int           token validity, minutes (0 = no expiry)
//	-r string        file browser root directory
//	-e string        environment ("development" or "production")
//	-l string        log level
//	-redis string    Redis address for the token denylist
//	-smtp string     SMTP relay host
//	-files-auth      require a bearer token for the file browser
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:],
		[]string{"-a", "-g", "-d", "-s", "-t", "-r", "-e", "-l", "-redis", "-smtp"},
		"-files-auth")

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddrHTTP, "a", config.EndpointAddrHTTP, "address and port to run HTTP server")
	fs.StringVar(&config.EndpointAddrGRPC, "g", config.EndpointAddrGRPC, "address and port to run gRPC health server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")
	tokenValidity := fs.Int("t", int(config.AccessTokenValidityDuration.Minutes()), "token validity (in minutes)")
	fs.StringVar(&config.FilesRoot, "r", config.FilesRoot, "file browser root")
	fs.StringVar(&config.Environment, "e", config.Environment, "environment")
	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level")
	fs.StringVar(&config.RedisAddr, "redis", config.RedisAddr, "redis address")
	fs.StringVar(&config.SMTPHost, "smtp", config.SMTPHost, "SMTP relay host")
	fs.BoolVar(&config.FilesRequireAuth, "files-auth", config.FilesRequireAuth, "require auth for file browser")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	if isFlagPassed(fs, "t") {
		config.AccessTokenValidityDuration = time.Duration(*tokenValidity) * time.Minute
	}
}

func isFlagPassed(fs *flag.FlagSet, name string) bool {
	found := false
	fs.Visit(func(f *flag.Flag) {
		if f.Name == name {
			found = true
		}
	})
	return found
}

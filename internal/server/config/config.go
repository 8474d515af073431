// Package config handles configuration for the server component,
// including defaults, environment (.env) overlay, JSON overlay, and
// command-line flags.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// DefaultSecretKey signs tokens in development. Validate rejects it in production.
const DefaultSecretKey = "dev-secret-change-me"

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Config holds runtime settings for the streamdesk server.
//
// Fields:
//   - EndpointAddrHTTP / EndpointAddrGRPC: bind addresses; an empty gRPC address disables the probe server.
//   - Environment: "development" or "production".
//   - DatabaseDSN: PostgreSQL DSN (pgx). Empty selects the in-memory store.
//   - RedisAddr / RedisPassword / RedisDB: token denylist backend. Empty address keeps it in memory.
//   - SecretKey / TokenIssuer: HMAC secret and issuer for session tokens (HS256).
//   - AccessTokenValidityDuration: token lifetime; 0 issues tokens without expiry.
//   - RevocationRetention: how long revoked tokens without expiry stay denied.
//   - BcryptCost: password hashing cost.
//   - FilesRoot / FilesVirtualPrefix / FilesRequireAuth: file browser sandbox.
//   - SMTPHost / SMTPPort / SMTPUser / SMTPPassword / SMTPInsecureTLS: mail relay. Empty host logs mail instead.
//   - SystemSender: From address of broadcast notifications.
//   - BroadcastConcurrency: parallel deliveries per broadcast.
//   - RateLimitPerWindow / RateLimitWindow: per-client request budget; 0 disables limiting.
type Config struct {
	EndpointAddrHTTP            string
	EndpointAddrGRPC            string
	Environment                 string
	DatabaseDSN                 string
	RedisAddr                   string
	RedisPassword               string
	RedisDB                     int
	SecretKey                   string
	TokenIssuer                 string
	AccessTokenValidityDuration time.Duration
	RevocationRetention         time.Duration
	BcryptCost                  int
	FilesRoot                   string
	FilesVirtualPrefix          string
	FilesRequireAuth            bool
	SMTPHost                    string
	SMTPPort                    int
	SMTPUser                    string
	SMTPPassword                string
	SMTPInsecureTLS             bool
	SystemSender                string
	BroadcastConcurrency        int
	RateLimitPerWindow          int
	RateLimitWindow             time.Duration
	CORSAllowOrigins            []string
	LogLevel                    string
	ShutdownTimeout             time.Duration
}

// LoadDefaults populates Config with development defaults.
// NOTE: the secret is insecure and is rejected by Validate in production.
func (c *Config) LoadDefaults() {
	c.EndpointAddrHTTP = ":3001"
	c.EndpointAddrGRPC = ":50051"
	c.Environment = EnvDevelopment
	c.DatabaseDSN = ""
	c.RedisAddr = ""
	c.RedisPassword = ""
	c.RedisDB = 0
	c.SecretKey = DefaultSecretKey
	c.TokenIssuer = "streamdesk"
	c.AccessTokenValidityDuration = 24 * time.Hour
	c.RevocationRetention = 24 * time.Hour
	c.BcryptCost = 10
	c.FilesRoot = "/opt/data/hls"
	c.FilesVirtualPrefix = "/data/hls"
	c.FilesRequireAuth = false
	c.SMTPHost = ""
	c.SMTPPort = 25
	c.SMTPUser = ""
	c.SMTPPassword = ""
	c.SMTPInsecureTLS = false
	c.SystemSender = "system@intranet.local"
	c.BroadcastConcurrency = 8
	c.RateLimitPerWindow = 100
	c.RateLimitWindow = 15 * time.Minute
	c.CORSAllowOrigins = []string{"*"}
	c.LogLevel = "info"
	c.ShutdownTimeout = 10 * time.Second
}

// IsProduction reports whether the config describes a production deployment.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Environment, EnvProduction)
}

// Validate checks settings that would otherwise fail late or insecurely.
func (c *Config) Validate() error {
	var errs []error

	if c.SecretKey == "" {
		errs = append(errs, errors.New("secret key is required"))
	} else if c.IsProduction() && c.SecretKey == DefaultSecretKey {
		errs = append(errs, errors.New("default secret key is not allowed in production"))
	}
	if c.BcryptCost < bcrypt.MinCost || c.BcryptCost > bcrypt.MaxCost {
		errs = append(errs, fmt.Errorf("bcrypt cost must be within [%d, %d], got %d", bcrypt.MinCost, bcrypt.MaxCost, c.BcryptCost))
	}
	if c.FilesRoot == "" {
		errs = append(errs, errors.New("files root is required"))
	}
	if c.EndpointAddrHTTP == "" {
		errs = append(errs, errors.New("http address is required"))
	}
	if c.AccessTokenValidityDuration < 0 {
		errs = append(errs, errors.New("token validity must not be negative"))
	}
	if c.BroadcastConcurrency < 1 {
		errs = append(errs, errors.New("broadcast concurrency must be at least 1"))
	}
	if c.RateLimitPerWindow < 0 || (c.RateLimitPerWindow > 0 && c.RateLimitWindow <= 0) {
		errs = append(errs, errors.New("rate limit needs a positive window"))
	}

	return errors.Join(errs...)
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from the environment (and an optional .env file), an optional JSON file,
// and finally command-line flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}

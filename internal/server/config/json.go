package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/streamdesk/internal/flagx"
	"github.com/dmitrijs2005/streamdesk/internal/timex"
)

// JsonConfig is the on-disk shape of the optional JSON config file.
// Durations accept both "15m"-style strings and integer nanoseconds.
type JsonConfig struct {
	EndpointAddrHTTP            string         `json:"endpoint_addr_http"`
	EndpointAddrGRPC            string         `json:"endpoint_addr_grpc"`
	Environment                 string         `json:"environment"`
	DatabaseDSN                 string         `json:"database_dsn"`
	RedisAddr                   string         `json:"redis_addr"`
	RedisPassword               string         `json:"redis_password"`
	RedisDB                     int            `json:"redis_db"`
	SecretKey                   string         `json:"secret_key"`
	TokenIssuer                 string         `json:"token_issuer"`
	AccessTokenValidityDuration timex.Duration `json:"access_token_validity_duration"`
	RevocationRetention         timex.Duration `json:"revocation_retention"`
	BcryptCost                  int            `json:"bcrypt_cost"`
	FilesRoot                   string         `json:"files_root"`
	FilesVirtualPrefix          string         `json:"files_virtual_prefix"`
	FilesRequireAuth            bool           `json:"files_require_auth"`
	SMTPHost                    string         `json:"smtp_host"`
	SMTPPort                    int            `json:"smtp_port"`
	SMTPUser                    string         `json:"smtp_user"`
	SMTPPassword                string         `json:"smtp_password"`
	SMTPInsecureTLS             bool           `json:"smtp_insecure_tls"`
	SystemSender                string         `json:"system_sender"`
	BroadcastConcurrency        int            `json:"broadcast_concurrency"`
	RateLimitPerWindow          int            `json:"rate_limit"`
	RateLimitWindow             timex.Duration `json:"rate_limit_window"`
	CORSAllowOrigins            []string       `json:"cors_allow_origins"`
	LogLevel                    string         `json:"log_level"`
	ShutdownTimeout             timex.Duration `json:"shutdown_timeout"`
}

// parseJson overlays values from the JSON file named by -c / -config.
// Keys missing from the file keep their current value. An unreadable
// file or invalid JSON panics, as a broken config must stop startup.
func parseJson(config *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	c := fromConfig(config)
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}
	c.apply(config)
}

func fromConfig(config *Config) *JsonConfig {
	return &JsonConfig{
		EndpointAddrHTTP:            config.EndpointAddrHTTP,
		EndpointAddrGRPC:            config.EndpointAddrGRPC,
		Environment:                 config.Environment,
		DatabaseDSN:                 config.DatabaseDSN,
		RedisAddr:                   config.RedisAddr,
		RedisPassword:               config.RedisPassword,
		RedisDB:                     config.RedisDB,
		SecretKey:                   config.SecretKey,
		TokenIssuer:                 config.TokenIssuer,
		AccessTokenValidityDuration: timex.Duration{Duration: config.AccessTokenValidityDuration},
		RevocationRetention:         timex.Duration{Duration: config.RevocationRetention},
		BcryptCost:                  config.BcryptCost,
		FilesRoot:                   config.FilesRoot,
		FilesVirtualPrefix:          config.FilesVirtualPrefix,
		FilesRequireAuth:            config.FilesRequireAuth,
		SMTPHost:                    config.SMTPHost,
		SMTPPort:                    config.SMTPPort,
		SMTPUser:                    config.SMTPUser,
		SMTPPassword:                config.SMTPPassword,
		SMTPInsecureTLS:             config.SMTPInsecureTLS,
		SystemSender:                config.SystemSender,
		BroadcastConcurrency:        config.BroadcastConcurrency,
		RateLimitPerWindow:          config.RateLimitPerWindow,
		RateLimitWindow:             timex.Duration{Duration: config.RateLimitWindow},
		CORSAllowOrigins:            config.CORSAllowOrigins,
		LogLevel:                    config.LogLevel,
		ShutdownTimeout:             timex.Duration{Duration: config.ShutdownTimeout},
	}
}

func (c *JsonConfig) apply(config *Config) {
	config.EndpointAddrHTTP = c.EndpointAddrHTTP
	config.EndpointAddrGRPC = c.EndpointAddrGRPC
	config.Environment = c.Environment
	config.DatabaseDSN = c.DatabaseDSN
	config.RedisAddr = c.RedisAddr
	config.RedisPassword = c.RedisPassword
	config.RedisDB = c.RedisDB
	config.SecretKey = c.SecretKey
	config.TokenIssuer = c.TokenIssuer
	config.AccessTokenValidityDuration = c.AccessTokenValidityDuration.Duration
	config.RevocationRetention = c.RevocationRetention.Duration
	config.BcryptCost = c.BcryptCost
	config.FilesRoot = c.FilesRoot
	config.FilesVirtualPrefix = c.FilesVirtualPrefix
	config.FilesRequireAuth = c.FilesRequireAuth
	config.SMTPHost = c.SMTPHost
	config.SMTPPort = c.SMTPPort
	config.SMTPUser = c.SMTPUser
	config.SMTPPassword = c.SMTPPassword
	config.SMTPInsecureTLS = c.SMTPInsecureTLS
	config.SystemSender = c.SystemSender
	config.BroadcastConcurrency = c.BroadcastConcurrency
	config.RateLimitPerWindow = c.RateLimitPerWindow
	config.RateLimitWindow = c.RateLimitWindow.Duration
	config.CORSAllowOrigins = c.CORSAllowOrigins
	config.LogLevel = c.LogLevel
	config.ShutdownTimeout = c.ShutdownTimeout.Duration
}

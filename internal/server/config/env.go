package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// parseEnv overlays values from environment variables. A .env file in the
// working directory is loaded first if present; variables already set in the
// process environment win over it.
//
// Unparseable numeric, boolean, or duration values are ignored and the
// previous value is kept.
func parseEnv(config *Config) {
	_ = godotenv.Load()

	if port, ok := os.LookupEnv("PORT"); ok && port != "" {
		config.EndpointAddrHTTP = ":" + port
	}
	envString("HTTP_ADDR", &config.EndpointAddrHTTP)
	envString("GRPC_ADDR", &config.EndpointAddrGRPC)
	envString("APP_ENV", &config.Environment)
	envString("DATABASE_DSN", &config.DatabaseDSN)
	envString("REDIS_ADDR", &config.RedisAddr)
	envString("REDIS_PASSWORD", &config.RedisPassword)
	envInt("REDIS_DB", &config.RedisDB)
	envString("JWT_SECRET", &config.SecretKey)
	envString("JWT_ISSUER", &config.TokenIssuer)
	envDuration("JWT_TTL", &config.AccessTokenValidityDuration)
	envDuration("REVOCATION_RETENTION", &config.RevocationRetention)
	envInt("BCRYPT_COST", &config.BcryptCost)
	envString("FILES_ROOT", &config.FilesRoot)
	envString("FILES_VIRTUAL_PREFIX", &config.FilesVirtualPrefix)
	envBool("FILES_REQUIRE_AUTH", &config.FilesRequireAuth)
	envString("SMTP_HOST", &config.SMTPHost)
	envInt("SMTP_PORT", &config.SMTPPort)
	envString("SMTP_USER", &config.SMTPUser)
	envString("SMTP_PASSWORD", &config.SMTPPassword)
	envBool("SMTP_INSECURE_TLS", &config.SMTPInsecureTLS)
	envString("SYSTEM_SENDER", &config.SystemSender)
	envInt("BROADCAST_CONCURRENCY", &config.BroadcastConcurrency)
	envInt("RATE_LIMIT", &config.RateLimitPerWindow)
	envDuration("RATE_LIMIT_WINDOW", &config.RateLimitWindow)
	envList("CORS_ALLOW_ORIGINS", &config.CORSAllowOrigins)
	envString("LOG_LEVEL", &config.LogLevel)
	envDuration("SHUTDOWN_TIMEOUT", &config.ShutdownTimeout)
}

func envString(key string, dst *string) {
	if v, ok := os.LookupEnv(key); ok {
		*dst = v
	}
}

func envInt(key string, dst *int) {
	if v, ok := os.LookupEnv(key); ok {
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			*dst = n
		}
	}
}

func envBool(key string, dst *bool) {
	if v, ok := os.LookupEnv(key); ok {
		if b, err := strconv.ParseBool(strings.TrimSpace(v)); err == nil {
			*dst = b
		}
	}
}

func envDuration(key string, dst *time.Duration) {
	if v, ok := os.LookupEnv(key); ok {
		if d, err := time.ParseDuration(strings.TrimSpace(v)); err == nil {
			*dst = d
		}
	}
}

func envList(key string, dst *[]string) {
	v, ok := os.LookupEnv(key)
	if !ok {
		return
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	*dst = out
}

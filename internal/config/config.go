package config // package config loads application configuration from environment variables

import (
	"log"
	"os"
	"strconv"
	"time"
)

// Config holds all runtime configuration values. Each field corresponds
// to an environment variable. Optional subsystems (SMTP, MinIO) use
// plain os.Getenv so the server can run without them in development.
type Config struct {
	Env  string // application environment (e.g. "dev", "prod")
	Port string // HTTP port to listen on

	DBUser string
	DBPass string // optional
	DBHost string
	DBPort string
	DBName string

	JWTSecret          string        // secret used to sign JWTs
	AccessTokenTTL     time.Duration // access token lifetime
	RefreshTokenTTL    time.Duration // refresh token lifetime
	ResetTokenTTL      time.Duration // password reset token lifetime
	BcryptCost         int           // bcrypt cost for password hashing
	MinPasswordEntropy float64       // minimum password entropy in bits

	SMTPHost string // mail delivery (consumer side)
	SMTPPort int
	SMTPUser string
	SMTPPass string
	MailFrom string
	ResetURL string // base URL embedded in reset emails

	MinioEndpoint  string // object storage for profile pictures
	MinioAccessKey string
	MinioSecretKey string
	MinioBucket    string
	MinioUseSSL    bool
}

// Load reads configuration values from environment variables and returns
// a Config. Required variables are enforced by must() and missing values
// cause the program to exit with a fatal log message.
func Load() Config {
	return Config{
		Env:  must("APP_ENV"),
		Port: must("APP_PORT"),

		DBUser: must("DB_USER"),
		DBPass: os.Getenv("DB_PASS"),
		DBHost: must("DB_HOST"),
		DBPort: must("DB_PORT"),
		DBName: must("DB_NAME"),

		JWTSecret:          must("JWT_SECRET"),
		AccessTokenTTL:     envDur("ACCESS_TOKEN_TTL", time.Hour),
		RefreshTokenTTL:    envDur("REFRESH_TOKEN_TTL", 72*time.Hour),
		ResetTokenTTL:      envDur("RESET_TOKEN_TTL", time.Hour),
		BcryptCost:         envInt("BCRYPT_COST", 10),
		MinPasswordEntropy: envFloat("MIN_PASSWORD_ENTROPY", 50),

		SMTPHost: os.Getenv("SMTP_HOST"),
		SMTPPort: envInt("SMTP_PORT", 587),
		SMTPUser: os.Getenv("SMTP_USER"),
		SMTPPass: os.Getenv("SMTP_PASS"),
		MailFrom: envStr("MAIL_FROM", "no-reply@socialnet.local"),
		ResetURL: envStr("RESET_URL", "http://localhost:3000/reset-password"),

		MinioEndpoint:  os.Getenv("MINIO_ENDPOINT"),
		MinioAccessKey: os.Getenv("MINIO_ACCESS_KEY"),
		MinioSecretKey: os.Getenv("MINIO_SECRET_KEY"),
		MinioBucket:    envStr("MINIO_BUCKET", "socialnet-avatars"),
		MinioUseSSL:    envBool("MINIO_USE_SSL", false),
	}
}

// must retrieves the value of a required environment variable. If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

func envFloat(key string, def float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		log.Fatalf("invalid float for %s: %q", key, v)
	}
	return f
}

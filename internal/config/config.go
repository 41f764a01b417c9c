package config

import (
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	DBDriver      string
	DBHost        string
	DBPort        string
	DBUser        string
	DBPassword    string
	DBName        string
	DBSSLRootCert string
	Port          string
	GinMode       string

	// Identity provider verification. The server never issues tokens;
	// it only checks signatures on tokens minted by the provider.
	AuthJWTSecret        string
	AuthJWTPublicKeyFile string
	AuthIssuer           string
	AuthAudience         string
}

func Load() *Config {
	// Missing .env is fine; env vars win either way.
	_ = godotenv.Load()

	return &Config{
		DBDriver:      getEnv("DB_DRIVER", "postgres"),
		DBHost:        getEnv("DB_HOST", "localhost"),
		DBPort:        getEnv("DB_PORT", "5432"),
		DBUser:        getEnv("DB_USER", "taskuser"),
		DBPassword:    getEnv("DB_PASSWORD", "taskpassword"),
		DBName:        getEnv("DB_NAME", "fuelbuddy"),
		DBSSLRootCert: getEnv("DB_SSL_ROOT_CERT", ""),
		Port:          getEnv("PORT", "8080"),
		GinMode:       getEnv("GIN_MODE", "debug"),

		AuthJWTSecret:        getEnv("AUTH_JWT_SECRET", ""),
		AuthJWTPublicKeyFile: getEnv("AUTH_JWT_PUBLIC_KEY_FILE", ""),
		AuthIssuer:           getEnv("AUTH_ISSUER", ""),
		AuthAudience:         getEnv("AUTH_AUDIENCE", ""),
	}
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

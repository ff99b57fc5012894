// Package config loads process configuration from the environment, with an
// optional .env file for development.
package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

// Config holds everything the server needs to wire its collaborators.
type Config struct {
	ListenAddr string

	DatabaseDSN string

	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioUseSSL    bool
	MinioBucket    string
	PublicBaseURL  string

	KafkaBroker string
	KafkaTopic  string

	RoutingBaseURL string

	AdminUser     string
	AdminPassword string
	JWTSecret     string
}

// LoadEnv reads a .env file if one exists; in deployed environments the
// variables are expected to be set directly.
func LoadEnv() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, assuming environment variables are set directly.")
	}
}

// MustGetEnv fetches a required variable or exits.
func MustGetEnv(key string) string {
	val, ok := os.LookupEnv(key)
	if !ok {
		log.Fatalf("Environment variable %s not set", key)
	}
	return val
}

func getenv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

// FromEnv builds the full server configuration. Database and auth settings
// are mandatory; MinIO and Kafka are optional collaborators that disable
// their feature when unset.
func FromEnv() Config {
	return Config{
		ListenAddr: getenv("LISTEN_ADDR", ":8080"),

		DatabaseDSN: MustGetEnv("DATABASE_DSN"),

		MinioEndpoint:  os.Getenv("MINIO_ENDPOINT"),
		MinioAccessKey: os.Getenv("MINIO_ACCESS_KEY"),
		MinioSecretKey: os.Getenv("MINIO_SECRET_KEY"),
		MinioUseSSL:    os.Getenv("MINIO_USE_SSL") == "true",
		MinioBucket:    getenv("MINIO_BUCKET", "location-images"),
		PublicBaseURL:  os.Getenv("PUBLIC_BASE_URL"),

		KafkaBroker: os.Getenv("KAFKA_BROKER"),
		KafkaTopic:  getenv("KAFKA_TOPIC", "report-events"),

		RoutingBaseURL: os.Getenv("ROUTING_BASE_URL"),

		AdminUser:     MustGetEnv("ADMIN_USER"),
		AdminPassword: MustGetEnv("ADMIN_PASSWORD"),
		JWTSecret:     MustGetEnv("JWT_SECRET"),
	}
}

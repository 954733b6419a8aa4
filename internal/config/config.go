package config

import (
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// splitList parses a comma-separated env value into its non-empty entries.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// Config holds all configuration for the application.
type Config struct {
	Addr      string
	JWTSecret string
	// WSOrigins lists browser origins allowed to open websocket connections.
	// Empty means same-origin only.
	WSOrigins []string
	DBUrl     string
	DBNs      string
	DBDb      string
	DBUser    string
	DBPass    string
}

// New loads configuration from environment variables.
func New() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment variables")
	}

	cfg := &Config{
		Addr:      os.Getenv("ADDR"),
		JWTSecret: os.Getenv("JWT_SECRET"),
		WSOrigins: splitList(os.Getenv("WS_ALLOWED_ORIGINS")),
		DBUrl:     os.Getenv("SURREAL_URL"),
		DBUser:    os.Getenv("SURREAL_USER"),
		DBPass:    os.Getenv("SURREAL_PASS"),
		DBNs:      os.Getenv("SURREAL_NS"),
		DBDb:      os.Getenv("SURREAL_DB"),
	}

	if cfg.Addr == "" {
		cfg.Addr = ":5000"
	}

	if cfg.JWTSecret == "" {
		log.Fatal("Required environment variable JWT_SECRET is not set.")
	}
	if cfg.DBUrl == "" || cfg.DBNs == "" || cfg.DBDb == "" {
		log.Fatal("Required environment variables SURREAL_URL, SURREAL_NS, or SURREAL_DB are not set.")
	}

	return cfg
}

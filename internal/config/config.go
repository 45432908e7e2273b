package config

import (
	"errors"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

const (
	defaultPort        = "3000"
	defaultRedirectURI = "http://localhost:5173"
	defaultMaxResults  = 10
)

// Config holds every runtime option the server recognizes. It is loaded
// once in main and injected; nothing reads the environment after startup.
type Config struct {
	GoogleClientID     string
	GoogleClientSecret string
	RedirectURI        string
	Port               string
	MaxResults         int64
}

// Load reads configuration from a .env file if present, then from the
// environment, filling in defaults for everything but the credentials.
func Load() Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	cfg := Config{
		GoogleClientID:     os.Getenv("GOOGLE_CLIENT_ID"),
		GoogleClientSecret: os.Getenv("GOOGLE_CLIENT_SECRET"),
		RedirectURI:        os.Getenv("REDIRECT_URI"),
		Port:               os.Getenv("PORT"),
		MaxResults:         defaultMaxResults,
	}
	if cfg.Port == "" {
		cfg.Port = defaultPort
	}
	if cfg.RedirectURI == "" {
		// Must match the redirect URI registered in the Google Cloud Console.
		cfg.RedirectURI = defaultRedirectURI
	}
	if v := os.Getenv("MAX_RESULTS"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil || n <= 0 {
			log.Printf("Ignoring invalid MAX_RESULTS %q", v)
		} else {
			cfg.MaxResults = n
		}
	}
	return cfg
}

// Validate reports whether the config is usable at all.
func (c Config) Validate() error {
	if c.GoogleClientID == "" {
		return errors.New("GOOGLE_CLIENT_ID is required")
	}
	return nil
}

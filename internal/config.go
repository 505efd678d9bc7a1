package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	GitHubUser         string
	GitHubToken        string
	GitHubClientID     string
	GitHubClientSecret string
	SessionSecret      string
	DatabaseURL        string
	BaseURL            string
	Addr               string
}

func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	gitHubUser := os.Getenv("GITHUB_USERNAME")
	if gitHubUser == "" {
		return nil, fmt.Errorf("GITHUB_USERNAME must be set")
	}

	gitHubToken := os.Getenv("GITHUB_TOKEN")
	if gitHubToken == "" {
		return nil, fmt.Errorf("GITHUB_TOKEN must be set")
	}

	clientID := os.Getenv("GITHUB_CLIENT_ID")
	if clientID == "" {
		return nil, fmt.Errorf("GITHUB_CLIENT_ID must be set")
	}

	clientSecret := os.Getenv("GITHUB_CLIENT_SECRET")
	if clientSecret == "" {
		return nil, fmt.Errorf("GITHUB_CLIENT_SECRET must be set")
	}

	sessionSecret := os.Getenv("SESSION_SECRET")
	if sessionSecret == "" {
		return nil, fmt.Errorf("SESSION_SECRET must be set")
	}

	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL must be set")
	}

	return &Config{
		GitHubUser:         gitHubUser,
		GitHubToken:        gitHubToken,
		GitHubClientID:     clientID,
		GitHubClientSecret: clientSecret,
		SessionSecret:      sessionSecret,
		DatabaseURL:        databaseURL,
		BaseURL:            getEnv("BASE_URL", "http://localhost:8080"),
		Addr:               getEnv("ADDR", ":8080"),
	}, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

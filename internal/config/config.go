package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Port              string
	SupabaseURL       string
	SupabaseAnonKey   string
	SupabaseJWTSecret string
	MongoDBURI        string
	MongoDBPassword   string
	MongoDBDatabase   string
	GeminiAPIKey      string
	GeminiModel       string
	DirectoryURL      string
	FrontendURL       string
	AllowedOrigins    []string
	CloudinaryName    string
	CloudinaryKey     string
	CloudinarySecret  string
	SearchDelay       time.Duration
	WriteRateLimit    int
	Environment       string
	LogLevel          string
}

func LoadConfig() (*Config, error) {
	frontendURL := getEnvWithDefault("FRONTEND_URL", "http://localhost:5173")
	cfg := &Config{
		Port:              getEnvWithDefault("PORT", "8080"),
		SupabaseURL:       os.Getenv("SUPABASE_URL"),
		SupabaseAnonKey:   os.Getenv("SUPABASE_URL_ANON_KEY"),
		SupabaseJWTSecret: os.Getenv("SUPABASE_JWT_SECRET"),
		MongoDBURI:        os.Getenv("MONGODB_URI"),
		MongoDBPassword:   os.Getenv("MONGODB_PASSWORD"),
		MongoDBDatabase:   getEnvWithDefault("MONGODB_DATABASE", "crumbs"),
		GeminiAPIKey:      os.Getenv("GEMINI_API_KEY"),
		GeminiModel:       os.Getenv("GEMINI_MODEL"),
		DirectoryURL:      getEnvWithDefault("DIRECTORY_URL", "http://universities.hipolabs.com"),
		FrontendURL:       strings.TrimRight(frontendURL, "/"),
		AllowedOrigins:    splitList(getEnvWithDefault("ALLOWED_ORIGINS", frontendURL)),
		CloudinaryName:    os.Getenv("CLOUDINARY_CLOUD_NAME"),
		CloudinaryKey:     os.Getenv("CLOUDINARY_API_KEY"),
		CloudinarySecret:  os.Getenv("CLOUDINARY_API_SECRET"),
		Environment:       getEnvWithDefault("ENVIRONMENT", "development"),
		LogLevel:          getEnvWithDefault("LOG_LEVEL", "info"),
	}

	delayMs, err := strconv.Atoi(getEnvWithDefault("SEARCH_DEBOUNCE_MS", "300"))
	if err != nil || delayMs < 0 {
		return nil, fmt.Errorf("SEARCH_DEBOUNCE_MS must be a non-negative integer")
	}
	cfg.SearchDelay = time.Duration(delayMs) * time.Millisecond

	cfg.WriteRateLimit, err = strconv.Atoi(getEnvWithDefault("WRITE_RATE_LIMIT", "30"))
	if err != nil || cfg.WriteRateLimit <= 0 {
		return nil, fmt.Errorf("WRITE_RATE_LIMIT must be a positive integer")
	}

	// Validate required fields
	if cfg.SupabaseURL == "" {
		return nil, fmt.Errorf("SUPABASE_URL is required")
	}
	if cfg.SupabaseAnonKey == "" {
		return nil, fmt.Errorf("SUPABASE_URL_ANON_KEY is required")
	}
	if cfg.MongoDBURI == "" {
		return nil, fmt.Errorf("MONGODB_URI is required")
	}
	if strings.Contains(cfg.MongoDBURI, "<password>") && cfg.MongoDBPassword == "" {
		return nil, fmt.Errorf("MONGODB_PASSWORD is required when MONGODB_URI has a <password> placeholder")
	}

	return cfg, nil
}

// LoadDatabaseConfig reads only the MongoDB settings. It is used by tools
// that do not talk to the identity provider.
func LoadDatabaseConfig() (*Config, error) {
	cfg := &Config{
		MongoDBURI:      os.Getenv("MONGODB_URI"),
		MongoDBPassword: os.Getenv("MONGODB_PASSWORD"),
		MongoDBDatabase: getEnvWithDefault("MONGODB_DATABASE", "crumbs"),
		Environment:     getEnvWithDefault("ENVIRONMENT", "development"),
	}
	if cfg.MongoDBURI == "" {
		return nil, fmt.Errorf("MONGODB_URI is required")
	}
	if strings.Contains(cfg.MongoDBURI, "<password>") && cfg.MongoDBPassword == "" {
		return nil, fmt.Errorf("MONGODB_PASSWORD is required when MONGODB_URI has a <password> placeholder")
	}
	return cfg, nil
}

func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, strings.TrimRight(part, "/"))
		}
	}
	return out
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

func (c *Config) HasCloudinary() bool {
	return c.CloudinaryName != "" && c.CloudinaryKey != "" && c.CloudinarySecret != ""
}

// MongoDBFullURI substitutes the password placeholder of the URI.
func (c *Config) MongoDBFullURI() string {
	return strings.Replace(c.MongoDBURI, "<password>", c.MongoDBPassword, 1)
}

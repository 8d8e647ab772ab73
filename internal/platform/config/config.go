package config

import (
	"fmt"
	"log"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Template store backends.
const (
	TemplateBackendFile     = "file"
	TemplateBackendPostgres = "postgres"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL    string
	Port           string
	IsProduction   bool
	EnableDBCheck  bool
	MigrationsPath string

	JWTSecret string
	JWTIssuer string

	// Import defaults
	TemplateBackend    string
	TemplateDir        string
	DefaultAccountName string
	DefaultAccountCode string
	DefaultCurrency    string
	PayeeShortening    bool

	// HTTP edge
	RateLimit          string // limiter formatted rate, e.g. "60-M"
	CORSAllowedOrigins []string
	PostHogAPIKey      string
	PostHogEndpoint    string
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("ENABLE_DB_CHECK", false)
	viper.SetDefault("MIGRATIONS_PATH", "file://migrations")
	viper.SetDefault("JWT_SECRET", "a-very-secret-key-should-be-longer-and-random")
	viper.SetDefault("JWT_ISSUER", "statement-import")
	viper.SetDefault("TEMPLATE_BACKEND", TemplateBackendFile)
	viper.SetDefault("TEMPLATE_DIR", "csv_mappings")
	viper.SetDefault("DEFAULT_ACCOUNT_NAME", "")
	viper.SetDefault("DEFAULT_ACCOUNT_CODE", "")
	viper.SetDefault("DEFAULT_CURRENCY", "USD")
	viper.SetDefault("PAYEE_SHORTENING", true)
	viper.SetDefault("RATE_LIMIT", "60-M")
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")
	viper.SetDefault("POSTHOG_API_KEY", "")
	viper.SetDefault("POSTHOG_ENDPOINT", "https://us.i.posthog.com")

	viper.AutomaticEnv()

	cfg := &Config{
		DatabaseURL:        viper.GetString("PGSQL_URL"),
		Port:               viper.GetString("PORT"),
		IsProduction:       viper.GetBool("IS_PRODUCTION"),
		EnableDBCheck:      viper.GetBool("ENABLE_DB_CHECK"),
		MigrationsPath:     viper.GetString("MIGRATIONS_PATH"),
		JWTSecret:          viper.GetString("JWT_SECRET"),
		JWTIssuer:          viper.GetString("JWT_ISSUER"),
		TemplateBackend:    strings.ToLower(viper.GetString("TEMPLATE_BACKEND")),
		TemplateDir:        viper.GetString("TEMPLATE_DIR"),
		DefaultAccountName: viper.GetString("DEFAULT_ACCOUNT_NAME"),
		DefaultAccountCode: viper.GetString("DEFAULT_ACCOUNT_CODE"),
		DefaultCurrency:    strings.ToUpper(viper.GetString("DEFAULT_CURRENCY")),
		PayeeShortening:    viper.GetBool("PAYEE_SHORTENING"),
		RateLimit:          viper.GetString("RATE_LIMIT"),
		CORSAllowedOrigins: splitList(viper.GetString("CORS_ALLOWED_ORIGINS")),
		PostHogAPIKey:      viper.GetString("POSTHOG_API_KEY"),
		PostHogEndpoint:    viper.GetString("POSTHOG_ENDPOINT"),
	}

	if cfg.Port == "" {
		cfg.Port = "8080" // Default port
		log.Printf("Warning: PORT environment variable not set. Defaulting to %s\n", cfg.Port)
	}

	switch cfg.TemplateBackend {
	case TemplateBackendFile:
	case TemplateBackendPostgres:
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("TEMPLATE_BACKEND=postgres requires PGSQL_URL")
		}
	default:
		return nil, fmt.Errorf("unknown TEMPLATE_BACKEND %q", cfg.TemplateBackend)
	}

	if cfg.JWTSecret == "a-very-secret-key-should-be-longer-and-random" && cfg.IsProduction {
		log.Println("Warning: JWT_SECRET environment variable not set. Using default insecure key.")
	}
	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set. Bank account lookups are disabled.")
	}

	return cfg, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	AppMode string
	Port    string
	Store   StoreConfig
	Admin   AdminConfig
	JWT     JWTConfig
	Cookie  CookieConfig
}

// StoreConfig selects and configures the state store driver
type StoreConfig struct {
	Driver   string // "file" or "mysql"
	FilePath string
	Database DatabaseConfig
}

// DatabaseConfig holds database configuration for the mysql driver
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
}

// AdminConfig holds the two out-of-band admin secrets. They gate the
// two-step admin login and are never compiled into the core.
type AdminConfig struct {
	Password string
	ID       string
}

// JWTConfig holds session token configuration
type JWTConfig struct {
	Secret          string
	AccessTokenMins int
}

// CookieConfig holds cookie configuration
type CookieConfig struct {
	Secure   bool
	SameSite string
	Domain   string
}

// Load reads configuration from .env file and environment variables
func Load() (*Config, error) {
	// Load .env file (ignore error if file doesn't exist in production)
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using environment variables")
	}

	// Get APP_MODE (default to "dev") - trim spaces for Windows compatibility
	appMode := strings.TrimSpace(getEnv("APP_MODE", "dev"))
	if appMode != "dev" && appMode != "prod" {
		return nil, fmt.Errorf("invalid APP_MODE: '%s' (must be 'dev' or 'prod')", appMode)
	}

	admin := loadAdminConfig(appMode)
	if admin.Password == "" || admin.ID == "" {
		return nil, fmt.Errorf("ADMIN_PASSWORD and ADMIN_ID must be set")
	}

	config := &Config{
		AppMode: appMode,
		Port:    getEnv("PORT", "3000"),
		Store:   loadStoreConfig(appMode),
		Admin:   admin,
		JWT:     loadJWTConfig(appMode),
		Cookie:  loadCookieConfig(appMode),
	}

	log.Printf("✅ Configuration loaded successfully [MODE: %s]", appMode)
	return config, nil
}

// loadStoreConfig loads state store config based on mode
func loadStoreConfig(mode string) StoreConfig {
	prefix := "DEV_"
	if mode == "prod" {
		prefix = "PROD_"
	}

	return StoreConfig{
		Driver:   getEnv("STORE_DRIVER", "file"),
		FilePath: getEnv("STORE_FILE", "data/markethub.json"),
		Database: DatabaseConfig{
			Host:     getEnv(prefix+"DB_HOST", "localhost"),
			Port:     getEnv(prefix+"DB_PORT", "3306"),
			User:     getEnv(prefix+"DB_USER", "root"),
			Password: getEnv(prefix+"DB_PASS", ""),
			DBName:   getEnv(prefix+"DB_NAME", "markethub"),
		},
	}
}

// loadAdminConfig loads the admin secrets based on mode
func loadAdminConfig(mode string) AdminConfig {
	prefix := "DEV_"
	if mode == "prod" {
		prefix = "PROD_"
	}

	return AdminConfig{
		Password: getEnv(prefix+"ADMIN_PASSWORD", getEnv("ADMIN_PASSWORD", "")),
		ID:       getEnv(prefix+"ADMIN_ID", getEnv("ADMIN_ID", "")),
	}
}

// loadJWTConfig loads session token config based on mode
func loadJWTConfig(mode string) JWTConfig {
	prefix := "DEV_"
	if mode == "prod" {
		prefix = "PROD_"
	}

	accessMins, _ := strconv.Atoi(getEnv("ACCESS_TOKEN_MINUTES", "60"))

	return JWTConfig{
		Secret:          getEnv(prefix+"JWT_SECRET", "default_secret"),
		AccessTokenMins: accessMins,
	}
}

// loadCookieConfig loads cookie config based on mode
func loadCookieConfig(mode string) CookieConfig {
	prefix := "DEV_"
	if mode == "prod" {
		prefix = "PROD_"
	}

	secure, _ := strconv.ParseBool(getEnv(prefix+"COOKIE_SECURE", "false"))

	return CookieConfig{
		Secure:   secure,
		SameSite: getEnv("COOKIE_SAMESITE", "lax"),
		Domain:   getEnv("COOKIE_DOMAIN", ""),
	}
}

// getEnv gets environment variable with default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// IsDev returns true if running in development mode
func (c *Config) IsDev() bool {
	return c.AppMode == "dev"
}

// IsProd returns true if running in production mode
func (c *Config) IsProd() bool {
	return c.AppMode == "prod"
}

// GetAllowedOrigins returns allowed origins for CORS
func (c *Config) GetAllowedOrigins() string {
	origins := getEnv("ALLOWED_ORIGINS", "")
	if origins == "" {
		if c.IsDev() {
			return "*"
		}
		return "https://markethub.local"
	}
	return origins
}

// internal/config/config.go
//
// Process configuration read from the environment.
// Responsibilities:
//   - Load a .env file when present (godotenv; real env vars win).
//   - Collect every setting the server needs, with development defaults.
//
// Notes:
//   - JWT_SECRET falls back to a development value; Production() callers
//     should refuse to start without a real secret.

package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

const devSecret = "dev_secret_change_me"

// Config is the full set of server settings.
type Config struct {
	Env          string
	Port         string
	LogLevel     zerolog.Level
	DBPath       string
	JWTSecret    string
	JWTTTL       time.Duration
	CookieName   string
	AnonCookie   string
	ClientOrigin string
	DailySalt    string
	WheelFile    string
	PhrasesFile  string
}

// Load reads the optional env files, then the environment.
func Load(envFiles ...string) Config {
	_ = godotenv.Load(envFiles...)

	lvl, err := zerolog.ParseLevel(Get("LOG_LEVEL", "info"))
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	return Config{
		Env:          Get("APP_ENV", "development"),
		Port:         Get("PORT", "5175"),
		LogLevel:     lvl,
		DBPath:       Get("DB_PATH", "./data/app.db"),
		JWTSecret:    Get("JWT_SECRET", devSecret),
		JWTTTL:       time.Duration(Int("JWT_EXPIRES_DAYS", 14)) * 24 * time.Hour,
		CookieName:   Get("COOKIE_NAME", "wheel_token"),
		AnonCookie:   Get("ANON_COOKIE_NAME", "wheel_anon"),
		ClientOrigin: Get("CLIENT_ORIGIN", "http://localhost:5173"),
		DailySalt:    Get("DAILY_SALT", "local_dev_salt"),
		WheelFile:    os.Getenv("WHEEL_FILE"),
		PhrasesFile:  os.Getenv("PHRASES_FILE"),
	}
}

// Production reports whether cookies must be Secure and secrets real.
func (c Config) Production() bool { return c.Env == "production" }

// InsecureSecret reports whether the JWT secret is the development default.
func (c Config) InsecureSecret() bool { return c.JWTSecret == devSecret }

// Get returns the value of k or def if unset/empty.
func Get(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

// Int returns k parsed as an int, or def when unset or malformed.
func Int(k string, def int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

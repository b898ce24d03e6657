package config // package config loads application configuration from environment variables

import (
	"log" // log is used to report configuration errors and halt execution
	"os"  // os provides access to environment variables
)

// Config holds all runtime configuration values. Each field corresponds
// to an environment variable. The types reflect how the values are used
// in the application: strings for identifiers and secrets, ints for
// durations, costs and caps.
type Config struct {
	Env  string // application environment (e.g. "dev", "prod")
	Port string // HTTP port to listen on

	DBUser string // database username
	DBPass string // database password (optional)
	DBHost string // database host address
	DBPort string // database port number
	DBName string // database name

	JWTSecret      string // secret used to sign JWTs
	JWTIssuer      string // iss claim on issued access tokens
	JWTAudience    string // aud claim on issued access tokens
	AccessTTLMin   int    // access token time-to-live in minutes
	RefreshTTLDays int    // refresh token time-to-live in days
	MaxLiveTokens  int    // cap on live refresh tokens per user
	BcryptCost     int    // bcrypt cost for password hashing

	CookieDomain   string // cookie Domain attribute ("" for host-only)
	CookiePath     string // cookie Path attribute
	CookieSecure   bool   // cookie Secure attribute
	CookieSameSite string // "lax", "strict" or "none"
}

// Load reads configuration values from environment variables and returns
// a Config. Required variables are enforced by must() and missing values
// cause the program to exit with a fatal log message. Token and cookie
// settings fall back to the documented defaults so a minimal env still
// boots a working server.
func Load() Config {
	return Config{
		Env:    must("APP_ENV"),
		Port:   must("APP_PORT"),
		DBUser: must("DB_USER"),
		DBPass: os.Getenv("DB_PASS"),
		DBHost: must("DB_HOST"),
		DBPort: must("DB_PORT"),
		DBName: must("DB_NAME"),

		JWTSecret:      must("JWT_SECRET"),
		JWTIssuer:      envStr("JWT_ISSUER", "GuitarLabApi"),
		JWTAudience:    envStr("JWT_AUDIENCE", "GuitarLabClient"),
		AccessTTLMin:   envInt("ACCESS_TOKEN_TTL_MIN", 15),
		RefreshTTLDays: envInt("REFRESH_TOKEN_TTL_DAYS", 7),
		MaxLiveTokens:  envInt("AUTH_MAX_LIVE_TOKENS", 5),
		BcryptCost:     envInt("BCRYPT_COST", 12),

		CookieDomain:   os.Getenv("COOKIE_DOMAIN"),
		CookiePath:     envStr("COOKIE_PATH", "/"),
		CookieSecure:   envBool("COOKIE_SECURE", true),
		CookieSameSite: envStr("COOKIE_SAMESITE", "lax"),
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

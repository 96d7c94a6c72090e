package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the application's configuration values.
type Config struct {
	HostIP            string        // Host IP for the server
	RESTPort          int           // Port for the REST API
	GinMode           string        // Mode for the Gin framework (e.g., release, debug, test)
	MazeDir           string        // Directory maze files are loaded from
	DBHost            string        // Hostname or IP address for the database
	DBPort            int           // Port number for the database
	DBUser            string        // Username for the database
	DBPassword        string        // Password for the database
	DBName            string        // Name of the database
	RedisAddr         string        // host:port of the solved path cache
	RedisPassword     string        // Password for the solved path cache
	RedisDB           int           // Redis logical database
	PathCacheTTL      time.Duration // Lifetime of a cached solver result
	JWTSecret         string        // Secret key for JWT signing
	JWTIssuer         string        // Issuer claim for JWTs
	TokenTTL          time.Duration // Lifetime of a session token
	SolveTimeout      time.Duration // Upper bound for awaiting a solver result
	SolvePollInterval time.Duration // Interval between solver polls
	MaxSessions       int           // Live sessions allowed at once
	SessionIdleTTL    time.Duration // Idle sessions older than this are closed
	CORSOrigins       []string      // Allowed CORS origins
	ReadTimeout       time.Duration // HTTP server read timeout
	WriteTimeout      time.Duration // HTTP server write timeout
}

// Envs holds the application's configuration loaded from environment variables.
var Envs = initConfig()

// initConfig initializes and returns the application configuration.
// It loads environment variables from a .env file.
func initConfig() Config {
	// Load .env file if available
	if err := godotenv.Load(); err != nil {
		log.Printf("[APP] [INFO] .env file not found or could not be loaded: %v", err)
	}

	return Config{
		HostIP:            getEnvWithDefault("HOST_IP", "0.0.0.0"),
		RESTPort:          getEnvAsInt("REST_PORT", 8080),
		GinMode:           getEnvWithDefault("GIN_MODE", "release"),
		MazeDir:           getEnvWithDefault("MAZE_DIR", "mazes"),
		DBHost:            getEnvWithDefault("DB_HOST", "localhost"),
		DBPort:            getEnvAsInt("DB_PORT", 27017),
		DBUser:            getEnvWithDefault("DB_USER", ""),
		DBPassword:        getEnvWithDefault("DB_PASS", ""),
		DBName:            getEnvWithDefault("DB_NAME", "vinom_maze"),
		RedisAddr:         getEnvWithDefault("REDIS_ADDR", "localhost:6379"),
		RedisPassword:     getEnvWithDefault("REDIS_PASS", ""),
		RedisDB:           getEnvAsInt("REDIS_DB", 0),
		PathCacheTTL:      getEnvAsDuration("PATH_CACHE_TTL", 24*time.Hour),
		JWTSecret:         getEnvWithDefault("JWT_SECRET", ""),
		JWTIssuer:         getEnvWithDefault("JWT_ISSUER", "vinom-maze"),
		TokenTTL:          getEnvAsDuration("TOKEN_TTL", 2*time.Hour),
		SolveTimeout:      getEnvAsDuration("SOLVE_TIMEOUT", 10*time.Second),
		SolvePollInterval: getEnvAsDuration("SOLVE_POLL_INTERVAL", time.Second),
		MaxSessions:       getEnvAsInt("MAX_SESSIONS", 1000),
		SessionIdleTTL:    getEnvAsDuration("SESSION_IDLE_TTL", 30*time.Minute),
		CORSOrigins:       getEnvAsList("CORS_ORIGINS", []string{"*"}),
		ReadTimeout:       getEnvAsDuration("HTTP_READ_TIMEOUT", 15*time.Second),
		WriteTimeout:      getEnvAsDuration("HTTP_WRITE_TIMEOUT", 15*time.Second),
	}
}

// getEnvWithDefault retrieves the value of an environment variable or returns a default value if not set.
func getEnvWithDefault(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvAsInt retrieves an integer environment variable, logging a fatal error if it cannot be parsed.
func getEnvAsInt(key string, defaultValue int) int {
	valueStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Fatalf("[APP] [FATAL] Environment variable %s must be an integer: %v", key, err)
	}
	return value
}

// getEnvAsDuration accepts Go duration strings such as "1s" or "5m".
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		log.Fatalf("[APP] [FATAL] Environment variable %s must be a duration: %v", key, err)
	}
	return value
}

func getEnvAsList(key string, defaultValue []string) []string {
	valueStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	var values []string
	for _, v := range strings.Split(valueStr, ",") {
		if v = strings.TrimSpace(v); v != "" {
			values = append(values, v)
		}
	}
	return values
}

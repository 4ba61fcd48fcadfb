package config

import (
	"log"
	"net"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	DBHost        string
	DBPort        string
	DBUser        string
	DBPassword    string
	DBName        string
	DBSSLMode     string
	DBAutoMigrate bool

	ServerPort      string
	ShutdownTimeout time.Duration

	JWTSecret string
	JWTTTL    time.Duration

	LogLevel string

	AdminUsername string
	AdminPassword string
}

func Load() *Config {
	err := godotenv.Load()
	if err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	return &Config{
		DBHost:          getEnv("DB_HOST", "localhost"),
		DBPort:          getEnv("DB_PORT", "5432"),
		DBUser:          getEnv("DB_USER", "task_user"),
		DBPassword:      getEnv("DB_PASSWORD", "task_pass"),
		DBName:          getEnv("DB_NAME", "task_db"),
		DBSSLMode:       getEnv("DB_SSLMODE", "disable"),
		DBAutoMigrate:   getEnvBool("DB_AUTOMIGRATE", true),
		ServerPort:      getEnv("SERVER_PORT", "3000"),
		ShutdownTimeout: getEnvDuration("SHUTDOWN_TIMEOUT", 5*time.Second),
		JWTSecret:       getEnv("JWT_SECRET", "default_secret"),
		JWTTTL:          getEnvDuration("JWT_TTL", time.Hour),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		AdminUsername:   getEnv("ADMIN_USERNAME", "admin"),
		AdminPassword:   getEnv("ADMIN_PASSWORD", "admin123"),
	}
}

// DSN returns the key/value connection string used by the gorm postgres driver.
func (c *Config) DSN() string {
	return "host=" + c.DBHost +
		" port=" + c.DBPort +
		" user=" + c.DBUser +
		" password=" + c.DBPassword +
		" dbname=" + c.DBName +
		" sslmode=" + c.DBSSLMode
}

// MigrationURL returns the URL form of the connection string, as golang-migrate expects it.
func (c *Config) MigrationURL() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.DBUser, c.DBPassword),
		Host:     net.JoinHostPort(c.DBHost, c.DBPort),
		Path:     "/" + c.DBName,
		RawQuery: url.Values{"sslmode": {c.DBSSLMode}}.Encode(),
	}
	return u.String()
}

func getEnv(key, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	value, err := strconv.ParseBool(getEnv(key, ""))
	if err != nil {
		return defaultVal
	}
	return value
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	value, err := time.ParseDuration(getEnv(key, ""))
	if err != nil || value <= 0 {
		return defaultVal
	}
	return value
}

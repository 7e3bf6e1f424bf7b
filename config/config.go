package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// Config carries the runtime settings read from the environment. Load
// it once in main after godotenv has run.
type Config struct {
	Port      string
	GinMode   string
	AMQPURL   string
	RedisAddr string

	// StalePendingAfter is how long a pending order may sit untouched
	// before housekeeping cancels it. Zero disables the sweep.
	StalePendingAfter time.Duration
}

func Load() Config {
	return Config{
		Port:              getEnv("PORT", "8080"),
		GinMode:           os.Getenv("GIN_MODE"),
		AMQPURL:           os.Getenv("AMQP_URL"),
		RedisAddr:         os.Getenv("REDIS_ADDR"),
		StalePendingAfter: getDuration("STALE_PENDING_AFTER", 0),
	}
}

// InitDB opens the database named by DB_DRIVER. MySQL is the production
// setup; sqlite is for local runs and needs nothing but a file path.
func InitDB() (*gorm.DB, error) {
	driver := getEnv("DB_DRIVER", "mysql")
	switch driver {
	case "mysql":
		dsn := os.Getenv("DB_DSN")
		if dsn == "" {
			dsn = fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
				getEnv("DB_USER", "root"),
				os.Getenv("DB_PASS"),
				getEnv("DB_HOST", "127.0.0.1"),
				getEnv("DB_PORT", "3306"),
				getEnv("DB_NAME", "restaurant"),
			)
		}
		return gorm.Open(mysql.Open(dsn), &gorm.Config{})
	case "sqlite":
		return gorm.Open(sqlite.Open(getEnv("DB_PATH", "restaurant.db")), &gorm.Config{})
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", driver)
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Printf("Warning: invalid %s value %q, using %s", key, v, fallback)
		return fallback
	}
	return d
}

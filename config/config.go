package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	JWTSecret string
	Port      string

	BucketName         string
	GCSCredentialsFile string

	RedisAddr      string
	RedisPassword  string
	RedisDB        int
	SportsCacheTTL time.Duration

	RabbitMQURL    string
	EventsExchange string

	GeminiProject  string
	GeminiLocation string
	GeminiModel    string

	AllowedOrigins []string
}

// LoadConfig reads the process environment. A .env file in the working
// directory is loaded first when present; real env vars win over it.
func LoadConfig() Config {
	_ = godotenv.Load()

	return Config{
		DBHost:     os.Getenv("DB_HOST"),
		DBPort:     os.Getenv("DB_PORT"),
		DBUser:     os.Getenv("DB_USER"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBName:     os.Getenv("DB_NAME"),
		DBSSLMode:  getenv("DB_SSLMODE", "disable"),

		JWTSecret: os.Getenv("JWT_SECRET"),
		Port:      getenv("PORT", "8080"),

		BucketName:         os.Getenv("BUCKET_NAME"),
		GCSCredentialsFile: os.Getenv("GCS_CREDENTIALS_FILE"),

		RedisAddr:      os.Getenv("REDIS_ADDR"),
		RedisPassword:  os.Getenv("REDIS_PASSWORD"),
		RedisDB:        atoi(os.Getenv("REDIS_DB")),
		SportsCacheTTL: parseDur(getenv("SPORTS_CACHE_TTL", "10m"), 10*time.Minute),

		RabbitMQURL:    os.Getenv("RABBITMQ_URL"),
		EventsExchange: getenv("EVENTS_EXCHANGE", "academy.events"),

		GeminiProject:  os.Getenv("GEMINI_PROJECT"),
		GeminiLocation: getenv("GEMINI_LOCATION", "global"),
		GeminiModel:    getenv("GEMINI_MODEL", "gemini-2.5-flash"),

		AllowedOrigins: splitList(getenv("ALLOWED_ORIGINS", "http://localhost:3000")),
	}
}

func (c Config) PostgresDSN() string {
	return "host=" + c.DBHost +
		" user=" + c.DBUser +
		" password=" + c.DBPassword +
		" dbname=" + c.DBName +
		" port=" + c.DBPort +
		" sslmode=" + c.DBSSLMode
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func atoi(s string) int {
	n, _ := strconv.Atoi(strings.TrimSpace(s))
	return n
}

func parseDur(s string, def time.Duration) time.Duration {
	d, err := time.ParseDuration(strings.TrimSpace(s))
	if err != nil || d <= 0 {
		return def
	}
	return d
}

func splitList(s string) []string {
	out := []string{}
	for _, p := range strings.Split(s, ",") {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

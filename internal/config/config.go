package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port         string
	MongoURI     string
	DatabaseName string
	Origin       string
	BaseURL      string
	JWTSecret    string
	Timeout      time.Duration

	B2AccountID string
	B2AppKey    string
	B2Bucket    string

	SMTPHost     string
	SMTPPort     string
	SMTPUsername string
	SMTPPassword string
}

func LoadConfig() Config {
	err := godotenv.Load()
	if err != nil {
		if os.IsNotExist(err) {
			// .env file not found, proceed with environment values
		} else {
			panic("Error loading .env file")
		}
	}
	return Config{
		Port:         getEnv("PORT", "8000"),
		MongoURI:     getEnv("MONGODB_URI", "mongodb://localhost:27017"),
		DatabaseName: getEnv("DATABASE_NAME", "studyshelf"),
		Origin:       getEnv("ORIGIN", "http://localhost:5173"),
		BaseURL:      getEnv("BASE_URL", "http://localhost:8000"),
		JWTSecret:    getEnv("JWT_SECRET", "dev-only-secret-change-me"),
		Timeout:      10 * time.Second,

		B2AccountID: getEnv("B2_ACCOUNT_ID", ""),
		B2AppKey:    getEnv("B2_APP_KEY", ""),
		B2Bucket:    getEnv("B2_BUCKET", "studyshelf-files"),

		SMTPHost:     getEnv("SMTP_HOST", "smtp.gmail.com"),
		SMTPPort:     getEnv("SMTP_PORT", "587"),
		SMTPUsername: getEnv("SMTP_USERNAME", ""),
		SMTPPassword: getEnv("SMTP_PASSWORD", ""),
	}
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

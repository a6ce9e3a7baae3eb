package configs

import (
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	DBSource string
	Port     string

	JWTSecret string
	JWTTTL    time.Duration

	RazorpayKeyID         string
	RazorpayKeySecret     string
	RazorpayWebhookSecret string

	MailAPIKey string
	MailFrom   string

	AdminEmail    string
	AdminPassword string
}

func LoadConfig() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file, using environment")
	}

	return &Config{
		DBSource:              getEnv("DB_SOURCE", "takeaway.db"),
		Port:                  getEnv("PORT", "8000"),
		JWTSecret:             getEnv("JWT_SECRET", "changeme"),
		JWTTTL:                time.Duration(24) * time.Hour,
		RazorpayKeyID:         os.Getenv("RAZORPAY_KEY_ID"),
		RazorpayKeySecret:     os.Getenv("RAZORPAY_KEY_SECRET"),
		RazorpayWebhookSecret: os.Getenv("RAZORPAY_WEBHOOK_SECRET"),
		MailAPIKey:            os.Getenv("MAIL_API_KEY"),
		MailFrom:              getEnv("MAIL_FROM", "orders@takeaway.local"),
		AdminEmail:            getEnv("ADMIN_EMAIL", "admin@takeaway.local"),
		AdminPassword:         getEnv("ADMIN_PASSWORD", "admin1234"),
	}
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return fallback
}

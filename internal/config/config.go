package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	DBHost     string
	DBUser     string
	DBPassword string
	DBName     string
	DBPort     string
	AppPort    string
	AppEnv     string
	JWTSecret  string

	PayPalClientID string
	PayPalSecret   string
	PayPalBaseURL  string

	StripeSecretKey string

	USPSConsumerKey    string
	USPSConsumerSecret string

	ReceiptFrom string
}

func LoadConfig() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		DBHost:     os.Getenv("DB_HOST"),
		DBUser:     os.Getenv("DB_USER"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBName:     os.Getenv("DB_NAME"),
		DBPort:     os.Getenv("DB_PORT"),
		AppPort:    os.Getenv("APP_PORT"),
		AppEnv:     os.Getenv("APP_ENV"),
		JWTSecret:  os.Getenv("JWT_SECRET"),

		PayPalClientID: os.Getenv("PAYPAL_CLIENT_ID"),
		PayPalSecret:   os.Getenv("PAYPAL_APP_SECRET"),
		PayPalBaseURL:  os.Getenv("PAYPAL_API_URL"),

		StripeSecretKey: os.Getenv("STRIPE_SECRET_KEY"),

		USPSConsumerKey:    os.Getenv("USPS_CONSUMER_KEY"),
		USPSConsumerSecret: os.Getenv("USPS_CONSUMER_SECRET"),

		ReceiptFrom: os.Getenv("RECEIPT_FROM"),
	}

	if cfg.PayPalBaseURL == "" {
		cfg.PayPalBaseURL = "https://api-m.sandbox.paypal.com"
	}

	if cfg.DBHost == "" {
		log.Fatal("Environment variables not loaded properly")
	}

	return cfg
}

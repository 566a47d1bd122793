package utils

import (
	"errors"
	"io/fs"
	"log"
	"os"
	"strconv"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"
)

type Config struct {
	// Application
	AppPort           string `yaml:"APP_PORT" env:"APP_PORT"`
	AppURL            string `yaml:"APP_URL" env:"APP_URL"`
	LogLevel          string `yaml:"LOG_LEVEL" env:"LOG_LEVEL"`
	LogFormat         string `yaml:"LOG_FORMAT" env:"LOG_FORMAT"`
	RateLimitMax      int    `yaml:"RATE_LIMIT_MAX" env:"RATE_LIMIT_MAX"`
	PasswordMinLength int    `yaml:"PASSWORD_MIN_LENGTH" env:"PASSWORD_MIN_LENGTH"`
	MediaRoot         string `yaml:"MEDIA_ROOT" env:"MEDIA_ROOT"`

	// Database configuration
	DBUser     string `yaml:"DB_USER" env:"DB_USER"`
	DBName     string `yaml:"DB_NAME" env:"DB_NAME"`
	DBPassword string `yaml:"DB_PASSWORD" env:"DB_PASSWORD"`
	DBPort     string `yaml:"DB_PORT" env:"DB_PORT"`
	DBHost     string `yaml:"DB_HOST" env:"DB_HOST"`
	DBSSLMode  string `yaml:"DB_SSLMODE" env:"DB_SSLMODE"`

	// JWT
	JWTSecret     string `yaml:"JWT_SECRET" env:"JWT_SECRET"`
	JWTTTLMinutes int    `yaml:"JWT_TTL_MINUTES" env:"JWT_TTL_MINUTES"`

	// Mailing configuration
	SMTPHost         string `yaml:"SMTP_HOST" env:"SMTP_HOST"`
	SMTPPort         string `yaml:"SMTP_PORT" env:"SMTP_PORT"`
	SMTPSenderName   string `yaml:"SMTP_SENDER_NAME" env:"SMTP_SENDER_NAME"`
	SMTPAuthEmail    string `yaml:"SMTP_AUTH_EMAIL" env:"SMTP_AUTH_EMAIL"`
	SMTPAuthPassword string `yaml:"SMTP_AUTH_PASSWORD" env:"SMTP_AUTH_PASSWORD"`

	// AWS S3 configuration, endpoint is set for MinIO
	AWSS3Bucket   string `yaml:"AWS_S3_BUCKET" env:"AWS_S3_BUCKET"`
	AWSS3Region   string `yaml:"AWS_S3_REGION" env:"AWS_S3_REGION"`
	AWSS3Endpoint string `yaml:"AWS_S3_ENDPOINT" env:"AWS_S3_ENDPOINT"`
	AWSAccessKey  string `yaml:"AWS_ACCESS_KEY" env:"AWS_ACCESS_KEY"`
	AWSSecretKey  string `yaml:"AWS_SECRET_KEY" env:"AWS_SECRET_KEY"`
}

var config = defaultConfig()

func defaultConfig() Config {
	return Config{
		AppPort:           "8080",
		AppURL:            "http://localhost:8080",
		LogLevel:          "info",
		LogFormat:         "json",
		RateLimitMax:      20,
		PasswordMinLength: 8,
		MediaRoot:         "./media",
		DBPort:            "5432",
		DBSSLMode:         "disable",
		JWTTTLMinutes:     60 * 24,
		AWSS3Region:       "us-east-1",
	}
}

// LoadConfig reads config.yaml, then lets the environment (and an optional .env) override it.
func LoadConfig() {
	LoadConfigFrom("config.yaml")
}

func LoadConfigFrom(path string) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Printf("Error reading .env file: %s\n", err)
	}

	cfg := defaultConfig()
	file, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(file, &cfg); err != nil {
			log.Printf("Error parsing YAML file: %s\n", err)
		}
	case !errors.Is(err, fs.ErrNotExist):
		log.Printf("Error reading YAML file: %s\n", err)
	}

	if err := env.Parse(&cfg); err != nil {
		log.Printf("Error parsing environment: %s\n", err)
	}
	config = cfg
}

func GetConfig(key string) string {
	switch key {
	case "APP_PORT":
		return config.AppPort
	case "APP_URL":
		return config.AppURL
	case "LOG_LEVEL":
		return config.LogLevel
	case "LOG_FORMAT":
		return config.LogFormat
	case "RATE_LIMIT_MAX":
		return strconv.Itoa(config.RateLimitMax)
	case "PASSWORD_MIN_LENGTH":
		return strconv.Itoa(config.PasswordMinLength)
	case "MEDIA_ROOT":
		return config.MediaRoot
	case "DB_USER":
		return config.DBUser
	case "DB_NAME":
		return config.DBName
	case "DB_PASSWORD":
		return config.DBPassword
	case "DB_PORT":
		return config.DBPort
	case "DB_HOST":
		return config.DBHost
	case "DB_SSLMODE":
		return config.DBSSLMode
	case "JWT_SECRET":
		return config.JWTSecret
	case "JWT_TTL_MINUTES":
		return strconv.Itoa(config.JWTTTLMinutes)
	case "SMTP_HOST":
		return config.SMTPHost
	case "SMTP_PORT":
		return config.SMTPPort
	case "SMTP_SENDER_NAME":
		return config.SMTPSenderName
	case "SMTP_AUTH_EMAIL":
		return config.SMTPAuthEmail
	case "SMTP_AUTH_PASSWORD":
		return config.SMTPAuthPassword
	case "AWS_S3_BUCKET":
		return config.AWSS3Bucket
	case "AWS_S3_REGION":
		return config.AWSS3Region
	case "AWS_S3_ENDPOINT":
		return config.AWSS3Endpoint
	case "AWS_ACCESS_KEY":
		return config.AWSAccessKey
	case "AWS_SECRET_KEY":
		return config.AWSSecretKey
	default:
		return ""
	}
}

// GetConfigInt returns the integer value of key, or def when unset or malformed.
func GetConfigInt(key string, def int) int {
	v, err := strconv.Atoi(GetConfig(key))
	if err != nil || v <= 0 {
		return def
	}
	return v
}

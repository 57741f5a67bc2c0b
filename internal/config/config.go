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

	// Business identity printed on every invoice. Static configuration,
	// never computed.
	BusinessName     string
	BusinessOwner    string
	BusinessRegNo    string
	BusinessPhone    string
	BusinessAddress  string
	BusinessBankName string
	BusinessBankAcct string
	BusinessFooter   string
	LogoPath         string
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

		BusinessName:     getEnvDefault("BIZ_NAME", "Tailorder Apparel"),
		BusinessOwner:    os.Getenv("BIZ_OWNER"),
		BusinessRegNo:    os.Getenv("BIZ_REG_NO"),
		BusinessPhone:    os.Getenv("BIZ_PHONE"),
		BusinessAddress:  os.Getenv("BIZ_ADDRESS"),
		BusinessBankName: os.Getenv("BIZ_BANK_NAME"),
		BusinessBankAcct: os.Getenv("BIZ_BANK_ACCT"),
		BusinessFooter:   os.Getenv("BIZ_FOOTER"),
		LogoPath:         os.Getenv("BIZ_LOGO_PATH"),
	}

	if cfg.DBHost == "" {
		log.Fatal("Environment variables not loaded properly")
	}

	return cfg
}

func getEnvDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

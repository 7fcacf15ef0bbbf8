package config

import (
	"crypto/rsa"
	"crypto/x509"
	"encoding/base64"
	"encoding/pem"
	"errors"
	"os"

	"github.com/joho/godotenv"

	"github.com/justatarek/ergodnc/internal/utils"
)

const (
	AppName          = "ergodnc"
	OrganizationName = "ErgoDNC"
)

type Config struct {
	AppPort string
	AppURL  string

	// Database
	DBUrl           string
	DBEncryptionKey []byte

	// Notifications
	TwilioAccountSID string
	TwilioAuthToken  string
	TwilioFromPhone  string
	SendGridAPIKey   string
	SendGridFrom     string

	// Auth
	RSAPublicKey *rsa.PublicKey

	// Blob storage
	StorageDir     string
	StorageBaseURL string
}

func LoadConfig() *Config {
	// .env is a development convenience; absent in production.
	if err := godotenv.Load(); err != nil {
		utils.Logger.Debug("No .env file loaded")
	}

	cfg := &Config{
		AppPort: getenvDefault("APP_PORT", "8080"),
		AppURL:  getenvDefault("APP_URL", "http://localhost:8080"),

		DBUrl: mustGetenv("DATABASE_URL"),

		TwilioAccountSID: os.Getenv("TWILIO_ACCOUNT_SID"),
		TwilioAuthToken:  os.Getenv("TWILIO_AUTH_TOKEN"),
		TwilioFromPhone:  os.Getenv("TWILIO_FROM_PHONE"),
		SendGridAPIKey:   os.Getenv("SENDGRID_API_KEY"),
		SendGridFrom:     getenvDefault("SENDGRID_FROM_EMAIL", "no-reply@ergodnc.test"),

		StorageDir: getenvDefault("STORAGE_DIR", "./storage"),
	}
	cfg.StorageBaseURL = getenvDefault("STORAGE_BASE_URL", cfg.AppURL+"/storage")

	key, err := base64.StdEncoding.DecodeString(mustGetenv("DB_ENCRYPTION_KEY_BASE64"))
	if err != nil || len(key) != 32 {
		utils.Logger.Fatal("DB_ENCRYPTION_KEY_BASE64 must decode to 32 bytes")
	}
	cfg.DBEncryptionKey = key

	pub, err := parseRSAPublicKey(mustGetenv("AUTH_RSA_PUBLIC_KEY_BASE64"))
	if err != nil {
		utils.Logger.WithError(err).Fatal("Failed to parse AUTH_RSA_PUBLIC_KEY_BASE64")
	}
	cfg.RSAPublicKey = pub

	return cfg
}

func mustGetenv(name string) string {
	v := os.Getenv(name)
	if v == "" {
		utils.Logger.Fatalf("%s env var is missing", name)
	}
	return v
}

func getenvDefault(name, def string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return def
}

func parseRSAPublicKey(b64 string) (*rsa.PublicKey, error) {
	pemBytes, err := base64.StdEncoding.DecodeString(b64)
	if err != nil {
		return nil, err
	}
	block, _ := pem.Decode(pemBytes)
	if block == nil {
		return nil, errors.New("no PEM block in public key")
	}
	parsed, err := x509.ParsePKIXPublicKey(block.Bytes)
	if err != nil {
		return nil, err
	}
	pub, ok := parsed.(*rsa.PublicKey)
	if !ok {
		return nil, errors.New("public key is not RSA")
	}
	return pub, nil
}

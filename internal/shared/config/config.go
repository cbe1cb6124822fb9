package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// Config is loaded once in main and passed by value to every component.
type Config struct {
	Port     string
	Env      string
	LogLevel string

	WhatsApp WhatsAppConfig
	Stripe   StripeConfig

	HTTPClientTimeout time.Duration
}

// WhatsAppConfig holds the Cloud API credentials and webhook secrets.
type WhatsAppConfig struct {
	AccessToken       string
	APIVersion        string
	APIBaseURL        string
	BusinessAccountID string
	PhoneNumberID     string
	VerifyToken       string // hub.verify_token for the GET handshake
	AppSecret         string // key for X-Hub-Signature-256
	StrictObject      bool   // answer 404 for foreign subscription objects
	MarkAsRead        bool
}

// StripeConfig is optional; without a secret key no payment links are created.
type StripeConfig struct {
	SecretKey     string
	WebhookSecret string
	APIBaseURL    string
	SuccessURL    string
	CancelURL     string
}

// LoadConfig reads .env (if present) and the process environment.
func LoadConfig() (Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("⚠️ .env file not found, using system environment variables")
	}
	return FromLookup(os.Getenv)
}

// FromLookup builds a Config from an arbitrary getenv-style function.
func FromLookup(getenv func(string) string) (Config, error) {
	cfg := Config{
		Port:     getenv("PORT"),
		Env:      getenv("ENV"),
		LogLevel: getenv("LOG_LEVEL"),
		WhatsApp: WhatsAppConfig{
			AccessToken:       getenv("WHATSAPP_ACCESS_TOKEN"),
			APIVersion:        getenv("WHATSAPP_API_VERSION"),
			APIBaseURL:        getenv("WHATSAPP_API_URL"),
			BusinessAccountID: getenv("WHATSAPP_BUSINESS_ACCOUNT_ID"),
			PhoneNumberID:     getenv("WHATSAPP_PHONE_NUMBER_ID"),
			VerifyToken:       getenv("WHATSAPP_VERIFY_TOKEN"),
			AppSecret:         getenv("WHATSAPP_APP_SECRET"),
		},
		Stripe: StripeConfig{
			SecretKey:     getenv("STRIPE_SECRET_KEY"),
			WebhookSecret: getenv("STRIPE_WEBHOOK_SECRET"),
			APIBaseURL:    getenv("STRIPE_API_URL"),
			SuccessURL:    getenv("STRIPE_SUCCESS_URL"),
			CancelURL:     getenv("STRIPE_CANCEL_URL"),
		},
	}

	var err error
	if cfg.WhatsApp.StrictObject, err = parseBool(getenv, "WHATSAPP_STRICT_OBJECT"); err != nil {
		return Config{}, err
	}
	if cfg.WhatsApp.MarkAsRead, err = parseBool(getenv, "WHATSAPP_MARK_AS_READ"); err != nil {
		return Config{}, err
	}

	cfg.HTTPClientTimeout = 30 * time.Second
	if raw := getenv("HTTP_CLIENT_TIMEOUT"); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil || d <= 0 {
			return Config{}, fmt.Errorf("HTTP_CLIENT_TIMEOUT: invalid duration %q", raw)
		}
		cfg.HTTPClientTimeout = d
	}

	// Default values
	if cfg.Port == "" {
		cfg.Port = "3000"
	}
	if cfg.Env == "" {
		cfg.Env = "development"
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if cfg.WhatsApp.APIBaseURL == "" {
		cfg.WhatsApp.APIBaseURL = "https://graph.facebook.com"
	}
	cfg.WhatsApp.APIBaseURL = strings.TrimRight(cfg.WhatsApp.APIBaseURL, "/")
	if cfg.WhatsApp.APIVersion == "" {
		cfg.WhatsApp.APIVersion = "v18.0"
	}
	if cfg.Stripe.SuccessURL == "" {
		cfg.Stripe.SuccessURL = "https://example.com/payment/success"
	}
	if cfg.Stripe.CancelURL == "" {
		cfg.Stripe.CancelURL = "https://example.com/payment/cancel"
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports every missing required setting at once.
func (c Config) Validate() error {
	var errs []error
	if c.WhatsApp.AccessToken == "" {
		errs = append(errs, errors.New("WHATSAPP_ACCESS_TOKEN is required"))
	}
	if c.WhatsApp.VerifyToken == "" {
		errs = append(errs, errors.New("WHATSAPP_VERIFY_TOKEN is required"))
	}
	if c.WhatsApp.AppSecret == "" {
		errs = append(errs, errors.New("WHATSAPP_APP_SECRET is required"))
	}
	if _, err := strconv.Atoi(c.Port); err != nil {
		errs = append(errs, fmt.Errorf("PORT must be numeric, got %q", c.Port))
	}
	return errors.Join(errs...)
}

// PaymentsEnabled reports whether payment links can be created.
func (c Config) PaymentsEnabled() bool {
	return c.Stripe.SecretKey != ""
}

// IsProduction reports ENV=production, case-insensitively.
func (c Config) IsProduction() bool {
	return strings.EqualFold(c.Env, "production")
}

func parseBool(getenv func(string) string, key string) (bool, error) {
	raw := getenv(key)
	if raw == "" {
		return false, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("%s: invalid boolean %q", key, raw)
	}
	return v, nil
}

package config

import (
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/caarlos0/env/v6"
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/joho/godotenv"
)

const (
	TransportBridge = "bridge"
	TransportTwilio = "twilio"
)

type Config struct {
	IsTestMode bool   `env:"TEST_MODE"`
	Port       uint16 `env:"PORT" envDefault:"8080"`
	LogLevel   string `env:"LOG_LEVEL" envDefault:"info"`

	PostgresqlURL         string `env:"POSTGRESQL_URL,required,notEmpty"`
	PostgresqlAutoMigrate bool   `env:"POSTGRESQL_AUTO_MIGRATE"`
	MigrationsPath        string `env:"MIGRATIONS_PATH" envDefault:"migrations"`
	RedisURL              string `env:"REDIS_URL,required,notEmpty"`
	// Without a RabbitMQ URL inbound messages are processed in-process.
	RabbitmqURL          string `env:"RABBITMQ_URL"`
	RabbitmqInboundQueue string `env:"RABBITMQ_INBOUND_QUEUE" envDefault:"inbound_messages"`

	BotLocale   string         `env:"BOT_LOCALE" envDefault:"id"`
	BotTimezone string         `env:"BOT_TIMEZONE" envDefault:"Asia/Jakarta"`
	Location    *time.Location `env:"-"`

	MessengerTransport   string  `env:"MESSENGER_TRANSPORT" envDefault:"bridge"`
	BridgeAPIURL         url.URL `env:"BRIDGE_API_URL"`
	TwilioAccountSID     string  `env:"TWILIO_ACCOUNT_SID"`
	TwilioAuthToken      string  `env:"TWILIO_AUTH_TOKEN"`
	TwilioWhatsAppNumber string  `env:"TWILIO_WHATSAPP_NUMBER"`
	// Public URL of the Twilio webhook, used to check request signatures.
	TwilioWebhookURL string `env:"TWILIO_WEBHOOK_URL"`

	ClassifierAPIKey  string        `env:"CLASSIFIER_API_KEY,required,notEmpty"`
	ClassifierBaseURL string        `env:"CLASSIFIER_BASE_URL" envDefault:"https://generativelanguage.googleapis.com/v1beta/openai/"`
	ClassifierModel   string        `env:"CLASSIFIER_MODEL" envDefault:"gemini-2.0-flash"`
	ClassifierTimeout time.Duration `env:"CLASSIFIER_TIMEOUT" envDefault:"15s"`

	StoreCallTimeout         time.Duration `env:"STORE_CALL_TIMEOUT" envDefault:"5s"`
	MessengerCallTimeout     time.Duration `env:"MESSENGER_CALL_TIMEOUT" envDefault:"10s"`
	MessageProcessingTimeout time.Duration `env:"MESSAGE_PROCESSING_TIMEOUT" envDefault:"60s"`

	SweepSchedule    string `env:"SWEEP_SCHEDULE" envDefault:"@every 1m"`
	SweepConcurrency int    `env:"SWEEP_CONCURRENCY" envDefault:"4"`
	TriggerTokenHash string `env:"TRIGGER_TOKEN_HASH"`

	InboundRateLimitPerMinute uint16 `env:"INBOUND_RATE_LIMIT_PER_MINUTE" envDefault:"20"`

	AwsRegion           string `env:"AWS_REGION" envDefault:"us-east-1"`
	AwsAccessKey        string `env:"AWS_ACCESS_KEY"`
	AwsSecretKey        string `env:"AWS_SECRET_KEY"`
	AlertEmailSender    string `env:"ALERT_EMAIL_SENDER"`
	AlertEmailRecipient string `env:"ALERT_EMAIL_RECIPIENT"`

	SentryDsn      *url.URL `env:"SENTRY_DSN"`
	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envSeparator:"," envDefault:"*"`
}

// Load reads an optional .env file and then the environment. Variables
// already set in the environment win over the .env file.
func Load() (*Config, error) {
	_ = godotenv.Load()

	config := &Config{}
	if err := env.Parse(config); err != nil {
		return nil, err
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	location, err := time.LoadLocation(config.BotTimezone)
	if err != nil {
		return nil, fmt.Errorf("invalid BOT_TIMEZONE value: %w", err)
	}
	config.Location = location
	return config, nil
}

func (c Config) Validate() error {
	err := validation.ValidateStruct(&c,
		validation.Field(&c.BotLocale, validation.Required, validation.In("en", "id")),
		validation.Field(&c.MessengerTransport, validation.Required, validation.In(TransportBridge, TransportTwilio)),
		validation.Field(&c.SweepConcurrency, validation.Required, validation.Min(1), validation.Max(64)),
		validation.Field(&c.InboundRateLimitPerMinute, validation.Required),
		validation.Field(&c.ClassifierTimeout, validation.Required),
		validation.Field(&c.StoreCallTimeout, validation.Required),
		validation.Field(&c.MessengerCallTimeout, validation.Required),
		validation.Field(&c.MessageProcessingTimeout, validation.Required),
	)
	if err != nil {
		return err
	}

	switch c.MessengerTransport {
	case TransportBridge:
		if c.BridgeAPIURL.Host == "" {
			return errors.New("BRIDGE_API_URL must be set for the bridge transport")
		}
	case TransportTwilio:
		if c.TwilioAccountSID == "" || c.TwilioAuthToken == "" || c.TwilioWhatsAppNumber == "" {
			return errors.New(
				"TWILIO_ACCOUNT_SID, TWILIO_AUTH_TOKEN and TWILIO_WHATSAPP_NUMBER must be set for the twilio transport",
			)
		}
	}
	if (c.AlertEmailSender == "") != (c.AlertEmailRecipient == "") {
		return errors.New("ALERT_EMAIL_SENDER and ALERT_EMAIL_RECIPIENT must be set together")
	}
	return nil
}

func (c Config) AlertsEnabled() bool {
	return c.AlertEmailSender != "" && c.AlertEmailRecipient != ""
}

func (c Config) QueueEnabled() bool {
	return c.RabbitmqURL != ""
}

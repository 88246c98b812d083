package config

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds application configuration loaded from environment variables.
type Config struct {
	DBPath      string `envconfig:"PENNY_DB_PATH" default:"penny.db"`
	LogLevel    string `envconfig:"PENNY_LOG_LEVEL" default:"info"`  // debug|info|warn|error
	LogFormat   string `envconfig:"PENNY_LOG_FORMAT" default:"text"` // text|json
	FrontendURL string `envconfig:"PENNY_FRONTEND_URL" default:"https://app.penny.local"`

	VAPIDPublicKey  string `envconfig:"PENNY_VAPID_PUBLIC_KEY"`
	VAPIDPrivateKey string `envconfig:"PENNY_VAPID_PRIVATE_KEY"`
	PushSubscriber  string `envconfig:"PENNY_PUSH_SUBSCRIBER"`

	PostmarkToken string `envconfig:"PENNY_POSTMARK_TOKEN"`
	EmailFrom     string `envconfig:"PENNY_EMAIL_FROM" default:"noreply@penny.local"`

	SweepInterval time.Duration `envconfig:"PENNY_SWEEP_INTERVAL" default:"1h"`
	FollowUpDelay time.Duration `envconfig:"PENNY_FOLLOWUP_DELAY" default:"1h"`
}

// Load reads environment variables into Config.
func Load() (Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

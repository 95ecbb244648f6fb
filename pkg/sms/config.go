package sms

import "time"

// Config holds SMS gateway settings. An empty GatewayURL selects LogTransport.
type Config struct {
	GatewayURL       string        `env:"SMS_GATEWAY_URL"`
	APIKey           string        `env:"SMS_API_KEY"`
	SigningSecret    string        `env:"SMS_SIGNING_SECRET"`
	Sender           string        `env:"SMS_SENDER" envDefault:"notifykit"`
	Timeout          time.Duration `env:"SMS_TIMEOUT" envDefault:"10s"`
	BreakerThreshold int           `env:"SMS_BREAKER_THRESHOLD" envDefault:"5"`
	BreakerCooldown  time.Duration `env:"SMS_BREAKER_COOLDOWN" envDefault:"30s"`
}

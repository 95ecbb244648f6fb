package push

import "time"

// Config holds FCM settings. An empty ProjectID selects LogTransport.
type Config struct {
	ProjectID       string        `env:"FCM_PROJECT_ID"`
	CredentialsFile string        `env:"FCM_CREDENTIALS_FILE"`
	CredentialsJSON string        `env:"FCM_CREDENTIALS_JSON"`
	Endpoint        string        `env:"FCM_ENDPOINT"`
	Timeout         time.Duration `env:"FCM_TIMEOUT" envDefault:"10s"`
}

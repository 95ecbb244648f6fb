package notifications

import "time"

// Config holds engine settings loaded from the environment.
type Config struct {
	ShutdownTimeout time.Duration `env:"NOTIFY_SHUTDOWN_TIMEOUT" envDefault:"30s"`
	FeedBufferSize  int           `env:"NOTIFY_FEED_BUFFER_SIZE" envDefault:"16"`
}

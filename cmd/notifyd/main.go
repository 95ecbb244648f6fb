package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/dmitrymomot/notifykit/modules/dispatch"
	"github.com/dmitrymomot/notifykit/pkg/broadcast"
	"github.com/dmitrymomot/notifykit/pkg/cache"
	"github.com/dmitrymomot/notifykit/pkg/catalog"
	"github.com/dmitrymomot/notifykit/pkg/config"
	"github.com/dmitrymomot/notifykit/pkg/contacts"
	"github.com/dmitrymomot/notifykit/pkg/email"
	"github.com/dmitrymomot/notifykit/pkg/httpserver"
	"github.com/dmitrymomot/notifykit/pkg/logger"
	"github.com/dmitrymomot/notifykit/pkg/metrics"
	"github.com/dmitrymomot/notifykit/pkg/mongo"
	"github.com/dmitrymomot/notifykit/pkg/notifications"
	"github.com/dmitrymomot/notifykit/pkg/pg"
	"github.com/dmitrymomot/notifykit/pkg/push"
	"github.com/dmitrymomot/notifykit/pkg/redis"
	"github.com/dmitrymomot/notifykit/pkg/requestid"
	"github.com/dmitrymomot/notifykit/pkg/sms"
	"github.com/dmitrymomot/notifykit/pkg/templates"
)

// backends selects the storage behind each port. "memory" needs no
// external service and is meant for local runs and demos.
type backends struct {
	Records          string        `env:"NOTIFY_RECORD_STORE" envDefault:"memory"`     // memory | postgres
	Contacts         string        `env:"NOTIFY_CONTACTS" envDefault:"memory"`         // memory | mongo
	Tokens           string        `env:"NOTIFY_TOKENS" envDefault:"memory"`           // memory | redis
	ContactsFile     string        `env:"NOTIFY_CONTACTS_FILE"`                        // YAML seed for the memory directory
	ContactCacheSize int           `env:"NOTIFY_CONTACT_CACHE_SIZE" envDefault:"1024"` // 0 disables
	ContactCacheTTL  time.Duration `env:"NOTIFY_CONTACT_CACHE_TTL" envDefault:"1m"`
	SMSGateway       bool          `env:"NOTIFY_SMS_GATEWAY" envDefault:"false"`
	PushFCM          bool          `env:"NOTIFY_PUSH_FCM" envDefault:"false"`
	ReadyTimeout     time.Duration `env:"NOTIFY_READY_TIMEOUT" envDefault:"3s"`
	SSEHeartbeat     time.Duration `env:"NOTIFY_SSE_HEARTBEAT" envDefault:"15s"`
	StartupBudget    time.Duration `env:"NOTIFY_STARTUP_TIMEOUT" envDefault:"1m"`
}

func main() {
	if err := run(); err != nil {
		slog.Error("notifyd stopped", logger.Error(err))
		os.Exit(1)
	}
}

func run() error {
	var logCfg logger.Config
	config.MustLoad(&logCfg)
	log := logger.New(append(logger.FromConfig(logCfg),
		logger.WithContextExtractors(requestid.LoggerExtractor()),
	)...)
	logger.SetAsDefault(log)

	var be backends
	config.MustLoad(&be)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	startCtx, cancel := context.WithTimeout(ctx, be.StartupBudget)
	defer cancel()

	var checks []httpserver.Check

	// Events and templates.
	var catCfg catalog.Config
	config.MustLoad(&catCfg)
	cat, err := catalog.Load(startCtx, catCfg)
	if err != nil {
		return err
	}
	registry := notifications.NewRegistry(nil)
	source := templates.NewMemorySource()
	if err := cat.Apply(registry, source); err != nil {
		return err
	}
	log.LogAttrs(ctx, slog.LevelInfo, "event catalog loaded",
		logger.Component("catalog"),
		slog.Any("events", cat.Names()),
	)

	// Records.
	var store notifications.RecordStore
	switch be.Records {
	case "postgres":
		var pgCfg pg.Config
		config.MustLoad(&pgCfg)
		pool, err := pg.Connect(startCtx, pgCfg)
		if err != nil {
			return err
		}
		defer pool.Close()
		if err := pg.Migrate(startCtx, pool, pgCfg, log); err != nil {
			return err
		}
		store = pg.NewRecordStorage(pool)
		checks = append(checks, httpserver.Check{Name: "postgres", Fn: pg.Healthcheck(pool)})
	case "memory":
		store = notifications.NewMemoryStorage()
	default:
		return errors.New("unknown NOTIFY_RECORD_STORE: " + be.Records)
	}

	// Contacts.
	var directory notifications.ContactLookup
	switch be.Contacts {
	case "mongo":
		var mongoCfg mongo.Config
		config.MustLoad(&mongoCfg)
		client, err := mongo.Connect(startCtx, mongoCfg)
		if err != nil {
			return err
		}
		defer func() { _ = client.Disconnect(context.WithoutCancel(ctx)) }()
		directory = contacts.NewMongoDirectory(client.Database(mongoCfg.Database))
		checks = append(checks, httpserver.Check{Name: "mongo", Fn: mongo.Healthcheck(client)})
	case "memory":
		if be.ContactsFile == "" {
			directory = contacts.NewMemoryDirectory(nil)
			break
		}
		seeded, err := contacts.LoadSeedFile(be.ContactsFile)
		if err != nil {
			return err
		}
		directory = seeded
	default:
		return errors.New("unknown NOTIFY_CONTACTS: " + be.Contacts)
	}

	if be.ContactCacheSize > 0 {
		directory = contacts.NewCachedDirectory(directory,
			cache.New[string, notifications.Contact](be.ContactCacheSize, cache.WithTTL(be.ContactCacheTTL)))
	}

	// Push tokens.
	var tokens notifications.TokenLookup
	switch be.Tokens {
	case "redis":
		var redisCfg redis.Config
		config.MustLoad(&redisCfg)
		client, err := redis.Connect(startCtx, redisCfg)
		if err != nil {
			return err
		}
		defer func() { _ = client.Close() }()
		tokens = contacts.NewRedisTokens(client)
		checks = append(checks, httpserver.Check{Name: "redis", Fn: redis.Healthcheck(client)})
	case "memory":
		tokens = contacts.NewMemoryTokens()
	default:
		return errors.New("unknown NOTIFY_TOKENS: " + be.Tokens)
	}

	// Transports.
	emailTransport, err := newEmailTransport(log)
	if err != nil {
		return err
	}
	smsTransport, err := newSMSTransport(log, be.SMSGateway)
	if err != nil {
		return err
	}
	// The FCM client keeps ctx for token refresh, so it must outlive startup.
	pushTransport, err := newPushTransport(ctx, log, be.PushFCM)
	if err != nil {
		return err
	}

	var notifyCfg notifications.Config
	config.MustLoad(&notifyCfg)
	feed := notifications.NewBroadcastPublisher(broadcast.WithBufferSize(notifyCfg.FeedBufferSize))

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	observer, err := metrics.NewDispatchMetrics(reg)
	if err != nil {
		return err
	}

	dispatcher := notifications.NewDispatcher(registry, directory, store,
		notifications.WithLogger(log),
		notifications.WithResolver(templates.NewResolver(source, templates.WithLogger(log))),
		notifications.WithTokenLookup(tokens),
		notifications.WithEmailTransport(emailTransport),
		notifications.WithSMSTransport(smsTransport),
		notifications.WithPushTransport(pushTransport),
		notifications.WithInAppPublisher(feed),
		notifications.WithObserver(observer),
	)

	api := dispatch.New(dispatcher, store,
		dispatch.WithLogger(log),
		dispatch.WithFeed(feed),
		dispatch.WithHeartbeat(be.SSEHeartbeat),
	)

	r := chi.NewRouter()
	r.Use(requestid.Middleware)
	r.Get("/health/live", httpserver.Liveness())
	r.Get("/health/ready", httpserver.Readiness(log, be.ReadyTimeout, checks...))
	r.Handle("/metrics", metrics.Handler(reg))
	r.Mount("/", api.Handle())

	// Open event streams would hold the HTTP drain until its timeout.
	go func() {
		<-ctx.Done()
		_ = feed.Close()
	}()

	var httpCfg httpserver.Config
	config.MustLoad(&httpCfg)
	srv := httpserver.NewFromConfig(httpCfg,
		httpserver.WithLogger(log),
		httpserver.WithDrainHook(func(ctx context.Context) error {
			ctx, cancel := context.WithTimeout(ctx, notifyCfg.ShutdownTimeout)
			defer cancel()
			return dispatcher.Shutdown(ctx)
		}),
		httpserver.WithDrainHook(func(context.Context) error {
			return feed.Close()
		}),
	)

	return srv.Run(ctx, r)
}

func newEmailTransport(log *slog.Logger) (*email.Transport, error) {
	var cfg email.Config
	config.MustLoad(&cfg)

	opts := []email.TransportOption{email.WithTag(cfg.Tag), email.WithLogger(log)}
	if cfg.PostmarkServerToken == "" {
		log.Info("postmark token not set, writing emails to disk", slog.String("dir", cfg.DevOutputDir))
		return email.NewTransport(email.NewDevSender(cfg.DevOutputDir), opts...), nil
	}
	client, err := email.NewPostmarkClient(cfg)
	if err != nil {
		return nil, err
	}
	return email.NewTransport(client, opts...), nil
}

func newSMSTransport(log *slog.Logger, gateway bool) (notifications.SMSTransport, error) {
	if !gateway {
		return sms.NewLogTransport(log), nil
	}
	var cfg sms.Config
	config.MustLoad(&cfg)
	return sms.NewGatewayTransport(cfg, sms.WithLogger(log))
}

func newPushTransport(ctx context.Context, log *slog.Logger, fcm bool) (notifications.PushTransport, error) {
	if !fcm {
		return push.NewLogTransport(log), nil
	}
	var cfg push.Config
	config.MustLoad(&cfg)
	return push.NewFCMTransport(ctx, cfg, push.WithLogger(log))
}

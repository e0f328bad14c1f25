package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dmitrymomot/emaillist/config"
	"github.com/dmitrymomot/emaillist/email"
	"github.com/dmitrymomot/emaillist/event"
	"github.com/dmitrymomot/emaillist/httpserver"
	"github.com/dmitrymomot/emaillist/logger"
	"github.com/dmitrymomot/emaillist/pg"
	"github.com/dmitrymomot/emaillist/postgres"
	"github.com/dmitrymomot/emaillist/ratelimit"
	"github.com/dmitrymomot/emaillist/redis"
	"github.com/dmitrymomot/emaillist/subscription"
	"github.com/dmitrymomot/emaillist/token"
	"github.com/dmitrymomot/emaillist/web"
)

type appConfig struct {
	AppEnv      string `env:"APP_ENV" envDefault:"development"`
	TokenSecret string `env:"TOKEN_SECRET,required"`
	EmailDevDir string `env:"EMAIL_DEV_DIR" envDefault:"./tmp/emails"`

	// Unsubscribe endpoints are throttled per client IP.
	RateLimitRequests int           `env:"RATE_LIMIT_REQUESTS" envDefault:"5"`
	RateLimitWindow   time.Duration `env:"RATE_LIMIT_WINDOW" envDefault:"1m"`
}

func main() {
	var (
		appCfg    appConfig
		pgCfg     pg.Config
		redisCfg  redis.Config
		emailCfg  email.Config
		svcCfg    subscription.Config
		serverCfg httpserver.Config
	)
	config.MustLoad(&appCfg)
	config.MustLoad(&pgCfg)
	config.MustLoad(&redisCfg)
	config.MustLoad(&emailCfg)
	config.MustLoad(&svcCfg)
	config.MustLoad(&serverCfg)

	var log = logger.New(logger.WithAttr(logger.Component("emaillist")))
	if appCfg.AppEnv == "development" {
		log = logger.New(logger.WithDevelopment("emaillist"))
	}
	logger.SetAsDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := pg.Connect(ctx, pgCfg)
	if err != nil {
		log.ErrorContext(ctx, "database connection failed", logger.Error(err))
		os.Exit(1)
	}
	defer pool.Close()

	if err := pg.Migrate(ctx, pool, postgres.Migrations, pgCfg, log); err != nil {
		log.ErrorContext(ctx, "database migration failed", logger.Error(err))
		os.Exit(1)
	}

	store := postgres.New(pool)
	signer := token.New(appCfg.TokenSecret)

	var mailer email.Sender
	if emailCfg.PostmarkServerToken != "" && emailCfg.PostmarkAccountToken != "" {
		mailer = email.MustNewPostmarkClient(emailCfg)
	} else {
		log.InfoContext(ctx, "postmark is not configured, writing emails to disk",
			logger.Component("email"))
		mailer = email.NewDevSender(appCfg.EmailDevDir)
	}

	svc, err := subscription.New(svcCfg, store, signer, mailer,
		subscription.WithLogger(log))
	if err != nil {
		log.ErrorContext(ctx, "subscription service init failed", logger.Error(err))
		os.Exit(1)
	}

	hub := event.NewHub(64)
	defer hub.Close()
	go logEvents(ctx, hub, log)

	healthChecks := []func(context.Context) error{pg.Healthcheck(pool)}

	// The rate-limit counters live in Redis when configured, so the limit
	// holds across instances. A single instance gets by with memory.
	var limitStore ratelimit.Store
	if redisCfg.Enabled() {
		redisClient, err := redis.Connect(ctx, redisCfg)
		if err != nil {
			log.ErrorContext(ctx, "redis connection failed", logger.Error(err))
			os.Exit(1)
		}
		defer redisClient.Close()
		limitStore = ratelimit.NewRedisStore(redisClient)
		healthChecks = append(healthChecks, redis.Healthcheck(redisClient))
	} else {
		memStore := ratelimit.NewMemoryStore()
		defer memStore.Close()
		limitStore = memStore
	}

	limiter, err := ratelimit.NewFixedWindow(limitStore, appCfg.RateLimitRequests, appCfg.RateLimitWindow)
	if err != nil {
		log.ErrorContext(ctx, "rate limiter init failed", logger.Error(err))
		os.Exit(1)
	}

	handler, err := web.NewHandler(svc, signer,
		web.WithEvents(hub),
		web.WithRateLimiter(limiter),
		web.WithHealthChecks(healthChecks...),
		web.WithLogger(log),
	)
	if err != nil {
		log.ErrorContext(ctx, "web handler init failed", logger.Error(err))
		os.Exit(1)
	}

	srv := httpserver.New(serverCfg, httpserver.WithLogger(log))
	if err := srv.Run(ctx, handler.Router()); err != nil {
		log.ErrorContext(ctx, "http server failed", logger.Error(err))
		os.Exit(1)
	}
}

// logEvents drains the hub so subscription activity shows up in the
// logs. Downstream consumers subscribe the same way.
func logEvents(ctx context.Context, hub *event.Hub, log *slog.Logger) {
	sub := hub.Subscribe(ctx)
	for e := range sub.Events() {
		log.InfoContext(ctx, "subscription event",
			logger.EventType(string(e.Type)),
			logger.Email(e.Email),
			logger.List(e.ListName),
		)
	}
}

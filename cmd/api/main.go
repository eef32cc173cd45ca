package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"

	"github.com/parkwell-gh/parkwell/internal/engine"
	"github.com/parkwell-gh/parkwell/internal/jsonlog"
	"github.com/parkwell-gh/parkwell/internal/mailer"
	"github.com/parkwell-gh/parkwell/internal/notify"
	"github.com/parkwell-gh/parkwell/internal/paystack"
	"github.com/parkwell-gh/parkwell/internal/qrcode"
	"github.com/parkwell-gh/parkwell/internal/store"
)

const version = "1.0.0"

type config struct {
	port int
	env  string

	baseURL string

	store struct {
		kind string
		dsn  string
		dir  string
	}

	redis struct {
		addr    string
		channel string
	}

	paystack struct {
		secretKey      string
		skipVerify     bool
		allowAnonymous bool
	}

	admin struct {
		username     string
		passwordHash string
	}

	smtp struct {
		host     string
		port     int
		username string
		password string
		sender   string
	}

	limiter struct {
		rps     float64
		burst   int
		enabled bool
	}

	cors struct {
		trustedOrigins []string
	}

	sweepInterval time.Duration
}

type application struct {
	config config
	logger *jsonlog.Logger
	engine *engine.Engine
	qr     *qrcode.Generator
	mailer mailer.Mailer
	wg     sync.WaitGroup
}

func main() {
	logger := jsonlog.New(os.Stdout, jsonlog.LevelInfo)

	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		logger.PrintError(err, nil)
	}

	var cfg config

	flag.IntVar(&cfg.port, "port", 4000, "API server port")
	flag.StringVar(&cfg.env, "env", "development", "Environment (development|staging|production)")
	flag.StringVar(&cfg.baseURL, "base-url", "http://localhost:4000", "Public base URL used in QR deep links")

	flag.StringVar(&cfg.store.kind, "store", "file", "Record store backend (file|postgres)")
	flag.StringVar(&cfg.store.dsn, "store-dsn", os.Getenv("PARKWELL_DB_DSN"), "PostgreSQL DSN for the postgres store")
	flag.StringVar(&cfg.store.dir, "store-dir", "./data", "Directory for the file store")

	flag.StringVar(&cfg.redis.addr, "redis-addr", os.Getenv("PARKWELL_REDIS_ADDR"), "Redis address for change events (empty disables publishing)")
	flag.StringVar(&cfg.redis.channel, "redis-channel", "parkwell:events", "Redis pub/sub channel for change events")

	flag.StringVar(&cfg.paystack.secretKey, "paystack-secret", os.Getenv("PAYSTACK_SECRET_KEY"), "Paystack secret key")
	flag.BoolVar(&cfg.paystack.skipVerify, "skip-payment-verify", false, "Skip gateway verification of payment references (non-production only)")
	flag.BoolVar(&cfg.paystack.allowAnonymous, "allow-anonymous", false, "Allow reservations without a registered user")

	flag.StringVar(&cfg.admin.username, "admin-user", os.Getenv("PARKWELL_ADMIN_USER"), "Admin basic auth username")
	flag.StringVar(&cfg.admin.passwordHash, "admin-password-hash", os.Getenv("PARKWELL_ADMIN_PASSWORD_HASH"), "Admin basic auth bcrypt password hash")

	flag.StringVar(&cfg.smtp.host, "smtp-host", os.Getenv("SMTP_HOST"), "SMTP host")
	flag.IntVar(&cfg.smtp.port, "smtp-port", 587, "SMTP port")
	flag.StringVar(&cfg.smtp.username, "smtp-username", os.Getenv("SMTP_USERNAME"), "SMTP username")
	flag.StringVar(&cfg.smtp.password, "smtp-password", os.Getenv("SMTP_PASSWORD"), "SMTP password")
	flag.StringVar(&cfg.smtp.sender, "smtp-sender", "ParkWell <no-reply@parkwell.example>", "SMTP sender")

	flag.Float64Var(&cfg.limiter.rps, "limiter-rps", 2, "Rate limiter maximum requests per second")
	flag.IntVar(&cfg.limiter.burst, "limiter-burst", 4, "Rate limiter maximum burst")
	flag.BoolVar(&cfg.limiter.enabled, "limiter-enabled", true, "Enable rate limiter")

	flag.Func("cors-trusted-origins", "Trusted CORS origins (space separated)", func(val string) error {
		cfg.cors.trustedOrigins = strings.Fields(val)
		return nil
	})

	flag.DurationVar(&cfg.sweepInterval, "sweep-interval", time.Minute, "Interval between expired session sweeps")

	flag.Parse()

	if cfg.paystack.skipVerify && cfg.env == "production" {
		logger.PrintFatal(fmt.Errorf("skip-payment-verify is not permitted in production"), nil)
	}
	if cfg.paystack.skipVerify {
		logger.PrintInfo("payment verification disabled, claimed amounts will be trusted", map[string]string{"env": cfg.env})
	}

	recordStore, err := openStore(cfg)
	if err != nil {
		logger.PrintFatal(err, nil)
	}

	var notifier engine.Notifier = notify.NewLogNotifier(logger)
	if cfg.redis.addr != "" {
		client := redis.NewClient(&redis.Options{Addr: cfg.redis.addr})
		notifier = notify.NewRedisNotifier(client, cfg.redis.channel, logger)
	}

	var gateway engine.Gateway
	if cfg.paystack.secretKey != "" {
		gateway = paystack.New(cfg.paystack.secretKey)
	}

	eng := engine.New(engine.Config{
		Store:            recordStore,
		Notifier:         notifier,
		Gateway:          gateway,
		Logger:           logger,
		SkipVerification: cfg.paystack.skipVerify,
		AllowAnonymous:   cfg.paystack.allowAnonymous,
	})

	app := &application{
		config: cfg,
		logger: logger,
		engine: eng,
		qr:     qrcode.NewGenerator(cfg.baseURL),
		mailer: mailer.New(cfg.smtp.host, cfg.smtp.port, cfg.smtp.username, cfg.smtp.password, cfg.smtp.sender),
	}

	app.startSessionSweeper()

	if err := app.serve(); err != nil {
		logger.PrintFatal(err, nil)
	}
}

func openStore(cfg config) (store.Store, error) {
	switch cfg.store.kind {
	case "postgres":
		db, err := sql.Open("postgres", cfg.store.dsn)
		if err != nil {
			return nil, err
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := db.PingContext(ctx); err != nil {
			return nil, err
		}

		return store.NewPostgresStore(db), nil
	case "file":
		return store.NewFileStore(cfg.store.dir)
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.store.kind)
	}
}

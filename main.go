package main

import (
	"context"
	"flag"
	stdlog "log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/telekom/contact-intake/pkg/api"
	"github.com/telekom/contact-intake/pkg/audit"
	"github.com/telekom/contact-intake/pkg/config"
	"github.com/telekom/contact-intake/pkg/contact"
	"github.com/telekom/contact-intake/pkg/mail"
	"github.com/telekom/contact-intake/pkg/ratelimit"
	"github.com/telekom/contact-intake/pkg/store"
	"github.com/telekom/contact-intake/pkg/telemetry"
	"github.com/telekom/contact-intake/pkg/version"
)

func main() {
	var (
		debug      bool
		configPath string
	)
	flag.BoolVar(&debug, "debug", false, "enables debug mode")
	flag.StringVar(&configPath, "config", "", "path to the configuration file")
	flag.Parse()

	log := setupLogger(debug)
	log.With("version", version.Version).Info("Starting contact-intake api")

	var paths []string
	if configPath != "" {
		paths = append(paths, configPath)
	}
	cfg, err := config.Load(paths...)
	if err != nil {
		log.Fatalf("Error loading config for contact-intake: %v", err)
	}
	cfg.Defaults()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	if debug {
		log.Infof("%#v", cfg)
	}

	ctx := context.Background()
	_, shutdownTracing, err := telemetry.Init(ctx, telemetry.Options{
		Enabled:        cfg.Telemetry.Enabled,
		ServiceName:    "contact-intake",
		ServiceVersion: version.Version,
		Exporter:       cfg.Telemetry.Exporter,
		Endpoint:       cfg.Telemetry.Endpoint,
		Insecure:       cfg.Telemetry.Insecure,
		SamplingRate:   cfg.Telemetry.SamplingRate,
		Logger:         log,
	})
	if err != nil {
		log.Fatalf("Error initializing tracing: %v", err)
	}

	db, err := store.Open(cfg.Database.Driver, cfg.Database.DSN, log)
	if err != nil {
		log.Fatalf("Error opening submission store: %v", err)
	}
	if err := store.Migrate(db, &contact.Submission{}); err != nil {
		log.Fatalf("Error migrating submission store: %v", err)
	}
	repo := contact.NewRepository(db)

	sender := mail.NewSender(cfg.Mail, cfg.Contact.BrandingName, log)
	queue := mail.NewQueue(sender, log, cfg.Mail.RetryCount, cfg.Mail.RetryBackoffMs, cfg.Mail.QueueSize)
	queue.Start()

	sinks := []audit.Sink{audit.NewLogSink(log.Desugar())}
	if cfg.Audit.Enabled && len(cfg.Audit.KafkaBrokers) > 0 {
		kafkaSink, err := audit.NewKafkaSink(audit.KafkaSinkConfig{
			Brokers: cfg.Audit.KafkaBrokers,
			Topic:   cfg.Audit.KafkaTopic,
		}, log.Desugar())
		if err != nil {
			log.Fatalf("Error creating kafka audit sink: %v", err)
		}
		sinks = append(sinks, kafkaSink)
	}
	auditor := audit.NewService(log.Desugar(), cfg.Audit.QueueSize, sinks...)

	limiter := ratelimit.New(ratelimit.Config{
		Rate:  cfg.RateLimit.Rate,
		Burst: cfg.RateLimit.Burst,
	})

	contactController := contact.NewController(log, cfg.Contact, repo, queue, auditor).
		WithSubmitLimit(limiter.Middleware())
	if cfg.Server.StaticDir != "" {
		contactController.WithStylesheet()
	}

	server := api.NewServer(log.Desugar(), cfg, debug)
	if err := server.RegisterAll([]api.APIController{contactController}); err != nil {
		log.Fatalf("Error registering contact controller: %v", err)
	}

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- server.Listen()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stop:
		log.Infow("Shutting down", "signal", sig.String())
	case err := <-serveErr:
		log.Errorw("Server stopped", "error", err)
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if err := queue.Stop(shutdownCtx); err != nil {
		log.Warnw("Mail queue did not drain before shutdown deadline", "error", err)
	}
	if err := auditor.Close(); err != nil {
		log.Warnw("Error closing audit service", "error", err)
	}
	limiter.Stop()
	if err := shutdownTracing(shutdownCtx); err != nil {
		log.Warnw("Error shutting down tracing", "error", err)
	}
	log.Info("Shutdown complete")
}

func setupLogger(debug bool) *zap.SugaredLogger {
	var zlog *zap.Logger
	var err error
	if debug {
		zlog, err = zap.NewDevelopment()
	} else {
		zlog, err = zap.NewProduction()
	}
	if err != nil {
		stdlog.Fatalf("failed to set up logger: %v", err)
	}
	return zlog.Sugar()
}

package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/ovaphlow/pitchfork/service-jobboard/internal/events"
	"github.com/ovaphlow/pitchfork/service-jobboard/internal/router"
	"github.com/ovaphlow/pitchfork/service-jobboard/internal/session"
	sessionrepo "github.com/ovaphlow/pitchfork/service-jobboard/internal/session/repo"
	"github.com/ovaphlow/pitchfork/service-jobboard/pkg/database"
	"github.com/ovaphlow/pitchfork/service-jobboard/pkg/utilities"
)

func main() {
	// load .env file if present so os.Getenv picks values from it
	// this is best-effort: if no .env exists, continue (use defaults or real env)
	_ = godotenv.Load()

	// init logger
	lg, err := utilities.Init(utilities.ConfigFromEnv())
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer lg.Sync()

	sugar := lg.Sugar()
	sugar.Info("starting service-jobboard")

	// init store
	dbCfg := database.ConfigFromEnv()
	db := database.Open(dbCfg)
	sugar.Infow("store ready", "seed", dbCfg.Seed, "latency", dbCfg.Latency)

	tokenCfg, err := session.TokenConfigFromEnv()
	if err != nil {
		sugar.Fatalf("session config: %v", err)
	}
	if os.Getenv("SESSION_SECRET") == "" {
		sugar.Warn("SESSION_SECRET not set; sessions will not survive a restart")
	}

	pub, err := events.NewPublisher(os.Getenv("NATS_URL"), sugar)
	if err != nil {
		sugar.Fatalf("nats connect: %v", err)
	}
	defer pub.Close()

	// graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	revoked := sessionrepo.NewRevocationRepo(tokenCfg.RevocationHorizon)
	go revoked.Run(ctx, 5*time.Minute)

	addr := os.Getenv("HTTP_ADDR")
	if addr == "" {
		addr = "0.0.0.0:8431"
	}

	// mount http server
	handler := router.RegisterRoutes(sugar, router.Deps{
		DB:      db,
		IDs:     utilities.NewIDGeneratorFromEnv(),
		Events:  pub,
		Tokens:  session.NewTokenIssuer(tokenCfg),
		Revoked: revoked,
	})
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// run server in background
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			sugar.Fatalf("http server failed: %v", err)
		}
	}()

	sugar.Infow("service is running; press Ctrl+C to stop", "addr", addr)

	<-ctx.Done()

	sugar.Info("shutting down")

	// give a short grace period for cleanup
	doneCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// shutdown http server
	if err := srv.Shutdown(doneCtx); err != nil {
		sugar.Warnf("http server shutdown failed: %v", err)
	}

	sugar.Info("goodbye")
}

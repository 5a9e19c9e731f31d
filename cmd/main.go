package main

import (
	"chat-presence/api"
	"chat-presence/domain"
	"chat-presence/internal"
	"chat-presence/moderation"
	"chat-presence/runtime/workers"
	"chat-presence/services"
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/mama165/sdk-go/logs"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Fatal error: %v\n", err)
		os.Exit(1)
	}
}

// run wires every component and blocks until a signal stops the supervisor.
// Deferred cleanups run before main exits.
func run() error {
	_ = godotenv.Load()

	// 1. Configuration & Logger
	config, err := internal.LoadConfig()
	if err != nil {
		return err
	}
	log := logs.GetLoggerFromString(config.LogLevel)

	location, err := config.Location()
	if err != nil {
		return err
	}
	clock := domain.NewSystemClock(location)

	replacement, err := moderation.ReplacementRune(config.CharReplacement)
	if err != nil {
		return fmt.Errorf("CHARACTER_REPLACEMENT: %w", err)
	}
	moderator, err := moderation.NewModerator(moderation.ParseWords(config.CensoredWords), replacement)
	if err != nil {
		return fmt.Errorf("moderator setup failed: %w", err)
	}

	// 2. Durable store
	store, err := openStore(config, log)
	if err != nil {
		return err
	}
	defer func() {
		log.Info("Closing store...", "driver", config.StoreDriver)
		if err := store.close(); err != nil {
			log.Error("Store close failed", "error", err)
		}
	}()

	// 3. Services & HTTP surface
	participantService := services.NewParticipantService(store.participants, store.messages, clock, config.StaleAfter, log)
	messageService := services.NewMessageService(store.participants, store.messages, moderator, clock, log)
	server := &http.Server{
		Addr:              config.Addr(),
		Handler:           api.NewRouter(api.NewHandler(participantService, messageService, log)),
		ReadHeaderTimeout: 5 * time.Second,
	}

	// 4. Context & Signals
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 5. Supervision
	sup := workers.NewSupervisor(log, config.RestartInterval)
	sup.Add(
		workers.NewHTTPServerWorker(log, server, config.ShutdownTimeout),
		workers.NewEvictionWorker(log, participantService, config.SweepInterval),
	)
	if config.StatsInterval > 0 {
		sup.Add(workers.NewProcessStatsWorker(log, config.StatsInterval))
	}

	log.Info("Chat room started", "addr", config.Addr(), "store", config.StoreDriver, "stale_after", config.StaleAfter)
	sup.Run(ctx)
	log.Info("Chat room stopped")
	return nil
}

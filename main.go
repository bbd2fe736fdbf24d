package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/leadpilot/campaignops/internal/config"
	"github.com/leadpilot/campaignops/internal/hub"
	"github.com/leadpilot/campaignops/internal/policy"
	"github.com/leadpilot/campaignops/internal/poller"
	"github.com/leadpilot/campaignops/internal/repository"
	"github.com/leadpilot/campaignops/internal/service"
	transport "github.com/leadpilot/campaignops/internal/transport/http"
)

func main() {
	cfg := config.Load()

	store, err := repository.NewSQLiteStore(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("ERROR: failed to open store: %v", err)
	}
	defer store.Close()

	engine, err := policy.NewEngine(context.Background(), policy.DefaultPolicy)
	if err != nil {
		log.Fatalf("ERROR: failed to compile policy: %v", err)
	}

	svc := service.New(store, engine, cfg)

	h := hub.NewHub()
	go h.Run()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	p := poller.New(svc, h, cfg.PollInterval)
	go p.Run(ctx)

	e := transport.NewServer(svc, h, cfg)

	go func() {
		addr := fmt.Sprintf(":%d", cfg.HTTPPort)
		log.Printf("campaignops listening on %s", addr)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("ERROR: server stopped: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Printf("WARN: shutdown error: %v", err)
	}
	log.Println("server stopped")
}

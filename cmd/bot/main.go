package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/Ferpoks/telegram-cv-bot/internal/bootstrap"
	"github.com/Ferpoks/telegram-cv-bot/internal/dialog"
	"github.com/Ferpoks/telegram-cv-bot/internal/server"
	"github.com/Ferpoks/telegram-cv-bot/internal/shared/config"
)

func main() {
	cfg := config.Load()

	app, err := bootstrap.Build(cfg)
	if err != nil {
		log.Fatalf("bootstrap: %v", err)
	}
	if app.DB != nil {
		defer app.DB.Close()
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := app.Client.SetMyCommands(ctx, dialog.Commands()); err != nil {
		log.Printf("set commands: %v", err)
	}

	// Liveness probes keep the host's health checks green while the bot
	// long-polls.
	addr := server.Addr(cfg.Port)
	go func() {
		log.Printf("starting liveness server on %s", addr)
		if err := app.Router.Run(addr); err != nil {
			log.Fatalf("liveness server: %v", err)
		}
	}()

	log.Printf("starting bot poller")
	app.Poller.Run(ctx, app.Bot.HandleUpdate)
	app.Bot.Drain()
}

package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/GimTech1/SistemadeRH-sub002/internal/app/server"
	"github.com/GimTech1/SistemadeRH-sub002/internal/platform/config"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.Load()
	app, err := server.New(ctx, cfg)
	if err != nil {
		log.Fatalf("startup failed: %v", err)
	}
	defer app.Close()

	if err := app.Run(ctx); err != nil {
		log.Fatalf("server failed: %v", err)
	}
}

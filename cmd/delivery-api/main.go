package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/megatonytrader/express-entregas-zap/cmd/delivery-api/app"
	"github.com/megatonytrader/express-entregas-zap/configs"
)

func main() {
	env := os.Getenv("APP_ENV") // dev | staging | prod
	if env == "" {
		env = "dev"
	}

	cfg, err := configs.Load("configs", env)
	if err != nil {
		log.Fatal(err)
	}

	a, cleanup, err := app.InitWithConfig(cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer cleanup()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Printf("delivery-api (%s) listening on %s", env, cfg.App.HTTPAddr)
	if err := a.Run(ctx); err != nil && err != context.Canceled {
		log.Fatal(err)
	}
}

package main

import (
	"context"
	"elles-app/config"
	"elles-app/ranking"
	"elles-app/routes"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load(os.Getenv("ENV_FILE"))
	if err != nil {
		panic(err)
	}

	log := config.MustLogger(config.NewLogger(cfg.Log))
	defer log.Sync()

	scraper := ranking.NewScraper(ranking.Sources, cfg.Ranking.FetchTimeout)
	loader := ranking.NewLoader(cfg.Ranking.CachePath, cfg.Ranking.MinRows, scraper, log)
	app := routes.NewRankingApp(cfg, loader, log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := app.ShutdownWithContext(shutdownCtx); err != nil {
			log.Error("shutdown failed", zap.Error(err))
		}
	}()

	log.Info("ranking dashboard listening", zap.String("port", cfg.Ranking.Port))
	if err := app.Listen(":" + cfg.Ranking.Port); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
	log.Info("server stopped")
}

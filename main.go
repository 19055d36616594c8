package main

import (
	"context"
	"elles-app/config"
	"elles-app/controllers/idgen"
	"elles-app/database"
	"elles-app/migration"
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

	if err := idgen.Init(1); err != nil {
		log.Fatal("failed to init id generator", zap.Error(err))
	}

	db, err := database.Open(cfg.Database, log)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}

	if err := migration.Migrate(db); err != nil {
		log.Fatal("failed to auto migrate", zap.Error(err))
	}

	app := routes.NewApp(cfg, db, log)

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

	log.Info("stock api listening", zap.String("port", cfg.Server.Port), zap.String("prefix", cfg.Server.MainRoutes))
	if err := app.Listen(":" + cfg.Server.Port); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
	log.Info("server stopped")
}

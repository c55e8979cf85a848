package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"katalog/internal/app"
	"katalog/internal/config"
	"katalog/internal/middleware"
	"katalog/pkg/logger"

	"go.uber.org/zap"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(args []string) error {
	flags, err := config.ParseFlags(args)
	if err != nil {
		return err
	}

	if flags.HashPassword != "" {
		hash, err := middleware.HashPassword(flags.HashPassword)
		if err != nil {
			return fmt.Errorf("failed to hash password: %w", err)
		}
		fmt.Println(hash)
		return nil
	}

	cfg, err := config.Load(flags.ConfigFile)
	if err != nil {
		return err
	}

	log, err := logger.New(cfg.Log.Level)
	if err != nil {
		return err
	}
	defer log.Sync() //nolint:errcheck

	log.Info("configuration loaded", zap.Stringer("config", cfg))

	application, err := app.New(cfg, log)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	return application.Run(ctx)
}

// Package main runs the heatmap dataset API.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"heatmap/internal/config"
	"heatmap/internal/dataset"
	"heatmap/internal/logger"
	"heatmap/internal/server"
)

func main() {
	configFile := flag.String("config", "", "Path to YAML configuration file (default $HEATMAP_CONFIG)")
	dumpConfig := flag.String("dump-config", "", "Write the effective configuration to this path and exit")
	flag.Parse()

	cfg, err := config.Load(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ Failed to load config: %v\n", err)
		os.Exit(1)
	}

	if *dumpConfig != "" {
		if err := cfg.SaveConfig(*dumpConfig); err != nil {
			fmt.Fprintf(os.Stderr, "❌ Failed to write config: %v\n", err)
			os.Exit(1)
		}

		fmt.Printf("✅ Saved config to: %s\n", *dumpConfig)

		return
	}

	log := logger.New(os.Stderr, cfg.Logging.Level, cfg.Logging.Format)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	catalog := dataset.Load(ctx, cfg, log)

	srv := server.New(cfg, catalog, log)
	if err := srv.Run(ctx); err != nil {
		log.Error("server failed", "error", err)
		os.Exit(1)
	}
}

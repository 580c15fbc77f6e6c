// Package main exports normalized datasets to an XLSX workbook, one sheet per dataset.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"heatmap/internal/config"
	"heatmap/internal/dataset"
	"heatmap/internal/export"
	"heatmap/internal/logger"
)

func main() {
	configFile := flag.String("config", "", "Path to YAML configuration file")
	names := flag.String("datasets", "", "Comma-separated datasets to export (default: all enabled)")
	outputPath := flag.String("output", "heatmap.xlsx", "Path to output XLSX file")
	flag.Parse()

	cfg, err := config.Load(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(os.Stderr, cfg.Logging.Level, cfg.Logging.Format)
	ctx := context.Background()

	var selected []string

	if *names == "" {
		for _, ds := range cfg.GetEnabledDatasets() {
			selected = append(selected, ds.Name)
		}
	} else {
		for _, name := range strings.Split(*names, ",") {
			selected = append(selected, strings.TrimSpace(name))
		}
	}

	sheets := make([]export.Sheet, 0, len(selected))

	for _, name := range selected {
		snap, err := dataset.LoadNamed(ctx, cfg, name, log)
		if err != nil {
			log.Error("failed to load dataset", "dataset", name, "error", err)
			os.Exit(1)
		}

		result, err := snap.Normalize(log)
		if err != nil {
			log.Error("failed to normalize dataset", "dataset", name, "error", err)
			os.Exit(1)
		}

		fmt.Printf("📊 %s: %d records, %d skipped\n", name, len(result.Records), len(result.Report.Skipped))

		sheets = append(sheets, export.Sheet{Name: name, Records: result.Records})
	}

	if err := export.SaveXLSX(*outputPath, sheets); err != nil {
		log.Error("failed to write workbook", "path", *outputPath, "error", err)
		os.Exit(1)
	}

	fmt.Printf("✅ Saved to: %s\n", *outputPath)
}

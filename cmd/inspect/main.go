// Package main prints a decoded dataset as a markdown table for a quick look
// at what the API would serve.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/term"

	"heatmap/internal/config"
	"heatmap/internal/dataset"
	"heatmap/internal/formatter"
	"heatmap/internal/logger"
	"heatmap/internal/normalizer"
)

const defaultWidth = 120

var defaultColumns = map[string][]string{
	config.KindFacility:   {"establishment_name", "city", "state", "animals_slaughtered", "animals_processed"},
	config.KindRegistrant: {"Account Name", "County", "Year", normalizer.AnimalsTestedColumn},
	config.KindInspection: {"Account Name", "License Type", "City", "State"},
}

func main() {
	configFile := flag.String("config", "", "Path to YAML configuration file")
	name := flag.String("dataset", "locations", "Configured dataset to inspect")
	inputPath := flag.String("input", "", "Inspect a CSV file instead of a configured dataset")
	kind := flag.String("kind", config.KindFacility, "Record kind of -input")
	mode := flag.String("mode", "strict", "Decode mode of -input")
	columns := flag.String("columns", "", "Comma-separated columns to show (default depends on kind, \"all\" for every column)")
	limit := flag.Int("limit", 20, "Maximum rows to show (0 for all)")
	width := flag.Int("width", 0, "Table width in columns (default: terminal width)")
	flag.Parse()

	log := logger.NewLogger("warn")
	ctx := context.Background()

	var (
		snap *dataset.Snapshot
		err  error
	)

	if *inputPath != "" {
		snap, err = dataset.LoadDataset(ctx, config.DatasetConfig{
			Name: filepath.Base(*inputPath),
			Kind: *kind,
			Mode: *mode,
			File: *inputPath,
		}, nil)
	} else {
		var cfg *config.Config

		cfg, err = config.Load(*configFile)
		if err == nil {
			snap, err = dataset.LoadNamed(ctx, cfg, *name, log)
		}
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ %v\n", err)
		os.Exit(1)
	}

	result, err := snap.Normalize(log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ Failed to read %s data: %v\n", snap.Label, err)
		os.Exit(1)
	}

	fmt.Printf("📂 %s (%s, %s mode, %d bytes, checksum %s)\n", snap.Source, snap.Kind, snap.Mode, len(snap.Data), snap.Sum)
	fmt.Printf("📊 %d rows, %d records, %d skipped\n", result.Report.Rows, result.Report.Decoded, len(result.Report.Skipped))

	for _, skipped := range result.Report.Skipped {
		fmt.Printf("⚠️  %v\n", skipped)
	}

	fmt.Println()

	cols := defaultColumns[snap.Kind]

	switch *columns {
	case "":
	case "all":
		cols = nil
	default:
		cols = strings.Split(*columns, ",")
		for i := range cols {
			cols[i] = strings.TrimSpace(cols[i])
		}
	}

	records := result.Records
	if *limit > 0 && len(records) > *limit {
		records = records[:*limit]
	}

	shown := len(cols)
	if shown == 0 && len(records) > 0 {
		shown = len(records[0].Columns())
	}

	table, err := formatter.Records(records, cols, cellWidth(*width, shown))
	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ %v\n", err)
		os.Exit(1)
	}

	fmt.Print(table)

	if len(records) < len(result.Records) {
		fmt.Printf("\n… %d more\n", len(result.Records)-len(records))
	}
}

// cellWidth splits the table width evenly across columns, leaving room for
// the " | " separators.
func cellWidth(width, columns int) int {
	if width <= 0 {
		width = defaultWidth

		if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
			width = w
		}
	}

	if columns == 0 {
		return 0
	}

	return max(width/columns-3, 8)
}

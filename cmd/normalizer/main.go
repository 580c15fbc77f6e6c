// Package main provides the normalizer command-line tool for turning a raw
// dataset into the JSON records the API serves.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"heatmap/internal/config"
	"heatmap/internal/dataset"
	"heatmap/internal/logger"
)

func main() {
	inputPath := flag.String("input", "", "Path to input CSV file (e.g., usda_locations.csv)")
	kind := flag.String("kind", config.KindFacility, "Record kind: facility, registrant or inspection")
	mode := flag.String("mode", "strict", "Decode mode: strict or lenient")
	outputPath := flag.String("output", "", "Path to output JSON file")
	flag.Parse()

	if *inputPath == "" || *outputPath == "" {
		fmt.Println("Usage: normalizer -input <input.csv> -kind <kind> -output <output.json>")
		flag.PrintDefaults()
		os.Exit(1)
	}

	ds := config.DatasetConfig{
		Name: filepath.Base(*inputPath),
		Kind: *kind,
		Mode: *mode,
		File: *inputPath,
	}

	snap, err := dataset.LoadDataset(context.Background(), ds, nil)
	if err != nil {
		log.Fatalf("Error reading file: %v\n", err)
	}

	fmt.Printf("📂 Reading: %s (%d bytes, %s)\n", *inputPath, len(snap.Data), snap.Mode)

	result, err := snap.Normalize(logger.NewLogger("warn"))
	if err != nil {
		log.Fatalf("Error normalizing %s: %v\n", *kind, err)
	}

	fmt.Printf("📊 Parsed: %d rows, %d records, %d skipped\n",
		result.Report.Rows, result.Report.Decoded, len(result.Report.Skipped))

	for _, skipped := range result.Report.Skipped {
		fmt.Printf("⚠️  %v\n", skipped)
	}

	if mkdirErr := os.MkdirAll(filepath.Dir(*outputPath), 0755); mkdirErr != nil {
		log.Fatalf("Error creating directory: %v\n", mkdirErr)
	}

	jsonData, err := json.MarshalIndent(result.Items, "", "  ")
	if err != nil {
		log.Fatalf("Error marshaling JSON: %v\n", err)
	}

	if err := os.WriteFile(*outputPath, jsonData, 0644); err != nil {
		log.Fatalf("Error writing file: %v\n", err)
	}

	fmt.Printf("✅ Saved to: %s\n", *outputPath)
}

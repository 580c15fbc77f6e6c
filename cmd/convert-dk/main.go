// Package main converts the Danish food authority's establishment register
// (XML on stdin) into a facility CSV on stdout.
package main

import (
	"bufio"
	"os"

	"heatmap/internal/convert"
	"heatmap/internal/logger"
)

func main() {
	log := logger.NewLogger(os.Getenv("LOG_LEVEL"))

	out := bufio.NewWriter(os.Stdout)

	n, err := convert.Danish(bufio.NewReader(os.Stdin), out)
	if err != nil {
		log.Error("conversion failed", "error", err)
		os.Exit(1)
	}

	if err := out.Flush(); err != nil {
		log.Error("failed to write output", "error", err)
		os.Exit(1)
	}

	log.Info("converted register", "facilities", n)
}

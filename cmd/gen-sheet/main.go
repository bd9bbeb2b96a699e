package main

import (
	"context"
	"flag"
	"os"
	"strings"

	"github.com/okian/picksheet/internal/testsheet"
	"github.com/okian/picksheet/pkg/logger"
)

// Default generator settings.
const (
	defaultPicks = 28
	defaultSeed  = 1
)

func main() {
	var (
		output  = flag.String("output", "", "CSV file to write (default stdout)")
		picks   = flag.Int("picks", defaultPicks, "Number of picks (days) in the season")
		seed    = flag.Uint64("seed", defaultSeed, "Random seed; the same seed gives the same sheet")
		players = flag.String("players", strings.Join(testsheet.DefaultPlayers, ","), "Comma-separated roster")
		absent  = flag.Float64("absent", 0.05, "Share of empty cells")
		bonus   = flag.Float64("bonus", 0.08, "Share of bonus cells")
	)
	flag.Parse()

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logger: " + err.Error() + "\n")
		os.Exit(1)
	}
	ctx := context.Background()
	log := logger.Named("gen-sheet")

	grid := testsheet.Generate(testsheet.Config{
		Players:    splitRoster(*players),
		Picks:      *picks,
		Seed:       *seed,
		AbsentRate: *absent,
		BonusRate:  *bonus,
	})

	out := os.Stdout
	if *output != "" {
		f, err := os.Create(*output)
		if err != nil {
			log.Fatal(ctx, "failed to create output file", logger.String("path", *output), logger.Error(err))
		}
		defer f.Close()
		out = f
	}
	if err := testsheet.WriteCSV(out, grid); err != nil {
		log.Fatal(ctx, "failed to write sheet", logger.Error(err))
	}
	if *output != "" {
		log.Info(ctx, "sheet written",
			logger.String("path", *output),
			logger.Int("picks", *picks),
			logger.Int("rows", len(grid)),
		)
	}
}

func splitRoster(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

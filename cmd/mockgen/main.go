package main

import (
	"flag"
	"fmt"
	"os"

	"scenario-mcp/cmd/mockgen/engine"
)

func main() {
	scenario := flag.String("scenario", "uniform", "Scenario to generate: uniform, stressed, degenerate")
	seed := flag.Int64("seed", 42, "Random seed")
	paths := flag.Int("paths", 500, "Number of simulated paths")
	steps := flag.Int("steps", 24, "Monthly steps per path")
	candidates := flag.Int("candidates", 8, "Number of financing candidates")
	outDir := flag.String("out", "./.cache", "Output directory for mock files")
	flag.Parse()

	cfg := engine.GeneratorConfig{
		Scenario:   *scenario,
		Paths:      *paths,
		Steps:      *steps,
		Candidates: *candidates,
		Seed:       *seed,
	}

	fmt.Printf("Generating scenario '%s' (Seed: %d, Paths: %d, Steps: %d) to %s...\n", cfg.Scenario, cfg.Seed, cfg.Paths, cfg.Steps, *outDir)

	baseline, optimized := engine.Generate(cfg)

	written, err := engine.Save(*outDir, "MOCK_"+cfg.Scenario, baseline, optimized)
	if err != nil {
		fmt.Printf("Failed to save mock data: %v\n", err)
		os.Exit(1)
	}
	for _, p := range written {
		fmt.Println(p)
	}

	fmt.Println("Done.")
}

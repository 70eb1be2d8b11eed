// scan-debug prints the repository discovery result for the current
// config. Useful when tuning roots and ignore patterns.
package main

import (
	"fmt"
	"os"

	"github.com/colonyops/flotilla/internal/commands"
	"github.com/colonyops/flotilla/internal/core/config"
	"github.com/colonyops/flotilla/internal/core/discover"
)

func main() {
	configPath := commands.DefaultConfigPath()

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	roots, err := cfg.ExpandedRoots()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error expanding roots: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Config: %s\n", configPath)
	fmt.Printf("Roots:  %v\n", roots)
	fmt.Printf("Ignore: %v\n", cfg.Ignore)
	fmt.Println()

	repos, err := discover.Scan(roots, cfg.Ignore)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error scanning: %v\n", err)
		os.Exit(1)
	}

	for _, r := range repos {
		fmt.Printf("%-30s %s\n", r.Name, r.Path)
	}
	fmt.Printf("\n%d repositories\n", len(repos))
}

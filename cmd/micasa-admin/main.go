// cmd/micasa-admin/main.go
//
// Entry point for the admin console. Loads (or creates) the operator
// config, opens the logbook, builds the API client and runs the form.

package main

import (
	"flag"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/micasa/micasa-admin/internal/api"
	"github.com/micasa/micasa-admin/internal/config"
	"github.com/micasa/micasa-admin/internal/logbook"
	"github.com/micasa/micasa-admin/internal/tui"
)

func main() {
	configDir := flag.String("config", "", "settings directory (default ~/.micasa)")
	apiURL := flag.String("api", "", "backend base URL (overrides config and MICASA_API_URL)")
	flag.Parse()

	dir := *configDir
	if dir == "" {
		var err error
		dir, err = config.DefaultDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error resolving settings dir: %v\n", err)
			os.Exit(1)
		}
	}

	cfg, err := config.Load(dir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	if *apiURL != "" {
		cfg.API.BaseURL = *apiURL
	}

	book, err := logbook.New(cfg.LogPath())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening logbook: %v\n", err)
		os.Exit(1)
	}
	book.Info("Session opened · backend %s", cfg.API.BaseURL)

	client := api.NewClient(cfg.API.BaseURL,
		api.WithEndpoints(api.Endpoints{
			User:   cfg.API.UserEndpoint,
			Buyer:  cfg.API.BuyerEndpoint,
			Upload: cfg.API.UploadEndpoint,
		}),
		api.WithTimeout(cfg.Timeout()),
		api.WithLogger(book),
	)

	p := tea.NewProgram(
		tui.NewApp(client, book),
		tea.WithAltScreen(),
	)
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running TUI: %v\n", err)
		os.Exit(1)
	}
}

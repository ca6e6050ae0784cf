package main

import (
	"errors"
	"fmt"
	"os"

	"coachdash/internal/config"
	"coachdash/internal/drive"
	"coachdash/internal/service"
	"coachdash/internal/store"
	"coachdash/internal/tui"

	tea "github.com/charmbracelet/bubbletea"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if errors.Is(err, config.ErrNoConfig) {
		if err := config.CreateExample(); err != nil {
			return fmt.Errorf("creating example config: %w", err)
		}
		dir, _ := config.GetConfigDir()
		fmt.Println("No configuration found.")
		fmt.Printf("An example config was written to %s/config.json\n", dir)
		fmt.Println()
		fmt.Println("Fill in:")
		fmt.Println("  drive.folder_id        - the Drive folder holding your .fit files")
		fmt.Println("  drive.credentials_file - path to a Google service-account key file")
		fmt.Println("  athlete.weight_kg      - your weight, for W/kg and calories")
		fmt.Println()
		fmt.Println("Share the Drive folder with the service account's email, then run again.")
		return nil
	}
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	db, err := store.Open()
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	creds, err := drive.LoadCredentials(cfg.Drive.CredentialsFile)
	if err != nil {
		return fmt.Errorf("loading Drive credentials: %w", err)
	}

	client := drive.NewClient(creds)

	syncService := service.NewSyncService(client, db, cfg.Drive.FolderID)
	queryService := service.NewQueryService(db, cfg.Athlete)

	app := tui.NewApp(syncService, queryService, tui.NewUnits(cfg.Display))

	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running UI: %w", err)
	}

	return nil
}

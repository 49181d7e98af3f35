package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"dropstage/internal/config"
	"dropstage/internal/eventbus"
	"dropstage/internal/ui"
)

func main() {
	// Parse command line arguments
	var configPath string
	var endpoint string
	var startDir string
	flag.StringVar(&configPath, "config", "", "Path to config file")
	flag.StringVar(&endpoint, "endpoint", "", "Upload endpoint URL (overrides config)")
	flag.StringVar(&startDir, "dir", "", "Directory the file picker starts in (overrides config)")
	flag.Parse()

	// Set up logging
	logFile, err := os.OpenFile("dropstage.log", os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err != nil {
		log.Printf("Could not open log file: %v", err)
	} else {
		defer logFile.Close()
		log.SetOutput(logFile)
	}

	// Create event bus
	bus := eventbus.New()

	// Load configuration
	configSvc := config.NewConfigServiceWithBus(bus)
	var cfg *config.Config
	if configPath != "" {
		cfg, err = configSvc.LoadFromPath(configPath)
	} else {
		cfg, err = configSvc.Load()
	}
	if err != nil {
		log.Printf("Error loading config: %v", err)
		cfg = config.DefaultConfig()
	}
	if endpoint != "" {
		cfg.Endpoint = endpoint
	}
	if startDir != "" {
		cfg.StartDir = startDir
	}

	// Create UI model
	uiModel := ui.NewModel(cfg, bus)

	// Create Bubble Tea program
	p := tea.NewProgram(uiModel, tea.WithAltScreen())

	// Log upload and scan activity
	bus.Subscribe(eventbus.EventUploadStarted, func(e eventbus.DomainEvent) {
		if event, ok := e.(eventbus.UploadStartedEvent); ok {
			log.Printf("Upload %s started: %d file(s), %d bytes", event.AttemptID, event.Files, event.Bytes)
		}
	})
	bus.Subscribe(eventbus.EventUploadFinished, func(e eventbus.DomainEvent) {
		if event, ok := e.(eventbus.UploadFinishedEvent); ok {
			log.Printf("Upload %s finished: %s (%s)", event.AttemptID, event.Outcome.State, event.Outcome.Message)
		}
	})
	bus.Subscribe(eventbus.EventScanCompleted, func(e eventbus.DomainEvent) {
		if event, ok := e.(eventbus.ScanCompletedEvent); ok {
			log.Printf("Scan of %s found %d file(s)", event.Root, event.FilesFound)
		}
	})

	// Forward errors to the UI
	bus.Subscribe(eventbus.EventError, func(e eventbus.DomainEvent) {
		if event, ok := e.(eventbus.ErrorEvent); ok {
			log.Printf("Error: %s: %v", event.Message, event.Err)
			p.Send(ui.EventMsg{Event: event})
		}
	})

	// Run the UI
	if _, err := p.Run(); err != nil {
		fmt.Printf("Error running program: %v\n", err)
		os.Exit(1)
	}
}

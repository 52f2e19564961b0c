package main

import (
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"

	"github.com/i474232898/skycast/internal/cli"
	"github.com/i474232898/skycast/internal/config"
	"github.com/i474232898/skycast/internal/weather/providers"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	// Pipeline logs are meant for the server; keep the terminal clean unless asked.
	if os.Getenv("SKYCAST_DEBUG") == "" {
		log.SetOutput(io.Discard)
	}

	httpClient := &http.Client{Timeout: cfg.HTTPTimeout}

	root := cli.NewRootCommand(cli.Options{
		Resolver:    providers.NewService(cfg, httpClient),
		DefaultCity: cfg.DefaultCity,
		Spinner:     true,
	})

	if err := root.Execute(); err != nil {
		if !errors.Is(err, cli.ErrLookupFailed) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

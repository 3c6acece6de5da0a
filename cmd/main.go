package main

import (
	"context"
	"errors"
	"net/http"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/Qi-2007/musicgate/internal/services"
	"github.com/Qi-2007/musicgate/internal/shared"
)

func main() {
	logger := shared.NewLogger(nil)

	config := shared.DefaultConfig()
	if _, err := os.Stat("config.toml"); err == nil {
		if loadedConfig, err := shared.LoadConfig("config.toml"); err == nil {
			config = loadedConfig
		}
	}

	client := &http.Client{Timeout: config.Upstream.Timeout()}
	registry := services.NewRegistry(
		services.NewQQService(client, config.Upstream.QQ.GUID, config.Upstream.QQ.UIN),
		services.NewNeteaseService(client),
		services.NewKuwoService(client),
	)

	runner := NewRunner(RunnerOpts{
		Config:   config,
		Registry: registry,
		Logger:   logger,
	})

	app := &cli.Command{
		Name:     "musicgate",
		Usage:    "Token-gated music search, link resolution & lyric fetching",
		Version:  "1.0.0",
		Commands: runner.register(),
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		err_ := errors.Unwrap(err)
		if errors.Is(err_, shared.ErrNotImplemented) {
			logger.Warn("not implemented")
			os.Exit(0)
		} else {
			logger.Fatalf("application error: %v", err)
		}
	}
}

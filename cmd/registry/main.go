package main

import (
	"context"
	"log"
	"os"

	"github.com/sbu-community/sentinel/cmd/registry/commands"
	"github.com/sbu-community/sentinel/internal/setup"
	"github.com/sbu-community/sentinel/internal/setup/telemetry"
	"github.com/urfave/cli/v3"
)

const (
	// RegistryLogDir specifies where registry tool log files are stored.
	RegistryLogDir = "logs/registry_logs"
)

func main() {
	if err := run(); err != nil {
		log.Printf("Error: %v", err)
		os.Exit(1)
	}
}

func run() error {
	ctx := context.Background()

	// Setup dependencies
	app, err := setup.InitializeApp(ctx, telemetry.ServiceRegistry, RegistryLogDir)
	if err != nil {
		return err
	}
	defer app.Cleanup(ctx)

	deps := &commands.CLIDependencies{
		Registry: app.Registry,
		Resolver: app.Resolver,
		Logger:   app.Logger,
		Out:      os.Stdout,
	}

	cmd := &cli.Command{
		Name:     "registry",
		Usage:    "Ban registry management tool",
		Commands: commands.RegistryCommands(deps),
	}

	return cmd.Run(ctx, os.Args)
}

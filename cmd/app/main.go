// Package main provides the entry point for the vault with CLI commands.
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/redkeep/redkeep/cmd/app/commands"
)

const version = "1.0.0"

func main() {
	cmd := &cli.Command{
		Name:    "redkeep",
		Usage:   "Encrypted secret vault over Redis",
		Version: version,
		Commands: []*cli.Command{
			{
				Name:  "server",
				Usage: "Start the HTTP server",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return commands.RunServer(ctx, version)
				},
			},
			{
				Name:  "generate-key",
				Usage: "Generate a new 256-bit vault master key",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return commands.RunGenerateKey(commands.DefaultIO())
				},
			},
			{
				Name:  "export",
				Usage: "Export all secrets (encrypted) to a JSON backup file",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "file",
						Aliases:  []string{"f"},
						Required: true,
						Usage:    "Path of the backup file to write",
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return commands.RunExport(ctx, cmd.String("file"))
				},
			},
			{
				Name:  "import",
				Usage: "Import secrets from a JSON backup file",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "file",
						Aliases:  []string{"f"},
						Required: true,
						Usage:    "Path of the backup file to read",
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return commands.RunImport(ctx, cmd.String("file"))
				},
			},
			{
				Name:  "reap-expired",
				Usage: "Delete secrets whose expiry passed the grace period",
				Flags: []cli.Flag{
					&cli.DurationFlag{
						Name:    "grace",
						Aliases: []string{"g"},
						Usage:   "Override the configured grace period (e.g. 1h)",
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return commands.RunReapExpired(ctx, cmd.Duration("grace"))
				},
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.Any("error", err))
		os.Exit(1)
	}
}

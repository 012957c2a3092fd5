package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/carebridgehq/chartgate/cmd/app/commands"
	"github.com/carebridgehq/chartgate/internal/app"
	"github.com/carebridgehq/chartgate/internal/config"
)

func getConsentCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "revoke-consent",
			Usage: "Revoke a consent by id",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "id",
					Aliases:  []string{"i"},
					Required: true,
					Usage:    "Consent ID (UUID)",
				},
				&cli.StringFlag{
					Name:     "actor-id",
					Aliases:  []string{"a"},
					Required: true,
					Usage:    "Actor ID the revocation is attributed to (UUID)",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				consentUC, err := container.ConsentUseCase()
				if err != nil {
					return err
				}

				return commands.RunRevokeConsent(
					ctx,
					consentUC,
					container.Logger(),
					commands.DefaultIO().Writer,
					cmd.String("id"),
					cmd.String("actor-id"),
				)
			},
		},
	}
}

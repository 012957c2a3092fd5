package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/carebridgehq/chartgate/cmd/app/commands"
	"github.com/carebridgehq/chartgate/internal/app"
	"github.com/carebridgehq/chartgate/internal/config"
)

func getActorCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "create-actor",
			Usage: "Create a new actor and print its credentials",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "name",
					Aliases:  []string{"n"},
					Required: true,
					Usage:    "Human-readable actor name",
				},
				&cli.StringFlag{
					Name:    "format",
					Aliases: []string{"f"},
					Value:   "text",
					Usage:   "Output format: 'text' or 'json'",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				actorUC, err := container.ActorUseCase()
				if err != nil {
					return err
				}

				return commands.RunCreateActor(
					ctx,
					actorUC,
					container.Logger(),
					cmd.String("name"),
					cmd.String("format"),
					commands.DefaultIO(),
				)
			},
		},
	}
}

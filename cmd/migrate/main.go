package main

import (
	"os"
	"scheduler/config"
	"scheduler/helper"
	"scheduler/shared/logger"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"
)

func main() {
	cfg := config.Get()

	logger.InitLogger()

	logger.SetLogLevel(cfg)

	app := &cli.App{
		Name:  "migrate",
		Usage: "Apply or roll back the postgres schema.",
		Commands: []*cli.Command{
			command("up", "Apply every pending migration.", helper.Up, cfg),
			command("down", "Roll back the last migration.", helper.Down, cfg),
			command("step-up", "Apply the next pending migration.", helper.StepUp, cfg),
			command("drop", "Roll back every migration.", helper.Drop, cfg),
			command("version", "Print the applied schema version.", helper.Version, cfg),
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal().Err(err).Msg("Migration failed")
	}
}

func command(name, usage string, run func(*config.Config) error, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  name,
		Usage: usage,
		Action: func(*cli.Context) error {
			return run(cfg)
		},
	}
}

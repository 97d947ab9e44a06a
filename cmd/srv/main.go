package main

import (
	"context"
	"log"
	"os"

	"github.com/urfave/cli/v2"
)

func main() {
	s := &srv{ctx: context.Background()}

	app := &cli.App{
		Name:  "openfeed",
		Usage: "social feed backend",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Value:   "config.toml",
				Usage:   "path to the configuration file",
				EnvVars: []string{"CONFIG_FILE"},
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "api",
				Usage:  "start the api server",
				Action: s.startApi,
			},
			{
				Name:   "migrate",
				Usage:  "apply pending database migrations",
				Action: s.startMigrate,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

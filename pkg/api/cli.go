package api

import (
	"errors"

	"github.com/buswatch/buswatch/pkg/bustime"
	"github.com/buswatch/buswatch/pkg/redis_client"
	"github.com/buswatch/buswatch/pkg/util"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"
)

func RegisterCLI() *cli.Command {
	return &cli.Command{
		Name:  "web-api",
		Usage: "Provides the bus arrivals web API",
		Subcommands: []*cli.Command{
			{
				Name:  "run",
				Usage: "run web api server",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "listen",
						Value: ":8080",
						Usage: "listen target for the web server",
					},
				},
				Action: func(c *cli.Context) error {
					env := util.GetEnvironmentVariables()

					apiKey := env["BUSWATCH_BUSTIME_API_KEY"]
					if apiKey == "" {
						return errors.New("\"BUSWATCH_BUSTIME_API_KEY\" not set in environment")
					}

					client := bustime.NewClient(apiKey)

					if env["BUSWATCH_REDIS_ADDRESS"] != "" {
						if err := redis_client.Connect(); err != nil {
							log.Error().Err(err).Msg("Failed to connect to Redis, stop cache disabled")
						} else {
							client.StopCache = bustime.NewStopCache()
						}
					}

					return SetupServer(c.String("listen"), client)
				},
			},
		},
	}
}

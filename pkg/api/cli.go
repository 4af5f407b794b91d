package api

import (
	"github.com/urfave/cli/v2"

	"github.com/txcheck/txcheck/pkg/database"
	"github.com/txcheck/txcheck/pkg/lookup"
	"github.com/txcheck/txcheck/pkg/redis_client"
	"github.com/txcheck/txcheck/pkg/util"
	"github.com/txcheck/txcheck/pkg/validator"
)

func RegisterCLI() *cli.Command {
	return &cli.Command{
		Name:  "web-api",
		Usage: "Provides the validation web API",
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
					&cli.StringFlag{
						Name:  "lookups",
						Usage: "answer lookups from a fixture file instead of MongoDB",
					},
				},
				Action: func(c *cli.Context) error {
					lookups, err := buildLookups(c.String("lookups"))
					if err != nil {
						return err
					}

					pti, err := validator.NewPTI(lookups)
					if err != nil {
						return err
					}

					fares, err := validator.NewFares(lookups)
					if err != nil {
						return err
					}

					return SetupServer(c.String("listen"), pti, fares)
				},
			},
		},
	}
}

func buildLookups(fixturePath string) (lookup.Services, error) {
	if fixturePath != "" {
		static, err := lookup.LoadStaticFile(fixturePath)
		if err != nil {
			return lookup.Services{}, err
		}

		return static.Services(), nil
	}

	if err := database.Connect(); err != nil {
		return lookup.Services{}, err
	}

	services := lookup.NewMongo().Services()

	env := util.GetEnvironmentVariables()
	if env["TXCHECK_REDIS_ADDRESS"] != "" {
		if err := redis_client.Connect(); err != nil {
			return lookup.Services{}, err
		}

		services = lookup.NewCached(services).Services()
	}

	return services, nil
}

package cli

import (
	"github.com/urfave/cli/v2"

	"github.com/pairedstats/infra/go/metrics2"
	"github.com/pairedstats/infra/go/urfavecli"
	"github.com/pairedstats/infra/signrank/go/frontend"
)

// ServeCommand returns the "serve" subcommand, which runs the HTTP API.
func ServeCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Serve the signed-rank test over HTTP.",
		Flags: []cli.Flag{
			configFlag,
			sortFlag,
			&cli.StringFlag{
				Name:  portFlagName,
				Usage: "HTTP service address, e.g. ':8000'.",
			},
			&cli.StringFlag{
				Name:  promPortFlagName,
				Usage: "Metrics service address, e.g. ':20000'.",
			},
		},
		Action: serveAction,
	}
}

func serveAction(c *cli.Context) error {
	urfavecli.LogFlags(c)
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	if c.IsSet(portFlagName) {
		cfg.Server.Port = c.String(portFlagName)
	}
	if c.IsSet(promPortFlagName) {
		cfg.Server.PromPort = c.String(promPortFlagName)
	}
	f, err := frontend.New(cfg)
	if err != nil {
		return err
	}
	metrics2.InitPrometheus(cfg.Server.PromPort)
	return f.Serve(c.Context)
}

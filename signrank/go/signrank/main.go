// signrank runs the Wilcoxon signed-rank test on paired samples from the
// command line or over HTTP.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/pairedstats/infra/go/sklog"
	signrankcli "github.com/pairedstats/infra/signrank/go/cli"
)

func main() {
	app := &cli.App{
		Name:        "signrank",
		Usage:       "Wilcoxon signed-rank test for paired samples.",
		Description: "signrank compares paired measurements, such as benchmark runs before and after a change.",
		Commands: []*cli.Command{
			signrankcli.TestCommand(),
			signrankcli.AnalyzeCommand(),
			signrankcli.ServeCommand(),
		},
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := app.RunContext(ctx, os.Args); err != nil {
		sklog.Fatal(err)
	}
}

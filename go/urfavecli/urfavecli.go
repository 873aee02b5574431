// Package urfavecli contains helpers for binaries built on
// github.com/urfave/cli/v2.
package urfavecli

import (
	cli "github.com/urfave/cli/v2"

	"github.com/pairedstats/infra/go/sklog"
)

// LogFlags logs the value of every flag of the running command, one line per
// flag in the form "Flags: --name=value".
func LogFlags(c *cli.Context) {
	if c.Command == nil {
		return
	}
	for _, f := range c.Command.Flags {
		names := f.Names()
		if len(names) == 0 {
			continue
		}
		sklog.Infof("Flags: --%s=%v", names[0], c.Value(names[0]))
	}
}

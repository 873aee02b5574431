// Package cli implements the subcommands of the signrank binary.
package cli

import (
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"

	"github.com/pairedstats/infra/go/sklog/sklogimpl"
	"github.com/pairedstats/infra/go/sklog/stdlogging"
	"github.com/pairedstats/infra/signrank/go/config"
)

// flag names
const (
	configFlagName        = "config"
	sortFlagName          = "sort"
	kindFlagName          = "kind"
	highThresholdFlagName = "high-threshold"
	xFlagName             = "x"
	yFlagName             = "y"
	alphaFlagName         = "alpha"
	orderFlagName         = "order"
	allFlagName           = "all"
	concurrencyFlagName   = "concurrency"
	jsonOutFlagName       = "json-out"
	portFlagName          = "port"
	promPortFlagName      = "prom_port"
)

// numeric kinds accepted by --kind
const (
	floatKind = "float"
	intKind   = "int"
)

var configFlag = &cli.StringFlag{
	Name:  configFlagName,
	Usage: "JSON5 instance config file. Flags override its values.",
}

var sortFlag = &cli.StringFlag{
	Name:  sortFlagName,
	Usage: "Sort strategy for the differences, 'default' or 'radix'.",
}

// loadConfig returns the config named by --config, or the defaults, and
// switches logging to the configured level.
func loadConfig(c *cli.Context) (config.InstanceConfig, error) {
	cfg := config.Default()
	if path := c.String(configFlagName); path != "" {
		var err error
		cfg, err = config.Load(path)
		if err != nil {
			return cfg, err
		}
	}
	if c.IsSet(sortFlagName) {
		cfg.Sort = c.String(sortFlagName)
	}
	severity, err := sklogimpl.ParseSeverity(cfg.LogLevel)
	if err != nil {
		return cfg, err
	}
	sklogimpl.SetLogger(stdlogging.NewWithMinSeverity(os.Stderr, severity))
	return cfg, nil
}

// parseList parses a comma separated list of numbers.
func parseList[T any](s string, parse func(string) (T, error)) ([]T, error) {
	ret := []T{}
	for _, field := range strings.Split(s, ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		v, err := parse(field)
		if err != nil {
			return nil, errors.Wrapf(err, "parsing %q", field)
		}
		ret = append(ret, v)
	}
	return ret, nil
}

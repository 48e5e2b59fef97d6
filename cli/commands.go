package cli

import (
	"github.com/go-barry/showcase"
	"github.com/go-barry/showcase/core"

	"github.com/urfave/cli/v2"
)

const defaultPort = 8080

var portFlag = &cli.IntFlag{
	Name:    "port",
	Aliases: []string{"p"},
	Usage:   "port to listen on",
	Value:   defaultPort,
	EnvVars: []string{"SHOWCASE_PORT"},
}

var configFlag = &cli.StringFlag{
	Name:    "config",
	Aliases: []string{"c"},
	Usage:   "path to the YAML config file",
	Value:   core.DefaultConfigFile,
	EnvVars: []string{"SHOWCASE_CONFIG"},
}

func loadConfig(c *cli.Context) core.Config {
	return core.LoadConfig(c.String(configFlag.Name))
}

var DevCommand = &cli.Command{
	Name:  "dev",
	Usage: "Start the site in dev mode (no caching, live reload)",
	Flags: []cli.Flag{portFlag, configFlag},
	Action: func(c *cli.Context) error {
		cfg := showcase.RuntimeConfig{
			Env:         "dev",
			EnableCache: false,
			Port:        c.Int(portFlag.Name),
			ConfigPath:  c.String(configFlag.Name),
		}
		showcase.Start(cfg)
		return nil
	},
}

var ProdCommand = &cli.Command{
	Name:  "prod",
	Usage: "Start the site in production mode (page caching on)",
	Flags: []cli.Flag{
		portFlag,
		configFlag,
		&cli.BoolFlag{
			Name:  "no-cache",
			Usage: "disable the rendered page cache",
		},
	},
	Action: func(c *cli.Context) error {
		cfg := showcase.RuntimeConfig{
			Env:         "prod",
			EnableCache: !c.Bool("no-cache"),
			Port:        c.Int(portFlag.Name),
			ConfigPath:  c.String(configFlag.Name),
		}
		showcase.Start(cfg)
		return nil
	},
}

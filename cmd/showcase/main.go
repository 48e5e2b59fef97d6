package main

import (
	"log"
	"os"

	showcasecli "github.com/go-barry/showcase/cli"
	clilib "github.com/urfave/cli/v2"
)

func runApp(args []string) error {
	app := &clilib.App{
		Name:  "showcase",
		Usage: "A small server-rendered demo site: home, team and projects",
		Commands: []*clilib.Command{
			showcasecli.DevCommand,
			showcasecli.ProdCommand,
			showcasecli.CheckCommand,
			showcasecli.InfoCommand,
			showcasecli.CleanCommand,
			showcasecli.EjectCommand,
		},
	}

	return app.Run(args)
}

func main() {
	if err := runApp(os.Args); err != nil {
		log.Fatal(err)
	}
}

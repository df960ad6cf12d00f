package main

import (
	"bookshelf/internal/config"
)

// cli is the command line of the migrate tool.
type cli struct {
	DB  config.Database `embed:"" prefix:"db-"`
	Log config.Log      `embed:"" prefix:"log-"`

	Up      struct{} `cmd:"" default:"1" help:"Apply all pending migrations."`
	Down    struct{} `cmd:""             help:"Roll back the most recent migration."`
	Status  struct{} `cmd:""             help:"List migrations and whether they are applied."`
	Version struct{} `cmd:""             help:"Print the current schema version."`
}

// parseCLI loads the .env files and parses args.
func parseCLI(args []string) (cli, string, error) {
	config.LoadEnvFiles()

	var c cli
	cmd, err := config.Parse(&c, "migrate", "Apply bookshelf schema migrations.", args)
	if err != nil {
		return cli{}, "", err
	}
	return c, cmd, nil
}

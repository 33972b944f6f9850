package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"
)

const CLIVersion = "v0.1.0"

func main() {
	app := &cli.Command{
		Name:    "sqlb",
		Usage:   "sqlb - parameterized SQL statement builder",
		Version: CLIVersion,
		Commands: []*cli.Command{
			{
				Name:  "demo",
				Usage: "Build the sample statements and run them against a database",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "config",
						Usage: "YAML config file (default: .env files from --env-dir)",
					},
					&cli.StringFlag{
						Name:  "env-dir",
						Usage: "Folder holding .env files",
						Value: "./configs",
					},
					&cli.BoolFlag{
						Name:  "dry-run",
						Usage: "Only print statements and bindings",
					},
					&cli.BoolFlag{
						Name:  "metrics",
						Usage: "Print collected metrics when done",
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return runDemo(ctx, demoOptions{
						configFile: cmd.String("config"),
						envDir:     cmd.String("env-dir"),
						dryRun:     cmd.Bool("dry-run"),
						metrics:    cmd.Bool("metrics"),
						out:        os.Stdout,
					})
				},
			},
			{
				Name:  "rebind",
				Usage: "Rewrite ? placeholders of a statement for a dialect",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "dialect",
						Usage: "mysql, postgres or sqlite",
						Value: "postgres",
					},
				},
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "query",
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					query := cmd.StringArg("query")
					if query == "" {
						return fmt.Errorf("please provide a statement, e.g.: sqlb rebind 'select * from t where id = ?'")
					}
					return rebind(os.Stdout, cmd.String("dialect"), query)
				},
			},
		},
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

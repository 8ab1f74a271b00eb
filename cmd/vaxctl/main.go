package main

import (
	"fmt"
	"os"
	"time"

	"github.com/andresuchdata/vaxstock/backend-go/internal/client"
	"github.com/andresuchdata/vaxstock/backend-go/internal/config"
	"github.com/andresuchdata/vaxstock/backend-go/internal/report"
	"github.com/andresuchdata/vaxstock/backend-go/internal/shell"
	"github.com/andresuchdata/vaxstock/backend-go/pkg/logger"
	"github.com/urfave/cli/v2"
)

func main() {
	cfg := config.Load()

	app := &cli.App{
		Name:  "vaxctl",
		Usage: "Operator console for the vaccine stock dashboard",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "api",
				Usage:   "Dashboard API base URL",
				Value:   cfg.Client.APIBase,
				EnvVars: []string{"VAXSTOCK_API_BASE"},
			},
			&cli.StringFlag{
				Name:    "username",
				Aliases: []string{"u"},
				EnvVars: []string{"VAXSTOCK_USERNAME"},
			},
			&cli.StringFlag{
				Name:    "password",
				Aliases: []string{"p"},
				EnvVars: []string{"VAXSTOCK_PASSWORD"},
			},
			&cli.StringFlag{
				Name:    "groups",
				Usage:   "Group directory file (YAML or JSON)",
				Value:   cfg.Report.GroupsFile,
				EnvVars: []string{"GROUPS_FILE"},
			},
			&cli.DurationFlag{
				Name:  "timeout",
				Value: time.Duration(cfg.Client.TimeoutSeconds) * time.Second,
			},
			&cli.StringFlag{
				Name:  "log-level",
				Value: "warn",
			},
		},
		Before: func(c *cli.Context) error {
			logger.SetLevel(c.String("log-level"))
			return nil
		},
		Commands: []*cli.Command{
			dashboardCommand(),
			reportCommand(cfg),
			submitCommand(),
			previewCommand(),
			configureCommand(),
			groupsCommand(),
			exportsCommand(cfg),
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// login builds a controller for the global flags and signs in.
func login(c *cli.Context) (*shell.Controller, error) {
	dir, err := report.LoadDirectory(c.String("groups"))
	if err != nil {
		return nil, err
	}

	api := client.New(c.String("api"), c.Duration("timeout"))
	ctrl := shell.NewController(api, dir)
	if err := ctrl.Login(c.Context, c.String("username"), c.String("password")); err != nil {
		return nil, err
	}
	return ctrl, nil
}

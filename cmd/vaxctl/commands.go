package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/andresuchdata/vaxstock/backend-go/internal/client"
	"github.com/andresuchdata/vaxstock/backend-go/internal/config"
	"github.com/andresuchdata/vaxstock/backend-go/internal/domain"
	"github.com/andresuchdata/vaxstock/backend-go/internal/export"
	"github.com/andresuchdata/vaxstock/backend-go/internal/shell"
	"github.com/andresuchdata/vaxstock/backend-go/internal/storage"
	"github.com/urfave/cli/v2"
)

func dashboardCommand() *cli.Command {
	return &cli.Command{
		Name:  "dashboard",
		Usage: "Log in and show every section the account may open",
		Action: func(c *cli.Context) error {
			ctrl, err := login(c)
			if err != nil {
				return err
			}

			state := ctrl.State()
			out := c.App.Writer
			fmt.Fprintf(out, "%s | %s | %s\n\n", ctrl.EPSPName(), strings.ToUpper(string(state.User.Role)), state.User.Username)

			views := ctrl.Views()
			if len(views) == 0 {
				fmt.Fprintln(out, "Aucune section disponible pour ce rôle.")
				return nil
			}

			for _, v := range views {
				switch v {
				case shell.ViewConfiguration:
					d := state.Demographics
					fmt.Fprintf(out, "Configuration: %s, %d polycliniques, population %d, cible 2-11m %d, cible 12-59m %d\n\n",
						d.EPSPName, d.NbrPolyclinique, d.PopTotal, d.Cible2To11m, d.Cible12To59m)
				case shell.ViewReport:
					rep, err := ctrl.Report()
					if err != nil {
						return err
					}
					if err := shell.RenderReport(out, rep); err != nil {
						return err
					}
				case shell.ViewEntryForm:
					fmt.Fprintf(out, "Saisie hebdomadaire pour: %s\n", ctrl.UserLocation())
					fmt.Fprintln(out, "Utilisez 'vaxctl submit' pour enregistrer N, O, Q et R.")
				}
			}
			return nil
		},
	}
}

func reportCommand(cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "report",
		Usage: "Print the consolidated report",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "csv", Usage: "Write CSV instead of a table"},
			&cli.BoolFlag{Name: "xlsx", Usage: "Write an XLSX workbook (requires --out or --upload)"},
			&cli.BoolFlag{Name: "pdf", Usage: "Write a PDF document (requires --out or --upload)"},
			&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Usage: "Write the export to a file"},
			&cli.BoolFlag{Name: "upload", Usage: "Upload the export to the configured bucket"},
		},
		Action: func(c *cli.Context) error {
			ctrl, err := login(c)
			if err != nil {
				return err
			}
			rep, err := ctrl.Report()
			if err != nil {
				return err
			}

			format := export.Format("")
			switch {
			case c.Bool("xlsx"):
				format = export.FormatXLSX
			case c.Bool("pdf"):
				format = export.FormatPDF
			case c.Bool("csv"):
				format = export.FormatCSV
			}

			if format == "" && !c.Bool("upload") && c.String("out") == "" {
				return shell.RenderReport(c.App.Writer, rep)
			}
			if format == "" {
				format = export.FormatCSV
			}

			if c.Bool("upload") {
				store, err := storage.NewMinioClient(cfg.Export)
				if err != nil {
					return err
				}
				key, err := export.Publish(c.Context, store, cfg.Export.Prefix, &rep, format, time.Now())
				if err != nil {
					return err
				}
				fmt.Fprintf(c.App.ErrWriter, "Rapport envoyé: %s/%s\n", cfg.Export.Bucket, key)
			}

			path := c.String("out")
			if path == "" && c.Bool("upload") {
				return nil
			}

			data, _, err := export.Render(&rep, format)
			if err != nil {
				return err
			}
			if path != "" {
				return os.WriteFile(path, data, 0o644)
			}
			if format != export.FormatCSV {
				return fmt.Errorf("%s output needs --out or --upload", format)
			}
			_, err = c.App.Writer.Write(data)
			return err
		},
	}
}

func submitCommand() *cli.Command {
	return &cli.Command{
		Name:  "submit",
		Usage: "Record the weekly counters of your facility",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "date", Usage: "YYYY-MM-DD, defaults to today"},
			&cli.Int64Flag{Name: "n", Usage: "Doses administered", Required: true},
			&cli.Int64Flag{Name: "o", Usage: "Opening stock", Required: true},
			&cli.Int64Flag{Name: "q", Usage: "Quantity discarded or expired"},
			&cli.Int64Flag{Name: "r", Usage: "Quantity returned or rejected"},
		},
		Action: func(c *cli.Context) error {
			ctrl, err := login(c)
			if err != nil {
				return err
			}

			fmt.Fprintf(c.App.Writer, "Structure: %s\n", ctrl.UserLocation())
			shell.RenderPreview(c.App.Writer, shell.Preview(c.Int64("o"), c.Int64("q"), c.Int64("r")))

			entry, err := ctrl.SubmitInventory(c.Context, c.String("date"), c.Int64("n"), c.Int64("o"), c.Int64("q"), c.Int64("r"))
			if err != nil {
				return err
			}
			fmt.Fprintf(c.App.Writer, "Données enregistrées pour le %s.\n", entry.Date)
			return nil
		},
	}
}

func previewCommand() *cli.Command {
	return &cli.Command{
		Name:  "preview",
		Usage: "Compute usable and physical stock without saving",
		Flags: []cli.Flag{
			&cli.Int64Flag{Name: "o", Required: true},
			&cli.Int64Flag{Name: "q"},
			&cli.Int64Flag{Name: "r"},
		},
		Action: func(c *cli.Context) error {
			shell.RenderPreview(c.App.Writer, shell.Preview(c.Int64("o"), c.Int64("q"), c.Int64("r")))
			return nil
		},
	}
}

func configureCommand() *cli.Command {
	return &cli.Command{
		Name:  "configure",
		Usage: "Save the EPSP configuration and coverage targets (admin)",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "epsp", Required: true},
			&cli.Int64Flag{Name: "polycliniques"},
			&cli.Int64Flag{Name: "population"},
			&cli.Int64Flag{Name: "cible-2-11m"},
			&cli.Int64Flag{Name: "cible-12-59m"},
		},
		Action: func(c *cli.Context) error {
			ctrl, err := login(c)
			if err != nil {
				return err
			}

			demo := domain.Demographics{
				EPSPName:        c.String("epsp"),
				NbrPolyclinique: domain.Count(c.Int64("polycliniques")),
				PopTotal:        domain.Count(c.Int64("population")),
				Cible2To11m:     domain.Count(c.Int64("cible-2-11m")),
				Cible12To59m:    domain.Count(c.Int64("cible-12-59m")),
			}
			if err := ctrl.SaveDemographics(c.Context, demo); err != nil {
				return err
			}
			fmt.Fprintf(c.App.Writer, "Configuration sauvegardée. Cible totale: %d\n", ctrl.State().Demographics.CibleTotal)
			return nil
		},
	}
}

func groupsCommand() *cli.Command {
	return &cli.Command{
		Name:  "groups",
		Usage: "Show the server's group directory and its problems",
		Action: func(c *cli.Context) error {
			api := client.New(c.String("api"), c.Duration("timeout"))
			resp, err := api.Groups(c.Context)
			if err != nil {
				return err
			}
			return shell.RenderGroups(c.App.Writer, resp.Groups, resp.Warnings)
		},
	}
}

func exportsCommand(cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "exports",
		Usage: "List uploaded report exports",
		Action: func(c *cli.Context) error {
			store, err := storage.NewMinioClient(cfg.Export)
			if err != nil {
				return err
			}
			objects, err := store.ListObjects(c.Context, cfg.Export.Prefix)
			if err != nil {
				return err
			}
			for _, o := range objects {
				fmt.Fprintf(c.App.Writer, "%s\t%d\n", o.Key, o.Size)
			}
			return nil
		},
	}
}

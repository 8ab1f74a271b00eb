package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/andresuchdata/vaxstock/backend-go/internal/domain"
	"github.com/andresuchdata/vaxstock/backend-go/internal/repository/sqldb"
	"github.com/andresuchdata/vaxstock/backend-go/internal/service"
	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"
)

type dbKey struct{}

func dbFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "driver",
			Usage:   "Database driver: pgx, postgres or sqlite3",
			Value:   "pgx",
			EnvVars: []string{"DB_DRIVER"},
		},
		&cli.StringFlag{
			Name:     "db-url",
			Usage:    "Database connection string",
			Required: true,
			EnvVars:  []string{"DATABASE_URL"},
		},
	}
}

func initDB(c *cli.Context) error {
	db, err := sqldb.Open(c.Context, c.String("driver"), c.String("db-url"))
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	c.Context = context.WithValue(c.Context, dbKey{}, db)
	return nil
}

func closeDB(c *cli.Context) error {
	if db, ok := c.Context.Value(dbKey{}).(*sqldb.DB); ok && db != nil {
		return db.Close()
	}
	return nil
}

func dbFrom(c *cli.Context) *sqldb.DB {
	return c.Context.Value(dbKey{}).(*sqldb.DB)
}

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("warning: could not load .env file: %v", err)
	}

	app := &cli.App{
		Name:  "seed",
		Usage: "Seed the database with facilities, accounts and demographics",
		Commands: []*cli.Command{
			{
				Name:  "locations",
				Usage: "Seed facilities from a CSV or XLSX file (columns: id, name, type)",
				Flags: append(dbFlags(),
					&cli.StringFlag{
						Name:     "file",
						Usage:    "Path to the facility list",
						Required: true,
					},
				),
				Before: initDB,
				After:  closeDB,
				Action: func(c *cli.Context) error {
					return seedLocations(c.Context, dbFrom(c), c.String("file"))
				},
			},
			{
				Name:  "users",
				Usage: "Seed accounts from a CSV or XLSX file (columns: username, password, role, location_id)",
				Flags: append(dbFlags(),
					&cli.StringFlag{
						Name:     "file",
						Usage:    "Path to the account list",
						Required: true,
					},
				),
				Before: initDB,
				After:  closeDB,
				Action: func(c *cli.Context) error {
					return seedUsers(c.Context, dbFrom(c), c.String("file"))
				},
			},
			{
				Name:  "user",
				Usage: "Create or replace one account",
				Flags: append(dbFlags(),
					&cli.StringFlag{Name: "username", Required: true},
					&cli.StringFlag{Name: "password", Required: true, EnvVars: []string{"SEED_PASSWORD"}},
					&cli.StringFlag{Name: "role", Value: string(domain.RoleUser), Usage: "admin, consultant or user"},
					&cli.StringFlag{Name: "location", Usage: "Facility id, required for role user"},
				),
				Before: initDB,
				After:  closeDB,
				Action: func(c *cli.Context) error {
					role, ok := domain.ParseRole(c.String("role"))
					if !ok {
						return fmt.Errorf("unknown role %q", c.String("role"))
					}
					repos := dbFrom(c).Repositories()
					auth := service.NewAuthService(repos.Users, repos.Locations)
					if err := auth.CreateUser(c.Context, c.String("username"), c.String("password"), role, domain.FacilityID(c.String("location"))); err != nil {
						return err
					}
					log.Printf("Account %s (%s) saved\n", c.String("username"), role)
					return nil
				},
			},
			{
				Name:  "demographics",
				Usage: "Set the EPSP configuration and coverage targets",
				Flags: append(dbFlags(),
					&cli.StringFlag{Name: "epsp", Required: true, Usage: "EPSP name"},
					&cli.Int64Flag{Name: "polycliniques"},
					&cli.Int64Flag{Name: "population"},
					&cli.Int64Flag{Name: "cible-2-11m"},
					&cli.Int64Flag{Name: "cible-12-59m"},
				),
				Before: initDB,
				After:  closeDB,
				Action: func(c *cli.Context) error {
					demo := domain.Demographics{
						EPSPName:        c.String("epsp"),
						NbrPolyclinique: domain.Count(c.Int64("polycliniques")),
						PopTotal:        domain.Count(c.Int64("population")),
						Cible2To11m:     domain.Count(c.Int64("cible-2-11m")),
						Cible12To59m:    domain.Count(c.Int64("cible-12-59m")),
					}
					if err := dbFrom(c).Repositories().Demographics.SaveDemographics(c.Context, demo); err != nil {
						return err
					}
					log.Printf("Demographics saved for %s (cible totale %d)\n", demo.EPSPName, demo.WithTotal().CibleTotal)
					return nil
				},
			},
			{
				Name:  "all",
				Usage: "Seed locations.csv then users.csv from a directory",
				Flags: append(dbFlags(),
					&cli.StringFlag{
						Name:    "data-dir",
						Usage:   "Directory containing seed data",
						Value:   "./data/seeds",
						EnvVars: []string{"SEED_DATA_DIR"},
					},
				),
				Before: initDB,
				After:  closeDB,
				Action: func(c *cli.Context) error {
					dir := c.String("data-dir")
					if err := seedLocations(c.Context, dbFrom(c), filepath.Join(dir, "locations.csv")); err != nil {
						return fmt.Errorf("error seeding locations: %w", err)
					}
					if err := seedUsers(c.Context, dbFrom(c), filepath.Join(dir, "users.csv")); err != nil {
						return fmt.Errorf("error seeding users: %w", err)
					}
					return nil
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func seedLocations(ctx context.Context, db *sqldb.DB, path string) error {
	log.Printf("Seeding locations from %s\n", path)

	records, err := readRecords(path)
	if err != nil {
		return err
	}
	locs, err := parseLocations(records)
	if err != nil {
		return err
	}

	if err := db.Repositories().Locations.UpsertLocations(ctx, locs...); err != nil {
		return err
	}

	log.Printf("Successfully seeded %d locations\n", len(locs))
	return nil
}

func seedUsers(ctx context.Context, db *sqldb.DB, path string) error {
	log.Printf("Seeding users from %s\n", path)

	records, err := readRecords(path)
	if err != nil {
		return err
	}
	rows, err := parseUsers(records)
	if err != nil {
		return err
	}

	repos := db.Repositories()
	auth := service.NewAuthService(repos.Users, repos.Locations)
	for _, u := range rows {
		if err := auth.CreateUser(ctx, u.username, u.password, u.role, u.location); err != nil {
			return fmt.Errorf("failed to seed user %s: %w", u.username, err)
		}
	}

	log.Printf("Successfully seeded %d users\n", len(rows))
	return nil
}

// Command dayctl works with a day tracker database from the terminal:
// importing and exporting data, printing reports and training the mood model.
package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/alecthomas/kong"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm/logger"

	"github.com/tbourn/go-day-tracker/internal/cli"
	"github.com/tbourn/go-day-tracker/internal/config"
	"github.com/tbourn/go-day-tracker/internal/repo"
	"github.com/tbourn/go-day-tracker/internal/services"
	"github.com/tbourn/go-day-tracker/internal/sysutil"
)

var version = "dev"

var CLI struct {
	DB      string           `help:"SQLite database path (default: $DB_PATH or daytracker.db)." placeholder:"PATH"`
	User    string           `short:"u" help:"User to act as (default: $DEFAULT_USER_ID or demo-user)."`
	Version kong.VersionFlag `help:"Show version."`

	Import  cli.ImportCmd  `cmd:"" help:"Import a JSON export."`
	Export  cli.ExportCmd  `cmd:"" help:"Export records and entries as JSON."`
	Report  cli.ReportCmd  `cmd:"" help:"Show averages, recommendations and mood correlations."`
	Train   cli.TrainCmd   `cmd:"" help:"Fit the mood model and show its accuracy."`
	Predict cli.PredictCmd `cmd:"" help:"Predict overall mood from feature values."`
}

func main() {
	if err := config.LoadDotEnv(); err != nil {
		log.Fatal().Err(err).Msg("load .env")
	}
	lg, closer := sysutil.NewLogger(sysutil.LogOptions{
		Level:  sysutil.FirstNonEmpty(os.Getenv("LOG_LEVEL"), "warn"),
		Pretty: true,
	}, os.Stderr)
	defer closer.Close()
	log.Logger = lg

	kctx := kong.Parse(&CLI,
		kong.Name("dayctl"),
		kong.Description("Day tracker command line."),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{Compact: true}),
		kong.Vars{"version": version},
	)

	path := sysutil.FirstNonEmpty(CLI.DB, os.Getenv("DB_PATH"), "daytracker.db")
	db, err := repo.OpenSQLite(path)
	if err != nil {
		log.Fatal().Err(err).Str("path", path).Msg("open database")
	}
	if !sysutil.IsTruthy(os.Getenv("DAYCTL_SQL_DEBUG")) {
		db.Logger = logger.Default.LogMode(logger.Silent)
	}
	if err := repo.AutoMigrate(db); err != nil {
		log.Fatal().Err(err).Msg("migrate")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	as := services.NewAnalyticsService(db, repo.Store{})
	as.Window = 0
	app := &cli.Context{
		Ctx:       ctx,
		User:      sysutil.FirstNonEmpty(CLI.User, os.Getenv("DEFAULT_USER_ID"), "demo-user"),
		Records:   services.NewRecordService(db, repo.Store{}),
		Analytics: as,
		Out:       os.Stdout,
	}
	kctx.FatalIfErrorf(kctx.Run(app))
}

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/justestif/moodtunes/internal/config"
	"github.com/justestif/moodtunes/internal/db"
	"github.com/justestif/moodtunes/internal/detect"
	"github.com/justestif/moodtunes/internal/mood"
	"github.com/justestif/moodtunes/internal/playlist"
)

// app carries state shared by every command.
type app struct {
	cfgFile string
	debug   bool

	cfg    *config.Config
	logger zerolog.Logger
	in     io.Reader
	out    io.Writer
}

func newRootCmd(in io.Reader, out io.Writer) *cobra.Command {
	a := &app{in: in, out: out}

	root := &cobra.Command{
		Use:   "moodtunes",
		Short: "Pick music for your mood",
		Long: `MoodTunes infers a mood from a sentence you type or from the facial
expression probabilities of a webcam snapshot, and suggests songs for it.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
	}
	root.SetIn(in)
	root.SetOut(out)

	root.PersistentFlags().StringVar(&a.cfgFile, "config", "", "config file (default is ./moodtunes.yaml or $HOME/.moodtunes/moodtunes.yaml)")
	root.PersistentFlags().BoolVar(&a.debug, "debug", false, "enable debug logging")

	root.AddCommand(
		newServeCmd(a),
		newTextCmd(a),
		newFaceCmd(a),
		newPlaylistCmd(a),
		newMoodsCmd(a),
		newExportCmd(a),
		newLogoutCmd(a),
		newCatalogCmd(a),
	)

	return root
}

// setup configures logging and loads configuration.
func (a *app) setup() error {
	level := zerolog.InfoLevel
	if a.debug {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	a.logger = log.Logger

	cfg, err := config.Load(a.cfgFile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	a.cfg = cfg
	return nil
}

// service builds the detection service from configuration. The returned
// cleanup func must be called when done.
func (a *app) service(ctx context.Context) (*detect.Service, func(), error) {
	catalog, cleanup, err := a.catalog(ctx)
	if err != nil {
		return nil, nil, err
	}

	svc, err := buildService(a.cfg, catalog, a.logger)
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	return svc, cleanup, nil
}

// buildService wires the classifiers, normalizer and resolver described by cfg.
func buildService(cfg *config.Config, catalog playlist.Catalog, logger zerolog.Logger) (*detect.Service, error) {
	normalizer, err := cfg.Normalizer()
	if err != nil {
		return nil, err
	}

	mapper, err := mood.NewExpressionMapper(
		mood.WithThreshold(cfg.Threshold),
		mood.WithNormalizer(normalizer),
	)
	if err != nil {
		return nil, fmt.Errorf("creating expression mapper: %w", err)
	}

	resolver, err := playlist.NewResolver(catalog)
	if err != nil {
		return nil, fmt.Errorf("creating resolver: %w", err)
	}

	advertised, err := cfg.Advertised()
	if err != nil {
		return nil, err
	}
	if err := resolver.Validate(advertised); err != nil {
		return nil, err
	}

	return detect.New(mood.NewTextClassifier(nil), mapper, normalizer, resolver, detect.WithLogger(logger))
}

// catalog loads content from the database, a YAML file, or the built-in
// table, in that order of preference.
func (a *app) catalog(ctx context.Context) (playlist.Catalog, func(), error) {
	noop := func() {}

	switch {
	case a.cfg.DatabaseURL != "":
		database, err := a.openDB(ctx)
		if err != nil {
			return nil, nil, err
		}
		content, err := database.Content().LoadCatalog(ctx)
		if err != nil {
			database.Close()
			return nil, nil, fmt.Errorf("loading catalog: %w", err)
		}
		catalog, err := playlist.FromStrings(content)
		if err != nil {
			database.Close()
			return nil, nil, fmt.Errorf("loading catalog: %w", err)
		}
		a.logger.Debug().Int("moods", len(catalog)).Msg("Catalog loaded from database")
		return catalog, database.Close, nil

	case a.cfg.CatalogPath != "":
		catalog, err := playlist.LoadFile(a.cfg.CatalogPath)
		if err != nil {
			return nil, nil, err
		}
		a.logger.Debug().Str("path", a.cfg.CatalogPath).Int("moods", len(catalog)).Msg("Catalog loaded from file")
		return catalog, noop, nil

	default:
		return playlist.DefaultCatalog(), noop, nil
	}
}

// openDB connects to the database and ensures the schema exists.
func (a *app) openDB(ctx context.Context) (*db.DB, error) {
	if a.cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("database_url is not set")
	}

	database, err := db.New(ctx, a.cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}
	if err := database.Migrate(ctx); err != nil {
		database.Close()
		return nil, err
	}
	return database, nil
}

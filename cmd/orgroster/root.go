package main

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"orgroster/internal/config"
	"orgroster/internal/logger"
	"orgroster/internal/repository/sqlite"
	"orgroster/internal/service"
)

// app carries the state shared by every subcommand. The store is opened
// lazily so commands that never touch it (config, help) don't create a
// database file.
type app struct {
	configPath string
	dbPath     string
	logLevel   string
	logJSON    bool

	cfg *config.Config
	log logger.Logger

	db     *sqlite.DB
	roster *service.RosterService
	done   chan struct{}
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "orgroster",
		Short:         "Keep a roster of organizational units and their members",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", "config file (default: search standard locations)")
	flags.StringVar(&a.dbPath, "db", "", "SQLite database path (overrides config)")
	flags.StringVar(&a.logLevel, "log-level", "", "log level: debug, info, warn, error, disabled")
	flags.BoolVar(&a.logJSON, "log-json", false, "emit logs as JSON")

	root.AddCommand(
		newInitCmd(a),
		newResetCmd(a),
		newUnitCmd(a),
		newMemberCmd(a),
		newExportCmd(a),
		newImportCmd(a),
		newConfigCmd(a),
	)

	return root
}

// setup loads configuration, applies flag overrides and builds the logger
func (a *app) setup(cmd *cobra.Command) error {
	var (
		cfg  *config.Config
		path string
		err  error
	)
	if a.configPath != "" {
		cfg, path, err = config.LoadFromPath(a.configPath)
	} else {
		cfg, path, err = config.Load()
	}
	if err != nil {
		return fmt.Errorf("load config %s: %w", path, err)
	}

	if a.dbPath != "" {
		cfg.Database.Path = a.dbPath
	}
	if a.logLevel != "" {
		cfg.Log.Level = string(logger.ParseLevel(a.logLevel))
	}
	if a.logJSON {
		cfg.Log.JSON = true
	}
	a.cfg = cfg

	logCfg := cfg.LoggerConfig()
	logCfg.Output = cmd.ErrOrStderr()
	a.log = logger.NewLogger(logCfg)
	if path != "" {
		a.log.Debug("config loaded", "path", path)
	}

	cmd.SetContext(logger.ContextWithLogger(cmd.Context(), a.log))
	return nil
}

// service opens the store on first use and ensures both tables exist
func (a *app) service(ctx context.Context) (*service.RosterService, error) {
	if a.roster != nil {
		return a.roster, nil
	}
	if a.cfg == nil {
		return nil, errors.New("configuration not loaded")
	}

	db, err := sqlite.Open(a.cfg.StoreConfig(), a.log)
	if err != nil {
		return nil, err
	}
	a.db = db
	a.log.Debug("database opened", "path", a.cfg.Database.Path)

	bus := service.NewEventBus()
	events := make(chan service.Event, 64)
	bus.Subscribe(events)
	a.done = make(chan struct{})
	go a.logEvents(events)

	roster := service.NewRosterService(
		sqlite.NewUnitRepository(db),
		sqlite.NewMemberRepository(db),
		bus,
		a.log,
	)
	if err := roster.Init(ctx); err != nil {
		return nil, err
	}
	a.roster = roster
	return roster, nil
}

func (a *app) logEvents(events <-chan service.Event) {
	for {
		select {
		case ev := <-events:
			a.log.Debug("event", "type", ev.Type, "payload", ev.Payload)
		case <-a.done:
			return
		}
	}
}

// Close releases the store if it was opened
func (a *app) Close() error {
	if a.done != nil {
		close(a.done)
		a.done = nil
	}
	if a.db == nil {
		return nil
	}
	err := a.db.Close()
	a.db = nil
	a.roster = nil
	return err
}

func newInitCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create the roster tables",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if _, err := a.service(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Initialized %s\n", a.cfg.Database.Path)
			return nil
		},
	}
}

func newResetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Drop and recreate the roster tables",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			roster, err := a.service(cmd.Context())
			if err != nil {
				return err
			}
			if err := roster.Reset(cmd.Context()); err != nil {
				return err
			}
			if err := roster.Init(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Roster reset")
			return nil
		},
	}
}

func parseID(kind, s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s id %q", kind, s)
	}
	return id, nil
}

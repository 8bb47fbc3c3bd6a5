package main

import (
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/saltyorg/reviewkeeper/internal/config"
	"github.com/saltyorg/reviewkeeper/internal/database"
	"github.com/saltyorg/reviewkeeper/internal/hr"
	"github.com/saltyorg/reviewkeeper/internal/logging"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

const defaultDBPath = "./reviewkeeper.db"

// app carries the flags and the resources opened for a single invocation
type app struct {
	dbPath    string
	envFile   string
	logFile   string
	verbosity int

	// logOut receives console log output; nil means stderr
	logOut io.Writer

	db      *database.DB
	session *hr.Session
}

func main() {
	a := &app{}
	err := a.rootCmd().Execute()
	if closeErr := a.close(); closeErr != nil {
		log.Error().Err(closeErr).Msg("Failed to close database")
	}
	if err != nil {
		os.Exit(1)
	}
}

func (a *app) rootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:               "reviewkeeper",
		Short:             "Reviewkeeper - employee review records",
		Long:              `Reviewkeeper stores departments, employees and their annual reviews in a local SQLite database.`,
		SilenceUsage:      true,
		PersistentPreRunE: a.open,
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return a.close()
		},
	}

	rootCmd.PersistentFlags().StringVarP(&a.dbPath, "db", "d", "", "SQLite database path (or set REVIEWKEEPER_DB_PATH, default "+defaultDBPath+")")
	rootCmd.PersistentFlags().StringVar(&a.envFile, "env", ".env", "Env file to load settings from")
	rootCmd.PersistentFlags().StringVar(&a.logFile, "log-file", "", "Also write logs to this rotating file (or set REVIEWKEEPER_LOG_FILE)")
	rootCmd.PersistentFlags().CountVarP(&a.verbosity, "verbose", "v", "Increase verbosity (-v info, -vv debug, -vvv trace)")

	rootCmd.AddCommand(
		a.initCmd(),
		a.dropCmd(),
		a.maintainCmd(),
		a.departmentCmd(),
		a.employeeCmd(),
		a.reviewCmd(),
		&cobra.Command{
			Use:   "version",
			Short: "Show version information",
			Run: func(cmd *cobra.Command, args []string) {
				fmt.Fprintf(cmd.OutOrStdout(), "reviewkeeper %s (commit: %s, built: %s)\n", version, commit, date)
			},
		},
	)

	return rootCmd
}

// open loads settings, configures logging and opens the database
func (a *app) open(cmd *cobra.Command, args []string) error {
	if !needsDatabase(cmd) {
		return nil
	}

	logOut := a.logOut
	if logOut == nil {
		logOut = os.Stderr
	}

	// Quiet console logger until settings are known, so loading them logs
	// at the requested verbosity
	level := logging.LevelForVerbosity(a.verbosity)
	logging.ApplyTo(logOut, level, nil, "")

	settings, err := config.NewEnvSettings(config.DefaultEnvPrefix, a.envFile)
	if err != nil {
		return fmt.Errorf("failed to load env file %s: %w", a.envFile, err)
	}
	loader := config.NewLoader(settings)

	if level == "" {
		level = loader.String("log.level", "warn")
	}
	logFile := a.logFile
	if logFile == "" {
		logFile = loader.String("log.file", "")
	}
	logging.ApplyTo(logOut, level, loader, logFile)

	dbPath := a.dbPath
	if dbPath == "" {
		dbPath = loader.String("db.path", defaultDBPath)
	}

	opts := database.DefaultOptions()
	opts.BusyTimeout = loader.Duration("db.busy_timeout", database.DefaultBusyTimeout)

	db, err := database.Open(dbPath, opts)
	if err != nil {
		return err
	}

	a.db = db
	a.session = hr.NewSession(db)

	log.Debug().Str("version", version).Str("database", dbPath).Str("command", cmd.Name()).Msg("Starting reviewkeeper")
	return nil
}

// needsDatabase reports whether cmd operates on the database. Help, version
// and shell completion commands do not.
func needsDatabase(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		switch c.Name() {
		case "help", "version", "completion", cobra.ShellCompRequestCmd, cobra.ShellCompNoDescRequestCmd:
			return false
		}
	}
	return true
}

func (a *app) close() error {
	if a.db == nil {
		return nil
	}
	err := a.db.Close()
	a.db = nil
	a.session = nil
	return err
}

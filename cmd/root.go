package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/abhisek/blankcheck/internal/audit"
	"github.com/abhisek/blankcheck/internal/config"
	"github.com/abhisek/blankcheck/internal/store"
	"github.com/abhisek/blankcheck/internal/ui/theme"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	// cfg and logger are set up by the root PersistentPreRunE.
	cfg    = config.DefaultConfig()
	logger = zap.NewNop()
)

// errIncorrect signals a submission that did not match the answer key.
var errIncorrect = errors.New("answer is incorrect")

var rootCmd = &cobra.Command{
	Use:   "blankcheck",
	Short: "Grade and audit fill-in-the-blank answers",
	Long: "blankcheck normalizes free-text answers (LaTeX, Unicode super/subscripts, " +
		"full-width punctuation, e^x vs exp(x)) for grading, and audits answer keys " +
		"that are hard to type on a phone keyboard.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		cfg = loaded

		l, err := newLogger(cmd, cfg.Log)
		if err != nil {
			return fmt.Errorf("init logger: %w", err)
		}
		logger = l
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// Silent reports whether err only carries an exit status. The command has
// already printed its outcome, so main should not print err again.
func Silent(err error) bool {
	return errors.Is(err, errIncorrect) || errors.Is(err, audit.ErrFindings)
}

// ExitCode maps an error returned by Execute to a process exit code.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, audit.ErrFindings):
		return 2
	default:
		return 1
	}
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides BLANKCHECK_DB env var)")
	rootCmd.PersistentFlags().String("config", "", "Path to YAML config file (default $XDG_CONFIG_HOME/blankcheck/config.yaml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().Bool("no-color", false, "Disable colored output")

	rootCmd.AddCommand(canonCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(issuesCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(auditCmd)
	rootCmd.AddCommand(fixChoiceCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadConfig reads --config when given, otherwise the optional default file.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	if p, _ := cmd.Flags().GetString("config"); p != "" {
		return config.Load(p, false)
	}
	p, err := config.DefaultPath()
	if err != nil {
		return config.DefaultConfig(), nil
	}
	return config.Load(p, true)
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then BLANKCHECK_DB env var, then the config file, then the default XDG path.
func resolveDBPath(cmd *cobra.Command) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	if p := os.Getenv("BLANKCHECK_DB"); p != "" {
		return p, store.EnsureDir(p)
	}
	if cfg.DB != "" {
		return cfg.DB, store.EnsureDir(cfg.DB)
	}
	return store.DefaultDBPath()
}

// openStore resolves the database path and opens it.
func openStore(cmd *cobra.Command) (*store.Store, error) {
	dbPath, err := resolveDBPath(cmd)
	if err != nil {
		return nil, fmt.Errorf("resolve database path: %w", err)
	}
	s, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	logger.Debug("opened database", zap.String("path", dbPath))
	return s, nil
}

func styles(cmd *cobra.Command) theme.Styles {
	if noColor, _ := cmd.Flags().GetBool("no-color"); noColor {
		return theme.Plain()
	}
	if f, ok := cmd.OutOrStdout().(*os.File); !ok || !isTerminal(f) {
		return theme.Plain()
	}
	return theme.Color()
}

func isTerminal(f *os.File) bool {
	fi, err := f.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}

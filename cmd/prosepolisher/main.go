package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/leandrojofre/prosepolisher/pkg/polisher"
	"github.com/leandrojofre/prosepolisher/pkg/polisher/config"
	"github.com/leandrojofre/prosepolisher/pkg/polisher/internalerr"
	"github.com/leandrojofre/prosepolisher/pkg/polisher/report"
	"github.com/leandrojofre/prosepolisher/pkg/polisher/store"
	"github.com/leandrojofre/prosepolisher/pkg/polisher/store/sqlite"
)

var (
	verbose    bool
	configPath string
	lemmaPath  string
	dbPath     string
	outPath    string

	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "prosepolisher",
	Short: "Find repetitive phrases in generated prose",
	Long: `prosepolisher scores recurring word sequences in generated chat messages,
groups them into prefix patterns and keeps a ranked slop list.

State is checkpointed to a SQLite database between runs.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg := zap.NewProductionConfig()
		if verbose {
			cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = cfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Settings file (YAML)")
	rootCmd.PersistentFlags().StringVar(&lemmaPath, "lemmas", "", "Extra lemma table (YAML)")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "prosepolisher.db", "Checkpoint database path")
	rootCmd.PersistentFlags().StringVarP(&outPath, "out", "o", "", "Write the slop list as JSON to this file (- for stdout)")

	rootCmd.AddCommand(analyzeCmd, watchCmd, leaderboardCmd, historyCmd, clearCmd, configCmd, wordsCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// session bundles what every command needs.
type session struct {
	comp   *config.Components
	engine *polisher.Engine
	store  store.Store
}

func openSession(cmd *cobra.Command, restore bool) (*session, error) {
	ctx := cmd.Context()
	loader := config.Loader{ConfigPath: configPath, LemmaPath: lemmaPath}
	comp, err := loader.Load()
	if err != nil {
		return nil, err
	}

	opts := polisher.Options{Components: comp, Logger: logger.Named("engine")}
	switch outPath {
	case "":
	case "-":
		opts.Publisher = report.WriterPublisher{W: cmd.OutOrStdout()}
	default:
		opts.Publisher = report.FilePublisher{Path: outPath}
	}
	engine, err := polisher.New(opts)
	if err != nil {
		return nil, err
	}

	st, err := sqlite.OpenSQLite(ctx, dbPath)
	if err != nil {
		return nil, err
	}

	if restore {
		err := engine.Restore(ctx, st)
		switch {
		case errors.Is(err, internalerr.ErrNotFound):
			logger.Info("no checkpoint yet, starting empty", zap.String("db", dbPath))
		case err != nil:
			st.Close()
			return nil, err
		}
	}

	return &session{comp: comp, engine: engine, store: st}, nil
}

func (s *session) Close() error {
	return s.store.Close()
}

// Package cli wires configuration, logging, storage and the engine into the
// stronghold command.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/tatianab/stronghold/internal/chronicle"
	"github.com/tatianab/stronghold/internal/config"
	"github.com/tatianab/stronghold/internal/dice"
	"github.com/tatianab/stronghold/internal/engine"
	"github.com/tatianab/stronghold/internal/logging"
	"github.com/tatianab/stronghold/internal/persistence"
)

const appName = "stronghold"

// NewRootCmd builds the command tree. Running it without a subcommand plays
// the game.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Rule a medieval kingdom against four rivals",
		Long: `Stronghold is a turn-based kingdom strategy game. Build an economy,
raise an army, sign treaties and trade with rival kingdoms on a shared map.`,
		SilenceUsage: true,
	}

	pf := root.PersistentFlags()
	pf.String("config", "", "YAML configuration file")
	pf.String("save-dir", "", "directory holding saves, logs and the chronicle")
	pf.Uint64("seed", 0, "random seed (0 picks one)")
	pf.Int("map-size", 0, "width and height of the map")
	pf.String("name", "", "name of your kingdom")
	pf.String("log-level", "", "debug, info, warn or error")
	pf.String("log-file", "", "rotating JSON log file")
	pf.String("chronicle", "", "SQLite chronicle database")
	pf.String("model", "", "Gemini model used for narration")

	root.RunE = runPlay
	addPlayFlags(root.Flags())

	root.AddCommand(newPlayCmd(), newSimulateCmd(), newSavesCmd())
	return root
}

// Execute runs the command line and exits non-zero on failure.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		color.New(color.FgRed).Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// app holds what every subcommand needs.
type app struct {
	cfg       *config.Config
	log       *zap.Logger
	store     *persistence.Store
	chronicle *chronicle.Store
	closers   []io.Closer
}

// setup loads configuration and opens logging and storage. console, when
// set, also receives log records.
func setup(cmd *cobra.Command, console io.Writer) (*app, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path, cmd.Flags())
	if err != nil {
		return nil, err
	}
	// Paths left at their defaults follow a relocated save directory.
	defaults := config.Defaults()
	if cfg.SaveDir != defaults.SaveDir {
		if cfg.LogFile == defaults.LogFile {
			cfg.LogFile = filepath.Join(cfg.SaveDir, filepath.Base(defaults.LogFile))
		}
		if cfg.ChroniclePath == defaults.ChroniclePath {
			cfg.ChroniclePath = filepath.Join(cfg.SaveDir, filepath.Base(defaults.ChroniclePath))
		}
	}

	log, err := logging.New(appName, logging.Options{
		Level:      cfg.LogLevel,
		File:       cfg.LogFile,
		MaxSizeMB:  10,
		MaxBackups: 3,
		MaxAgeDays: 28,
		Compress:   true,
		Console:    console,
	})
	if err != nil {
		return nil, fmt.Errorf("open log: %w", err)
	}

	a := &app{cfg: cfg, log: log, store: persistence.NewStore(cfg.SaveDir, log)}
	if cfg.ChroniclePath != chronicle.MemoryPath {
		err = os.MkdirAll(filepath.Dir(cfg.ChroniclePath), 0o755)
	}
	if err == nil {
		a.chronicle, err = chronicle.Open(cfg.ChroniclePath)
	}
	if err != nil {
		log.Error("chronicle unavailable", zap.String("path", cfg.ChroniclePath), zap.Error(err))
		_ = log.Sync()
		return nil, err
	}
	a.closers = append(a.closers, a.chronicle)
	return a, nil
}

// engine builds the game engine, with narration when a Gemini key is set.
func (a *app) engine(ctx context.Context) *engine.Engine {
	opts := []engine.Option{engine.WithRecorder(a.chronicle)}
	if a.cfg.HasGemini() {
		n, err := engine.NewGeminiNarrator(ctx, a.cfg.GeminiAPIKey, a.cfg.GeminiModel)
		if err != nil {
			a.log.Warn("narration disabled", zap.Error(err))
		} else {
			a.closers = append(a.closers, n)
			opts = append(opts, engine.WithNarrator(n))
		}
	}
	return engine.NewEngine(dice.New(a.cfg.Seed), a.log, opts...)
}

func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i].Close(); err != nil {
			a.log.Warn("close failed", zap.Error(err))
		}
	}
	_ = a.log.Sync()
}

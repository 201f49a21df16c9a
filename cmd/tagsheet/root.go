package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cosmicflow/tagsheet"
	"github.com/cosmicflow/tagsheet/internal/config"
	"github.com/cosmicflow/tagsheet/internal/logger"
)

// app is the state shared by all subcommands once the root command has
// loaded configuration.
type app struct {
	configDir string
	logLevel  string

	cfg *config.Config
	log *zap.Logger
	gen *tagsheet.Generator
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:           "tagsheet",
		Short:         "Lay out price tags and backing cards on double-sided PDF sheets",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.log != nil {
				_ = a.log.Sync()
			}
		},
	}
	root.PersistentFlags().StringVar(&a.configDir, "config", "", "directory holding tagsheet.toml (default: working directory)")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level (debug, info, warn, error)")

	root.AddCommand(
		newGenerateCmd(a, tagsheet.KindPriceTags, "Print hanging price tags"),
		newGenerateCmd(a, tagsheet.KindBackingCards, "Print backing cards over the background templates"),
		newAllCmd(a),
		newLayoutCmd(a),
		newGridCmd(),
	)
	return root
}

func (a *app) setup() error {
	var err error
	if a.configDir != "" {
		a.cfg, err = config.LoadFrom(a.configDir)
	} else {
		a.cfg, err = config.Load()
	}
	if err != nil {
		return err
	}
	if a.logLevel != "" {
		a.cfg.Log.Level = a.logLevel
	}

	a.log, err = logger.New(&a.cfg.Log)
	if err != nil {
		return fmt.Errorf("initializing logger: %w", err)
	}

	a.gen, err = tagsheet.NewFromConfig(a.cfg, a.log)
	if err != nil {
		return err
	}
	a.log.Debug("configuration loaded",
		zap.String("host", a.cfg.Site.Host),
		zap.String("fonts", a.cfg.Fonts.Dir),
		zap.String("templates", a.cfg.Templates.Dir))
	return nil
}

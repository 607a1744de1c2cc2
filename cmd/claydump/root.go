// SPDX-License-Identifier: Unlicense OR MIT

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"clayui.org/layout"
)

var logger = zap.NewNop()

var rootCmd = &cobra.Command{
	Use:   "claydump",
	Short: "claydump lays out element documents",
	Long: `claydump reads element trees described in YAML, runs a layout pass over
them and prints, draws or serves the render commands.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level, _ := cmd.Flags().GetString("log-level")
		l, err := newLogger(level)
		if err != nil {
			return err
		}
		logger = l
		layout.SetLogger(l.Named("layout"))
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().Float32("width", 0, "Layout width; defaults to the document's width")
	rootCmd.PersistentFlags().Float32("height", 0, "Layout height; defaults to the document's height")
	rootCmd.PersistentFlags().Int("max-elements", layout.DefaultMaxElements, "Maximum number of elements per pass")
	rootCmd.PersistentFlags().String("log-level", "warn", "Log level (debug, info, warn, error)")
}

func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	cfg := zap.NewDevelopmentConfig()
	cfg.Level = lvl
	return cfg.Build()
}

// options returns the layout options selected by the persistent flags.
func options(cmd *cobra.Command) []layout.Option {
	n, _ := cmd.Flags().GetInt("max-elements")
	return []layout.Option{
		layout.WithMaxElements(n),
		layout.WithErrorHandler(func(err error) {
			logger.Warn("layout error", zap.Error(err))
		}),
	}
}

// dimensions returns the layout size selected by the flags, falling
// back to def for each dimension left zero.
func dimensions(cmd *cobra.Command, defW, defH float32) (float32, float32) {
	w, _ := cmd.Flags().GetFloat32("width")
	h, _ := cmd.Flags().GetFloat32("height")
	if w <= 0 {
		w = defW
	}
	if h <= 0 {
		h = defH
	}
	return w, h
}

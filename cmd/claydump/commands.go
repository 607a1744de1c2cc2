// SPDX-License-Identifier: Unlicense OR MIT

package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"clayui.org/internal/document"
	"clayui.org/layout"
)

// Fallback layout size for documents without dimensions.
const (
	defaultWidth  = 800
	defaultHeight = 600
)

var commandsCmd = &cobra.Command{
	Use:   "commands <file>",
	Short: "Print the render commands of a document",
	Long:  `Lays out the document once and prints its render commands as a table, or as JSON with --json.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		jsonMode, _ := cmd.Flags().GetBool("json")

		doc, err := document.ReadFile(args[0])
		if err != nil {
			return err
		}
		w, h := dimensions(cmd, or(doc.Width, defaultWidth), or(doc.Height, defaultHeight))
		ctx, err := layout.New(w, h, options(cmd)...)
		if err != nil {
			return err
		}
		defer ctx.Close()

		res := run(ctx, doc)
		if !jsonMode {
			return writeTable(cmd.OutOrStdout(), res)
		}
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		if err := enc.Encode(res); err != nil {
			return fmt.Errorf("encoding commands: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(commandsCmd)
	commandsCmd.Flags().Bool("json", false, "Print the commands as JSON")
}

func or(v, def float32) float32 {
	if v > 0 {
		return v
	}
	return def
}

// SPDX-License-Identifier: Unlicense OR MIT

package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"clayui.org/f32"
	"clayui.org/internal/document"
	"clayui.org/internal/termrender"
	"clayui.org/layout"
	"clayui.org/text"
)

// Grid size used when stdout is not a terminal.
const (
	defaultCols = 80
	defaultRows = 24
)

var renderCmd = &cobra.Command{
	Use:   "render <file>",
	Short: "Draw a document in the terminal",
	Long: `Lays out the document and draws its render commands as characters, scaling
the layout to the size of the terminal.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cols, _ := cmd.Flags().GetInt("cols")
		rows, _ := cmd.Flags().GetInt("rows")
		plain, _ := cmd.Flags().GetBool("plain")

		doc, err := document.ReadFile(args[0])
		if err != nil {
			return err
		}
		tc, tr := terminalSize()
		if cols <= 0 {
			cols = tc
		}
		if rows <= 0 {
			rows = tr
		}
		// Without dimensions in the document or the flags, one layout
		// unit is one cell.
		w, h := dimensions(cmd, or(doc.Width, float32(cols)), or(doc.Height, float32(rows)))
		cell := f32.Pt(w/float32(cols), h/float32(rows))

		opts := append(options(cmd), layout.WithMeasurer(text.Monospace{Advance: cell.X, LineHeight: cell.Y}))
		ctx, err := layout.New(w, h, opts...)
		if err != nil {
			return err
		}
		defer ctx.Close()

		p := ctx.Begin()
		doc.Declare(p)
		cmds, err := p.End()
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "warning: %v\n", err)
		}
		g := termrender.NewGrid(cols, rows, cell)
		g.Draw(cmds)
		if plain {
			fmt.Fprintln(cmd.OutOrStdout(), g.String())
			return nil
		}
		fmt.Fprintln(cmd.OutOrStdout(), g.Render(lipgloss.NewRenderer(cmd.OutOrStdout())))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(renderCmd)
	renderCmd.Flags().Int("cols", 0, "Grid width in cells; defaults to the terminal width")
	renderCmd.Flags().Int("rows", 0, "Grid height in cells; defaults to the terminal height")
	renderCmd.Flags().Bool("plain", false, "Print characters without colors")
}

// terminalSize returns the size of the terminal on stdout, or the
// default grid size when stdout is not a terminal.
func terminalSize() (cols, rows int) {
	fd := int(os.Stdout.Fd())
	if !term.IsTerminal(fd) {
		return defaultCols, defaultRows
	}
	cols, rows, err := term.GetSize(fd)
	if err != nil || cols <= 0 || rows <= 0 {
		return defaultCols, defaultRows
	}
	return cols, rows
}

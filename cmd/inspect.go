package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/agentic-research/opal/internal/canvas"
	"github.com/agentic-research/opal/internal/opfile"
	"github.com/agentic-research/opal/internal/store"
)

var inspectTheme []string

func init() {
	inspectCmd.Flags().StringSliceVar(&inspectTheme, "theme", nil, "Theme selection as key=value pairs, e.g. mode=dark")
	rootCmd.AddCommand(inspectCmd)
}

var inspectCmd = &cobra.Command{
	Use:   "inspect <file>",
	Short: "Print the resolved scene for a document",
	Long: `Loads a document, runs it through variable resolution and the scene
synchronization engine, and prints every scene object with its absolute
geometry and resolved style. Useful for checking what a renderer would see.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := opfile.Load(args[0])
		if err != nil {
			return err
		}

		st := store.New(d, cfg.History.Limit)
		st.SetDuplicateGap(cfg.Canvas.DuplicateGap)
		if theme := parseTheme(inspectTheme); len(theme) > 0 {
			st.SetActiveTheme(theme)
		}
		scene := canvas.NewMemScene()
		canvas.NewEngine(st, scene, logger)

		for _, id := range scene.NodeIDs() {
			obj, ok := scene.Object(id)
			if !ok {
				continue
			}
			g := obj.Geometry()
			s := obj.Style()
			line := fmt.Sprintf("%-12s %-36s x=%-8.1f y=%-8.1f w=%-8.1f h=%-8.1f", obj.Kind(), id, g.X, g.Y, g.W, g.H)
			if g.Rotation != 0 {
				line += fmt.Sprintf(" rot=%.1f", g.Rotation)
			}
			if len(s.Fill) > 0 && s.Fill[0].Color != "" {
				line += " fill=" + s.Fill[0].Color
			}
			if s.Hidden {
				line += " hidden"
			}
			fmt.Println(line)
		}
		return nil
	},
}

func parseTheme(pairs []string) map[string]string {
	theme := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		for i := range pair {
			if pair[i] == '=' {
				theme[pair[:i]] = pair[i+1:]
				break
			}
		}
	}
	return theme
}

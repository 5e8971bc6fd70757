package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/agentic-research/opal/internal/doc"
	"github.com/agentic-research/opal/internal/opfile"
)

func init() {
	rootCmd.AddCommand(validateCmd)
}

var validateCmd = &cobra.Command{
	Use:   "validate <file>",
	Short: "Validate a document file and report integrity warnings",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		d, err := opfile.Load(path)
		if err != nil {
			return err
		}

		pages := 1
		if d.MultiPage() {
			pages = len(d.Pages)
		}
		nodes := 0
		for page := range d.AllChildren() {
			nodes += len(doc.Flatten(d.PageChildren(page)))
		}
		fmt.Printf("%s: version %s, %d page(s), %d node(s), %d variable(s)\n",
			path, d.Version, pages, nodes, len(d.Variables))

		warnings := opfile.Warnings(d)
		for _, w := range warnings {
			logger.Warn(w)
		}
		if len(warnings) == 0 {
			fmt.Println("ok")
		}
		return nil
	},
}

package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/zeusync/devkit/internal/injector"
)

func newMarkdownCmd(a *app) *cobra.Command {
	var (
		asJSON    bool
		showStats bool
	)
	cmd := &cobra.Command{
		Use:   "markdown [file]",
		Short: "Render Markdown to HTML",
		Long:  "Renders GitHub-flavored Markdown to sanitized HTML. Mermaid code fences become <pre class=\"mermaid\"> blocks for client-side rendering.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			renderer, err := injector.InitializeRenderer(a.cfg)
			if err != nil {
				return err
			}
			src, err := readInput(cmd, inputNames(args)[0])
			if err != nil {
				return err
			}
			doc, err := renderer.Render(src)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				payload, err := a.encode(doc)
				if err != nil {
					return err
				}
				fmt.Fprint(out, payload)
				return nil
			}
			fmt.Fprint(out, doc.HTML)
			if !strings.HasSuffix(doc.HTML, "\n") {
				fmt.Fprintln(out)
			}
			if showStats {
				fmt.Fprintf(cmd.ErrOrStderr(), "%d words, %d characters, %d min read, %d diagrams\n",
					doc.Stats.Words, doc.Stats.Characters, doc.Stats.ReadingTime, len(doc.Diagrams))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print HTML, headings, diagrams and statistics as JSON")
	cmd.Flags().BoolVar(&showStats, "stats", false, "print reading statistics to stderr")
	return cmd
}

package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/zeusync/devkit/internal/core/workspace"
	"github.com/zeusync/devkit/internal/injector"
)

const (
	outputInline = "inline"
	outputJSON   = "json"
	outputDelta  = "delta"
	outputSide   = "side"
)

func newDiffCmd(a *app) *cobra.Command {
	var (
		output   string
		textDiff bool
	)
	cmd := &cobra.Command{
		Use:   "diff <left> <right>",
		Short: "Compare two JSON documents",
		Long: `Computes a structural diff of two JSON documents. Array elements are matched by their id, name or _id field, or by content.

Output formats:
  inline  one line per change (default)
  json    the change list as JSON
  delta   the delta in jsondiffpatch notation
  side    both documents formatted for side-by-side reading`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if textDiff {
				a.cfg.Diff.TextDiff = true
			}
			session, err := injector.InitializeComparison(a.cfg)
			if err != nil {
				return err
			}

			left, err := readInput(cmd, args[0])
			if err != nil {
				return err
			}
			right, err := readInput(cmd, args[1])
			if err != nil {
				return err
			}
			session.Left.Load(left)
			session.Right.Load(right)

			out := cmd.OutOrStdout()
			indent := a.cfg.IndentValue()
			switch output {
			case outputInline:
				result, err := session.Compare()
				if err != nil {
					return err
				}
				if result.Identical() {
					fmt.Fprintln(out, "No differences")
					return nil
				}
				for _, c := range result.Changes {
					fmt.Fprintln(out, c.String())
				}
				fmt.Fprintf(out, "\n%s\n", result)
			case outputJSON, outputDelta:
				format := workspace.FormatChanges
				if output == outputDelta {
					format = workspace.FormatDelta
				}
				ex, err := session.Export(format, indent)
				if err != nil {
					return err
				}
				fmt.Fprintln(out, ex.Payload)
			case outputSide:
				panes, err := session.SideBySide(indent)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "--- %s\n%s\n+++ %s\n%s\n", args[0], panes.Left, args[1], panes.Right)
			default:
				return fmt.Errorf("unknown output %q (want %s)", output,
					strings.Join([]string{outputInline, outputJSON, outputDelta, outputSide}, ", "))
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", outputInline, "output format: inline, json, delta or side")
	cmd.Flags().BoolVar(&textDiff, "text", false, "include line patches for long modified strings")
	return cmd
}

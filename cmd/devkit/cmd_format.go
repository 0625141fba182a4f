package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/zeusync/devkit/internal/core/jsonvalue"
	"github.com/zeusync/devkit/internal/core/observability/log"
)

func newFormatCmd(a *app, minify bool) *cobra.Command {
	var write bool
	cmd := &cobra.Command{
		Use:   "format [file...]",
		Short: "Pretty-print JSON documents",
		Long:  `Parses each file (or stdin) and prints it with the configured indentation. Object member order is kept.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			indent := a.cfg.IndentValue()
			if minify {
				indent = jsonvalue.Minified
			}
			return a.processFiles(cmd, args, func(name, text string) (string, error) {
				v, err := jsonvalue.Parse(text)
				if err != nil {
					return "", err
				}
				formatted := jsonvalue.Format(v, indent) + "\n"
				if write && name != stdinName {
					a.logger.Info("rewriting file", log.String("file", name), log.String("indent", indent.String()))
					return "", os.WriteFile(name, []byte(formatted), 0o644)
				}
				return formatted, nil
			})
		},
	}
	if minify {
		cmd.Use = "minify [file...]"
		cmd.Short = "Print JSON documents on a single line"
		cmd.Long = `Parses each file (or stdin) and prints it without insignificant whitespace.`
	}
	cmd.Flags().BoolVarP(&write, "write", "w", false, "rewrite files in place")
	return cmd
}

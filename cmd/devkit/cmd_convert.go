package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/zeusync/devkit/internal/core/convert"
	"github.com/zeusync/devkit/internal/core/jsonvalue"
)

func newConvertCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "convert",
		Short: "Convert JSON documents to YAML or CSV",
	}

	var yamlIndent int
	yamlCmd := &cobra.Command{
		Use:   "yaml [file...]",
		Short: "Convert JSON to YAML, keeping key order",
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.processFiles(cmd, args, func(_, text string) (string, error) {
				v, err := jsonvalue.Parse(text)
				if err != nil {
					return "", err
				}
				return convert.ToYAML(v, yamlIndent)
			})
		},
	}
	yamlCmd.Flags().IntVar(&yamlIndent, "yaml-indent", 2, "spaces per YAML nesting level")

	csvCmd := &cobra.Command{
		Use:   "csv [file...]",
		Short: "Convert a JSON object or array of objects to CSV",
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.processFiles(cmd, args, func(_, text string) (string, error) {
				v, err := jsonvalue.Parse(text)
				if err != nil {
					return "", err
				}
				return convert.ToCSV(v)
			})
		},
	}

	cmd.AddCommand(yamlCmd, csvCmd)
	return cmd
}

func newSchemaCmd(a *app) *cobra.Command {
	var mergeAll bool
	cmd := &cobra.Command{
		Use:   "schema [file...]",
		Short: "Infer a JSON Schema-like description from sample documents",
		RunE: func(cmd *cobra.Command, args []string) error {
			if mergeAll {
				docs, err := a.parseAll(cmd, args)
				if err != nil {
					return err
				}
				out, err := a.encode(convert.InferSchemaAll(docs...))
				if err != nil {
					return err
				}
				_, err = fmt.Fprint(cmd.OutOrStdout(), out)
				return err
			}
			return a.processFiles(cmd, args, func(_, text string) (string, error) {
				v, err := jsonvalue.Parse(text)
				if err != nil {
					return "", err
				}
				return a.encode(convert.InferSchema(v))
			})
		},
	}
	cmd.Flags().BoolVar(&mergeAll, "merge", false, "print one schema covering every input")
	return cmd
}

func newStatsCmd(a *app) *cobra.Command {
	var total bool
	cmd := &cobra.Command{
		Use:   "stats [file...]",
		Short: "Count the values, keys and nesting depth of JSON documents",
		RunE: func(cmd *cobra.Command, args []string) error {
			if total {
				var sum convert.Stats
				err := a.eachDocument(cmd, args, func(_ string, v jsonvalue.Value) {
					sum.Add(convert.Collect(v))
				})
				if err != nil {
					return err
				}
				out, err := a.encode(sum)
				if err != nil {
					return err
				}
				_, err = fmt.Fprint(cmd.OutOrStdout(), out)
				return err
			}
			return a.processFiles(cmd, args, func(_, text string) (string, error) {
				v, err := jsonvalue.Parse(text)
				if err != nil {
					return "", err
				}
				return a.encode(convert.Collect(v))
			})
		},
	}
	cmd.Flags().BoolVar(&total, "total", false, "print one summary across all inputs")
	return cmd
}

// encode renders x as JSON in the configured layout.
func (a *app) encode(x any) (string, error) {
	b, err := json.Marshal(x)
	if err != nil {
		return "", err
	}
	v, err := jsonvalue.ParseBytes(b)
	if err != nil {
		return "", err
	}
	return jsonvalue.Format(v, a.cfg.IndentValue()) + "\n", nil
}

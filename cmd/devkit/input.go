package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"github.com/zeusync/devkit/internal/core/jsonvalue"
	"github.com/zeusync/devkit/internal/core/observability/log"
	"github.com/zeusync/devkit/pkg/concurrent"
)

const stdinName = "-"

func readInput(cmd *cobra.Command, name string) (string, error) {
	if name == stdinName {
		b, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(b), nil
	}
	b, err := os.ReadFile(name)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func inputNames(args []string) []string {
	if len(args) == 0 {
		return []string{stdinName}
	}
	return args
}

// processFiles applies fn to every input concurrently and prints the
// results in argument order. Each input is reported on its own; the
// returned error joins all failures.
func (a *app) processFiles(cmd *cobra.Command, args []string, fn func(name, text string) (string, error)) error {
	names := inputNames(args)
	outcomes := concurrent.MapSettled(cmd.Context(), names, a.cfg.Workers, func(_ context.Context, name string) (string, error) {
		text, err := readInput(cmd, name)
		if err != nil {
			return "", err
		}
		return fn(name, text)
	})

	out := cmd.OutOrStdout()
	var errs []error
	for i, o := range outcomes {
		if o.Err != nil {
			a.logger.Warn("input failed", log.String("file", names[i]), log.Error(o.Err))
			errs = append(errs, fmt.Errorf("%s: %w", names[i], o.Err))
			continue
		}
		if o.Value == "" {
			continue
		}
		if len(names) > 1 {
			fmt.Fprintf(out, "==> %s <==\n", names[i])
		}
		fmt.Fprint(out, o.Value)
		if !strings.HasSuffix(o.Value, "\n") {
			fmt.Fprintln(out)
		}
	}
	return errors.Join(errs...)
}

// parseAll reads and parses every input concurrently, returning the
// documents in argument order. The first failure cancels the rest.
func (a *app) parseAll(cmd *cobra.Command, args []string) ([]jsonvalue.Value, error) {
	return concurrent.Map(cmd.Context(), inputNames(args), a.cfg.Workers, func(_ context.Context, name string) (jsonvalue.Value, error) {
		return parseInput(cmd, name)
	})
}

// eachDocument calls fn for every parsed input, concurrently. fn calls
// are serialized so it may update shared state.
func (a *app) eachDocument(cmd *cobra.Command, args []string, fn func(name string, v jsonvalue.Value)) error {
	var mu sync.Mutex
	return concurrent.ForEach(cmd.Context(), inputNames(args), a.cfg.Workers, func(_ context.Context, name string) error {
		v, err := parseInput(cmd, name)
		if err != nil {
			return err
		}
		mu.Lock()
		defer mu.Unlock()
		fn(name, v)
		return nil
	})
}

func parseInput(cmd *cobra.Command, name string) (jsonvalue.Value, error) {
	text, err := readInput(cmd, name)
	if err != nil {
		return jsonvalue.Value{}, fmt.Errorf("%s: %w", name, err)
	}
	v, err := jsonvalue.Parse(text)
	if err != nil {
		return jsonvalue.Value{}, fmt.Errorf("%s: %w", name, err)
	}
	return v, nil
}

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/zeusync/devkit/internal/config"
	"github.com/zeusync/devkit/internal/core/observability/log"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// app carries the state shared by all commands of one invocation.
type app struct {
	v          *viper.Viper
	configPath string
	cfg        *config.Config
	logger     *log.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{v: viper.New()}

	rootCmd := &cobra.Command{
		Use:           "devkit",
		Short:         "Developer toolkit for JSON, Markdown and JWT documents",
		Long:          `devkit formats, compares and converts JSON documents, previews Markdown with Mermaid diagrams and inspects JSON Web Tokens.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.load()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", "config file (default: ./devkit.yaml)")
	flags.String("indent", "2", "indentation: 2, 4, tab or min")
	flags.String("log-level", "warn", "log level: debug, info, warn, error or off")
	flags.Int("workers", 0, "files processed in parallel (0: one per CPU)")
	_ = a.v.BindPFlag("indent", flags.Lookup("indent"))
	_ = a.v.BindPFlag("log.level", flags.Lookup("log-level"))
	_ = a.v.BindPFlag("workers", flags.Lookup("workers"))

	rootCmd.AddCommand(
		newFormatCmd(a, false),
		newFormatCmd(a, true),
		newDiffCmd(a),
		newConvertCmd(a),
		newSchemaCmd(a),
		newStatsCmd(a),
		newMarkdownCmd(a),
		newJWTCmd(a),
	)
	return rootCmd
}

func (a *app) load() error {
	cfg, err := config.Load(a.v, a.configPath)
	if err != nil {
		return err
	}
	logger, err := cfg.NewLogger()
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.logger = logger
	return nil
}

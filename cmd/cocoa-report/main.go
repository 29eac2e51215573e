// cmd/cocoa-report/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/David-Botos/cocoa-report/pkg/config"
	"github.com/David-Botos/cocoa-report/pkg/loader"
)

type flags struct {
	envFile  string
	input    string
	output   string
	xlsx     string
	show     bool
	pgExport bool
	verbose  bool
}

func main() {
	os.Exit(execute(os.Args[1:], os.Stdout, os.Stderr))
}

// execute runs the root command and maps its error to an exit status
func execute(args []string, stdout, stderr io.Writer) int {
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	err := cmd.ExecuteContext(context.Background())
	if err == nil {
		return 0
	}

	var missing *loader.MissingInputError
	if errors.As(err, &missing) {
		fmt.Fprint(stdout, missing.UserMessage())
		return 1
	}

	fmt.Fprintf(stderr, "Error: %v\n", err)
	return 1
}

func newRootCmd() *cobra.Command {
	f := &flags{}

	cmd := &cobra.Command{
		Use:   "cocoa-report",
		Short: "Comparative cocoa production report for Ghana and Ivory Coast",
		Long: `cocoa-report reads FAOSTAT-style crop statistics, keeps the cocoa bean
series for Ghana and Côte d'Ivoire, and renders yield and area harvested
for both countries into one 2x2 figure.

Settings come from the environment (and an optional .env file); flags
override them.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.LoadDotEnv(f.envFile); err != nil {
				return err
			}

			cfg, err := config.ReadConfig()
			if err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}
			if err := applyFlags(cmd, f, cfg); err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}

			logger, err := newLogger(cfg.LogLevel, cfg.LogFormat, f.verbose)
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			defer func() { _ = logger.Sync() }()
			zap.ReplaceGlobals(logger)

			return runReport(cmd.Context(), cfg, logger)
		},
	}

	cmd.Flags().StringVar(&f.envFile, "env-file", ".env", "Environment file to load when present")
	cmd.Flags().StringVarP(&f.input, "input", "i", "", "Input CSV file (default "+config.DefaultInputPath+")")
	cmd.Flags().StringVarP(&f.output, "output", "o", "", "Output figure; .pdf, .png or .svg (default "+config.DefaultOutputPath+")")
	cmd.Flags().StringVar(&f.xlsx, "xlsx", "", "Also write the cleaned data to this .xlsx workbook")
	cmd.Flags().BoolVar(&f.show, "show", false, "Open the figure after writing it")
	cmd.Flags().BoolVar(&f.pgExport, "pg-export", false, "Persist cleaned data and the cleaning audit to PostgreSQL")
	cmd.Flags().BoolVarP(&f.verbose, "verbose", "v", false, "Enable debug logging")

	return cmd
}

// applyFlags overrides environment settings with the flags that were set,
// then validates the merged result once
func applyFlags(cmd *cobra.Command, f *flags, cfg *config.Config) error {
	fs := cmd.Flags()
	if fs.Changed("input") {
		cfg.InputPath = f.input
	}
	if fs.Changed("output") {
		cfg.OutputPath = f.output
	}
	if fs.Changed("xlsx") {
		cfg.XLSXPath = f.xlsx
	}
	if fs.Changed("show") {
		cfg.Show = f.show
	}
	if fs.Changed("pg-export") {
		cfg.PGExport = f.pgExport
	}

	if err := cfg.LoadDatabases(); err != nil {
		return err
	}
	return cfg.Validate()
}

// newLogger builds a zap logger writing to stderr
// "json" selects the production encoder, anything else the console encoder.
func newLogger(level, format string, verbose bool) (*zap.Logger, error) {
	var zc zap.Config
	if format == "json" {
		zc = zap.NewProductionConfig()
	} else {
		zc = zap.NewDevelopmentConfig()
		zc.DisableStacktrace = true
	}

	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	if verbose {
		lvl = zapcore.DebugLevel
	}
	zc.Level = zap.NewAtomicLevelAt(lvl)
	zc.OutputPaths = []string{"stderr"}
	zc.ErrorOutputPaths = []string{"stderr"}

	return zc.Build()
}

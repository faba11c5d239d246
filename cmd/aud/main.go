// Command aud runs Aud source files through the lex/parse/type-check/run
// pipeline. The CLI itself is a thin cobra wrapper; every rule lives in the
// lexer/parser/checker/interp packages.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"aud/config"
	"aud/diag"
)

var (
	sourcePath string
	codeFlag   string
	modeFlag   string
	configPath string
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "aud",
		Short: "Lex, parse, type-check, or run an Aud program",
		RunE:  runAud,
	}
	cmd.Flags().StringVar(&sourcePath, "source", "", "path to an Aud source file")
	cmd.Flags().StringVar(&codeFlag, "code", "", "inline Aud source (overrides --source)")
	cmd.Flags().StringVar(&modeFlag, "mode", string(ModeRun), "lex|parse|type-check|run")
	cmd.Flags().StringVar(&configPath, "config", "", "path to a JSON configuration file")
	return cmd
}

func runAud(cmd *cobra.Command, args []string) error {
	logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), nil))

	source, err := readSource()
	if err != nil {
		logger.Error("failed to read source", "error", err)
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		logger.Error("failed to load configuration", "error", err)
		return err
	}

	pipeline := &Pipeline{
		Config: cfg,
		Mode:   Mode(modeFlag),
		Stdin:  cmd.InOrStdin(),
		Stdout: cmd.OutOrStdout(),
	}
	result := pipeline.Run(source)

	printer := diag.NewPrinter(cmd.ErrOrStderr(), isTerminal(cmd.ErrOrStderr()))
	printer.PrintList(result.Diagnostics)
	if result.Diagnostics.HasErrors() {
		return fmt.Errorf("aud: %d diagnostic(s)", len(result.Diagnostics))
	}
	if result.Fault != nil {
		printer.PrintFault(result.Fault)
		return fmt.Errorf("aud: %s", result.Fault.Text())
	}
	return nil
}

func readSource() (string, error) {
	if codeFlag != "" {
		return codeFlag, nil
	}
	if sourcePath == "" {
		return "", fmt.Errorf("one of --source or --code is required")
	}
	data, err := os.ReadFile(sourcePath)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func loadConfig() (config.Configuration, error) {
	if configPath == "" {
		return config.Default(), nil
	}
	data, err := os.ReadFile(configPath)
	if err != nil {
		return config.Configuration{}, err
	}
	return config.Load(data)
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	fi, err := f.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}

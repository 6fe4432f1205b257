package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/isdmx/codeexec/sandbox"
)

// exitError carries the exit status execctl should terminate with.
type exitError struct{ code int }

func (e exitError) Error() string { return fmt.Sprintf("program exited with status %d", e.code) }

func newRunCommand() *cobra.Command {
	var (
		langVersion string
		asJSON      bool
		showInstall bool
	)

	cmd := &cobra.Command{
		Use:     "run <language> <file>",
		Aliases: []string{"execute", "exec"},
		Short:   "Execute a source file",
		Long: `Execute a source file on the service and print its output.

Use "-" as the file to read the code from stdin.

Examples:
  execctl run python script.py
  execctl run go main.go --install-log
  echo 'console.log(1)' | execctl run js -`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			code, err := readSource(cmd.InOrStdin(), args[1])
			if err != nil {
				return err
			}

			result, err := clientFromFlags(cmd).Execute(cmd.Context(), args[0], langVersion, code)
			if err != nil {
				return err
			}

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				if err := enc.Encode(result); err != nil {
					return err
				}
			} else {
				printResult(cmd.OutOrStdout(), cmd.ErrOrStderr(), result, showInstall)
			}

			switch {
			case result.ExitCode == sandbox.NoExitCode:
				return exitError{code: 1}
			case result.ExitCode != 0:
				return exitError{code: result.ExitCode}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&langVersion, "language-version", "l", sandbox.DefaultVersion, "Informational language version")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the raw JSON result")
	cmd.Flags().BoolVar(&showInstall, "install-log", false, "Print the dependency installation log")

	return cmd
}

func readSource(stdin io.Reader, name string) (string, error) {
	if name == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return string(data), nil
	}

	data, err := os.ReadFile(name)
	if err != nil {
		return "", fmt.Errorf("failed to read file %s: %w", name, err)
	}
	return string(data), nil
}

func printResult(stdout, stderr io.Writer, result sandbox.Result, showInstall bool) {
	if showInstall && result.InstallLog != "" {
		color.New(color.FgCyan).Fprintln(stderr, "--- install log ---")
		fmt.Fprint(stderr, result.InstallLog)
	}

	fmt.Fprint(stdout, result.Stdout)
	if result.Stderr != "" {
		color.New(color.FgRed).Fprint(stderr, result.Stderr)
	}

	if result.Error != "" {
		color.New(color.FgYellow, color.Bold).Fprintf(stderr, "error: %s\n", result.Error)
	}
}

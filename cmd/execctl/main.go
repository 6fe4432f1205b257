// Command execctl talks to a running code execution service: it submits
// files for execution and runs end-to-end smoke checks.
package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var version = "dev"

func main() {
	if err := newRootCommand().Execute(); err != nil {
		var exit exitError
		if errors.As(err, &exit) {
			os.Exit(exit.code)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "execctl",
		Short:         "Client for the code execution service",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringP("url", "u", "http://localhost:8000", "Service base URL")
	rootCmd.PersistentFlags().Duration("timeout", 2*time.Minute, "HTTP timeout per request")

	rootCmd.AddCommand(
		newRunCommand(),
		newSmokeCommand(),
		newLanguagesCommand(),
	)
	return rootCmd
}

func clientFromFlags(cmd *cobra.Command) *Client {
	url, _ := cmd.Flags().GetString("url")
	timeout, _ := cmd.Flags().GetDuration("timeout")
	return NewClient(url, timeout)
}

package main

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func newLanguagesCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "languages",
		Aliases: []string{"list"},
		Short:   "List supported languages",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			infos, err := clientFromFlags(cmd).Languages(cmd.Context())
			if err != nil {
				return err
			}

			bold := color.New(color.Bold)
			for _, info := range infos {
				bold.Fprintf(cmd.OutOrStdout(), "%-12s", info.Language)
				fmt.Fprintf(cmd.OutOrStdout(), "%-20s %s\n", info.Image, strings.Join(info.Aliases, ", "))
			}
			return nil
		},
	}
}

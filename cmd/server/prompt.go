package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"blgs-backend/internal/catalog"
	"blgs-backend/internal/services"
)

func promptCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "prompt",
		Short: "Print the system prompt rendered from the business facts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, _ := cmd.Flags().GetString("facts")
			facts, err := catalog.Load(path)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), services.RenderSystemPrompt(facts))
			return nil
		},
	}
	cmd.Flags().String("facts", "", "YAML facts file (defaults to the built-in facts)")
	return cmd
}

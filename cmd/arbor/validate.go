package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/arbor"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a decision tree document",
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath, _ := cmd.Flags().GetString("config")

		tree, err := arbor.LoadFile(configPath)
		if err != nil {
			return fmt.Errorf("validation failed: %w", err)
		}

		fmt.Printf("OK: %q (%d nodes, start node %q)\n", tree.Name, len(tree.Nodes), tree.StartNode)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

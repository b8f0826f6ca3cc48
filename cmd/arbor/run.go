package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/aretw0/arbor"
)

var runCmd = &cobra.Command{
	Use:   "run [audio file]",
	Short: "Process one call recording and print the execution record",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath, _ := cmd.Flags().GetString("config")
		callID, _ := cmd.Flags().GetString("call-id")
		stepLimit, _ := cmd.Flags().GetInt("step-limit")

		logger := newLogger(cmd)

		audio, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("failed to read audio file: %w", err)
		}

		tree, err := arbor.LoadFile(configPath)
		if err != nil {
			return fmt.Errorf("failed to load tree: %w", err)
		}

		if callID == "" {
			callID = uuid.New().String()
		}

		engine := arbor.New(tree, arbor.DefaultRegistry(),
			arbor.WithLogger(logger),
			arbor.WithMaxSteps(stepLimit),
		)

		rec, err := engine.Run(cmd.Context(), map[string]any{
			"call_id":      callID,
			"filename":     args[0],
			"audio":        audio,
			"submitted_at": time.Now().UTC().Format(time.RFC3339),
		})
		if err != nil {
			return err
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(rec)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().String("call-id", "", "Call identifier (generated when empty)")
	runCmd.Flags().Int("step-limit", 0, "Traversal step limit (0 = default)")
}

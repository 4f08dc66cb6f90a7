package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vredchenko/cscs-card-audio-revision/internal/store"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete all recorded statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		yes, _ := cmd.Flags().GetBool("yes")
		if !yes {
			return fmt.Errorf("refusing to delete statistics without --yes")
		}

		cfg := loadConfig(cmd)

		st := store.New(cfg.DBPath)
		if err := st.Init(cmd.Context()); err != nil {
			return fmt.Errorf("open store %s: %w", cfg.DBPath, err)
		}
		defer st.Close()

		if err := st.ClearAllData(cmd.Context()); err != nil {
			return fmt.Errorf("clear data: %w", err)
		}
		fmt.Println("All statistics cleared.")
		return nil
	},
}

func init() {
	resetCmd.Flags().Bool("yes", false, "Confirm deletion of all statistics")
}

package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var deleteIDs []string

var deleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Delete records from the remote collection by identifier",
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(deleteIDs) == 0 {
			return fmt.Errorf("no identifiers given: pass at least one --id")
		}
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		col := newCollection(cfg)
		for _, id := range deleteIDs {
			col.Add(map[string]any{cfg.IdentifierKey: id})
		}

		if err := col.Delete(cmd.Context()); err != nil {
			return err
		}
		fmt.Printf("deleted %d record(s)\n", len(deleteIDs))
		return nil
	},
}

func init() {
	deleteCmd.Flags().StringArrayVar(&deleteIDs, "id", nil, "Identifier to delete (repeatable)")
	rootCmd.AddCommand(deleteCmd)
}

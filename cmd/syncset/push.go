package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/livebuzzevents/syncset/pkg/record"
)

var pushCmd = &cobra.Command{
	Use:   "push <file>",
	Short: "Save records from a JSON file to the remote collection",
	Long: `Reads a JSON array of records from the given file, adds them to a
collection, and issues a save request. The response is merged back
positionally and the saved records are printed.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		data, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}
		var inputs []map[string]any
		if err := json.Unmarshal(data, &inputs); err != nil {
			return fmt.Errorf("failed to parse %s: %w", args[0], err)
		}

		col := newCollection(cfg)
		col.AddAll(inputs)

		if err := col.Save(cmd.Context()); err != nil {
			reportValidationErrors(col.Records())
			return err
		}

		attrs := col.Map(func(r record.Record) any {
			return r.Attributes()
		})
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(attrs)
	},
}

// reportValidationErrors prints per-record validation errors to
// stderr so a failed push names the offending attributes.
func reportValidationErrors(records []record.Record) {
	for i, r := range records {
		for field, msgs := range r.ValidationErrors() {
			for _, msg := range msgs {
				fmt.Fprintf(os.Stderr, "record %d: %s: %s\n", i, field, msg)
			}
		}
	}
}

func init() {
	rootCmd.AddCommand(pushCmd)
}

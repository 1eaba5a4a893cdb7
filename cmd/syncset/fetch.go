package main

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"

	"github.com/livebuzzevents/syncset/pkg/record"
)

var (
	fetchPage int
	fetchAll  bool
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Fetch the remote collection and print its records",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		col := newCollection(cfg)

		ctx := cmd.Context()
		switch {
		case fetchAll:
			col.Page(1)
			for !col.IsLastPage() {
				if err := col.Fetch(ctx); err != nil {
					return err
				}
			}
		case fetchPage > 0:
			if err := col.Page(fetchPage).Fetch(ctx); err != nil {
				return err
			}
		default:
			if err := col.Fetch(ctx); err != nil {
				return err
			}
		}

		attrs := col.Map(func(r record.Record) any {
			return r.Attributes()
		})
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(attrs)
	},
}

func init() {
	fetchCmd.Flags().IntVar(&fetchPage, "page", 0, "Fetch a single page")
	fetchCmd.Flags().BoolVar(&fetchAll, "all", false, "Fetch every page until the last page is reached")
	rootCmd.AddCommand(fetchCmd)
}

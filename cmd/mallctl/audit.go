package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func init() {
	var limit int
	auditCmd := &cobra.Command{
		Use:   "audit [TARGET_ID]",
		Short: "Show recent admin actions, optionally for one target",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := fmt.Sprintf("/api/admin/audit-logs?limit=%d", limit)
			if len(args) == 1 {
				path = fmt.Sprintf("/api/admin/audit-logs/%s", args[0])
			}
			data, err := doGet(path)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(os.Stdout, string(data))
			return nil
		},
	}
	auditCmd.Flags().IntVarP(&limit, "limit", "l", 50, "Maximum entries to return")
	rootCmd.AddCommand(auditCmd)
}

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func init() {
	vendorsCmd := &cobra.Command{Use: "vendors", Short: "Vendor onboarding operations"}

	pendingCmd := &cobra.Command{
		Use:   "pending",
		Short: "List vendor applications awaiting a decision",
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := doGet("/api/admin/vendors/pending")
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(os.Stdout, string(data))
			return nil
		},
	}
	vendorsCmd.AddCommand(pendingCmd)

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List every vendor with their listings",
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := doGet("/api/admin/vendors")
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(os.Stdout, string(data))
			return nil
		},
	}
	vendorsCmd.AddCommand(listCmd)

	approveCmd := &cobra.Command{
		Use:   "approve USER_ID",
		Short: "Approve a vendor application",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := doPostJSON(fmt.Sprintf("/api/admin/vendors/%s/approve", args[0]), map[string]string{})
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(os.Stdout, string(data))
			return nil
		},
	}
	vendorsCmd.AddCommand(approveCmd)

	var reason string
	rejectCmd := &cobra.Command{
		Use:   "reject USER_ID",
		Short: "Reject a vendor application with a reason",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if reason == "" {
				return fmt.Errorf("--reason required")
			}
			data, err := doPostJSON(fmt.Sprintf("/api/admin/vendors/%s/reject", args[0]),
				map[string]string{"reason": reason})
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(os.Stdout, string(data))
			return nil
		},
	}
	rejectCmd.Flags().StringVarP(&reason, "reason", "r", "", "Rejection reason (required)")
	_ = rejectCmd.MarkFlagRequired("reason")
	vendorsCmd.AddCommand(rejectCmd)

	rootCmd.AddCommand(vendorsCmd)
}

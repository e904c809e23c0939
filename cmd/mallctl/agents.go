package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func init() {
	agentsCmd := &cobra.Command{Use: "agents", Short: "Agent moderation operations"}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List all agents (any state)",
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := doGet("/api/admin/agents")
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(os.Stdout, string(data))
			return nil
		},
	}
	agentsCmd.AddCommand(listCmd)

	var note, avatar string
	approveCmd := &cobra.Command{
		Use:   "approve AGENT_ID",
		Short: "Approve an agent and publish it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			payload := map[string]interface{}{}
			if note != "" {
				payload["note"] = note
			}
			if avatar != "" {
				payload["avatar"] = avatar
			}
			data, err := doPostJSON(fmt.Sprintf("/api/admin/agents/%s/approve", args[0]), payload)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(os.Stdout, string(data))
			return nil
		},
	}
	approveCmd.Flags().StringVarP(&note, "note", "n", "", "Optional note for the vendor")
	approveCmd.Flags().StringVar(&avatar, "avatar", "", "Replacement avatar URL")
	agentsCmd.AddCommand(approveCmd)

	var reason string
	rejectCmd := &cobra.Command{
		Use:   "reject AGENT_ID",
		Short: "Reject an agent with a reason",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if reason == "" {
				return fmt.Errorf("--reason required")
			}
			data, err := doPostJSON(fmt.Sprintf("/api/admin/agents/%s/reject", args[0]),
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
	agentsCmd.AddCommand(rejectCmd)

	deleteCmd := &cobra.Command{
		Use:   "delete AGENT_ID",
		Short: "Permanently delete an agent and all associated data",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := doDelete(fmt.Sprintf("/api/admin/agents/%s", args[0]))
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(os.Stdout, string(data))
			return nil
		},
	}
	agentsCmd.AddCommand(deleteCmd)

	rootCmd.AddCommand(agentsCmd)
}

package cli

import (
	"fmt"

	"github.com/Umair-Web/BTOBPortal/internal/logger"
	"github.com/Umair-Web/BTOBPortal/internal/repository"
	"github.com/Umair-Web/BTOBPortal/internal/service"

	"github.com/spf13/cobra"
)

// recordAudit 写入审计日志；失败只告警，不影响已完成的变更
func recordAudit(cmd *cobra.Command, tk *Toolkit, input service.AuthzAuditRecordInput) {
	operator, _ := cmd.Flags().GetString("operator")
	input.Operator = operator
	if err := tk.Audit.Record(input); err != nil {
		logger.Warnw("cli_audit_record_failed", "action", input.Action, "error", err)
	}
}

func newAuditCommand(open Opener) *cobra.Command {
	var (
		limit  int
		action string
		role   string
	)
	cmd := &cobra.Command{
		Use:   "audit",
		Short: "Show recent role and policy changes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tk, err := open()
			if err != nil {
				return err
			}
			filter := repository.AuthzAuditLogListFilter{Page: 1, PageSize: limit, Action: action}
			if role != "" {
				filter.Role = "role:" + roleArg(role)
			}
			logs, total, err := tk.Audit.List(filter)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, entry := range logs {
				fmt.Fprintf(out, "%s  %-14s %-16s %-14s %s %s %s\n",
					entry.CreatedAt.Format("2006-01-02 15:04:05"),
					entry.Operator, entry.Action, entry.Role, entry.Method, entry.Object, entry.TargetEmail)
			}
			fmt.Fprintf(out, "%d of %d entries\n", len(logs), total)
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 20, "maximum entries to show")
	cmd.Flags().StringVar(&action, "action", "", "filter by action (grant_policy, revoke_policy, delete_role, set_user_role)")
	cmd.Flags().StringVar(&role, "role", "", "filter by role")
	return cmd
}

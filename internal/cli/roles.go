package cli

import (
	"fmt"
	"strings"

	"github.com/Umair-Web/BTOBPortal/internal/authz"
	"github.com/Umair-Web/BTOBPortal/internal/service"

	"github.com/spf13/cobra"
)

func newRolesCommand(open Opener) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "roles",
		Short: "Inspect and edit role route policies",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List roles",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				tk, err := open()
				if err != nil {
					return err
				}
				roles, err := tk.Authz.ListRoles()
				if err != nil {
					return err
				}
				for _, role := range roles {
					fmt.Fprintln(cmd.OutOrStdout(), role)
				}
				return nil
			},
		},
		&cobra.Command{
			Use:   "policies <role>",
			Short: "Show the route policies of a role",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				tk, err := open()
				if err != nil {
					return err
				}
				policies, err := tk.Authz.GetRolePolicies(roleArg(args[0]))
				if err != nil {
					return err
				}
				for _, policy := range policies {
					fmt.Fprintf(cmd.OutOrStdout(), "%-7s %s\n", policy.Action, policy.Object)
				}
				return nil
			},
		},
		&cobra.Command{
			Use:   "grant <role> <method> <path>",
			Short: "Allow a role to call a route",
			Args:  cobra.ExactArgs(3),
			RunE: func(cmd *cobra.Command, args []string) error {
				tk, err := open()
				if err != nil {
					return err
				}
				if err := tk.Authz.GrantRolePolicy(roleArg(args[0]), args[2], args[1]); err != nil {
					return err
				}
				recordAudit(cmd, tk, service.AuthzAuditRecordInput{
					Action: service.AuditActionGrantPolicy,
					Role:   "role:" + roleArg(args[0]),
					Object: authz.NormalizeObject(args[2]),
					Method: args[1],
				})
				fmt.Fprintf(cmd.OutOrStdout(), "granted %s %s to %s\n", strings.ToUpper(args[1]), args[2], args[0])
				return nil
			},
		},
		&cobra.Command{
			Use:   "revoke <role> <method> <path>",
			Short: "Remove a route policy from a role",
			Args:  cobra.ExactArgs(3),
			RunE: func(cmd *cobra.Command, args []string) error {
				tk, err := open()
				if err != nil {
					return err
				}
				if err := tk.Authz.RevokeRolePolicy(roleArg(args[0]), args[2], args[1]); err != nil {
					return err
				}
				recordAudit(cmd, tk, service.AuthzAuditRecordInput{
					Action: service.AuditActionRevokePolicy,
					Role:   "role:" + roleArg(args[0]),
					Object: authz.NormalizeObject(args[2]),
					Method: args[1],
				})
				fmt.Fprintf(cmd.OutOrStdout(), "revoked %s %s from %s\n", strings.ToUpper(args[1]), args[2], args[0])
				return nil
			},
		},
		&cobra.Command{
			Use:   "delete <role>",
			Short: "Delete a role and its policies",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				tk, err := open()
				if err != nil {
					return err
				}
				if err := tk.Authz.DeleteRole(roleArg(args[0])); err != nil {
					return err
				}
				recordAudit(cmd, tk, service.AuthzAuditRecordInput{
					Action: service.AuditActionDeleteRole,
					Role:   "role:" + roleArg(args[0]),
				})
				fmt.Fprintf(cmd.OutOrStdout(), "deleted role %s\n", args[0])
				return nil
			},
		},
	)
	return cmd
}

// roleArg 角色名与账号角色一致，按小写映射为授权主体
func roleArg(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

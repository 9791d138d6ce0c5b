package cli

import (
	"fmt"

	"github.com/Umair-Web/BTOBPortal/internal/constants"
	"github.com/Umair-Web/BTOBPortal/internal/service"

	"github.com/spf13/cobra"
)

func newCreateUserCommand(open Opener) *cobra.Command {
	var name string
	cmd := &cobra.Command{
		Use:   "create-user <email> <password> [role]",
		Short: "Create an account (role defaults to USER)",
		Args:  cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			role := constants.RoleUser
			if len(args) == 3 {
				role = args[2]
			}
			tk, err := open()
			if err != nil {
				return err
			}
			user, err := tk.Users.Signup(cmd.Context(), service.SignupInput{
				Email:    args[0],
				Password: args[1],
				Role:     role,
				Name:     name,
			})
			if err != nil {
				return fmt.Errorf("create user: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created user #%d %s (%s)\n", user.ID, user.Email, user.Role)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "display name (defaults to the email local part)")
	return cmd
}

func newSetRoleCommand(open Opener) *cobra.Command {
	return &cobra.Command{
		Use:   "set-role <email> <role>",
		Short: "Change the role of an existing account",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			tk, err := open()
			if err != nil {
				return err
			}
			user, err := tk.Users.SetRole(cmd.Context(), args[0], args[1])
			if err != nil {
				return fmt.Errorf("set role: %w", err)
			}
			recordAudit(cmd, tk, service.AuthzAuditRecordInput{
				Action:      service.AuditActionSetUserRole,
				TargetEmail: user.Email,
				Role:        "role:" + roleArg(user.Role),
			})
			fmt.Fprintf(cmd.OutOrStdout(), "user %s is now %s\n", user.Email, user.Role)
			return nil
		},
	}
}

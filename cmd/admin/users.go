package main

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/wellnoosh/wellnoosh/internal/provider"
)

func newUsersCmd() *cobra.Command {
	users := &cobra.Command{
		Use:   "users",
		Short: "Inspect and maintain user accounts",
	}
	users.AddCommand(
		newUsersListCmd(),
		newUsersGetCmd(),
		newUsersConfirmCmd(),
		newUsersDeleteCmd(),
		newUsersResetPasswordCmd(),
	)
	return users
}

func newUsersListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all user accounts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := newService()
			if err != nil {
				return err
			}

			users, err := svc.ListUsers(cmd.Context())
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tEMAIL\tCONFIRMED\tCREATED\tLAST SIGN-IN")
			for _, u := range users {
				fmt.Fprintf(w, "%s\t%s\t%t\t%s\t%s\n",
					u.ID, u.Email, u.Confirmed(), formatTime(&u.CreatedAt), formatTime(u.LastSignInAt))
			}
			return w.Flush()
		},
	}
}

func newUsersGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <email-or-id>",
		Short: "Show one user account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := newService()
			if err != nil {
				return err
			}

			u, err := svc.GetUser(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			printUser(u)
			return nil
		},
	}
}

func newUsersConfirmCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "confirm <email-or-id>",
		Short: "Mark a user's email as confirmed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := newService()
			if err != nil {
				return err
			}

			u, err := svc.ConfirmUser(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Printf("Confirmed %s (%s)\n", u.Email, u.ID)
			return nil
		},
	}
}

func newUsersDeleteCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete <email-or-id>",
		Short: "Delete a user account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := newService()
			if err != nil {
				return err
			}

			if !yes {
				return fmt.Errorf("refusing to delete without --yes")
			}

			if err := svc.DeleteUser(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Println("Deleted", args[0])
			return nil
		},
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "confirm the deletion")
	return cmd
}

func newUsersResetPasswordCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reset-password <email-or-id>",
		Short: "Set a new random password and print it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := newService()
			if err != nil {
				return err
			}

			password, err := svc.ResetPassword(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Println("New password:", password)
			return nil
		},
	}
}

func printUser(u *provider.User) {
	fmt.Println("ID:          ", u.ID)
	fmt.Println("Email:       ", u.Email)
	fmt.Println("Confirmed:   ", u.Confirmed())
	fmt.Println("Created:     ", formatTime(&u.CreatedAt))
	fmt.Println("Last sign-in:", formatTime(u.LastSignInAt))
}

func formatTime(t *time.Time) string {
	if t == nil || t.IsZero() {
		return "-"
	}
	return t.UTC().Format(time.RFC3339)
}

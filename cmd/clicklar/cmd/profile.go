package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	domain "github.com/donaldgifford/clicklar/pkg/types"
	"github.com/donaldgifford/clicklar/pkg/validate"
)

func profileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Manage your account",
	}

	cmd.AddCommand(profileShowCmd())
	cmd.AddCommand(profileEditCmd())
	cmd.AddCommand(profilePasswordCmd())
	cmd.AddCommand(profileDeleteCmd())
	return cmd
}

func profileShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show your profile",
		RunE: run(func(ctx context.Context, a *app, _ []string) error {
			if err := a.requireLogin(ctx); err != nil {
				return err
			}
			p, err := a.client.GetProfile(ctx)
			if err != nil {
				return a.fail(ctx, "Profile", "Could not load profile.", err)
			}
			return render(a.out, p, func(w io.Writer) error {
				return printProfile(w, p)
			})
		}),
	}
}

func profileEditCmd() *cobra.Command {
	var name, email, phone string

	cmd := &cobra.Command{
		Use:   "edit",
		Short: "Edit your name, email or phone",
		Long:  "Edit your profile. Fields without a flag keep their current value.",
		RunE: run(func(ctx context.Context, a *app, _ []string) error {
			if err := a.requireLogin(ctx); err != nil {
				return err
			}
			current, err := a.client.GetProfile(ctx)
			if err != nil {
				return a.fail(ctx, "Profile", "Could not load profile.", err)
			}

			u := domain.ProfileUpdate{
				Name:  valueOr(name, current.Name),
				Email: valueOr(email, current.Email),
				Phone: valueOr(phone, current.Phone),
			}
			if err := validate.ProfileUpdate(current, &u); err != nil {
				if errors.Is(err, validate.ErrNoChanges) {
					_, werr := fmt.Fprintln(a.out, "Nothing to change.")
					return werr
				}
				return a.fail(ctx, "Profile", "", err)
			}

			updated, err := a.client.UpdateProfile(ctx, &u)
			if err != nil {
				return a.fail(ctx, "Profile", "Could not update profile.", err)
			}
			return render(a.out, updated, func(w io.Writer) error {
				return printProfile(w, updated)
			})
		}),
	}

	f := cmd.Flags()
	f.StringVar(&name, "name", "", "new full name")
	f.StringVar(&email, "email", "", "new email address")
	f.StringVar(&phone, "phone", "", "new phone number")
	return cmd
}

func profilePasswordCmd() *cobra.Command {
	var change domain.PasswordChange

	cmd := &cobra.Command{
		Use:   "password",
		Short: "Change your password",
		RunE: run(func(ctx context.Context, a *app, _ []string) error {
			if err := a.requireLogin(ctx); err != nil {
				return err
			}

			var err error
			if change.Current, err = a.prompt("Current password", change.Current); err != nil {
				return err
			}
			if change.New, err = a.prompt("New password", change.New); err != nil {
				return err
			}
			if change.Confirm, err = a.prompt("Confirm new password", change.Confirm); err != nil {
				return err
			}

			if err := validate.PasswordChange(&change); err != nil {
				return a.fail(ctx, "Password", "", err)
			}
			if err := a.client.ChangePassword(ctx, change.Current, change.New); err != nil {
				return a.fail(ctx, "Password", "Could not change password.", err)
			}

			_, err = fmt.Fprintln(a.out, "Password changed.")
			return err
		}),
	}

	f := cmd.Flags()
	f.StringVar(&change.Current, "current", "", "current password")
	f.StringVar(&change.New, "new", "", "new password")
	f.StringVar(&change.Confirm, "confirm", "", "new password confirmation")
	return cmd
}

func profileDeleteCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete",
		Short: "Delete your account and all your services",
		RunE: run(func(ctx context.Context, a *app, _ []string) error {
			if err := a.requireLogin(ctx); err != nil {
				return err
			}

			ok, err := a.confirm("Delete your account and every service you published?", yes)
			if err != nil {
				return err
			}
			if !ok {
				_, err = fmt.Fprintln(a.out, "Cancelled.")
				return err
			}

			if err := a.client.DeleteAccount(ctx); err != nil {
				return a.fail(ctx, "Profile", "Could not delete account.", err)
			}
			if err := a.session.Logout(ctx); err != nil {
				return err
			}

			_, err = fmt.Fprintln(a.out, "Account deleted.")
			return err
		}),
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	return cmd
}

func valueOr(v, fallback string) string {
	if v != "" {
		return v
	}
	return fallback
}

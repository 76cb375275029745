package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/donaldgifford/clicklar/internal/session"
	domain "github.com/donaldgifford/clicklar/pkg/types"
	"github.com/donaldgifford/clicklar/pkg/validate"
)

func loginCmd() *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and save the session",
		Long:  "Log in with your email and password. Missing values are read from stdin.",
		RunE: run(func(ctx context.Context, a *app, _ []string) error {
			var err error
			if email, err = a.prompt("Email", email); err != nil {
				return err
			}
			if password, err = a.prompt("Password", password); err != nil {
				return err
			}

			creds := domain.Credentials{Email: email, Password: password}
			if err := validate.Credentials(&creds); err != nil {
				return a.fail(ctx, "Login", "", err)
			}

			if err := a.session.Login(ctx, email, password); err != nil {
				if errors.Is(err, session.ErrInvalidCredentials) {
					return a.fail(ctx, "Login", session.ErrInvalidCredentials.Error(), err)
				}
				return a.fail(ctx, "Login", "Could not log in.", err)
			}

			claims, err := a.session.Claims()
			if err != nil {
				_, err = fmt.Fprintln(a.out, "Logged in.")
				return err
			}
			_, err = fmt.Fprintf(a.out, "Logged in as %s.\n", claims.Name)
			return err
		}),
	}

	cmd.Flags().StringVarP(&email, "email", "e", "", "account email")
	cmd.Flags().StringVarP(&password, "password", "p", "", "account password")
	return cmd
}

func logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the saved session",
		RunE: run(func(ctx context.Context, a *app, _ []string) error {
			if err := a.session.Logout(ctx); err != nil {
				return err
			}
			_, err := fmt.Fprintln(a.out, "Logged out.")
			return err
		}),
	}
}

func whoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		RunE: run(func(ctx context.Context, a *app, _ []string) error {
			if !a.session.IsAuthenticated(ctx) {
				_, err := fmt.Fprintln(a.out, "Not logged in.")
				return err
			}
			claims, err := a.session.Claims()
			if err != nil {
				return err
			}

			out := struct {
				UserID  string    `json:"userId"`
				Name    string    `json:"name"`
				Email   string    `json:"email"`
				Expires time.Time `json:"expires,omitzero"`
			}{UserID: claims.Subject, Name: claims.Name, Email: claims.Email}
			if claims.ExpiresAt != nil {
				out.Expires = claims.ExpiresAt.Time
			}

			return render(a.out, out, func(w io.Writer) error {
				tw := newTabWriter(w)
				tw.writef("User ID:\t%s\n", out.UserID)
				tw.writef("Name:\t%s\n", out.Name)
				tw.writef("Email:\t%s\n", out.Email)
				if !out.Expires.IsZero() {
					tw.writef("Expires:\t%s\n", out.Expires.Local().Format(time.DateTime))
				}
				return tw.finish()
			})
		}),
	}
}

func registerCmd() *cobra.Command {
	var reg domain.Registration

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account",
		RunE: run(func(ctx context.Context, a *app, _ []string) error {
			var err error
			fields := []struct {
				label string
				dst   *string
			}{
				{"Name", &reg.Name},
				{"Email", &reg.Email},
				{"Phone", &reg.Phone},
				{"Password", &reg.Password},
				{"Confirm password", &reg.ConfirmPassword},
			}
			for _, f := range fields {
				if *f.dst, err = a.prompt(f.label, *f.dst); err != nil {
					return err
				}
			}

			if err := validate.Registration(&reg); err != nil {
				return a.fail(ctx, "Register", "", err)
			}
			if err := a.client.Register(ctx, &reg); err != nil {
				return a.fail(ctx, "Register", "Could not create the account.", err)
			}

			_, err = fmt.Fprintln(a.out, "Account created. Run `clicklar login` to sign in.")
			return err
		}),
	}

	f := cmd.Flags()
	f.StringVar(&reg.Name, "name", "", "full name")
	f.StringVar(&reg.Email, "email", "", "email address")
	f.StringVar(&reg.Phone, "phone", "", "phone number with area code")
	f.StringVar(&reg.Password, "password", "", "password (at least 6 characters)")
	f.StringVar(&reg.ConfirmPassword, "confirm", "", "password confirmation")
	return cmd
}

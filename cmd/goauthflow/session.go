package main

import (
	"errors"
	"time"

	goAuthFlow "github.com/MrEthical07/goAuthFlow"
	"github.com/MrEthical07/goAuthFlow/jwt"
	"github.com/spf13/cobra"
)

func newSessionCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "session",
		Short: "Inspect or clear the stored session",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			engine, err := a.open()
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			if pending, err := engine.PendingEmail(ctx); err != nil {
				return err
			} else if pending != "" {
				a.out.field("pending verification", pending)
			}

			sess, err := engine.Session(ctx)
			if errors.Is(err, goAuthFlow.ErrNoSession) {
				a.out.field("session", "none")
				return nil
			}
			if err != nil {
				return err
			}
			sessionSummary(a.out, sess)

			if claims, err := jwt.Inspect(sess.Token); err == nil {
				if claims.Subject != "" {
					a.out.field("subject", claims.Subject)
				}
				if claims.Expired(time.Now()) {
					a.out.field("status", a.out.fail("expired"))
				}
			}
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Forget the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.logout(cmd)
		},
	})
	return cmd
}

func newLogoutCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Log out locally; the pending verification email is kept",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.logout(cmd)
		},
	}
}

func (a *app) logout(cmd *cobra.Command) error {
	engine, err := a.open()
	if err != nil {
		return err
	}
	if err := engine.Logout(cmd.Context()); err != nil {
		return err
	}
	a.out.field("session", "cleared")
	return nil
}

package main

import (
	"errors"
	"net/url"

	goAuthFlow "github.com/MrEthical07/goAuthFlow"
	"github.com/spf13/cobra"
)

func newRegisterCmd(a *app) *cobra.Command {
	var form goAuthFlow.RegisterForm

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account and start email verification",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			engine, err := a.open()
			if err != nil {
				return err
			}
			ctrl := engine.Register()
			err = ctrl.Submit(cmd.Context(), form)
			if err := a.report(ctrl.Screen(), ctrl.State(), err); err != nil {
				return err
			}
			a.awaitNavigation(cmd.Context(), 0)
			return nil
		},
	}

	cmd.Flags().StringVar(&form.FullName, "name", "", "full name")
	cmd.Flags().StringVar(&form.Email, "email", "", "email address")
	cmd.Flags().StringVar(&form.Phone, "phone", "", "mobile number, nine digits starting with 9")
	cmd.Flags().StringVar(&form.Password, "password", "", "password, at least six characters")
	cmd.Flags().BoolVar(&form.TermsAccepted, "accept-terms", false, "accept the terms and conditions")
	return cmd
}

func newLoginCmd(a *app) *cobra.Command {
	var form goAuthFlow.LoginForm

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and store the session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			engine, err := a.open()
			if err != nil {
				return err
			}
			ctrl := engine.Login(goAuthFlow.NavigationState{})
			err = ctrl.Submit(cmd.Context(), form)
			if err := a.report(ctrl.Screen(), ctrl.State(), err); err != nil {
				return err
			}
			a.awaitNavigation(cmd.Context(), 0)
			return nil
		},
	}

	cmd.Flags().StringVar(&form.Email, "email", "", "email address")
	cmd.Flags().StringVar(&form.Password, "password", "", "password")
	cmd.Flags().BoolVar(&form.Remember, "remember", false, "ask for a long-lived session")
	return cmd
}

func newVerifyCmd(a *app) *cobra.Command {
	var email, code string

	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Confirm the email address with the six digit code",
		Long: `Confirm the email address with the six digit code. Without --email the
address saved by the last register is used.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			engine, err := a.open()
			if err != nil {
				return err
			}
			ctrl := engine.VerifyEmail(cmd.Context(), goAuthFlow.NavigationState{Email: email})
			ctrl.Paste(code)
			err = ctrl.Submit(cmd.Context())
			if err := a.report(ctrl.Screen(), ctrl.State(), err); err != nil {
				return err
			}
			a.awaitNavigation(cmd.Context(), engine.Config().Flow.VerifyRedirectDelay)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "email address being verified")
	cmd.Flags().StringVar(&code, "code", "", "six digit verification code")
	return cmd
}

func newResendCmd(a *app) *cobra.Command {
	var email string

	cmd := &cobra.Command{
		Use:   "resend",
		Short: "Ask for a new verification code",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			engine, err := a.open()
			if err != nil {
				return err
			}
			ctrl := engine.VerifyEmail(cmd.Context(), goAuthFlow.NavigationState{Email: email})
			_, err = ctrl.ResendCode(cmd.Context())
			a.out.state(ctrl.Screen(), ctrl.State())
			if err != nil {
				return errors.Join(errReported, err)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "email address being verified")
	return cmd
}

func newForgotPasswordCmd(a *app) *cobra.Command {
	var email string

	cmd := &cobra.Command{
		Use:   "forgot-password",
		Short: "Request a password reset link",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			engine, err := a.open()
			if err != nil {
				return err
			}
			ctrl := engine.ForgotPassword()
			err = ctrl.Submit(cmd.Context(), email)
			return a.report(ctrl.Screen(), ctrl.State(), err)
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "email address of the account")
	return cmd
}

func newResetPasswordCmd(a *app) *cobra.Command {
	var link, token, password, confirm string

	cmd := &cobra.Command{
		Use:   "reset-password",
		Short: "Set a new password from a reset link",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			engine, err := a.open()
			if err != nil {
				return err
			}
			if token == "" {
				token = goAuthFlow.ResetTokenFromURL(link)
			}
			query := url.Values{}
			if token != "" {
				query.Set("token", token)
			}

			ctrl := engine.ResetPassword(query)
			if !ctrl.State().CanSubmit {
				return a.report(ctrl.Screen(), ctrl.State(), goAuthFlow.ErrTokenMissing)
			}
			if !cmd.Flags().Changed("confirm") {
				confirm = password
			}
			err = ctrl.Submit(cmd.Context(), password, confirm)
			if err := a.report(ctrl.Screen(), ctrl.State(), err); err != nil {
				return err
			}
			a.awaitNavigation(cmd.Context(), engine.Config().Flow.ResetRedirectDelay)
			return nil
		},
	}

	cmd.Flags().StringVar(&link, "link", "", "reset link received by email")
	cmd.Flags().StringVar(&token, "token", "", "reset token, instead of --link")
	cmd.Flags().StringVar(&password, "password", "", "new password")
	cmd.Flags().StringVar(&confirm, "confirm", "", "password confirmation (defaults to --password)")
	return cmd
}

package main

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"admin-console/desktop/internal/apierror"
	"admin-console/desktop/internal/authflow"
	identitydomain "admin-console/desktop/internal/identity/domain"
)

// Per flow: codes read from stdin, and "resend" requests.
const (
	maxOTPAttempts = 5
	maxResends     = 3
)

func runLogin(ctx context.Context, c *cli, args []string) error {
	fs := c.subFlags("login")
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "account password (prompted when empty)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	e, err := c.orPrompt(*email, "Email: ")
	if err != nil {
		return err
	}
	p, err := c.orPrompt(*password, "Password: ")
	if err != nil {
		return err
	}
	if _, err := c.app.Auth.SignIn(ctx, identitydomain.Credentials{Email: e, Password: p}); err != nil {
		return err
	}
	snap := c.app.Session.Snapshot()
	name := e
	if snap.CurrentUser != nil && snap.CurrentUser.Username != "" {
		name = snap.CurrentUser.Username
	}
	fmt.Fprintf(c.out, "Signed in as %s.\n", name)
	return nil
}

func runLogout(ctx context.Context, c *cli, _ []string) error {
	if c.app.Auth.Logout(ctx) {
		fmt.Fprintln(c.out, "Signed out.")
	} else {
		fmt.Fprintln(c.out, "Not signed in.")
	}
	return nil
}

func runWhoami(_ context.Context, c *cli, _ []string) error {
	snap := c.app.Session.Snapshot()
	if !snap.IsAuthenticated {
		return apierror.Precondition(apierror.CodeUnauthorized, "Not signed in.")
	}
	if snap.CurrentUser == nil {
		fmt.Fprintln(c.out, "Signed in.")
		return nil
	}
	return c.printJSON(snap.CurrentUser)
}

func runRegister(ctx context.Context, c *cli, args []string) error {
	fs := c.subFlags("register")
	userName := fs.String("username", "", "user name")
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "password (prompted when empty)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	var reg identitydomain.Registration
	var err error
	if reg.UserName, err = c.orPrompt(*userName, "User name: "); err != nil {
		return err
	}
	if reg.Email, err = c.orPrompt(*email, "Email: "); err != nil {
		return err
	}
	if reg.Password, err = c.orPrompt(*password, "Password: "); err != nil {
		return err
	}

	flow := c.app.Flow
	defer flow.Abandon()
	if err := flow.StartRegister(ctx, reg); err != nil {
		return err
	}
	if err := c.enterCode(ctx, flow); err != nil {
		return err
	}
	if flow.Snapshot().Step != authflow.StepCompleted {
		return errors.New("registration did not complete")
	}
	fmt.Fprintln(c.out, "Account created.")
	return nil
}

func runForgotPassword(ctx context.Context, c *cli, args []string) error {
	fs := c.subFlags("forgot-password")
	email := fs.String("email", "", "account email")
	if err := fs.Parse(args); err != nil {
		return err
	}
	e, err := c.orPrompt(*email, "Email: ")
	if err != nil {
		return err
	}

	flow := c.app.Flow
	defer flow.Abandon()
	if err := flow.StartForgotPassword(ctx, e); err != nil {
		return err
	}
	if err := c.enterCode(ctx, flow); err != nil {
		return err
	}
	for {
		p, err := c.prompt("New password: ")
		if err != nil {
			return err
		}
		confirm, err := c.prompt("Confirm password: ")
		if err != nil {
			return err
		}
		err = flow.ResetPassword(ctx, p, confirm)
		if apierror.Is(err, apierror.CodePasswordMismatch) {
			report(c.err, err)
			continue
		}
		if err != nil {
			return err
		}
		break
	}
	fmt.Fprintln(c.out, "Password reset.")
	return nil
}

// enterCode reads codes until one verifies. Typing "resend" asks for a new code once the
// countdown allows it; resend requests do not count as attempts but are bounded separately.
func (c *cli) enterCode(ctx context.Context, flow *authflow.Coordinator) error {
	snap := flow.Snapshot()
	fmt.Fprintf(c.err, "A code was sent to %s. You can request another in %s.\n", snap.Email, snap.Remaining.Round(time.Second))
	attempts, resends := 0, 0
	for attempts < maxOTPAttempts {
		code, err := c.prompt("Code (or \"resend\"): ")
		if err != nil {
			return err
		}
		if strings.EqualFold(code, "resend") {
			if resends >= maxResends {
				return apierror.Precondition(apierror.CodeResendNotAllowed, "Too many resend requests.")
			}
			resends++
			if err := flow.Resend(ctx); err != nil {
				report(c.err, err)
				if apierror.Is(err, apierror.CodeResendNotAllowed) {
					fmt.Fprintf(c.err, "Try again in %s.\n", flow.Snapshot().Remaining.Round(time.Second))
				}
			} else {
				fmt.Fprintln(c.err, "A new code was sent.")
			}
			continue
		}
		attempts++
		err = flow.Verify(ctx, code)
		if err == nil {
			return nil
		}
		if flow.Snapshot().Step == authflow.StepVerified {
			return c.finishRegistration(ctx, flow, err)
		}
		switch apierror.CodeOf(err) {
		case apierror.CodeInvalidOTP, apierror.CodeBadRequest, apierror.CodeValidation:
			report(c.err, err)
			continue
		}
		return err
	}
	return apierror.Precondition(apierror.CodeInvalidOTP, "Too many attempts.")
}

// finishRegistration handles a failed account creation after the code was accepted. The same
// registration is resubmitted once unless the backend rejected its content.
func (c *cli) finishRegistration(ctx context.Context, flow *authflow.Coordinator, err error) error {
	switch apierror.CodeOf(err) {
	case apierror.CodeValidation, apierror.CodeBadRequest, apierror.CodeConflict:
		return err
	}
	report(c.err, err)
	fmt.Fprintln(c.err, "Retrying account creation.")
	return flow.CompleteRegistration(ctx)
}

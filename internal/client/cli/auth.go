package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/gophauth/internal/client/client"
	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/dmitrijs2005/gophauth/internal/validate"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

var errPasswordMismatch = errors.New("passwords do not match")

// Register prompts for username, email and password (twice), checks the form
// locally and creates the account. On success the returned session becomes
// the current one.
func (a *App) Register(ctx context.Context) error {
	username, err := getSimpleText(a.reader, "Enter username", a.out)
	if err != nil {
		return err
	}

	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.out, "Enter password")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	confirm, err := getPassword(a.out, "Confirm password")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(confirm)

	if !bytes.Equal(password, confirm) {
		fmt.Fprintln(a.out, "Passwords do not match")
		return errPasswordMismatch
	}

	if verr := validate.Registration(username, email, string(password)); verr != nil {
		a.printValidation(verr)
		return verr
	}

	session, err := a.api.Register(ctx, username, email, string(password))
	if err != nil {
		a.reportError("Registration failed", err)
		return err
	}

	a.session = session
	fmt.Fprintf(a.out, "Registered and logged in as %s\n", username)
	return nil
}

// Login prompts for email and password and replaces the current session on
// success. A failed login leaves any existing session untouched.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.out, "Enter password")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if verr := validate.Login(email, string(password)); verr != nil {
		a.printValidation(verr)
		return verr
	}

	session, err := a.api.Login(ctx, email, string(password))
	if err != nil {
		a.reportError("Login failed", err)
		return err
	}

	a.session = session
	fmt.Fprintf(a.out, "Welcome, %s!\n", displayName(session, email))
	return nil
}

// Logout drops the current session.
func (a *App) Logout(ctx context.Context) error {
	if !a.isLoggedIn() {
		fmt.Fprintln(a.out, "Not logged in")
		return nil
	}
	a.session = nil
	fmt.Fprintln(a.out, "Logged out")
	return nil
}

func (a *App) printValidation(verr *common.ValidationError) {
	for _, f := range verr.Fields {
		fmt.Fprintf(a.out, "  %s: %s\n", f.Field, f.Message)
	}
}

func (a *App) reportError(action string, err error) {
	var apiErr *client.APIError
	switch {
	case errors.Is(err, client.ErrUnavailable):
		fmt.Fprintf(a.out, "%s: server unavailable\n", action)
	case errors.As(err, &apiErr) && len(apiErr.Fields) > 0:
		fmt.Fprintf(a.out, "%s:\n", action)
		a.printValidation(apiErr.Validation())
	default:
		fmt.Fprintf(a.out, "%s: %s\n", action, err.Error())
	}
}

func displayName(s *client.Session, fallback string) string {
	if s.User != nil && s.User.Username != "" {
		return s.User.Username
	}
	return fallback
}

package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/gophauth/internal/client/client"
)

// Profile prints the logged-in user. A rejected token ends the session.
func (a *App) Profile(ctx context.Context) error {
	if !a.isLoggedIn() {
		fmt.Fprintln(a.out, "Not logged in")
		return client.ErrUnauthorized
	}

	u, err := a.api.Profile(ctx, a.session)
	if err != nil {
		if errors.Is(err, client.ErrUnauthorized) {
			a.session = nil
			fmt.Fprintln(a.out, "Session expired, please log in again")
			return err
		}
		a.reportError("Profile unavailable", err)
		return err
	}

	fmt.Fprintf(a.out, "ID:           %d\n", u.ID)
	fmt.Fprintf(a.out, "Username:     %s\n", u.Username)
	fmt.Fprintf(a.out, "Email:        %s\n", u.Email)
	fmt.Fprintf(a.out, "Member since: %s\n", u.CreatedAt.Local().Format("2006-01-02"))
	return nil
}

// Health reports whether the server answers.
func (a *App) Health(ctx context.Context) error {
	h, err := a.api.Health(ctx)
	if err != nil {
		a.reportError("Health check failed", err)
		return err
	}
	fmt.Fprintf(a.out, "Server: %s (%s)\n", h.Status, h.Message)
	return nil
}

package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/dmitrijs2005/gophauth/internal/client/client"
	"github.com/dmitrijs2005/gophauth/internal/client/config"
)

type App struct {
	config  *config.Config
	api     client.Client
	session *client.Session
	reader  *bufio.Reader
	out     io.Writer
}

func NewApp(c *config.Config) (*App, error) {
	if c.ServerURL == "" {
		return nil, fmt.Errorf("server URL is not configured")
	}

	api := client.NewHTTPClient(c.ServerURL, c.Timeout)

	return &App{config: c, api: api, reader: bufio.NewReader(os.Stdin), out: os.Stdout}, nil
}

func (a *App) Run(ctx context.Context) {
	printlnFn("Welcome to gophauth CLI (type 'help' for commands)")
	runREPL(ctx, a, a.getStatus, a.reader)
}

func (a *App) isLoggedIn() bool {
	return a.session.Active()
}

func (a *App) getStatus() string {
	if !a.isLoggedIn() || a.session.User == nil {
		return ""
	}
	return fmt.Sprintf("(%s)", a.session.User.Username)
}

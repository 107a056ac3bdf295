package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/dmitrijs2005/gophtodo/internal/client/client"
	"github.com/dmitrijs2005/gophtodo/internal/client/config"
	"github.com/dmitrijs2005/gophtodo/internal/filex"
)

// Test seams for interactive input.
var (
	getSimpleText = GetSimpleText
	getPassword   = GetPassword
)

var ErrUsage = errors.New("usage")

type App struct {
	config *config.Config
	client client.Client
	reader *bufio.Reader
	out    io.Writer
}

func NewApp(c *config.Config) *App {
	return &App{
		config: c,
		client: client.NewHTTPClient(c.ServerURL, c.TokenHeader, c.RequestTimeout),
		reader: bufio.NewReader(os.Stdin),
		out:    os.Stdout,
	}
}

type command struct {
	usage  string
	authed bool
	run    func(a *App, ctx context.Context, args []string) error
}

var commands = map[string]command{
	"signup":     {usage: "signup [email]", run: (*App).signup},
	"login":      {usage: "login [email]", run: (*App).login},
	"logout":     {usage: "logout", authed: true, run: (*App).logout},
	"logout-all": {usage: "logout-all", authed: true, run: (*App).logoutAll},
	"list":       {usage: "list [all|done|open] [search]", authed: true, run: (*App).list},
	"add":        {usage: "add <description>", authed: true, run: (*App).add},
	"done":       {usage: "done <id>", authed: true, run: (*App).done},
	"rm":         {usage: "rm <id>", authed: true, run: (*App).remove},
}

var commandOrder = []string{"signup", "login", "logout", "logout-all", "list", "add", "done", "rm"}

// Run executes the command named by args[0].
func (a *App) Run(ctx context.Context, args []string) error {
	if len(args) == 0 || args[0] == "help" {
		a.help()
		return nil
	}

	cmd, ok := commands[args[0]]
	if !ok {
		a.help()
		return fmt.Errorf("%w: unknown command %q", ErrUsage, args[0])
	}

	if cmd.authed {
		if err := a.loadToken(); err != nil {
			return err
		}
	}

	err := cmd.run(a, ctx, args[1:])
	switch {
	case errors.Is(err, ErrUsage):
		return fmt.Errorf("%w: todoctl %s", ErrUsage, cmd.usage)
	case errors.Is(err, client.ErrUnauthorized) && cmd.authed:
		_ = filex.RemoveSecret(a.config.TokenFile)
		return errors.New("session is no longer valid, run todoctl login")
	}
	return err
}

func (a *App) help() {
	fmt.Fprintln(a.out, "Usage: todoctl [-a url] [-t token-file] [-H header] [-w seconds] [-c config] <command>")
	fmt.Fprintln(a.out, "Commands:")
	for _, name := range commandOrder {
		fmt.Fprintln(a.out, "  "+commands[name].usage)
	}
}

func (a *App) loadToken() error {
	token, err := filex.ReadSecret(a.config.TokenFile)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return errors.New("not logged in, run todoctl login")
		}
		return fmt.Errorf("read token: %w", err)
	}
	a.client.SetToken(token)
	return nil
}

func (a *App) saveToken() error {
	if err := filex.WriteSecret(a.config.TokenFile, []byte(a.client.Token())); err != nil {
		return fmt.Errorf("save token: %w", err)
	}
	return nil
}

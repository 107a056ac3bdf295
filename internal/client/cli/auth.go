package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/gophtodo/internal/client/client"
	"github.com/dmitrijs2005/gophtodo/internal/cryptox"
	"github.com/dmitrijs2005/gophtodo/internal/filex"
)

func (a *App) credentials(args []string) (string, []byte, error) {
	var email string
	switch len(args) {
	case 0:
		var err error
		email, err = getSimpleText(a.reader, "Email", a.out)
		if err != nil {
			return "", nil, err
		}
	case 1:
		email = args[0]
	default:
		return "", nil, ErrUsage
	}

	password, err := getPassword(a.out)
	if err != nil {
		return "", nil, err
	}
	return email, password, nil
}

func (a *App) signup(ctx context.Context, args []string) error {
	email, password, err := a.credentials(args)
	if err != nil {
		return err
	}
	defer cryptox.WipeByteArray(password)

	user, err := a.client.Signup(ctx, email, password)
	if err != nil {
		return fmt.Errorf("signup failed: %w", err)
	}

	fmt.Fprintf(a.out, "Account %s created, run todoctl login\n", user.Email)
	return nil
}

func (a *App) login(ctx context.Context, args []string) error {
	email, password, err := a.credentials(args)
	if err != nil {
		return err
	}
	defer cryptox.WipeByteArray(password)

	user, err := a.client.Login(ctx, email, password)
	if err != nil {
		if errors.Is(err, client.ErrUnauthorized) {
			return errors.New("login failed: wrong email or password")
		}
		return fmt.Errorf("login failed: %w", err)
	}

	if err := a.saveToken(); err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Logged in as %s\n", user.Email)
	return nil
}

func (a *App) logout(ctx context.Context, args []string) error {
	if len(args) != 0 {
		return ErrUsage
	}
	if err := a.client.Logout(ctx); err != nil && !errors.Is(err, client.ErrUnauthorized) {
		return fmt.Errorf("logout failed: %w", err)
	}
	if err := filex.RemoveSecret(a.config.TokenFile); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Logged out")
	return nil
}

func (a *App) logoutAll(ctx context.Context, args []string) error {
	if len(args) != 0 {
		return ErrUsage
	}
	if err := a.client.LogoutAll(ctx); err != nil {
		return fmt.Errorf("logout failed: %w", err)
	}
	if err := filex.RemoveSecret(a.config.TokenFile); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Logged out everywhere")
	return nil
}

package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/gophtodo/internal/client/models"
	"github.com/dmitrijs2005/gophtodo/internal/common"
)

func (a *App) list(ctx context.Context, args []string) error {
	var filter models.TodoFilter
	if len(args) > 0 {
		switch args[0] {
		case "all":
			args = args[1:]
		case "done":
			v := true
			filter.Completed = &v
			args = args[1:]
		case "open":
			v := false
			filter.Completed = &v
			args = args[1:]
		}
	}
	filter.Query = strings.Join(args, " ")

	items, err := a.client.ListTodos(ctx, filter)
	if err != nil {
		return err
	}

	if len(items) == 0 {
		fmt.Fprintln(a.out, "No todos")
		return nil
	}
	for _, item := range items {
		mark := " "
		if item.Completed {
			mark = "x"
		}
		fmt.Fprintf(a.out, "[%s] %d  %s\n", mark, item.ID, item.Description)
	}
	return nil
}

func (a *App) add(ctx context.Context, args []string) error {
	description := strings.Join(args, " ")
	if strings.TrimSpace(description) == "" {
		return ErrUsage
	}

	item, err := a.client.AddTodo(ctx, description)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Added %d\n", item.ID)
	return nil
}

func (a *App) done(ctx context.Context, args []string) error {
	id, err := parseID(args)
	if err != nil {
		return err
	}

	if _, err := a.client.CompleteTodo(ctx, id); err != nil {
		return notFound(id, err)
	}
	fmt.Fprintf(a.out, "Completed %d\n", id)
	return nil
}

func (a *App) remove(ctx context.Context, args []string) error {
	id, err := parseID(args)
	if err != nil {
		return err
	}

	if err := a.client.DeleteTodo(ctx, id); err != nil {
		return notFound(id, err)
	}
	fmt.Fprintf(a.out, "Removed %d\n", id)
	return nil
}

func parseID(args []string) (int64, error) {
	if len(args) != 1 {
		return 0, ErrUsage
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return 0, ErrUsage
	}
	return id, nil
}

func notFound(id int64, err error) error {
	if errors.Is(err, common.ErrorNotFound) {
		return fmt.Errorf("no todo with id %d", id)
	}
	return err
}

package client

import (
	"context"

	"github.com/dmitrijs2005/gophtodo/internal/client/models"
)

type Client interface {
	Token() string
	SetToken(token string)
	Ping(ctx context.Context) error
	Signup(ctx context.Context, email string, password []byte) (*models.User, error)
	Login(ctx context.Context, email string, password []byte) (*models.User, error)
	Logout(ctx context.Context) error
	LogoutAll(ctx context.Context) error
	ListTodos(ctx context.Context, filter models.TodoFilter) ([]models.Todo, error)
	AddTodo(ctx context.Context, description string) (*models.Todo, error)
	CompleteTodo(ctx context.Context, id int64) (*models.Todo, error)
	DeleteTodo(ctx context.Context, id int64) error
}

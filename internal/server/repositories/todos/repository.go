// Package todos persists todo items. Every operation is scoped to the owning
// user; another user's todo is indistinguishable from a missing one.
package todos

import (
	"context"

	"github.com/dmitrijs2005/gophtodo/internal/server/models"
)

type Repository interface {
	List(ctx context.Context, userID string, filter models.TodoFilter) ([]models.Todo, error)
	Get(ctx context.Context, userID string, id int64) (*models.Todo, error)
	Create(ctx context.Context, todo *models.Todo) (*models.Todo, error)
	// Update writes Description and Completed of todo. Returns
	// common.ErrorNotFound when the todo does not belong to todo.UserID.
	Update(ctx context.Context, todo *models.Todo) (*models.Todo, error)
	Delete(ctx context.Context, userID string, id int64) error
}

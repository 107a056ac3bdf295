package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/gophtodo/internal/common"
	"github.com/dmitrijs2005/gophtodo/internal/dbx"
	"github.com/dmitrijs2005/gophtodo/internal/server/models"
	"github.com/dmitrijs2005/gophtodo/internal/server/repositories/repomanager"
	"github.com/go-playground/validator/v10"
)

// TodoInput carries the client-settable fields of a todo. Nil fields are
// left untouched on update.
type TodoInput struct {
	Description *string `json:"description"`
	Completed   *bool   `json:"completed"`
}

type TodoService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	validate    *validator.Validate
}

func NewTodoService(db *sql.DB, m repomanager.RepositoryManager) *TodoService {
	return &TodoService{
		db:          db,
		repomanager: m,
		validate:    validator.New(),
	}
}

func (s *TodoService) List(ctx context.Context, userID string, filter models.TodoFilter) ([]models.Todo, error) {
	items, err := s.repomanager.Todos(s.db).List(ctx, userID, filter)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrStoreUnavailable, err)
	}
	return items, nil
}

func (s *TodoService) Get(ctx context.Context, userID string, id int64) (*models.Todo, error) {
	item, err := s.repomanager.Todos(s.db).Get(ctx, userID, id)
	return item, storeErr(err)
}

func (s *TodoService) Create(ctx context.Context, userID string, in TodoInput) (*models.Todo, error) {
	if in.Description == nil {
		return nil, fmt.Errorf("%w: description is required", common.ErrorValidation)
	}

	todo := &models.Todo{UserID: userID, Description: *in.Description}
	if in.Completed != nil {
		todo.Completed = *in.Completed
	}
	if err := s.check(todo); err != nil {
		return nil, err
	}

	item, err := s.repomanager.Todos(s.db).Create(ctx, todo)
	return item, storeErr(err)
}

// Update applies in to the user's todo inside one transaction.
func (s *TodoService) Update(ctx context.Context, userID string, id int64, in TodoInput) (*models.Todo, error) {
	var updated *models.Todo

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Todos(tx)

		todo, err := repo.Get(ctx, userID, id)
		if err != nil {
			return err
		}
		if in.Description != nil {
			todo.Description = *in.Description
		}
		if in.Completed != nil {
			todo.Completed = *in.Completed
		}
		if err := s.check(todo); err != nil {
			return err
		}

		updated, err = repo.Update(ctx, todo)
		return err
	})
	if err != nil {
		return nil, storeErr(err)
	}
	return updated, nil
}

func (s *TodoService) Delete(ctx context.Context, userID string, id int64) error {
	return storeErr(s.repomanager.Todos(s.db).Delete(ctx, userID, id))
}

func (s *TodoService) check(todo *models.Todo) error {
	if err := s.validate.Var(todo.Description, "min=1,max=250"); err != nil {
		return fmt.Errorf("%w: description must be 1 to 250 characters", common.ErrorValidation)
	}
	return nil
}

// storeErr passes domain errors through and marks everything else as a
// store failure.
func storeErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, common.ErrorNotFound), errors.Is(err, common.ErrorValidation):
		return err
	default:
		return fmt.Errorf("%w: %w", common.ErrStoreUnavailable, err)
	}
}

package todos

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/gophtodo/internal/common"
	"github.com/dmitrijs2005/gophtodo/internal/dbx"
	"github.com/dmitrijs2005/gophtodo/internal/server/models"
)

type SQLRepository struct {
	db dbx.DBTX
}

func NewSQLRepository(db dbx.DBTX) *SQLRepository {
	return &SQLRepository{db: db}
}

const todoColumns = `id, user_id, description, completed, created_at, updated_at`

func (r *SQLRepository) List(ctx context.Context, userID string, filter models.TodoFilter) ([]models.Todo, error) {
	conds := []string{"user_id = $1"}
	args := []any{userID}

	if filter.Completed != nil {
		args = append(args, *filter.Completed)
		conds = append(conds, fmt.Sprintf("completed = $%d", len(args)))
	}
	if filter.Query != "" {
		args = append(args, "%"+strings.ToLower(filter.Query)+"%")
		conds = append(conds, fmt.Sprintf("LOWER(description) LIKE $%d", len(args)))
	}

	query := `SELECT ` + todoColumns + ` FROM todos WHERE ` + strings.Join(conds, " AND ") + ` ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := []models.Todo{}
	for rows.Next() {
		var item models.Todo
		if err := rows.Scan(&item.ID, &item.UserID, &item.Description, &item.Completed, &item.CreatedAt, &item.UpdatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

func (r *SQLRepository) Get(ctx context.Context, userID string, id int64) (*models.Todo, error) {
	query := `SELECT ` + todoColumns + ` FROM todos
		 WHERE id = $1 AND user_id = $2`

	item := &models.Todo{}
	err := r.db.QueryRowContext(ctx, query, id, userID).
		Scan(&item.ID, &item.UserID, &item.Description, &item.Completed, &item.CreatedAt, &item.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return item, nil
}

func (r *SQLRepository) Create(ctx context.Context, todo *models.Todo) (*models.Todo, error) {
	now := time.Now().UTC()
	todo.CreatedAt, todo.UpdatedAt = now, now

	query :=
		`INSERT INTO todos (user_id, description, completed, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id`

	err := r.db.QueryRowContext(ctx, query,
		todo.UserID, todo.Description, todo.Completed, todo.CreatedAt, todo.UpdatedAt).Scan(&todo.ID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return todo, nil
}

func (r *SQLRepository) Update(ctx context.Context, todo *models.Todo) (*models.Todo, error) {
	todo.UpdatedAt = time.Now().UTC()

	query :=
		`UPDATE todos SET description = $1, completed = $2, updated_at = $3
		 WHERE id = $4 AND user_id = $5`

	res, err := r.db.ExecContext(ctx, query, todo.Description, todo.Completed, todo.UpdatedAt, todo.ID, todo.UserID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return nil, common.ErrorNotFound
	}
	return todo, nil
}

func (r *SQLRepository) Delete(ctx context.Context, userID string, id int64) error {
	query := `DELETE FROM todos WHERE id = $1 AND user_id = $2`

	res, err := r.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

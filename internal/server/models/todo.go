package models

import "time"

type Todo struct {
	ID          int64     `json:"id"`
	UserID      string    `json:"userId"`
	Description string    `json:"description"`
	Completed   bool      `json:"completed"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// TodoFilter narrows a todo listing. Nil Completed and empty Query match all.
type TodoFilter struct {
	Completed *bool
	Query     string
}

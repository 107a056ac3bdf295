package httpapi

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/dmitrijs2005/gophtodo/internal/common"
	"github.com/dmitrijs2005/gophtodo/internal/server/models"
	"github.com/dmitrijs2005/gophtodo/internal/server/services"
	"github.com/gin-gonic/gin"
)

func (s *HTTPServer) listTodos(c *gin.Context) {
	user, _ := identity(c)

	var filter models.TodoFilter
	switch c.Query("completed") {
	case "true":
		v := true
		filter.Completed = &v
	case "false":
		v := false
		filter.Completed = &v
	}
	filter.Query = c.Query("q")

	items, err := s.todos.List(c.Request.Context(), user.ID, filter)
	if err != nil {
		s.todoError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

func (s *HTTPServer) getTodo(c *gin.Context) {
	user, _ := identity(c)
	id, ok := todoID(c)
	if !ok {
		return
	}

	item, err := s.todos.Get(c.Request.Context(), user.ID, id)
	if err != nil {
		s.todoError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func (s *HTTPServer) createTodo(c *gin.Context) {
	user, _ := identity(c)

	var in services.TodoInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid todo"})
		return
	}

	item, err := s.todos.Create(c.Request.Context(), user.ID, in)
	if err != nil {
		s.todoError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func (s *HTTPServer) updateTodo(c *gin.Context) {
	user, _ := identity(c)
	id, ok := todoID(c)
	if !ok {
		return
	}

	var in services.TodoInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid todo"})
		return
	}

	item, err := s.todos.Update(c.Request.Context(), user.ID, id, in)
	if err != nil {
		s.todoError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func (s *HTTPServer) deleteTodo(c *gin.Context) {
	user, _ := identity(c)
	id, ok := todoID(c)
	if !ok {
		return
	}

	if err := s.todos.Delete(c.Request.Context(), user.ID, id); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "No todo with id"})
			return
		}
		s.todoError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// todoID parses :id. A malformed id cannot name a todo, so it is a 404.
func todoID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.Status(http.StatusNotFound)
		return 0, false
	}
	return id, true
}

func (s *HTTPServer) todoError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, common.ErrorNotFound):
		c.Status(http.StatusNotFound)
	case errors.Is(err, common.ErrorValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		s.logger.Error(c.Request.Context(), "todo request failed", "error", err)
		c.Status(http.StatusInternalServerError)
	}
}

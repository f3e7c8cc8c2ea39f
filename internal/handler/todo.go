package handler

import (
	"net/http"

	"execution-os/internal/middleware"
	"execution-os/internal/model"
	"execution-os/internal/service"

	"github.com/gin-gonic/gin"
)

type TodoHandler struct{ todos *service.TodoService }

func NewTodoHandler(todos *service.TodoService) *TodoHandler { return &TodoHandler{todos: todos} }

func (h *TodoHandler) Create(c *gin.Context) {
	var req model.CreateTodoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request")
		return
	}
	t, err := h.todos.Create(c.Request.Context(), middleware.UserID(c), req)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, t)
}

// List returns one day's todos when ?date= is set, otherwise all todos
// filtered by ?category= and ?status=.
func (h *TodoHandler) List(c *gin.Context) {
	uid := middleware.UserID(c)
	if v := c.Query("date"); v != "" {
		d, err := model.ParseDate(v)
		if err != nil {
			badRequest(c, "date must be YYYY-MM-DD")
			return
		}
		out, err := h.todos.ByDate(c.Request.Context(), uid, d)
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, out)
		return
	}
	out, err := h.todos.List(c.Request.Context(), uid, c.Query("category"), c.Query("status"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *TodoHandler) Update(c *gin.Context) {
	var req model.UpdateTodoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request")
		return
	}
	t, err := h.todos.Update(c.Request.Context(), middleware.UserID(c), c.Param("id"), req)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, t)
}

func (h *TodoHandler) Delete(c *gin.Context) {
	if err := h.todos.Delete(c.Request.Context(), middleware.UserID(c), c.Param("id")); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"time"

	"execution-os/internal/logger"
	"execution-os/internal/model"

	"gorm.io/gorm"
)

var todoStatuses = []string{model.TodoPending, model.TodoInProgress, model.TodoDone}

func statusRank(s string) int {
	for i, v := range todoStatuses {
		if v == s {
			return i
		}
	}
	return len(todoStatuses)
}

type TodoService struct {
	db  *gorm.DB
	now func() time.Time
}

func NewTodoService(db *gorm.DB) *TodoService { return &TodoService{db: db, now: time.Now} }

// Create appends a todo to its due date's list. Unknown categories fall back
// to Personal and a missing due date means today.
func (s *TodoService) Create(ctx context.Context, userID string, req model.CreateTodoRequest) (*model.TodoResponse, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	category, ok := canonical(req.Category, model.TodoCategories)
	if !ok {
		category = "Personal"
	}
	due := model.Day(s.now())
	if req.DueDate != nil && *req.DueDate != "" {
		d, err := model.ParseDate(*req.DueDate)
		if err != nil {
			return nil, invalidf("due_date %q", *req.DueDate)
		}
		due = d
	}

	t := model.TodoItem{
		UserID: userID, Title: req.Title, Description: req.Description,
		Category: category, Status: model.TodoPending, DueDate: due,
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var maxOrder sql.NullInt64
		err := tx.Model(&model.TodoItem{}).
			Where("user_id = ? AND due_date = ?", userID, due).
			Select("MAX(sort_order)").Row().Scan(&maxOrder)
		if err != nil {
			return fmt.Errorf("query sort order: %w", err)
		}
		if maxOrder.Valid {
			t.SortOrder = int(maxOrder.Int64) + 1
		}
		if err := tx.Create(&t).Error; err != nil {
			return fmt.Errorf("insert todo: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	logger.Info("todo.created", "uid", userID, "todo", t.ID, "due", model.FormatDate(due))
	resp := todoResponse(t)
	return &resp, nil
}

// ByDate lists one day's todos, pending first.
func (s *TodoService) ByDate(ctx context.Context, userID string, date time.Time) ([]model.TodoResponse, error) {
	var rows []model.TodoItem
	err := s.db.WithContext(ctx).Where("user_id = ? AND due_date = ?", userID, model.Day(date)).Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("query todos: %w", err)
	}
	sortTodos(rows)
	return todoResponses(rows), nil
}

// List filters by category and status; unknown filter values are ignored.
func (s *TodoService) List(ctx context.Context, userID, category, status string) ([]model.TodoResponse, error) {
	q := s.db.WithContext(ctx).Where("user_id = ?", userID)
	if c, ok := canonical(category, model.TodoCategories); ok {
		q = q.Where("category = ?", c)
	}
	if st, ok := canonical(status, todoStatuses); ok {
		q = q.Where("status = ?", st)
	}
	var rows []model.TodoItem
	if err := q.Order("due_date DESC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("query todos: %w", err)
	}
	sortTodos(rows)
	return todoResponses(rows), nil
}

func (s *TodoService) Update(ctx context.Context, userID, todoID string, req model.UpdateTodoRequest) (*model.TodoResponse, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	t, err := s.find(ctx, userID, todoID)
	if err != nil {
		return nil, err
	}
	if req.Title != nil {
		t.Title = *req.Title
	}
	if req.Description != nil {
		t.Description = req.Description
	}
	if req.Category != nil {
		if c, ok := canonical(*req.Category, model.TodoCategories); ok {
			t.Category = c
		}
	}
	if req.Status != nil {
		if st, ok := canonical(*req.Status, todoStatuses); ok {
			t.Status = st
		}
	}
	if req.DueDate != nil {
		d, err := model.ParseDate(*req.DueDate)
		if err != nil {
			return nil, invalidf("due_date %q", *req.DueDate)
		}
		t.DueDate = d
	}
	if err := s.db.WithContext(ctx).Save(t).Error; err != nil {
		return nil, fmt.Errorf("update todo: %w", err)
	}
	logger.Info("todo.updated", "uid", userID, "todo", todoID)
	resp := todoResponse(*t)
	return &resp, nil
}

func (s *TodoService) Delete(ctx context.Context, userID, todoID string) error {
	t, err := s.find(ctx, userID, todoID)
	if err != nil {
		return err
	}
	if err := s.db.WithContext(ctx).Delete(t).Error; err != nil {
		return fmt.Errorf("delete todo: %w", err)
	}
	logger.Info("todo.deleted", "uid", userID, "todo", todoID)
	return nil
}

func (s *TodoService) find(ctx context.Context, userID, todoID string) (*model.TodoItem, error) {
	var t model.TodoItem
	err := s.db.WithContext(ctx).Where("id = ? AND user_id = ?", todoID, userID).First(&t).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("todo %s: %w", todoID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("query todo: %w", err)
	}
	return &t, nil
}

// sortTodos orders by due date desc, then status, then sort order.
func sortTodos(rows []model.TodoItem) {
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if !model.Day(a.DueDate).Equal(model.Day(b.DueDate)) {
			return a.DueDate.After(b.DueDate)
		}
		if ra, rb := statusRank(a.Status), statusRank(b.Status); ra != rb {
			return ra < rb
		}
		return a.SortOrder < b.SortOrder
	})
}

func todoResponse(t model.TodoItem) model.TodoResponse {
	return model.TodoResponse{
		ID: t.ID, Title: t.Title, Description: t.Description,
		Category: t.Category, Status: t.Status, DueDate: model.FormatDate(t.DueDate),
		SortOrder: t.SortOrder, CreatedAt: t.CreatedAt, UpdatedAt: t.UpdatedAt,
	}
}

func todoResponses(rows []model.TodoItem) []model.TodoResponse {
	out := make([]model.TodoResponse, 0, len(rows))
	for _, t := range rows {
		out = append(out, todoResponse(t))
	}
	return out
}

package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"execution-os/internal/logger"
	"execution-os/internal/model"

	"gorm.io/gorm"
)

const (
	MaxActiveProjects      = 2
	MinJustificationLength = 50
)

var projectStatuses = []string{model.ProjectActive, model.ProjectPaused, model.ProjectCompleted, model.ProjectDropped}

type ProjectService struct {
	db    *gorm.DB
	coach Coach
	now   func() time.Time
}

func NewProjectService(db *gorm.DB, coach Coach) *ProjectService {
	return &ProjectService{db: db, coach: coach, now: time.Now}
}

func (s *ProjectService) Create(ctx context.Context, userID string, req model.CreateProjectRequest) (*model.Project, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	var p model.Project
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		n, err := countActive(tx, userID)
		if err != nil {
			return err
		}
		if n >= MaxActiveProjects {
			return fmt.Errorf("%w: already %d active projects; submit a change request to swap one", ErrConflict, MaxActiveProjects)
		}
		p = model.Project{UserID: userID, GoalID: req.GoalID, Title: req.Title, Description: req.Description, Status: model.ProjectActive}
		if err := tx.Create(&p).Error; err != nil {
			return fmt.Errorf("insert project: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	logger.Info("project.created", "uid", userID, "project", p.ID)
	return &p, nil
}

func countActive(tx *gorm.DB, userID string) (int64, error) {
	var n int64
	err := tx.Model(&model.Project{}).Where("user_id = ? AND status = ?", userID, model.ProjectActive).Count(&n).Error
	if err != nil {
		return 0, fmt.Errorf("count projects: %w", err)
	}
	return n, nil
}

func (s *ProjectService) Active(ctx context.Context, userID string) ([]model.Project, error) {
	var out []model.Project
	err := s.db.WithContext(ctx).Where("user_id = ? AND status = ?", userID, model.ProjectActive).
		Order("created_at").Find(&out).Error
	if err != nil {
		return nil, fmt.Errorf("query projects: %w", err)
	}
	return out, nil
}

func (s *ProjectService) List(ctx context.Context, userID string) ([]model.Project, error) {
	var out []model.Project
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at DESC").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("query projects: %w", err)
	}
	return out, nil
}

// UpdateStatus accepts any status name case-insensitively. Reactivating a
// project still honours the active limit.
func (s *ProjectService) UpdateStatus(ctx context.Context, userID, projectID string, req model.UpdateProjectStatusRequest) (*model.Project, error) {
	status, ok := canonical(req.Status, projectStatuses)
	if !ok {
		return nil, invalidf("status %q", req.Status)
	}
	var p model.Project
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Where("id = ? AND user_id = ?", projectID, userID).First(&p).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("project %s: %w", projectID, ErrNotFound)
		}
		if err != nil {
			return fmt.Errorf("query project: %w", err)
		}
		if status == model.ProjectActive && p.Status != model.ProjectActive {
			n, err := countActive(tx, userID)
			if err != nil {
				return err
			}
			if n >= MaxActiveProjects {
				return fmt.Errorf("%w: already %d active projects", ErrConflict, MaxActiveProjects)
			}
		}
		p.Status = status
		return tx.Save(&p).Error
	})
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// SubmitChange records a swap request together with the coach's verdict.
func (s *ProjectService) SubmitChange(ctx context.Context, userID string, req model.ProjectChangeRequestInput) (*model.ProjectChangeResponse, error) {
	if utf8.RuneCountInString(strings.TrimSpace(req.Justification)) < MinJustificationLength {
		return nil, invalidf("justification must be at least %d characters; explain why the switch is necessary, not just exciting", MinJustificationLength)
	}
	if err := validateStruct(req); err != nil {
		return nil, err
	}

	var old model.Project
	err := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ? AND status = ?", req.ReplaceProjectID, userID, model.ProjectActive).
		First(&old).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("active project %s: %w", req.ReplaceProjectID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("query project: %w", err)
	}

	verdict, err := s.coach.EvaluateProjectChange(ctx, req.ProposedProjectTitle, req.Justification, old.Title)
	if err != nil {
		return nil, err
	}

	cr := model.ProjectChangeRequest{
		UserID:                     userID,
		ProposedProjectTitle:       req.ProposedProjectTitle,
		ProposedProjectDescription: req.ProposedProjectDescription,
		Justification:              req.Justification,
		ReplaceProjectID:           &old.ID,
		Status:                     model.ChangePending,
		AIRecommendation:           &verdict,
	}
	if err := s.db.WithContext(ctx).Create(&cr).Error; err != nil {
		return nil, fmt.Errorf("insert change request: %w", err)
	}
	logger.Info("project.change_requested", "uid", userID, "request", cr.ID, "replace", old.ID)
	return changeResponse(cr), nil
}

func (s *ProjectService) ListChanges(ctx context.Context, userID string) ([]model.ProjectChangeResponse, error) {
	var rows []model.ProjectChangeRequest
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at DESC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("query change requests: %w", err)
	}
	out := make([]model.ProjectChangeResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, *changeResponse(r))
	}
	return out, nil
}

// ApproveChange drops the replaced project and creates the proposed one.
func (s *ProjectService) ApproveChange(ctx context.Context, userID, requestID string) (*model.Project, error) {
	var created model.Project
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		cr, err := pendingChange(tx, userID, requestID)
		if err != nil {
			return err
		}
		if cr.ReplaceProjectID != nil {
			err := tx.Model(&model.Project{}).
				Where("id = ? AND user_id = ?", *cr.ReplaceProjectID, userID).
				Update("status", model.ProjectDropped).Error
			if err != nil {
				return fmt.Errorf("drop project: %w", err)
			}
		}
		n, err := countActive(tx, userID)
		if err != nil {
			return err
		}
		if n >= MaxActiveProjects {
			return fmt.Errorf("%w: already %d active projects", ErrConflict, MaxActiveProjects)
		}
		created = model.Project{
			UserID: userID, Title: cr.ProposedProjectTitle,
			Description: cr.ProposedProjectDescription, Status: model.ProjectActive,
		}
		if err := tx.Create(&created).Error; err != nil {
			return fmt.Errorf("insert project: %w", err)
		}
		return s.review(tx, cr, model.ChangeApproved)
	})
	if err != nil {
		return nil, err
	}
	logger.Info("project.change_approved", "uid", userID, "request", requestID, "project", created.ID)
	return &created, nil
}

func (s *ProjectService) DenyChange(ctx context.Context, userID, requestID string) (*model.ProjectChangeResponse, error) {
	var out *model.ProjectChangeResponse
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		cr, err := pendingChange(tx, userID, requestID)
		if err != nil {
			return err
		}
		if err := s.review(tx, cr, model.ChangeDenied); err != nil {
			return err
		}
		out = changeResponse(*cr)
		return nil
	})
	if err != nil {
		return nil, err
	}
	logger.Info("project.change_denied", "uid", userID, "request", requestID)
	return out, nil
}

func pendingChange(tx *gorm.DB, userID, requestID string) (*model.ProjectChangeRequest, error) {
	var cr model.ProjectChangeRequest
	err := tx.Where("id = ? AND user_id = ? AND status = ?", requestID, userID, model.ChangePending).First(&cr).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("pending change request %s: %w", requestID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("query change request: %w", err)
	}
	return &cr, nil
}

func (s *ProjectService) review(tx *gorm.DB, cr *model.ProjectChangeRequest, status string) error {
	now := s.now().UTC()
	cr.Status = status
	cr.ReviewedAt = &now
	if err := tx.Save(cr).Error; err != nil {
		return fmt.Errorf("update change request: %w", err)
	}
	return nil
}

func changeResponse(cr model.ProjectChangeRequest) *model.ProjectChangeResponse {
	return &model.ProjectChangeResponse{
		ID: cr.ID, ProposedProjectTitle: cr.ProposedProjectTitle,
		Justification: cr.Justification, Status: cr.Status,
		AIRecommendation: cr.AIRecommendation, CreatedAt: cr.CreatedAt,
	}
}

// canonical matches v case-insensitively against allowed.
func canonical(v string, allowed []string) (string, bool) {
	for _, a := range allowed {
		if strings.EqualFold(v, a) {
			return a, true
		}
	}
	return "", false
}

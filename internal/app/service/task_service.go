package service

import (
	"errors"
	"time"

	"github.com/salgsflyt/salgsflyt-backend/internal/app/model"
	"github.com/salgsflyt/salgsflyt-backend/internal/app/repository"
	"github.com/salgsflyt/salgsflyt-backend/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrTaskNotFound    = errors.New("task not found")
	ErrInvalidPriority = errors.New("invalid task priority")
)

type TaskService interface {
	Create(workspaceID uint, task *model.Task) error
	GetByID(workspaceID, id uint) (*model.Task, error)
	List(workspaceID uint, filter repository.TaskFilter) ([]model.Task, error)
	Update(workspaceID, id uint, input TaskUpdate) (*model.Task, error)
	SetDone(workspaceID, id uint, done bool) (*model.Task, error)
	Delete(workspaceID, id uint) error
}

// TaskUpdate er en delvis oppdatering; nil-felter røres ikke
type TaskUpdate struct {
	Title       *string             `json:"title"`
	Description *string             `json:"description"`
	DueDate     *time.Time          `json:"due_date"`
	Done        *bool               `json:"done"`
	Priority    *model.TaskPriority `json:"priority"`
}

type taskService struct {
	taskRepo     repository.TaskRepository
	businessRepo repository.BusinessRepository
}

func NewTaskService(taskRepo repository.TaskRepository, businessRepo repository.BusinessRepository) TaskService {
	return &taskService{taskRepo: taskRepo, businessRepo: businessRepo}
}

func (s *taskService) Create(workspaceID uint, task *model.Task) error {
	task.WorkspaceID = workspaceID
	if task.Priority == "" {
		task.Priority = model.PriorityMedium
	}
	if !model.ValidPriority(task.Priority) {
		return ErrInvalidPriority
	}
	// Oppgaven kan stå alene eller høre til en bedrift i samme arbeidsområde
	if task.BusinessID != nil {
		if _, err := s.businessRepo.FindByID(workspaceID, *task.BusinessID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrBusinessNotFound
			}
			return err
		}
	}
	if err := s.taskRepo.Create(task); err != nil {
		logger.Error("Failed to create task", err, map[string]interface{}{
			"workspace_id": workspaceID,
			"title":        task.Title,
		})
		return err
	}
	return nil
}

func (s *taskService) GetByID(workspaceID, id uint) (*model.Task, error) {
	task, err := s.taskRepo.FindByID(workspaceID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, err
	}
	return task, nil
}

func (s *taskService) List(workspaceID uint, filter repository.TaskFilter) ([]model.Task, error) {
	return s.taskRepo.FindAll(workspaceID, filter)
}

func (s *taskService) Update(workspaceID, id uint, input TaskUpdate) (*model.Task, error) {
	task, err := s.GetByID(workspaceID, id)
	if err != nil {
		return nil, err
	}
	if input.Priority != nil {
		if !model.ValidPriority(*input.Priority) {
			return nil, ErrInvalidPriority
		}
		task.Priority = *input.Priority
	}
	if input.Title != nil {
		task.Title = *input.Title
	}
	if input.Description != nil {
		task.Description = *input.Description
	}
	if input.DueDate != nil {
		task.DueDate = input.DueDate
	}
	if input.Done != nil {
		task.Done = *input.Done
	}
	if err := s.taskRepo.Update(task); err != nil {
		return nil, err
	}
	return task, nil
}

func (s *taskService) SetDone(workspaceID, id uint, done bool) (*model.Task, error) {
	return s.Update(workspaceID, id, TaskUpdate{Done: &done})
}

func (s *taskService) Delete(workspaceID, id uint) error {
	if err := s.taskRepo.Delete(workspaceID, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTaskNotFound
		}
		return err
	}
	return nil
}

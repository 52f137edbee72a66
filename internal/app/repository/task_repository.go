package repository

import (
	"time"

	"github.com/salgsflyt/salgsflyt-backend/internal/app/model"
	"github.com/salgsflyt/salgsflyt-backend/pkg/logger"
	"gorm.io/gorm"
)

type TaskFilter struct {
	BusinessID *uint
	Done       *bool
	DueBefore  *time.Time
}

type TaskRepository interface {
	Create(task *model.Task) error
	Update(task *model.Task) error
	Delete(workspaceID, id uint) error
	FindByID(workspaceID, id uint) (*model.Task, error)
	FindAll(workspaceID uint, filter TaskFilter) ([]model.Task, error)
	CountDue(workspaceID uint, before time.Time) (int64, error)
}

type taskRepository struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &taskRepository{db: db}
}

func (r *taskRepository) Create(task *model.Task) error {
	if err := r.db.Create(task).Error; err != nil {
		logger.Error("Failed to create task in database", err, map[string]interface{}{
			"title":        task.Title,
			"workspace_id": task.WorkspaceID,
		})
		return err
	}
	return nil
}

func (r *taskRepository) Update(task *model.Task) error {
	if err := r.db.Save(task).Error; err != nil {
		logger.Error("Failed to update task in database", err, map[string]interface{}{
			"task_id": task.ID,
		})
		return err
	}
	return nil
}

func (r *taskRepository) Delete(workspaceID, id uint) error {
	result := r.db.Where("workspace_id = ?", workspaceID).Delete(&model.Task{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *taskRepository) FindByID(workspaceID, id uint) (*model.Task, error) {
	var task model.Task
	if err := r.db.Where("workspace_id = ?", workspaceID).First(&task, id).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

func (r *taskRepository) FindAll(workspaceID uint, filter TaskFilter) ([]model.Task, error) {
	query := r.db.Model(&model.Task{}).Where("workspace_id = ?", workspaceID)

	if filter.BusinessID != nil {
		query = query.Where("business_id = ?", *filter.BusinessID)
	}
	if filter.Done != nil {
		query = query.Where("done = ?", *filter.Done)
	}
	if filter.DueBefore != nil {
		query = query.Where("due_date IS NOT NULL AND due_date < ?", *filter.DueBefore)
	}

	var tasks []model.Task
	if err := query.Order("due_date ASC").Find(&tasks).Error; err != nil {
		logger.Error("Failed to find tasks", err, map[string]interface{}{
			"workspace_id": workspaceID,
		})
		return nil, err
	}
	return tasks, nil
}

func (r *taskRepository) CountDue(workspaceID uint, before time.Time) (int64, error) {
	var count int64
	if err := r.db.Model(&model.Task{}).
		Where("workspace_id = ? AND done = ? AND due_date IS NOT NULL AND due_date < ?",
			workspaceID, false, before).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

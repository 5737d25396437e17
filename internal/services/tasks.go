package services

import (
	"strings"
	"time"

	"task-tracker/backend/internal/models"
	"task-tracker/backend/internal/policy"

	"github.com/gofrs/uuid"
	"gorm.io/gorm"
)

type CreateTaskInput struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	Done        bool   `json:"done"`
}

// TaskPatch applies to both PATCH (any subset) and PUT (handler requires all
// fields); nil fields are left untouched.
type TaskPatch struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Done        *bool   `json:"done"`
}

type TaskService interface {
	CreateTask(db *gorm.DB, caller *models.User, input CreateTaskInput) (*models.Task, error)
	GetTask(db *gorm.DB, caller *models.User, id uuid.UUID) (*models.Task, error)
	UpdateTask(db *gorm.DB, caller *models.User, id uuid.UUID, patch TaskPatch) (*models.Task, error)
	DeleteTask(db *gorm.DB, caller *models.User, id uuid.UUID) error
	ListTasks(db *gorm.DB, caller *models.User, filter policy.TaskFilter) ([]models.Task, error)
	ListAllTasks(db *gorm.DB, caller *models.User) ([]models.Task, error)
}

type TaskServiceImpl struct{}

func NewTaskService() *TaskServiceImpl {
	return &TaskServiceImpl{}
}

// CreateTask stores a new task owned by the caller. Any owner supplied in the
// request payload never reaches this point; ownership is forced here.
func (s *TaskServiceImpl) CreateTask(db *gorm.DB, caller *models.User, input CreateTaskInput) (*models.Task, error) {
	if err := policy.AuthorizeTask(caller, policy.ActionCreate, nil); err != nil {
		return nil, err
	}
	title, err := validateTitle(input.Title)
	if err != nil {
		return nil, err
	}

	task := models.Task{
		ID:          uuid.Must(uuid.NewV4()),
		OwnerID:     caller.ID,
		Title:       title,
		Description: input.Description,
		Done:        input.Done,
		Created:     time.Now(),
	}
	if err := db.Create(&task).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

func (s *TaskServiceImpl) GetTask(db *gorm.DB, caller *models.User, id uuid.UUID) (*models.Task, error) {
	task, err := loadTask(db, id)
	if err != nil {
		return nil, err
	}
	if err := policy.AuthorizeTask(caller, policy.ActionRetrieve, task); err != nil {
		return nil, err
	}
	return task, nil
}

func (s *TaskServiceImpl) UpdateTask(db *gorm.DB, caller *models.User, id uuid.UUID, patch TaskPatch) (*models.Task, error) {
	task, err := loadTask(db, id)
	if err != nil {
		return nil, err
	}
	if err := policy.AuthorizeTask(caller, policy.ActionUpdate, task); err != nil {
		return nil, err
	}

	if patch.Title != nil {
		title, err := validateTitle(*patch.Title)
		if err != nil {
			return nil, err
		}
		task.Title = title
	}
	if patch.Description != nil {
		task.Description = *patch.Description
	}
	if patch.Done != nil {
		task.Done = *patch.Done
	}

	if err := db.Save(task).Error; err != nil {
		return nil, err
	}
	return task, nil
}

func (s *TaskServiceImpl) DeleteTask(db *gorm.DB, caller *models.User, id uuid.UUID) error {
	task, err := loadTask(db, id)
	if err != nil {
		return err
	}
	if err := policy.AuthorizeTask(caller, policy.ActionDestroy, task); err != nil {
		return err
	}
	return db.Delete(task).Error
}

// ListTasks returns the caller's visible set, narrowed by the filter. The
// board variant orders undone tasks first, each group by creation time.
func (s *TaskServiceImpl) ListTasks(db *gorm.DB, caller *models.User, filter policy.TaskFilter) ([]models.Task, error) {
	if err := policy.AuthorizeTask(caller, policy.ActionList, nil); err != nil {
		return nil, err
	}

	query := db.Model(&models.Task{})
	scope := policy.TaskScope(caller, filter.Owner)
	if scope.Owner != nil {
		query = query.Where("owner_id = ?", *scope.Owner)
	}
	if filter.Done != nil {
		query = query.Where("done = ?", *filter.Done)
	}
	if filter.Board {
		query = query.Order("done").Order("created")
	}

	var tasks []models.Task
	if err := query.Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

// ListAllTasks is the superuser-only listing of every task across owners.
// Even a task's own owner is denied here without the superuser flag.
func (s *TaskServiceImpl) ListAllTasks(db *gorm.DB, caller *models.User) ([]models.Task, error) {
	if err := policy.AuthorizeTask(caller, policy.ActionListAll, nil); err != nil {
		return nil, err
	}
	var tasks []models.Task
	if err := db.Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

func validateTitle(raw string) (string, error) {
	title := strings.TrimSpace(raw)
	if title == "" {
		return "", invalid("title", "title is required")
	}
	if len(title) > models.TitleMaxLength {
		return "", invalid("title", "title must be at most 50 characters")
	}
	return title, nil
}

func loadTask(db *gorm.DB, id uuid.UUID) (*models.Task, error) {
	var task models.Task
	if err := db.Where("id = ?", id).First(&task).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

package Models

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// TaskStore is the persistence gateway the lifecycle engine writes through.
// It is injected into the engine so the engine never touches a package-wide
// database handle.
type TaskStore interface {
	// CreateTask persists a new task. When focalPointIDs is non-nil the
	// referenced employees are attached as the focal point set; an unknown
	// id rejects the whole write.
	CreateTask(task *Task, focalPointIDs []uint) error
	// GetTask returns the task with its focal points preloaded, or nil when
	// no such task exists.
	GetTask(id uint) (*Task, error)
	// UpdateTask saves the task's fields. When focalPointIDs is non-nil the
	// focal point set is replaced wholesale (replace-set, not merge); nil
	// leaves the set untouched.
	UpdateTask(task *Task, focalPointIDs []uint) error
	// DeleteTask removes the task together with its history and focal point
	// links.
	DeleteTask(task *Task) error
	// CreateHistory appends one audit row.
	CreateHistory(entry *TaskHistory) error
	// Transaction runs fn against a store bound to a single transaction.
	Transaction(fn func(TaskStore) error) error
}

// GormTaskStore implements TaskStore on a gorm connection.
type GormTaskStore struct {
	db *gorm.DB
}

func NewGormTaskStore(db *gorm.DB) *GormTaskStore {
	return &GormTaskStore{db: db}
}

func (s *GormTaskStore) CreateTask(task *Task, focalPointIDs []uint) error {
	if focalPointIDs != nil {
		employees, err := s.employeesByIDs(focalPointIDs)
		if err != nil {
			return err
		}
		task.FocalPoints = employees
	}
	return s.db.Create(task).Error
}

func (s *GormTaskStore) GetTask(id uint) (*Task, error) {
	var task Task
	result := s.db.Preload("FocalPoints").First(&task, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return &task, nil
}

func (s *GormTaskStore) UpdateTask(task *Task, focalPointIDs []uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("FocalPoints").Save(task).Error; err != nil {
			return err
		}
		if focalPointIDs != nil {
			employees, err := (&GormTaskStore{db: tx}).employeesByIDs(focalPointIDs)
			if err != nil {
				return err
			}
			if err := tx.Model(task).Association("FocalPoints").Replace(employees); err != nil {
				return err
			}
		}
		return nil
	})
}

// DeleteTask cascades by hand: the sqlite foreign_keys pragma is not
// guaranteed to be on, so history rows and focal point links are removed in
// the same transaction as the task.
func (s *GormTaskStore) DeleteTask(task *Task) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("task_id = ?", task.ID).Delete(&TaskHistory{}).Error; err != nil {
			return err
		}
		if err := tx.Model(task).Association("FocalPoints").Clear(); err != nil {
			return err
		}
		return tx.Delete(task).Error
	})
}

func (s *GormTaskStore) CreateHistory(entry *TaskHistory) error {
	return s.db.Create(entry).Error
}

func (s *GormTaskStore) Transaction(fn func(TaskStore) error) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		return fn(&GormTaskStore{db: tx})
	})
}

func (s *GormTaskStore) employeesByIDs(ids []uint) ([]Employee, error) {
	employees := []Employee{}
	if len(ids) == 0 {
		return employees, nil
	}
	if err := s.db.Find(&employees, ids).Error; err != nil {
		return nil, err
	}
	if len(employees) != len(ids) {
		return nil, fmt.Errorf("unknown focal point id in %v", ids)
	}
	return employees, nil
}

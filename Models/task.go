package Models

import (
	"time"
)

type TaskStatus string

const (
	StatusPending   TaskStatus = "PENDING"
	StatusCompleted TaskStatus = "COMPLETED"
	StatusValidated TaskStatus = "VALIDATED"
)

type Frequency string

const (
	FrequencyNone       Frequency = "NONE"
	FrequencyWeekly     Frequency = "WEEKLY"
	FrequencyBiweekly   Frequency = "BIWEEKLY"
	FrequencyMonthly    Frequency = "MONTHLY"
	FrequencyBimonthly  Frequency = "BIMONTHLY"
	FrequencyQuarterly  Frequency = "QUARTERLY"
	FrequencySemiannual Frequency = "SEMIANNUAL"
	FrequencyAnnual     Frequency = "ANNUAL"
	FrequencyEventual   Frequency = "EVENTUAL"
)

type HistoryAction string

const (
	ActionCreate   HistoryAction = "CREATE"
	ActionUpdate   HistoryAction = "UPDATE"
	ActionComplete HistoryAction = "COMPLETE"
	ActionValidate HistoryAction = "VALIDATE"
)

// Task lifecycle: created PENDING, completed by an operator, validated by a
// manager. Validation of a recurring task spawns the next occurrence.
// CompletedAt is set iff status is COMPLETED or VALIDATED; ValidatedAt iff
// status is VALIDATED.
type Task struct {
	ID          uint          `json:"id" gorm:"primaryKey"`
	Title       string        `json:"title" gorm:"not null"`
	Description string        `json:"description"`
	DueDate     time.Time     `json:"due_date" gorm:"not null;index"`
	Status      TaskStatus    `json:"status" gorm:"not null;default:'PENDING'"`
	Frequency   Frequency     `json:"frequency" gorm:"not null;default:'NONE'"`
	CompletedAt *time.Time    `json:"completed_at"`
	ValidatedAt *time.Time    `json:"validated_at"`
	CreatedByID uint          `json:"created_by_id" gorm:"not null"`
	UnitID      uint          `json:"unit_id" gorm:"not null;index"`
	FocalPoints []Employee    `json:"focal_points" gorm:"many2many:task_focal_points;"`
	History     []TaskHistory `json:"history,omitempty" gorm:"foreignKey:TaskID"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

// TaskHistory is the append-only audit trail of a task. Rows are never
// updated or deleted individually; they only disappear when their task is
// deleted.
type TaskHistory struct {
	ID        uint          `json:"id" gorm:"primaryKey"`
	TaskID    uint          `json:"task_id" gorm:"not null;index"`
	UserID    uint          `json:"user_id" gorm:"not null"`
	User      User          `json:"user,omitempty" gorm:"foreignKey:UserID"`
	Action    HistoryAction `json:"action" gorm:"not null"`
	Detail    string        `json:"detail"`
	Timestamp time.Time     `json:"timestamp" gorm:"not null;index"`
}

type StatusColor string

const (
	ColorRed    StatusColor = "red"
	ColorYellow StatusColor = "yellow"
	ColorGreen  StatusColor = "green"
	ColorBlue   StatusColor = "blue"
	ColorGray   StatusColor = "gray"
)

// TaskStatusColor derives the display urgency of a task. COMPLETED tasks are
// blue (awaiting validation) and VALIDATED tasks are gray (cycle closed)
// regardless of due date. Everything else is compared against now as whole
// calendar days: overdue is red, due within 15 days is yellow, otherwise
// green. The inputs are not mutated; truncation happens on copies.
func TaskStatusColor(dueDate time.Time, status TaskStatus, now time.Time) StatusColor {
	if status == StatusCompleted {
		return ColorBlue
	}
	if status == StatusValidated {
		return ColorGray
	}

	due := dueDate.In(now.Location())
	due = time.Date(due.Year(), due.Month(), due.Day(), 0, 0, 0, 0, now.Location())
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	if due.Before(today) {
		return ColorRed
	}

	// Calendar arithmetic, not elapsed hours: a DST transition inside the
	// window must not shift the 15-day boundary
	if !due.After(today.AddDate(0, 0, 15)) {
		return ColorYellow
	}

	return ColorGreen
}

// NextDueDate returns the due date of the next occurrence, or nil when the
// frequency does not recur (NONE and EVENTUAL). Month and year arithmetic
// uses time.AddDate, which normalizes overflow: adding one month to Jan 31
// lands on Mar 2 (Mar 3 in non-leap years) rather than clamping to the last
// day of February.
func NextDueDate(current time.Time, frequency Frequency) *time.Time {
	var next time.Time
	switch frequency {
	case FrequencyWeekly:
		next = current.AddDate(0, 0, 7)
	case FrequencyBiweekly:
		next = current.AddDate(0, 0, 14)
	case FrequencyMonthly:
		next = current.AddDate(0, 1, 0)
	case FrequencyBimonthly:
		next = current.AddDate(0, 2, 0)
	case FrequencyQuarterly:
		next = current.AddDate(0, 3, 0)
	case FrequencySemiannual:
		next = current.AddDate(0, 6, 0)
	case FrequencyAnnual:
		next = current.AddDate(1, 0, 0)
	default:
		return nil
	}
	return &next
}

package Lifecycle

import (
	"errors"
	"fmt"
	"log"
	"reflect"
	"slices"
	"strings"
	"time"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"

	"Agenda/Models"
)

// Engine drives the task lifecycle: PENDING --complete--> COMPLETED
// --validate (ADMIN)--> VALIDATED, with validation of a recurring task
// spawning the next PENDING occurrence. Every mutation is audited through
// the store; audit failures are logged and swallowed so they never block
// the primary write.
type Engine struct {
	store    Models.TaskStore
	validate *validator.Validate
	trans    ut.Translator
	handlers []EventHandler

	// Now is the clock used for completion/validation stamps and audit
	// timestamps. Tests override it to get reproducible output.
	Now func() time.Time
}

// TaskInput is the form payload shared by Create and Update. DueDate is the
// calendar day as typed in the form; it is stored at 12:00 UTC so the chosen
// day survives timezone display skew.
type TaskInput struct {
	Title         string           `json:"title" validate:"required,min=3"`
	Description   string           `json:"description"`
	DueDate       string           `json:"due_date" validate:"required,datetime=2006-01-02"`
	Frequency     Models.Frequency `json:"frequency" validate:"omitempty,oneof=NONE WEEKLY BIWEEKLY MONTHLY BIMONTHLY QUARTERLY SEMIANNUAL ANNUAL EVENTUAL"`
	FocalPointIDs []uint           `json:"focal_point_ids"`
}

func NewEngine(store Models.TaskStore) *Engine {
	enLocale := en.New()
	uni := ut.New(enLocale, enLocale)
	trans, _ := uni.GetTranslator("en")

	validate := validator.New(validator.WithRequiredStructEnabled())
	validate.RegisterTagNameFunc(jsonTagName)
	if err := en_translations.RegisterDefaultTranslations(validate, trans); err != nil {
		log.Printf("Error registering validator translations: %v", err)
	}

	return &Engine{
		store:    store,
		validate: validate,
		trans:    trans,
		Now:      time.Now,
	}
}

// Create makes a new PENDING task owned by the acting user's unit and writes
// its CREATE audit row.
func (e *Engine) Create(user *Models.User, input TaskInput) (*Models.Task, error) {
	if user == nil {
		return nil, ErrNotLoggedIn
	}
	if err := e.validateInput(&input); err != nil {
		return nil, err
	}

	task := &Models.Task{
		Title:       input.Title,
		Description: input.Description,
		DueDate:     parseDueDate(input.DueDate),
		Status:      Models.StatusPending,
		Frequency:   frequencyOrNone(input.Frequency),
		CreatedByID: user.ID,
		UnitID:      user.UnitID,
	}
	if err := e.store.CreateTask(task, normalizeIDs(input.FocalPointIDs)); err != nil {
		return nil, &PersistenceError{Err: err}
	}

	e.audit(task.ID, user.ID, Models.ActionCreate, "Tarefa criada")
	e.emit(Event{Kind: EventTaskCreated, TaskID: task.ID})
	return task, nil
}

// Update recomputes the full field set and replaces the focal point set
// wholesale. One UPDATE audit row is written per changed category (title,
// due date, frequency, focal point set) rather than a single combined diff.
// VALIDATED tasks are closed and can no longer be edited.
func (e *Engine) Update(user *Models.User, taskID uint, input TaskInput) (*Models.Task, error) {
	if user == nil {
		return nil, ErrNotLoggedIn
	}
	if err := e.validateInput(&input); err != nil {
		return nil, err
	}

	oldTask, err := e.store.GetTask(taskID)
	if err != nil {
		return nil, &PersistenceError{Err: err}
	}
	if oldTask == nil {
		return nil, &NotFoundError{Entity: "task", ID: taskID}
	}
	if oldTask.Status == Models.StatusValidated {
		return nil, &StateError{Op: "update", Status: oldTask.Status}
	}

	newDate := parseDueDate(input.DueDate)
	newFrequency := frequencyOrNone(input.Frequency)
	newFocalIDs := normalizeIDs(input.FocalPointIDs)

	task := *oldTask
	task.Title = input.Title
	task.Description = input.Description
	task.DueDate = newDate
	task.Frequency = newFrequency
	if err := e.store.UpdateTask(&task, newFocalIDs); err != nil {
		return nil, &PersistenceError{Err: err}
	}
	updated, err := e.store.GetTask(taskID)
	if err != nil || updated == nil {
		updated = &task
	}

	if oldTask.Title != task.Title {
		e.audit(taskID, user.ID, Models.ActionUpdate, "Título alterado.")
	}
	if !oldTask.DueDate.Equal(newDate) {
		e.audit(taskID, user.ID, Models.ActionUpdate, "Prazo alterado.")
	}
	if oldTask.Frequency != newFrequency {
		e.audit(taskID, user.ID, Models.ActionUpdate, "Periodicidade alterada.")
	}
	// Order-independent set comparison: both sides sorted and deduplicated
	oldFocalIDs := make([]uint, 0, len(oldTask.FocalPoints))
	for _, employee := range oldTask.FocalPoints {
		oldFocalIDs = append(oldFocalIDs, employee.ID)
	}
	if !slices.Equal(normalizeIDs(oldFocalIDs), newFocalIDs) {
		e.audit(taskID, user.ID, Models.ActionUpdate, "Lista de Pontos Focais alterada.")
	}

	e.emit(Event{Kind: EventTaskUpdated, TaskID: taskID})
	return updated, nil
}

// Delete removes a task at any stage together with its history. Destructive
// by design: no audit row survives the cascade.
func (e *Engine) Delete(user *Models.User, taskID uint) error {
	if user == nil {
		return ErrNotLoggedIn
	}

	task, err := e.store.GetTask(taskID)
	if err != nil {
		return &PersistenceError{Err: err}
	}
	if task == nil {
		return &NotFoundError{Entity: "task", ID: taskID}
	}

	if err := e.store.DeleteTask(task); err != nil {
		return &PersistenceError{Err: err}
	}

	e.emit(Event{Kind: EventTaskDeleted, TaskID: taskID})
	return nil
}

// Complete moves a PENDING task to COMPLETED and stamps CompletedAt.
func (e *Engine) Complete(user *Models.User, taskID uint) (*Models.Task, error) {
	if user == nil {
		return nil, ErrNotLoggedIn
	}

	task, err := e.store.GetTask(taskID)
	if err != nil {
		return nil, &PersistenceError{Err: err}
	}
	if task == nil {
		return nil, &NotFoundError{Entity: "task", ID: taskID}
	}
	if task.Status != Models.StatusPending {
		return nil, &StateError{Op: "complete", Status: task.Status}
	}

	now := e.Now()
	task.Status = Models.StatusCompleted
	task.CompletedAt = &now
	if err := e.store.UpdateTask(task, nil); err != nil {
		return nil, &PersistenceError{Err: err}
	}

	e.audit(taskID, user.ID, Models.ActionComplete, "Tarefa marcada como concluída")
	e.emit(Event{Kind: EventTaskCompleted, TaskID: taskID})
	return task, nil
}

// Validate closes a COMPLETED task. Only managers may validate. When the
// task recurs, the successor is created in the same transaction as the
// status change so a VALIDATED task is never left without its next
// occurrence. The successor keeps title, description, frequency and unit
// but not the focal point set.
func (e *Engine) Validate(user *Models.User, taskID uint) (*Models.Task, *Models.Task, error) {
	if user == nil {
		return nil, nil, ErrNotLoggedIn
	}
	if user.Role != Models.RoleAdmin {
		return nil, nil, &AuthorizationError{Message: "Acesso Negado: Apenas gestores podem validar tarefas."}
	}

	task, err := e.store.GetTask(taskID)
	if err != nil {
		return nil, nil, &PersistenceError{Err: err}
	}
	if task == nil {
		return nil, nil, &NotFoundError{Entity: "task", ID: taskID}
	}
	if task.Status != Models.StatusCompleted {
		return nil, nil, &StateError{Op: "validate", Status: task.Status}
	}

	now := e.Now()
	task.Status = Models.StatusValidated
	task.ValidatedAt = &now

	var successor *Models.Task
	err = e.store.Transaction(func(tx Models.TaskStore) error {
		if err := tx.UpdateTask(task, nil); err != nil {
			return err
		}
		nextDate := Models.NextDueDate(task.DueDate, task.Frequency)
		if nextDate == nil {
			return nil
		}
		successor = &Models.Task{
			Title:       task.Title,
			Description: task.Description,
			DueDate:     *nextDate,
			Status:      Models.StatusPending,
			Frequency:   task.Frequency,
			CreatedByID: user.ID,
			UnitID:      task.UnitID,
		}
		return tx.CreateTask(successor, nil)
	})
	if err != nil {
		return nil, nil, &PersistenceError{Err: err}
	}

	e.audit(taskID, user.ID, Models.ActionValidate, "Conclusão validada pelo gestor")
	event := Event{Kind: EventTaskValidated, TaskID: taskID}
	if successor != nil {
		e.audit(successor.ID, user.ID, Models.ActionCreate,
			fmt.Sprintf("Gerada automaticamente (Recorrência de %s)", task.Title))
		event.SuccessorID = successor.ID
	}
	e.emit(event)
	return task, successor, nil
}

// audit appends one history row. Best effort: a failed audit write is logged
// and never surfaces to the caller.
func (e *Engine) audit(taskID, userID uint, action Models.HistoryAction, detail string) {
	entry := &Models.TaskHistory{
		TaskID:    taskID,
		UserID:    userID,
		Action:    action,
		Detail:    detail,
		Timestamp: e.Now(),
	}
	if err := e.store.CreateHistory(entry); err != nil {
		log.Printf("Falha ao gravar auditoria: %v", err)
	}
}

func (e *Engine) validateInput(input *TaskInput) error {
	err := e.validate.Struct(input)
	if err == nil {
		return nil
	}
	fields := map[string]string{}
	var fieldErrors validator.ValidationErrors
	if errors.As(err, &fieldErrors) {
		for _, fieldError := range fieldErrors {
			fields[fieldError.Field()] = fieldError.Translate(e.trans)
		}
	}
	return &ValidationError{Fields: fields}
}

// parseDueDate anchors the chosen calendar day at noon UTC. Input is already
// format-checked by the datetime validator.
func parseDueDate(value string) time.Time {
	day, _ := time.Parse("2006-01-02", value)
	return time.Date(day.Year(), day.Month(), day.Day(), 12, 0, 0, 0, time.UTC)
}

// jsonTagName makes validator report fields under their json names so the
// error map lines up with the form payload.
func jsonTagName(field reflect.StructField) string {
	name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
	if name == "-" {
		return ""
	}
	return name
}

func frequencyOrNone(frequency Models.Frequency) Models.Frequency {
	if frequency == "" {
		return Models.FrequencyNone
	}
	return frequency
}

// normalizeIDs sorts and deduplicates so focal point sets compare as sets.
func normalizeIDs(ids []uint) []uint {
	normalized := make([]uint, 0, len(ids))
	normalized = append(normalized, ids...)
	slices.Sort(normalized)
	return slices.Compact(normalized)
}

package Controllers

import (
	"errors"
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"

	"Agenda/Lifecycle"
	"Agenda/Models"
	"Agenda/middleware"
)

// TaskController handles the task API. Lifecycle mutations go through the
// engine; windowed reads for the dashboard hit the database directly.
type TaskController struct {
	DB     *gorm.DB
	Engine *Lifecycle.Engine
}

// NewTaskController creates a new TaskController
func NewTaskController(db *gorm.DB, engine *Lifecycle.Engine) *TaskController {
	return &TaskController{DB: db, Engine: engine}
}

// GetTasks lists the tasks of the selected month or year window, ordered by
// due date, together with per-color counts for the status cards.
func (c *TaskController) GetTasks(ctx *fiber.Ctx) error {
	rangeStart, rangeEnd := taskWindow(
		ctx.Query("view", "month"),
		queryInt(ctx, "month", int(time.Now().Month())),
		queryInt(ctx, "year", time.Now().Year()),
	)

	tasks, err := c.tasksInWindow(rangeStart, rangeEnd)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Erro de banco de dados."})
	}

	now := time.Now()
	cards := map[Models.StatusColor]int{}
	for _, task := range tasks {
		cards[Models.TaskStatusColor(task.DueDate, task.Status, now)]++
	}

	return ctx.JSON(fiber.Map{
		"tasks": tasks,
		"cards": cards,
	})
}

// GetTask retrieves a single task with focal points and history
func (c *TaskController) GetTask(ctx *fiber.Ctx) error {
	id, err := strconv.Atoi(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid task ID"})
	}

	var task Models.Task
	result := c.DB.Preload("FocalPoints").
		Preload("History", func(db *gorm.DB) *gorm.DB { return db.Order("timestamp desc") }).
		Preload("History.User").
		First(&task, id)
	if result.Error != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "Tarefa não encontrada"})
	}

	return ctx.JSON(task)
}

// CreateTask creates a new PENDING task
func (c *TaskController) CreateTask(ctx *fiber.Ctx) error {
	var input Lifecycle.TaskInput
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}

	task, err := c.Engine.Create(middleware.CurrentUser(ctx), input)
	if err != nil {
		return lifecycleError(ctx, err)
	}

	return ctx.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Tarefa criada com sucesso!",
		"task":    task,
	})
}

// UpdateTask recomputes the task's fields and focal point set
func (c *TaskController) UpdateTask(ctx *fiber.Ctx) error {
	id, err := strconv.Atoi(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid task ID"})
	}

	var input Lifecycle.TaskInput
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}

	task, err := c.Engine.Update(middleware.CurrentUser(ctx), uint(id), input)
	if err != nil {
		return lifecycleError(ctx, err)
	}

	return ctx.JSON(fiber.Map{
		"message": "Tarefa atualizada com sucesso!",
		"task":    task,
	})
}

// DeleteTask removes a task and, by cascade, its history
func (c *TaskController) DeleteTask(ctx *fiber.Ctx) error {
	id, err := strconv.Atoi(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid task ID"})
	}

	if err := c.Engine.Delete(middleware.CurrentUser(ctx), uint(id)); err != nil {
		return lifecycleError(ctx, err)
	}

	return ctx.JSON(fiber.Map{"message": "Tarefa excluída."})
}

// CompleteTask marks a PENDING task as COMPLETED
func (c *TaskController) CompleteTask(ctx *fiber.Ctx) error {
	id, err := strconv.Atoi(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid task ID"})
	}

	task, err := c.Engine.Complete(middleware.CurrentUser(ctx), uint(id))
	if err != nil {
		return lifecycleError(ctx, err)
	}

	return ctx.JSON(fiber.Map{
		"message": "Tarefa concluída!",
		"task":    task,
	})
}

// ValidateTask closes a COMPLETED task and, for recurring tasks, creates the
// next occurrence
func (c *TaskController) ValidateTask(ctx *fiber.Ctx) error {
	id, err := strconv.Atoi(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid task ID"})
	}

	task, successor, err := c.Engine.Validate(middleware.CurrentUser(ctx), uint(id))
	if err != nil {
		return lifecycleError(ctx, err)
	}

	message := "Tarefa validada e finalizada."
	if successor != nil {
		message = "Validado! Próxima tarefa gerada."
	}
	return ctx.JSON(fiber.Map{
		"message":   message,
		"task":      task,
		"successor": successor,
	})
}

// GetTaskHistory returns a task's audit trail, newest first, with actor names
func (c *TaskController) GetTaskHistory(ctx *fiber.Ctx) error {
	id, err := strconv.Atoi(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid task ID"})
	}

	var task Models.Task
	if result := c.DB.First(&task, id); result.Error != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "Tarefa não encontrada"})
	}

	var history []Models.TaskHistory
	if err := c.DB.Where("task_id = ?", id).
		Order("timestamp desc").
		Preload("User").
		Find(&history).Error; err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Erro de banco de dados."})
	}

	return ctx.JSON(history)
}

// ExportTasks writes the current window's tasks as an Excel report
func (c *TaskController) ExportTasks(ctx *fiber.Ctx) error {
	rangeStart, rangeEnd := taskWindow(
		ctx.Query("view", "month"),
		queryInt(ctx, "month", int(time.Now().Month())),
		queryInt(ctx, "year", time.Now().Year()),
	)

	tasks, err := c.tasksInWindow(rangeStart, rangeEnd)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Erro de banco de dados."})
	}

	file := excelize.NewFile()
	defer file.Close()

	sheet := "Tarefas"
	file.SetSheetName("Sheet1", sheet)
	headers := []string{"Título", "Prazo", "Status", "Situação", "Periodicidade", "Pontos Focais"}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		file.SetCellValue(sheet, cell, header)
	}

	now := time.Now()
	for row, task := range tasks {
		focalNames := ""
		for i, employee := range task.FocalPoints {
			if i > 0 {
				focalNames += ", "
			}
			focalNames += employee.Name
		}
		values := []interface{}{
			task.Title,
			task.DueDate.Format("02/01/2006"),
			string(task.Status),
			string(Models.TaskStatusColor(task.DueDate, task.Status, now)),
			string(task.Frequency),
			focalNames,
		}
		for col, value := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			file.SetCellValue(sheet, cell, value)
		}
	}

	buffer, err := file.WriteToBuffer()
	if err != nil {
		log.Printf("Error writing tasks report: %v", err)
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Erro ao gerar relatório."})
	}

	ctx.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	ctx.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="tarefas_%s.xlsx"`, time.Now().Format("2006-01-02")))
	return ctx.Send(buffer.Bytes())
}

func (c *TaskController) tasksInWindow(rangeStart, rangeEnd time.Time) ([]Models.Task, error) {
	var tasks []Models.Task
	err := c.DB.Preload("FocalPoints").
		Preload("History", func(db *gorm.DB) *gorm.DB { return db.Order("timestamp desc") }).
		Preload("History.User").
		Where("due_date >= ? AND due_date <= ?", rangeStart, rangeEnd).
		Order("due_date asc").
		Find(&tasks).Error
	return tasks, err
}

func queryInt(ctx *fiber.Ctx, key string, fallback int) int {
	value, err := strconv.Atoi(ctx.Query(key))
	if err != nil {
		return fallback
	}
	return value
}

// taskWindow converts the view/month/year filter into a due-date range.
// Months are 1-12 as sent by the date filter.
func taskWindow(view string, month, year int) (time.Time, time.Time) {
	if view == "year" {
		start := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
		return start, start.AddDate(1, 0, 0).Add(-time.Nanosecond)
	}
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 1, 0).Add(-time.Nanosecond)
}

// lifecycleError maps the engine's error taxonomy onto HTTP responses.
// Persistence details are logged, never sent to the client.
func lifecycleError(ctx *fiber.Ctx, err error) error {
	var validationErr *Lifecycle.ValidationError
	if errors.As(err, &validationErr) {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Erro na validação dos campos.",
			"errors":  validationErr.Fields,
		})
	}
	if errors.Is(err, Lifecycle.ErrNotLoggedIn) {
		return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Você precisa estar logado."})
	}
	var authorizationErr *Lifecycle.AuthorizationError
	if errors.As(err, &authorizationErr) {
		return ctx.Status(fiber.StatusForbidden).JSON(fiber.Map{"message": authorizationErr.Message})
	}
	var stateErr *Lifecycle.StateError
	if errors.As(err, &stateErr) {
		return ctx.Status(fiber.StatusConflict).JSON(fiber.Map{"message": stateErr.Error()})
	}
	var notFoundErr *Lifecycle.NotFoundError
	if errors.As(err, &notFoundErr) {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "Tarefa não encontrada"})
	}
	log.Printf("Task operation failed: %v", err)
	return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Erro de banco de dados."})
}

package Lifecycle

// Events are emitted in-process after each successful mutation so the UI
// layer can revalidate whatever it is displaying. They are not persisted.

type EventKind string

const (
	EventTaskCreated   EventKind = "task_created"
	EventTaskUpdated   EventKind = "task_updated"
	EventTaskDeleted   EventKind = "task_deleted"
	EventTaskCompleted EventKind = "task_completed"
	EventTaskValidated EventKind = "task_validated"
)

type Event struct {
	Kind   EventKind
	TaskID uint
	// SuccessorID is set on task_validated when recurrence spawned a new task.
	SuccessorID uint
}

type EventHandler func(Event)

// Subscribe registers a handler for every future event. Handlers run
// synchronously in registration order.
func (e *Engine) Subscribe(handler EventHandler) {
	e.handlers = append(e.handlers, handler)
}

func (e *Engine) emit(event Event) {
	for _, handler := range e.handlers {
		handler(event)
	}
}

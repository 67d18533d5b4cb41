package events

import "travel-cms/internal/entities"

const RecordChangedName = "record.changed"

type Action string

const (
	ActionCreated Action = "created"
	ActionUpdated Action = "updated"
	ActionDeleted Action = "deleted"
)

// RecordChangedEvent - запись контента создана, изменена или удалена администратором.
type RecordChangedEvent struct {
	Kind   entities.Kind
	ID     string
	Action Action
	Actor  string
	// FailedFiles - файлы, оставшиеся на диске после удаления записи.
	FailedFiles []string
}

// Name - реализуем интерфейс eventbus.Event
func (e RecordChangedEvent) Name() string {
	return RecordChangedName
}

package entities

import "io"

// Record - строка таблицы сущности: имя колонки -> значение.
// Значения: string, float64 или nil; даты хранятся строкой YYYY-MM-DD.
type Record map[string]any

func (r Record) ID() string {
	id, _ := r[IDColumn].(string)
	return id
}

// StoredName возвращает имя файла из слота или "" если слот пуст.
func (r Record) StoredName(slot string) string {
	name, _ := r[slot].(string)
	return name
}

func (r Record) Clone() Record {
	clone := make(Record, len(r))
	for k, v := range r {
		clone[k] = v
	}
	return clone
}

// Upload - загруженный файл для одного слота. Имя от клиента используется
// только для расширения.
type Upload struct {
	Reader       io.Reader
	OriginalName string
	Size         int64
}

// DeleteResult - итог удаления. FailedFiles - сохранённые имена, удалить
// которые не удалось; на удаление записи это не влияет.
type DeleteResult struct {
	RowsAffected int64
	FailedFiles  []string
}

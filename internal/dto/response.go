package dto

type IDResponseDTO struct {
	ID string `json:"id"`
}

type RowsAffectedDTO struct {
	RowsAffected int64 `json:"rows_affected"`
}

// DeleteResponseDTO: FailedFiles - файлы, которые не удалось удалить после удаления записи.
type DeleteResponseDTO struct {
	RowsAffected int64    `json:"rows_affected"`
	FailedFiles  []string `json:"failed_files,omitempty"`
}

type SearchQueryDTO struct {
	Term string `query:"term"`
}

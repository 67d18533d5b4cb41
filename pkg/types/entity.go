package types

// SortField - поле сортировки списка. Поля вне схемы отбрасываются построителем запроса.
type SortField struct {
	Field string
	Desc  bool
}

// ListOptions - параметры выборки списка записей. Limit 0 - без ограничения.
type ListOptions struct {
	Sort  []SortField
	Limit uint64
}

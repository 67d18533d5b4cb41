package entities

import "slices"

// Kind - вид сущности, он же тег в результатах поиска.
type Kind string

const (
	KindBlog     Kind = "blog"
	KindGallery  Kind = "gallery"
	KindActivity Kind = "activity"
	KindEvent    Kind = "event"
	KindArticle  Kind = "article"
)

// Schema описывает вид сущности: таблицу, поля, обязательные поля и слоты
// управляемых файлов. Один сервис сущностей обслуживает все виды по схеме.
type Schema struct {
	Kind     Kind
	Table    string
	Columns  []string
	Required []string
	// FileSlots - поля, значением которых является имя файла из хранилища вложений.
	FileSlots []string
	// UploadContext - ключ правил загрузки в config.UploadContexts.
	UploadContext string
}

const IDColumn = "id"

var BlogSchema = Schema{
	Kind:     KindBlog,
	Table:    "blogs",
	Columns:  []string{"title", "image", "description", "date", "writer"},
	Required: []string{"title"},
}

var GallerySchema = Schema{
	Kind:          KindGallery,
	Table:         "galleries",
	Columns:       []string{"name", "image"},
	Required:      []string{"name"},
	FileSlots:     []string{"image"},
	UploadContext: "gallery",
}

var ActivitySchema = Schema{
	Kind:          KindActivity,
	Table:         "activities",
	Columns:       []string{"name", "description", "image", "duration", "price"},
	Required:      []string{"name", "description", "duration", "price"},
	FileSlots:     []string{"image"},
	UploadContext: "activity",
}

var EventSchema = Schema{
	Kind:     KindEvent,
	Table:    "events",
	Columns:  []string{"title", "image", "date", "description"},
	Required: []string{"title"},
}

var ArticleSchema = Schema{
	Kind:  KindArticle,
	Table: "articles",
	Columns: []string{
		"title", "images1", "images2", "images3", "images4",
		"description", "cost", "duration", "start_point", "end_point",
	},
	Required:      []string{"title", "description", "cost", "duration", "start_point", "end_point"},
	FileSlots:     []string{"images1", "images2", "images3", "images4"},
	UploadContext: "article",
}

// SelectColumns - id и все поля схемы, в порядке объявления.
func (s Schema) SelectColumns() []string {
	return append([]string{IDColumn}, s.Columns...)
}

func (s Schema) HasColumn(name string) bool {
	return name == IDColumn || slices.Contains(s.Columns, name)
}

func (s Schema) IsFileSlot(name string) bool {
	return slices.Contains(s.FileSlots, name)
}

func (s Schema) IsRequired(name string) bool {
	return slices.Contains(s.Required, name)
}

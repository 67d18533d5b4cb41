package dto

import (
	"github.com/aarondl/null/v8"

	"travel-cms/internal/entities"
)

// EntityInput - тело запроса на создание или изменение записи.
// ToFields отдаёт только переданные поля; обязательность проверяет сервис по схеме.
type EntityInput interface {
	ToFields() entities.Record
}

type BlogDTO struct {
	Title       null.String `json:"title" form:"title" validate:"omitempty,max=255"`
	Image       null.String `json:"image" form:"image" validate:"omitempty,max=2048"`
	Description null.String `json:"description" form:"description"`
	Date        null.String `json:"date" form:"date" validate:"omitempty,iso_date"`
	Writer      null.String `json:"writer" form:"writer" validate:"omitempty,max=255"`
}

func (d *BlogDTO) ToFields() entities.Record {
	fields := entities.Record{}
	putString(fields, "title", d.Title)
	putString(fields, "image", d.Image)
	putString(fields, "description", d.Description)
	putString(fields, "date", d.Date)
	putString(fields, "writer", d.Writer)
	return fields
}

// GalleryDTO - изображение приходит файлом в слоте "image".
type GalleryDTO struct {
	Name null.String `json:"name" form:"name" validate:"omitempty,max=255"`
}

func (d *GalleryDTO) ToFields() entities.Record {
	fields := entities.Record{}
	putString(fields, "name", d.Name)
	return fields
}

type ActivityDTO struct {
	Name        null.String  `json:"name" form:"name" validate:"omitempty,max=255"`
	Description null.String  `json:"description" form:"description"`
	Duration    null.String  `json:"duration" form:"duration" validate:"omitempty,max=100"`
	Price       null.Float64 `json:"price" form:"price" validate:"omitempty,gte=0"`
}

func (d *ActivityDTO) ToFields() entities.Record {
	fields := entities.Record{}
	putString(fields, "name", d.Name)
	putString(fields, "description", d.Description)
	putString(fields, "duration", d.Duration)
	putFloat(fields, "price", d.Price)
	return fields
}

type EventDTO struct {
	Title       null.String `json:"title" form:"title" validate:"omitempty,max=255"`
	Image       null.String `json:"image" form:"image" validate:"omitempty,max=2048"`
	Date        null.String `json:"date" form:"date" validate:"omitempty,iso_date"`
	Description null.String `json:"description" form:"description"`
}

func (d *EventDTO) ToFields() entities.Record {
	fields := entities.Record{}
	putString(fields, "title", d.Title)
	putString(fields, "image", d.Image)
	putString(fields, "date", d.Date)
	putString(fields, "description", d.Description)
	return fields
}

// ArticleDTO - изображения приходят файлами в слотах images1..images4.
type ArticleDTO struct {
	Title       null.String  `json:"title" form:"title" validate:"omitempty,max=255"`
	Description null.String  `json:"description" form:"description"`
	Cost        null.Float64 `json:"cost" form:"cost" validate:"omitempty,gte=0"`
	Duration    null.String  `json:"duration" form:"duration" validate:"omitempty,max=100"`
	StartPoint  null.String  `json:"start_point" form:"start_point" validate:"omitempty,max=255"`
	EndPoint    null.String  `json:"end_point" form:"end_point" validate:"omitempty,max=255"`
}

func (d *ArticleDTO) ToFields() entities.Record {
	fields := entities.Record{}
	putString(fields, "title", d.Title)
	putString(fields, "description", d.Description)
	putFloat(fields, "cost", d.Cost)
	putString(fields, "duration", d.Duration)
	putString(fields, "start_point", d.StartPoint)
	putString(fields, "end_point", d.EndPoint)
	return fields
}

func putString(fields entities.Record, column string, v null.String) {
	if v.Valid {
		fields[column] = v.String
	}
}

func putFloat(fields entities.Record, column string, v null.Float64) {
	if v.Valid {
		fields[column] = v.Float64
	}
}

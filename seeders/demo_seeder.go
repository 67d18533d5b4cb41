package seeders

import (
	"context"
	"log"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"travel-cms/internal/entities"
	"travel-cms/internal/repositories"
	"travel-cms/internal/services"
	"travel-cms/pkg/filestorage"
)

// demoRecord: key - поле, по которому запись считается уже существующей.
type demoRecord struct {
	schema entities.Schema
	key    string
	fields entities.Record
}

var demoData = []demoRecord{
	{entities.BlogSchema, "title", entities.Record{
		"title": "Весна в Гималаях", "description": "Заметки о треккинговом сезоне.",
		"date": "2024-04-12", "writer": "Редакция",
	}},
	{entities.BlogSchema, "title", entities.Record{
		"title": "Что взять в горы", "description": "Список снаряжения для первого похода.",
		"date": "2024-05-03", "writer": "Редакция",
	}},
	{entities.EventSchema, "title", entities.Record{
		"title": "Фестиваль Тихар", "date": "2024-11-01", "description": "Праздник огней в Катманду.",
	}},
	{entities.ActivitySchema, "name", entities.Record{
		"name": "Trek", "description": "3-day trek", "duration": "3d", "price": 199.0,
	}},
	{entities.ArticleSchema, "title", entities.Record{
		"title": "Треккинг к базовому лагерю Эвереста", "description": "Классический маршрут через Намче-Базар.",
		"cost": 1450.0, "duration": "14 дней", "start_point": "Лукла", "end_point": "Базовый лагерь",
	}},
}

// SeedDemoContent добавляет демонстрационные записи через сервисы сущностей.
// Запись пропускается, если запись с тем же ключевым полем уже есть.
func SeedDemoContent(ctx context.Context, db *pgxpool.Pool, fileStorage filestorage.FileStorageInterface, logger *zap.Logger) error {
	log.Println("  - Наполнение демонстрационным контентом...")

	recordRepo := repositories.NewRecordRepository(db, logger)
	for _, demo := range demoData {
		svc := services.NewEntityService(demo.schema, recordRepo, fileStorage, logger)

		if _, err := svc.FindOneBy(ctx, demo.key, demo.fields[demo.key]); err == nil {
			log.Printf("    - %s '%v' уже существует, пропуск", demo.schema.Kind, demo.fields[demo.key])
			continue
		}

		id, err := svc.Create(ctx, demo.fields, nil)
		if err != nil {
			log.Printf("Ошибка при создании %s '%v': %v", demo.schema.Kind, demo.fields[demo.key], err)
			return err
		}
		log.Printf("    - %s создан: %s", demo.schema.Kind, id)
	}
	return nil
}

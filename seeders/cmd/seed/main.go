package main

import (
	"context"
	"flag"
	"log"
	"time"

	"travel-cms/pkg/config"
	"travel-cms/pkg/database/migrations"
	"travel-cms/pkg/database/postgresql"
	"travel-cms/pkg/filestorage"
	applogger "travel-cms/pkg/logger"
	"travel-cms/seeders"
)

func main() {
	log.Println("======================================================")
	log.Println("       🌱 СИСТЕМА СИДЕРОВ (Наполнение БД)           ")
	log.Println("======================================================")

	runAdmin := flag.Bool("admin", false, "Создать администратора, если его нет")
	runDemo := flag.Bool("demo", false, "Добавить демонстрационный контент")
	runAll := flag.Bool("all", false, "Запустить все сидеры (эквивалентно -admin -demo)")

	flag.Parse()

	if !*runAdmin && !*runDemo && !*runAll {
		log.Println("❌ Не выбран ни один сидер для запуска.")
		log.Println("")
		log.Println("Доступные флаги:")
		flag.PrintDefaults()
		log.Println("")
		log.Println("Примеры использования:")
		log.Println("  go run ./seeders/cmd/seed -admin")
		log.Println("  go run ./seeders/cmd/seed -all")
		log.Println("======================================================")
		return
	}

	cfg := config.New()
	logger, err := applogger.NewLogger(cfg.Log.Level, cfg.Log.Outputs...)
	if err != nil {
		log.Fatalf("не удалось создать логгер: %v", err)
	}
	defer logger.Sync()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	dbPool, err := postgresql.ConnectDB(ctx, cfg.Postgres.DSN)
	if err != nil {
		log.Fatalf("не удалось подключиться к БД: %v", err)
	}
	defer dbPool.Close()

	if err := migrations.Up(ctx, dbPool, logger); err != nil {
		log.Fatalf("не удалось применить миграции: %v", err)
	}

	log.Println("======================================================")

	if *runAll || *runAdmin {
		if err := seeders.SeedAdmin(ctx, dbPool, cfg, logger); err != nil {
			log.Fatalf("ошибка сидера администратора: %v", err)
		}
		log.Println("======================================================")
	}

	if *runAll || *runDemo {
		fileStorage, err := filestorage.NewLocalFileStorage(cfg.Storage.UploadsDir)
		if err != nil {
			log.Fatalf("не удалось создать файловое хранилище: %v", err)
		}
		if err := seeders.SeedDemoContent(ctx, dbPool, fileStorage, logger); err != nil {
			log.Fatalf("ошибка демо-сидера: %v", err)
		}
		log.Println("======================================================")
	}

	log.Println("✅ Все указанные операции сидирования успешно завершены.")
	log.Println("======================================================")
}

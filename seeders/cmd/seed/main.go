package main

import (
	"database/sql"
	"flag"
	"log"

	"github.com/pressly/goose/v3"

	"cmms-system/pkg/config"
	"cmms-system/pkg/database/postgresql"
	"cmms-system/seeders"

	_ "github.com/jackc/pgx/v5/stdlib"
)

func main() {
	log.Println("======================================================")
	log.Println("       🌱 МИГРАЦИИ И СИДЕРЫ (Наполнение БД)           ")
	log.Println("======================================================")

	runMigrate := flag.Bool("migrate", false, "Применить миграции схемы (goose up)")
	runAdmin := flag.Bool("admin", false, "Создать администратора по умолчанию")
	runEquipment := flag.Bool("equipment", false, "Наполнить базу демонстрационным оборудованием")
	runAll := flag.Bool("all", false, "Выполнить всё (эквивалентно -migrate -admin -equipment)")

	flag.Parse()

	if !*runMigrate && !*runAdmin && !*runEquipment && !*runAll {
		log.Println("❌ Не выбрано ни одно действие.")
		log.Println("")
		log.Println("Доступные флаги:")
		flag.PrintDefaults()
		log.Println("")
		log.Println("Примеры использования:")
		log.Println("  go run ./seeders/cmd/seed -migrate")
		log.Println("  go run ./seeders/cmd/seed -migrate -admin")
		log.Println("  go run ./seeders/cmd/seed -all")
		log.Println("======================================================")
		return
	}

	cfg := config.New()
	log.Println("📦 Используется DSN:", cfg.Postgres.DSN)

	if *runAll || *runMigrate {
		migrate(cfg.Postgres.DSN)
		log.Println("======================================================")
	}

	if *runAll || *runAdmin || *runEquipment {
		dbPool := postgresql.ConnectDB(cfg.Postgres.DSN)
		defer dbPool.Close()

		if *runAll || *runAdmin {
			seeders.SeedAdmin(dbPool, cfg)
			log.Println("======================================================")
		}

		if *runAll || *runEquipment {
			seeders.SeedEquipment(dbPool)
			log.Println("======================================================")
		}
	}

	log.Println("🏁 Готово.")
}

func migrate(dsn string) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		log.Fatalf("❌ Не удалось открыть соединение для миграций: %v", err)
	}
	defer db.Close()

	if err := goose.SetDialect("postgres"); err != nil {
		log.Fatalf("❌ Не удалось выбрать диалект goose: %v", err)
	}

	if err := goose.Up(db, "migrations"); err != nil {
		log.Fatalf("❌ Ошибка применения миграций: %v", err)
	}

	log.Println("✅ Миграции применены!")
}

package seeders

import (
	"context"
	"fmt"
	"log"

	"github.com/jackc/pgx/v5/pgxpool"

	"cmms-system/pkg/constants"
)

type demoEquipment struct {
	Name         string
	SerialNumber string
	Category     string
	Manufacturer string
	Location     string
	Status       string
}

var demoEquipmentList = []demoEquipment{
	{"Гидравлический пресс P-100", "HP-100-001", "Прессовое оборудование", "Schuler", "Цех 1", constants.EquipmentStatusActive},
	{"Токарный станок TL-2000", "TL-2000-014", "Станки", "DMG Mori", "Цех 1", constants.EquipmentStatusActive},
	{"Конвейер сборочной линии A", "CV-A-003", "Конвейеры", "Siemens", "Цех 2", constants.EquipmentStatusActive},
	{"Промышленный компрессор C-55", "AC-55-007", "Компрессоры", "Atlas Copco", "Компрессорная", constants.EquipmentStatusUnderMaintenance},
	{"Сварочный робот WR-8", "WR-8-002", "Робототехника", "KUKA", "Цех 2", constants.EquipmentStatusActive},
}

func seedDemoEquipment(ctx context.Context, db *pgxpool.Pool) error {
	for _, eq := range demoEquipmentList {
		log.Printf("  - Оборудование '%s'...", eq.Name)

		var exists bool
		err := db.QueryRow(ctx, "SELECT EXISTS (SELECT 1 FROM equipment WHERE serial_number = $1)", eq.SerialNumber).Scan(&exists)
		if err != nil {
			return fmt.Errorf("ошибка проверки оборудования %q: %w", eq.SerialNumber, err)
		}
		if exists {
			log.Println("    - Уже существует. Пропускаем.")
			continue
		}

		_, err = db.Exec(ctx, `
			INSERT INTO equipment (name, serial_number, category, manufacturer, location, status)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, eq.Name, eq.SerialNumber, eq.Category, eq.Manufacturer, eq.Location, eq.Status)
		if err != nil {
			return fmt.Errorf("не удалось вставить оборудование %q: %w", eq.SerialNumber, err)
		}
	}
	return nil
}

package seeders

import (
	"context"
	"log"

	"github.com/jackc/pgx/v5/pgxpool"
)

// SeedDictionaries наполняет справочники без зависимостей:
// департаменты, комнаты, метки.
func SeedDictionaries(db *pgxpool.Pool) {
	ctx := context.Background()
	log.Println("Наполнение базовых справочников...")

	if err := seedDepartments(ctx, db); err != nil {
		log.Fatalf("Ошибка наполнения департаментов: %v", err)
	}
	if err := seedRooms(ctx, db); err != nil {
		log.Fatalf("Ошибка наполнения комнат: %v", err)
	}
	if err := seedLabels(ctx, db); err != nil {
		log.Fatalf("Ошибка наполнения меток: %v", err)
	}
	log.Println("Справочники наполнены.")
}

// SeedAdmin создаёт администратора, если его ещё нет.
func SeedAdmin(db *pgxpool.Pool) {
	ctx := context.Background()
	log.Println("Создание администратора...")

	if err := seedAdminUser(ctx, db); err != nil {
		log.Fatalf("Ошибка создания администратора: %v", err)
	}
	log.Println("Администратор готов.")
}

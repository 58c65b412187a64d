package seeders

import (
	"context"
	"fmt"
	"log"

	"github.com/jackc/pgx/v5/pgxpool"
)

var defaultDepartments = []string{
	"Отдел разработки",
	"Отдел маркетинга",
	"Отдел кадров",
	"Бухгалтерия",
}

type roomSeed struct {
	Name     string
	Capacity int
	Location string
}

var defaultRooms = []roomSeed{
	{Name: "Переговорная А", Capacity: 8, Location: "2 этаж"},
	{Name: "Переговорная Б", Capacity: 4, Location: "2 этаж"},
	{Name: "Конференц-зал", Capacity: 30, Location: "1 этаж"},
}

type labelSeed struct {
	Name  string
	Color string
}

var defaultLabels = []labelSeed{
	{Name: "срочно", Color: "#E53935"},
	{Name: "документация", Color: "#1E88E5"},
	{Name: "встреча", Color: "#43A047"},
	{Name: "рутина", Color: "#808080"},
}

func seedDepartments(ctx context.Context, db *pgxpool.Pool) error {
	log.Println("  - Департаменты...")
	for _, name := range defaultDepartments {
		_, err := db.Exec(ctx,
			"INSERT INTO departments (name) VALUES ($1) ON CONFLICT (name) DO NOTHING", name)
		if err != nil {
			return fmt.Errorf("департамент %q: %w", name, err)
		}
	}
	return nil
}

func seedRooms(ctx context.Context, db *pgxpool.Pool) error {
	log.Println("  - Комнаты...")
	for _, room := range defaultRooms {
		_, err := db.Exec(ctx,
			"INSERT INTO rooms (name, capacity, location) VALUES ($1, $2, $3) ON CONFLICT (name) DO NOTHING",
			room.Name, room.Capacity, room.Location)
		if err != nil {
			return fmt.Errorf("комната %q: %w", room.Name, err)
		}
	}
	return nil
}

func seedLabels(ctx context.Context, db *pgxpool.Pool) error {
	log.Println("  - Метки...")
	for _, label := range defaultLabels {
		_, err := db.Exec(ctx,
			"INSERT INTO labels (name, color) VALUES ($1, $2) ON CONFLICT (name) DO NOTHING",
			label.Name, label.Color)
		if err != nil {
			return fmt.Errorf("метка %q: %w", label.Name, err)
		}
	}
	return nil
}

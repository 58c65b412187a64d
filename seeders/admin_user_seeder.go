package seeders

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"
)

const defaultAdminEmail = "admin@example.com"

func seedAdminUser(ctx context.Context, db *pgxpool.Pool) error {
	email := os.Getenv("ADMIN_EMAIL")
	if email == "" {
		email = defaultAdminEmail
	}

	var userID uint64
	err := db.QueryRow(ctx, "SELECT id FROM users WHERE email = $1", email).Scan(&userID)
	if err == nil {
		log.Println("    - Администратор уже существует, пропускаем.")
		return nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("проверка существования администратора: %w", err)
	}

	password := os.Getenv("ADMIN_PASSWORD")
	if password == "" {
		password = "ChangeMe123!"
		log.Println("    - ADMIN_PASSWORD не задан, используется пароль по умолчанию. Смените его после первого входа.")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("хеширование пароля администратора: %w", err)
	}

	err = db.QueryRow(ctx,
		"INSERT INTO users (name, email, password, role) VALUES ($1, $2, $3, 'admin') RETURNING id",
		"Администратор", email, string(hash),
	).Scan(&userID)
	if err != nil {
		return fmt.Errorf("создание администратора: %w", err)
	}

	log.Printf("    - Администратор создан (id=%d, email=%s)", userID, email)
	return nil
}

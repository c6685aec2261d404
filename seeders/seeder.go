package seeders

import (
	"context"
	"log"

	"github.com/jackc/pgx/v5/pgxpool"
)

// SeedRolesAndUsers наполняет роли и демонстрационных пользователей.
func SeedRolesAndUsers(db *pgxpool.Pool) {
	ctx := context.Background()
	log.Println("▶️  Запуск наполнения ролей и пользователей...")

	if err := seedRoles(ctx, db); err != nil {
		log.Fatalf("❌ Ошибка наполнения Ролей (Roles): %v", err)
	}
	if err := seedUsers(ctx, db); err != nil {
		log.Fatalf("❌ Ошибка наполнения Пользователей (Users): %v", err)
	}
	log.Println("✅ Наполнение ролей и пользователей завершено!")
}

// SeedApprovalFlows наполняет демонстрационные маршруты согласования.
func SeedApprovalFlows(db *pgxpool.Pool) {
	ctx := context.Background()
	log.Println("▶️  Запуск наполнения маршрутов согласования...")

	if err := seedApprovalFlows(ctx, db); err != nil {
		log.Fatalf("❌ Ошибка наполнения Маршрутов (ApprovalFlows): %v", err)
	}
	log.Println("✅ Наполнение маршрутов согласования завершено!")
}

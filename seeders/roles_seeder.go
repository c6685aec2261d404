package seeders

import (
	"context"
	"log"

	"github.com/jackc/pgx/v5/pgxpool"
)

func seedRoles(ctx context.Context, db *pgxpool.Pool) error {
	log.Println("  - Наполнение таблицы 'roles'...")

	query := `INSERT INTO roles (code, name) VALUES ($1, $2) ON CONFLICT (code) DO UPDATE SET name = EXCLUDED.name;`
	tx, err := db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)
	for _, r := range rolesData {
		if _, err := tx.Exec(ctx, query, r.Code, r.Name); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}

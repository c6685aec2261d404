package seeders

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

func seedApprovalFlows(ctx context.Context, db *pgxpool.Pool) error {
	log.Println("  - Наполнение маршрутов согласования...")

	for _, f := range flowsData {
		var flowID uint64
		err := db.QueryRow(ctx,
			"SELECT id FROM approval_flows WHERE document_type = $1 AND company_id = $2 AND active",
			f.DocumentType, f.CompanyID).Scan(&flowID)
		if err == nil {
			log.Printf("    - Активный маршрут для (%s, %d) уже существует. Пропускаем.", f.DocumentType, f.CompanyID)
			continue
		}
		if !errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("ошибка при проверке маршрута (%s, %d): %w", f.DocumentType, f.CompanyID, err)
		}

		tx, err := db.Begin(ctx)
		if err != nil {
			return err
		}

		err = tx.QueryRow(ctx,
			`INSERT INTO approval_flows (name, sequence, document_type, company_id, active)
			 VALUES ($1, $2, $3, $4, TRUE) RETURNING id`,
			f.Name, f.Sequence, f.DocumentType, f.CompanyID).Scan(&flowID)
		if err != nil {
			tx.Rollback(ctx)
			return fmt.Errorf("не удалось создать маршрут %q: %w", f.Name, err)
		}

		for _, s := range f.Stages {
			_, err = tx.Exec(ctx,
				`INSERT INTO approval_stages
				 (flow_id, name, sequence, role_code, minimum_amount, maximum_amount, is_final, auto_approve, approval_type)
				 VALUES ($1, $2, $3, $4, $5, $6, $7, FALSE, $8)`,
				flowID, s.Name, s.Sequence, s.RoleCode, s.MinimumAmount, s.MaximumAmount, s.IsFinal, s.ApprovalType)
			if err != nil {
				tx.Rollback(ctx)
				return fmt.Errorf("не удалось создать этап %q маршрута %q: %w", s.Name, f.Name, err)
			}
		}

		if err := tx.Commit(ctx); err != nil {
			return err
		}
		log.Printf("    - Создан маршрут %q (%d этапов)", f.Name, len(f.Stages))
	}
	return nil
}

package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"approval-system/internal/entities"
)

// ApprovalHistoryItem - обогащённая запись журнала для отображения.
type ApprovalHistoryItem struct {
	entities.ApprovalHistory
	ActorFio  sql.NullString `db:"actor_fio"`
	StageName sql.NullString `db:"stage_name"`
}

// Журнал строго append-only: интерфейс сознательно не содержит
// ни Update, ни Delete.
type ApprovalHistoryRepositoryInterface interface {
	CreateInTx(ctx context.Context, tx pgx.Tx, history *entities.ApprovalHistory) (uint64, error)
	FindByOrderID(ctx context.Context, orderID uint64) ([]ApprovalHistoryItem, error)
	// ListStageApproverIDsInTx возвращает различных пользователей,
	// записавших указанное действие для пары (заказ, этап). Машина
	// состояний фильтрует журнал по этим трём полям и никогда не
	// опирается на порядок записей.
	ListStageApproverIDsInTx(ctx context.Context, tx pgx.Tx, orderID, stageID uint64, action string) ([]uint64, error)
}

type approvalHistoryRepository struct {
	storage *pgxpool.Pool
}

func NewApprovalHistoryRepository(storage *pgxpool.Pool) ApprovalHistoryRepositoryInterface {
	return &approvalHistoryRepository{storage: storage}
}

func (r *approvalHistoryRepository) CreateInTx(ctx context.Context, tx pgx.Tx, history *entities.ApprovalHistory) (uint64, error) {
	query := `
		INSERT INTO approval_history (order_id, stage_id, action, user_id, note, tx_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`
	var id uint64
	err := tx.QueryRow(ctx, query,
		history.OrderID, history.StageID, history.Action,
		history.UserID, history.Note, history.TxID).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("ошибка записи в журнал согласования: %w", err)
	}
	return id, nil
}

// FindByOrderID отдаёт журнал заказа по дате создания по убыванию -
// порядок нужен только для отображения.
func (r *approvalHistoryRepository) FindByOrderID(ctx context.Context, orderID uint64) ([]ApprovalHistoryItem, error) {
	query := `
		SELECT
			h.id, h.order_id, h.stage_id, h.action, h.user_id, h.note, h.tx_id, h.created_at,
			u.fio AS actor_fio,
			s.name AS stage_name
		FROM approval_history h
		LEFT JOIN users u ON h.user_id = u.id
		LEFT JOIN approval_stages s ON h.stage_id = s.id
		WHERE h.order_id = $1
		ORDER BY h.created_at DESC, h.id DESC`

	rows, err := r.storage.Query(ctx, query, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var history []ApprovalHistoryItem
	for rows.Next() {
		var h ApprovalHistoryItem
		if err := rows.Scan(
			&h.ID, &h.OrderID, &h.StageID, &h.Action, &h.UserID, &h.Note, &h.TxID, &h.CreatedAt,
			&h.ActorFio, &h.StageName,
		); err != nil {
			return nil, err
		}
		history = append(history, h)
	}
	return history, rows.Err()
}

func (r *approvalHistoryRepository) ListStageApproverIDsInTx(ctx context.Context, tx pgx.Tx, orderID, stageID uint64, action string) ([]uint64, error) {
	query := `
		SELECT DISTINCT user_id
		FROM approval_history
		WHERE order_id = $1 AND stage_id = $2 AND action = $3`

	rows, err := tx.Query(ctx, query, orderID, stageID, action)
	if err != nil {
		return nil, fmt.Errorf("ошибка выборки согласовавших этап: %w", err)
	}
	defer rows.Close()

	var userIDs []uint64
	for rows.Next() {
		var id uint64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		userIDs = append(userIDs, id)
	}
	return userIDs, rows.Err()
}

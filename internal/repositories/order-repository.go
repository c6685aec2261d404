package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/aarondl/null/v8"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"approval-system/internal/entities"
	db "approval-system/internal/infrastructure/bd"
	apperrors "approval-system/pkg/errors"
	"approval-system/pkg/types"
)

const (
	orderTable  = "orders"
	orderFields = "id, number, document_type, company_id, amount, approval_status, approval_flow_id, approval_stage_id, confirmed, created_by, created_at, updated_at"
)

var orderAllowedFilterMap = map[string]string{
	"document_type":   "document_type",
	"company_id":      "company_id",
	"approval_status": "approval_status",
	"created_by":      "created_by",
	"created_at":      "created_at",
	"amount":          "amount",
}

type OrderRepositoryInterface interface {
	Create(ctx context.Context, creatorID uint64, order *entities.Order) (uint64, error)
	FindByID(ctx context.Context, id uint64) (*entities.Order, error)
	GetAll(ctx context.Context, filter types.Filter) ([]entities.Order, uint64, error)
	// FindForUpdateInTx берёт строку заказа под блокировку (FOR UPDATE).
	// Два актора, одновременно согласующих один заказ, сериализуются здесь:
	// второй увидит уже обновлённый статус и получит StateError выше по стеку.
	FindForUpdateInTx(ctx context.Context, tx pgx.Tx, id uint64) (*entities.Order, error)
	UpdateApprovalStateInTx(ctx context.Context, tx pgx.Tx, id uint64, status string, flowID, stageID null.Uint64) error
	MarkConfirmed(ctx context.Context, id uint64) error
	// ListWaitingSince отдаёт заказы в статусе waiting, не менявшиеся
	// с указанного момента. Используется монитором эскалаций.
	ListWaitingSince(ctx context.Context, before time.Time) ([]entities.Order, error)
}

type orderRepository struct {
	storage *pgxpool.Pool
}

func NewOrderRepository(storage *pgxpool.Pool) OrderRepositoryInterface {
	return &orderRepository{storage: storage}
}

func scanOrderRow(row pgx.Row) (*entities.Order, error) {
	var order entities.Order
	err := row.Scan(&order.ID, &order.Number, &order.DocumentType, &order.CompanyID,
		&order.Amount, &order.ApprovalStatus, &order.ApprovalFlowID, &order.ApprovalStageID,
		&order.Confirmed, &order.CreatedBy, &order.CreatedAt, &order.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("ошибка сканирования orders: %w", err)
	}
	return &order, nil
}

func (r *orderRepository) Create(ctx context.Context, creatorID uint64, order *entities.Order) (uint64, error) {
	query := `
		INSERT INTO orders (number, document_type, company_id, amount, approval_status, created_by)
		VALUES ($1, $2, $3, $4, 'draft', $5)
		RETURNING id`
	var id uint64
	err := r.storage.QueryRow(ctx, query,
		order.Number, order.DocumentType, order.CompanyID, order.Amount, creatorID).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("ошибка создания заказа: %w", err)
	}
	return id, nil
}

func (r *orderRepository) FindByID(ctx context.Context, id uint64) (*entities.Order, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE id = $1`, orderFields, orderTable)
	return scanOrderRow(r.storage.QueryRow(ctx, query, id))
}

func (r *orderRepository) GetAll(ctx context.Context, filter types.Filter) ([]entities.Order, uint64, error) {
	psql := sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

	countBuilder := psql.Select("COUNT(*)").From(orderTable)
	countBuilder = db.ApplyListParams(countBuilder, types.Filter{Filter: filter.Filter}, orderAllowedFilterMap)
	countQuery, countArgs, err := countBuilder.ToSql()
	if err != nil {
		return nil, 0, err
	}
	var total uint64
	if err := r.storage.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, err
	}

	builder := psql.Select(orderFields).From(orderTable).OrderBy("created_at DESC, id DESC")
	builder = db.ApplyListParams(builder, filter, orderAllowedFilterMap)
	query, args, err := builder.ToSql()
	if err != nil {
		return nil, 0, err
	}

	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var orders []entities.Order
	for rows.Next() {
		order, err := scanOrderRow(rows)
		if err != nil {
			return nil, 0, err
		}
		orders = append(orders, *order)
	}
	return orders, total, rows.Err()
}

func (r *orderRepository) FindForUpdateInTx(ctx context.Context, tx pgx.Tx, id uint64) (*entities.Order, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE id = $1 FOR UPDATE`, orderFields, orderTable)
	return scanOrderRow(tx.QueryRow(ctx, query, id))
}

func (r *orderRepository) UpdateApprovalStateInTx(ctx context.Context, tx pgx.Tx, id uint64, status string, flowID, stageID null.Uint64) error {
	query := `
		UPDATE orders
		SET approval_status = $1, approval_flow_id = $2, approval_stage_id = $3, updated_at = NOW()
		WHERE id = $4`
	tag, err := tx.Exec(ctx, query, status, flowID, stageID, id)
	if err != nil {
		return fmt.Errorf("ошибка обновления состояния согласования заказа %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *orderRepository) MarkConfirmed(ctx context.Context, id uint64) error {
	tag, err := r.storage.Exec(ctx,
		`UPDATE orders SET confirmed = TRUE, updated_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("ошибка подтверждения заказа %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *orderRepository) ListWaitingSince(ctx context.Context, before time.Time) ([]entities.Order, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM %s
		WHERE approval_status = 'waiting' AND updated_at <= $1
		ORDER BY updated_at ASC`, orderFields, orderTable)

	rows, err := r.storage.Query(ctx, query, before)
	if err != nil {
		return nil, fmt.Errorf("ошибка выборки зависших заказов: %w", err)
	}
	defer rows.Close()

	var orders []entities.Order
	for rows.Next() {
		order, err := scanOrderRow(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, *order)
	}
	return orders, rows.Err()
}

package repositories

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"approval-system/internal/entities"
	db "approval-system/internal/infrastructure/bd"
	apperrors "approval-system/pkg/errors"
	"approval-system/pkg/types"
)

const (
	flowTable  = "approval_flows"
	flowFields = "id, name, sequence, document_type, company_id, active, created_at, updated_at"
)

var flowAllowedFilterMap = map[string]string{
	"document_type": "document_type",
	"company_id":    "company_id",
	"active":        "active",
	"created_at":    "created_at",
	"sequence":      "sequence",
}

type ApprovalFlowRepositoryInterface interface {
	Create(ctx context.Context, flow *entities.ApprovalFlow) (uint64, error)
	Update(ctx context.Context, flow *entities.ApprovalFlow) error
	Delete(ctx context.Context, id uint64) error
	FindByID(ctx context.Context, id uint64) (*entities.ApprovalFlow, error)
	FindByIDInTx(ctx context.Context, tx pgx.Tx, id uint64) (*entities.ApprovalFlow, error)
	GetAll(ctx context.Context, filter types.Filter) ([]entities.ApprovalFlow, uint64, error)
	// FindActiveFlows возвращает активные маршруты для пары (тип документа,
	// компания) в порядке (sequence, id). По инварианту конфигурации их
	// не больше одного; дубликаты - ошибка конфигурации, которую резолвер
	// подсвечивает в логе.
	FindActiveFlows(ctx context.Context, documentType string, companyID uint64) ([]entities.ApprovalFlow, error)
	FindActiveFlowsInTx(ctx context.Context, tx pgx.Tx, documentType string, companyID uint64) ([]entities.ApprovalFlow, error)
}

type approvalFlowRepository struct {
	storage *pgxpool.Pool
}

func NewApprovalFlowRepository(storage *pgxpool.Pool) ApprovalFlowRepositoryInterface {
	return &approvalFlowRepository{storage: storage}
}

func scanFlowRow(row pgx.Row) (*entities.ApprovalFlow, error) {
	var flow entities.ApprovalFlow
	err := row.Scan(&flow.ID, &flow.Name, &flow.Sequence, &flow.DocumentType,
		&flow.CompanyID, &flow.Active, &flow.CreatedAt, &flow.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("ошибка сканирования approval_flows: %w", err)
	}
	return &flow, nil
}

func (r *approvalFlowRepository) Create(ctx context.Context, flow *entities.ApprovalFlow) (uint64, error) {
	query := `
		INSERT INTO approval_flows (name, sequence, document_type, company_id, active)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`
	var id uint64
	err := r.storage.QueryRow(ctx, query,
		flow.Name, flow.Sequence, flow.DocumentType, flow.CompanyID, flow.Active).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("ошибка создания маршрута согласования: %w", err)
	}
	return id, nil
}

func (r *approvalFlowRepository) Update(ctx context.Context, flow *entities.ApprovalFlow) error {
	query := `
		UPDATE approval_flows
		SET name = $1, sequence = $2, active = $3, updated_at = NOW()
		WHERE id = $4`
	tag, err := r.storage.Exec(ctx, query, flow.Name, flow.Sequence, flow.Active, flow.ID)
	if err != nil {
		return fmt.Errorf("ошибка обновления маршрута согласования: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *approvalFlowRepository) Delete(ctx context.Context, id uint64) error {
	tag, err := r.storage.Exec(ctx, `DELETE FROM approval_flows WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("ошибка удаления маршрута согласования: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *approvalFlowRepository) FindByID(ctx context.Context, id uint64) (*entities.ApprovalFlow, error) {
	return r.findByID(ctx, r.storage, id)
}

func (r *approvalFlowRepository) FindByIDInTx(ctx context.Context, tx pgx.Tx, id uint64) (*entities.ApprovalFlow, error) {
	return r.findByID(ctx, tx, id)
}

func (r *approvalFlowRepository) findByID(ctx context.Context, q querier, id uint64) (*entities.ApprovalFlow, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE id = $1`, flowFields, flowTable)
	flow, err := scanFlowRow(q.QueryRow(ctx, query, id))
	if err != nil {
		return nil, err
	}
	if err := loadStages(ctx, q, flow); err != nil {
		return nil, err
	}
	return flow, nil
}

func (r *approvalFlowRepository) GetAll(ctx context.Context, filter types.Filter) ([]entities.ApprovalFlow, uint64, error) {
	psql := sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

	countBuilder := psql.Select("COUNT(*)").From(flowTable)
	countBuilder = db.ApplyListParams(countBuilder, types.Filter{Filter: filter.Filter}, flowAllowedFilterMap)
	countQuery, countArgs, err := countBuilder.ToSql()
	if err != nil {
		return nil, 0, err
	}
	var total uint64
	if err := r.storage.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, err
	}

	builder := psql.Select(flowFields).From(flowTable).OrderBy("sequence ASC, id ASC")
	builder = db.ApplyListParams(builder, filter, flowAllowedFilterMap)
	query, args, err := builder.ToSql()
	if err != nil {
		return nil, 0, err
	}

	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var flows []entities.ApprovalFlow
	for rows.Next() {
		flow, err := scanFlowRow(rows)
		if err != nil {
			return nil, 0, err
		}
		flows = append(flows, *flow)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	for i := range flows {
		if err := loadStages(ctx, r.storage, &flows[i]); err != nil {
			return nil, 0, err
		}
	}
	return flows, total, nil
}

func (r *approvalFlowRepository) FindActiveFlows(ctx context.Context, documentType string, companyID uint64) ([]entities.ApprovalFlow, error) {
	return r.findActiveFlows(ctx, r.storage, documentType, companyID)
}

func (r *approvalFlowRepository) FindActiveFlowsInTx(ctx context.Context, tx pgx.Tx, documentType string, companyID uint64) ([]entities.ApprovalFlow, error) {
	return r.findActiveFlows(ctx, tx, documentType, companyID)
}

func (r *approvalFlowRepository) findActiveFlows(ctx context.Context, q querier, documentType string, companyID uint64) ([]entities.ApprovalFlow, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM %s
		WHERE document_type = $1 AND company_id = $2 AND active = TRUE
		ORDER BY sequence ASC, id ASC`, flowFields, flowTable)

	rows, err := q.Query(ctx, query, documentType, companyID)
	if err != nil {
		return nil, fmt.Errorf("ошибка поиска активного маршрута: %w", err)
	}
	defer rows.Close()

	var flows []entities.ApprovalFlow
	for rows.Next() {
		flow, err := scanFlowRow(rows)
		if err != nil {
			return nil, err
		}
		flows = append(flows, *flow)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range flows {
		if err := loadStages(ctx, q, &flows[i]); err != nil {
			return nil, err
		}
	}
	return flows, nil
}

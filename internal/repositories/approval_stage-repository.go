package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"approval-system/internal/entities"
	apperrors "approval-system/pkg/errors"
)

const (
	stageTable  = "approval_stages"
	stageFields = "id, flow_id, name, sequence, role_code, minimum_amount, maximum_amount, is_final, auto_approve, approval_type, created_at, updated_at"
)

type ApprovalStageRepositoryInterface interface {
	Create(ctx context.Context, stage *entities.ApprovalStage) (uint64, error)
	Update(ctx context.Context, stage *entities.ApprovalStage) error
	Delete(ctx context.Context, id uint64) error
	FindByID(ctx context.Context, id uint64) (*entities.ApprovalStage, error)
	ListByFlowID(ctx context.Context, flowID uint64) ([]entities.ApprovalStage, error)
}

type approvalStageRepository struct {
	storage *pgxpool.Pool
}

func NewApprovalStageRepository(storage *pgxpool.Pool) ApprovalStageRepositoryInterface {
	return &approvalStageRepository{storage: storage}
}

func scanStageRow(row pgx.Row) (*entities.ApprovalStage, error) {
	var stage entities.ApprovalStage
	err := row.Scan(&stage.ID, &stage.FlowID, &stage.Name, &stage.Sequence,
		&stage.RoleCode, &stage.MinimumAmount, &stage.MaximumAmount,
		&stage.IsFinal, &stage.AutoApprove, &stage.ApprovalType,
		&stage.CreatedAt, &stage.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("ошибка сканирования approval_stages: %w", err)
	}
	return &stage, nil
}

// loadStages подгружает этапы маршрута в порядке (sequence, id).
// Вторичный ключ id фиксирует порядок создания и делает выбор
// следующего этапа детерминированным.
func loadStages(ctx context.Context, q querier, flow *entities.ApprovalFlow) error {
	query := fmt.Sprintf(`
		SELECT %s FROM %s
		WHERE flow_id = $1
		ORDER BY sequence ASC, id ASC`, stageFields, stageTable)

	rows, err := q.Query(ctx, query, flow.ID)
	if err != nil {
		return fmt.Errorf("ошибка загрузки этапов маршрута %d: %w", flow.ID, err)
	}
	defer rows.Close()

	flow.Stages = flow.Stages[:0]
	for rows.Next() {
		stage, err := scanStageRow(rows)
		if err != nil {
			return err
		}
		flow.Stages = append(flow.Stages, *stage)
	}
	return rows.Err()
}

func (r *approvalStageRepository) Create(ctx context.Context, stage *entities.ApprovalStage) (uint64, error) {
	query := `
		INSERT INTO approval_stages
			(flow_id, name, sequence, role_code, minimum_amount, maximum_amount, is_final, auto_approve, approval_type)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id`
	var id uint64
	err := r.storage.QueryRow(ctx, query,
		stage.FlowID, stage.Name, stage.Sequence, stage.RoleCode,
		stage.MinimumAmount, stage.MaximumAmount,
		stage.IsFinal, stage.AutoApprove, stage.ApprovalType).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("ошибка создания этапа согласования: %w", err)
	}
	return id, nil
}

func (r *approvalStageRepository) Update(ctx context.Context, stage *entities.ApprovalStage) error {
	query := `
		UPDATE approval_stages
		SET name = $1, sequence = $2, role_code = $3, minimum_amount = $4,
			maximum_amount = $5, is_final = $6, auto_approve = $7,
			approval_type = $8, updated_at = NOW()
		WHERE id = $9`
	tag, err := r.storage.Exec(ctx, query,
		stage.Name, stage.Sequence, stage.RoleCode, stage.MinimumAmount,
		stage.MaximumAmount, stage.IsFinal, stage.AutoApprove,
		stage.ApprovalType, stage.ID)
	if err != nil {
		return fmt.Errorf("ошибка обновления этапа согласования: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *approvalStageRepository) Delete(ctx context.Context, id uint64) error {
	tag, err := r.storage.Exec(ctx, `DELETE FROM approval_stages WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("ошибка удаления этапа согласования: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *approvalStageRepository) FindByID(ctx context.Context, id uint64) (*entities.ApprovalStage, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE id = $1`, stageFields, stageTable)
	return scanStageRow(r.storage.QueryRow(ctx, query, id))
}

func (r *approvalStageRepository) ListByFlowID(ctx context.Context, flowID uint64) ([]entities.ApprovalStage, error) {
	flow := entities.ApprovalFlow{ID: flowID}
	if err := loadStages(ctx, r.storage, &flow); err != nil {
		return nil, err
	}
	return flow.Stages, nil
}

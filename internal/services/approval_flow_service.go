package services

import (
	"context"

	"github.com/aarondl/null/v8"
	"go.uber.org/zap"

	"approval-system/internal/dto"
	"approval-system/internal/entities"
	"approval-system/internal/repositories"
	apperrors "approval-system/pkg/errors"
	"approval-system/pkg/types"
)

// ApprovalFlowServiceInterface - администрирование маршрутов и этапов.
type ApprovalFlowServiceInterface interface {
	CreateFlow(ctx context.Context, payload dto.CreateApprovalFlowDTO) (*dto.ApprovalFlowDTO, error)
	UpdateFlow(ctx context.Context, id uint64, payload dto.UpdateApprovalFlowDTO) (*dto.ApprovalFlowDTO, error)
	DeleteFlow(ctx context.Context, id uint64) error
	GetFlowByID(ctx context.Context, id uint64) (*dto.ApprovalFlowDTO, error)
	GetFlows(ctx context.Context, filter types.Filter) ([]dto.ApprovalFlowDTO, uint64, error)

	CreateStage(ctx context.Context, flowID uint64, payload dto.CreateApprovalStageDTO) (*dto.ApprovalStageDTO, error)
	UpdateStage(ctx context.Context, stageID uint64, payload dto.UpdateApprovalStageDTO) (*dto.ApprovalStageDTO, error)
	DeleteStage(ctx context.Context, stageID uint64) error
}

type ApprovalFlowService struct {
	flowRepo  repositories.ApprovalFlowRepositoryInterface
	stageRepo repositories.ApprovalStageRepositoryInterface
	logger    *zap.Logger
}

func NewApprovalFlowService(
	flowRepo repositories.ApprovalFlowRepositoryInterface,
	stageRepo repositories.ApprovalStageRepositoryInterface,
	logger *zap.Logger,
) ApprovalFlowServiceInterface {
	return &ApprovalFlowService{flowRepo: flowRepo, stageRepo: stageRepo, logger: logger}
}

func (s *ApprovalFlowService) CreateFlow(ctx context.Context, payload dto.CreateApprovalFlowDTO) (*dto.ApprovalFlowDTO, error) {
	active := true
	if payload.Active != nil {
		active = *payload.Active
	}

	if active {
		if err := s.ensureNoActiveDuplicate(ctx, payload.DocumentType, payload.CompanyID, 0); err != nil {
			return nil, err
		}
	}

	flow := entities.ApprovalFlow{
		Name:         payload.Name,
		Sequence:     payload.Sequence,
		DocumentType: payload.DocumentType,
		CompanyID:    payload.CompanyID,
		Active:       active,
	}

	id, err := s.flowRepo.Create(ctx, &flow)
	if err != nil {
		return nil, err
	}
	return s.GetFlowByID(ctx, id)
}

func (s *ApprovalFlowService) UpdateFlow(ctx context.Context, id uint64, payload dto.UpdateApprovalFlowDTO) (*dto.ApprovalFlowDTO, error) {
	flow, err := s.flowRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if payload.Name != nil {
		flow.Name = *payload.Name
	}
	if payload.Sequence != nil {
		flow.Sequence = *payload.Sequence
	}
	if payload.Active != nil {
		if *payload.Active && !flow.Active {
			if err := s.ensureNoActiveDuplicate(ctx, flow.DocumentType, flow.CompanyID, flow.ID); err != nil {
				return nil, err
			}
		}
		flow.Active = *payload.Active
	}

	if err := s.flowRepo.Update(ctx, flow); err != nil {
		return nil, err
	}
	return s.GetFlowByID(ctx, id)
}

func (s *ApprovalFlowService) DeleteFlow(ctx context.Context, id uint64) error {
	if _, err := s.flowRepo.FindByID(ctx, id); err != nil {
		return err
	}
	return s.flowRepo.Delete(ctx, id)
}

func (s *ApprovalFlowService) GetFlowByID(ctx context.Context, id uint64) (*dto.ApprovalFlowDTO, error) {
	flow, err := s.flowRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	result := mapFlowToDTO(flow)
	return &result, nil
}

func (s *ApprovalFlowService) GetFlows(ctx context.Context, filter types.Filter) ([]dto.ApprovalFlowDTO, uint64, error) {
	flows, total, err := s.flowRepo.GetAll(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	result := make([]dto.ApprovalFlowDTO, 0, len(flows))
	for i := range flows {
		result = append(result, mapFlowToDTO(&flows[i]))
	}
	return result, total, nil
}

func (s *ApprovalFlowService) CreateStage(ctx context.Context, flowID uint64, payload dto.CreateApprovalStageDTO) (*dto.ApprovalStageDTO, error) {
	if _, err := s.flowRepo.FindByID(ctx, flowID); err != nil {
		return nil, err
	}
	if err := validateStageBounds(payload.MinimumAmount, payload.MaximumAmount); err != nil {
		return nil, err
	}

	stage := entities.ApprovalStage{
		FlowID:        flowID,
		Name:          payload.Name,
		Sequence:      payload.Sequence,
		RoleCode:      payload.RoleCode,
		MinimumAmount: payload.MinimumAmount,
		MaximumAmount: null.Float64FromPtr(payload.MaximumAmount),
		IsFinal:       payload.IsFinal,
		AutoApprove:   payload.AutoApprove,
		ApprovalType:  payload.ApprovalType,
	}

	id, err := s.stageRepo.Create(ctx, &stage)
	if err != nil {
		return nil, err
	}

	created, err := s.stageRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	result := mapStageToDTO(created)
	return &result, nil
}

func (s *ApprovalFlowService) UpdateStage(ctx context.Context, stageID uint64, payload dto.UpdateApprovalStageDTO) (*dto.ApprovalStageDTO, error) {
	stage, err := s.stageRepo.FindByID(ctx, stageID)
	if err != nil {
		return nil, err
	}

	if payload.Name != nil {
		stage.Name = *payload.Name
	}
	if payload.Sequence != nil {
		stage.Sequence = *payload.Sequence
	}
	if payload.RoleCode != nil {
		stage.RoleCode = *payload.RoleCode
	}
	if payload.MinimumAmount != nil {
		stage.MinimumAmount = *payload.MinimumAmount
	}
	if payload.MaximumAmount != nil {
		stage.MaximumAmount = null.Float64From(*payload.MaximumAmount)
	}
	if payload.IsFinal != nil {
		stage.IsFinal = *payload.IsFinal
	}
	if payload.AutoApprove != nil {
		stage.AutoApprove = *payload.AutoApprove
	}
	if payload.ApprovalType != nil {
		stage.ApprovalType = *payload.ApprovalType
	}

	var maxPtr *float64
	if stage.MaximumAmount.Valid {
		maxPtr = &stage.MaximumAmount.Float64
	}
	if err := validateStageBounds(stage.MinimumAmount, maxPtr); err != nil {
		return nil, err
	}

	if err := s.stageRepo.Update(ctx, stage); err != nil {
		return nil, err
	}

	updated, err := s.stageRepo.FindByID(ctx, stageID)
	if err != nil {
		return nil, err
	}
	result := mapStageToDTO(updated)
	return &result, nil
}

func (s *ApprovalFlowService) DeleteStage(ctx context.Context, stageID uint64) error {
	if _, err := s.stageRepo.FindByID(ctx, stageID); err != nil {
		return err
	}
	return s.stageRepo.Delete(ctx, stageID)
}

// ensureNoActiveDuplicate защищает инвариант "не более одного активного
// маршрута на пару (тип документа, компания)" на уровне сервиса.
// Частичный уникальный индекс в БД страхует от гонок.
func (s *ApprovalFlowService) ensureNoActiveDuplicate(ctx context.Context, documentType string, companyID, exceptID uint64) error {
	existing, err := s.flowRepo.FindActiveFlows(ctx, documentType, companyID)
	if err != nil {
		return err
	}
	for i := range existing {
		if existing[i].ID != exceptID {
			return apperrors.NewConfigurationError(
				"для документов типа %q компании %d уже активен маршрут %q",
				documentType, companyID, existing[i].Name)
		}
	}
	return nil
}

func validateStageBounds(minAmount float64, maxAmount *float64) error {
	if maxAmount != nil && *maxAmount < minAmount {
		return apperrors.NewInvalidInputError(
			"верхняя граница этапа (%.2f) меньше нижней (%.2f)", *maxAmount, minAmount)
	}
	return nil
}

func mapFlowToDTO(flow *entities.ApprovalFlow) dto.ApprovalFlowDTO {
	result := dto.ApprovalFlowDTO{
		ID:           flow.ID,
		Name:         flow.Name,
		Sequence:     flow.Sequence,
		DocumentType: flow.DocumentType,
		CompanyID:    flow.CompanyID,
		Active:       flow.Active,
		Stages:       make([]dto.ApprovalStageDTO, 0, len(flow.Stages)),
	}
	if flow.CreatedAt != nil {
		result.CreatedAt = flow.CreatedAt.Format("2006-01-02 15:04:05")
	}
	if flow.UpdatedAt != nil {
		result.UpdatedAt = flow.UpdatedAt.Format("2006-01-02 15:04:05")
	}
	for i := range flow.Stages {
		result.Stages = append(result.Stages, mapStageToDTO(&flow.Stages[i]))
	}
	return result
}

func mapStageToDTO(stage *entities.ApprovalStage) dto.ApprovalStageDTO {
	result := dto.ApprovalStageDTO{
		ID:            stage.ID,
		FlowID:        stage.FlowID,
		Name:          stage.Name,
		Sequence:      stage.Sequence,
		RoleCode:      stage.RoleCode,
		MinimumAmount: stage.MinimumAmount,
		IsFinal:       stage.IsFinal,
		AutoApprove:   stage.AutoApprove,
		ApprovalType:  stage.ApprovalType,
	}
	if stage.MaximumAmount.Valid {
		maxAmount := stage.MaximumAmount.Float64
		result.MaximumAmount = &maxAmount
	}
	return result
}

package controllers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"approval-system/internal/dto"
	"approval-system/internal/services"
	"approval-system/pkg/utils"
)

type ApprovalFlowController struct {
	flowService services.ApprovalFlowServiceInterface
	logger      *zap.Logger
}

func NewApprovalFlowController(flowService services.ApprovalFlowServiceInterface, logger *zap.Logger) *ApprovalFlowController {
	return &ApprovalFlowController{flowService: flowService, logger: logger}
}

func (c *ApprovalFlowController) GetFlows(ctx echo.Context) error {
	filter := utils.ParseFilterFromQuery(ctx.QueryParams())

	flows, total, err := c.flowService.GetFlows(ctx.Request().Context(), filter)
	if err != nil {
		c.logger.Error("ошибка при получении маршрутов согласования", zap.Error(err))
		return utils.ErrorResponse(ctx, err)
	}

	return utils.SuccessResponse(ctx, flows, "Successfully", http.StatusOK, total)
}

func (c *ApprovalFlowController) GetFlowByID(ctx echo.Context) error {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil {
		return utils.ErrorResponse(ctx, echo.NewHTTPError(http.StatusBadRequest, "неверный ID маршрута"))
	}

	flow, err := c.flowService.GetFlowByID(ctx.Request().Context(), id)
	if err != nil {
		return utils.ErrorResponse(ctx, err)
	}

	return utils.SuccessResponse(ctx, flow, "Successfully", http.StatusOK)
}

func (c *ApprovalFlowController) CreateFlow(ctx echo.Context) error {
	var payload dto.CreateApprovalFlowDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx, echo.NewHTTPError(http.StatusBadRequest, "некорректное тело запроса"))
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err)
	}

	flow, err := c.flowService.CreateFlow(ctx.Request().Context(), payload)
	if err != nil {
		c.logger.Error("ошибка при создании маршрута согласования", zap.Error(err))
		return utils.ErrorResponse(ctx, err)
	}

	return utils.SuccessResponse(ctx, flow, "Flow successfully created", http.StatusCreated)
}

func (c *ApprovalFlowController) UpdateFlow(ctx echo.Context) error {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil {
		return utils.ErrorResponse(ctx, echo.NewHTTPError(http.StatusBadRequest, "неверный ID маршрута"))
	}

	var payload dto.UpdateApprovalFlowDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx, echo.NewHTTPError(http.StatusBadRequest, "некорректное тело запроса"))
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err)
	}

	flow, err := c.flowService.UpdateFlow(ctx.Request().Context(), id, payload)
	if err != nil {
		c.logger.Error("ошибка при обновлении маршрута согласования", zap.Uint64("flowID", id), zap.Error(err))
		return utils.ErrorResponse(ctx, err)
	}

	return utils.SuccessResponse(ctx, flow, "Flow successfully updated", http.StatusOK)
}

func (c *ApprovalFlowController) DeleteFlow(ctx echo.Context) error {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil {
		return utils.ErrorResponse(ctx, echo.NewHTTPError(http.StatusBadRequest, "неверный ID маршрута"))
	}

	if err := c.flowService.DeleteFlow(ctx.Request().Context(), id); err != nil {
		c.logger.Error("ошибка при удалении маршрута согласования", zap.Uint64("flowID", id), zap.Error(err))
		return utils.ErrorResponse(ctx, err)
	}

	return utils.SuccessResponse(ctx, nil, "Flow successfully deleted", http.StatusOK)
}

func (c *ApprovalFlowController) CreateStage(ctx echo.Context) error {
	flowID, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil {
		return utils.ErrorResponse(ctx, echo.NewHTTPError(http.StatusBadRequest, "неверный ID маршрута"))
	}

	var payload dto.CreateApprovalStageDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx, echo.NewHTTPError(http.StatusBadRequest, "некорректное тело запроса"))
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err)
	}

	stage, err := c.flowService.CreateStage(ctx.Request().Context(), flowID, payload)
	if err != nil {
		c.logger.Error("ошибка при создании этапа", zap.Uint64("flowID", flowID), zap.Error(err))
		return utils.ErrorResponse(ctx, err)
	}

	return utils.SuccessResponse(ctx, stage, "Stage successfully created", http.StatusCreated)
}

func (c *ApprovalFlowController) UpdateStage(ctx echo.Context) error {
	stageID, err := strconv.ParseUint(ctx.Param("stageId"), 10, 64)
	if err != nil {
		return utils.ErrorResponse(ctx, echo.NewHTTPError(http.StatusBadRequest, "неверный ID этапа"))
	}

	var payload dto.UpdateApprovalStageDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx, echo.NewHTTPError(http.StatusBadRequest, "некорректное тело запроса"))
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err)
	}

	stage, err := c.flowService.UpdateStage(ctx.Request().Context(), stageID, payload)
	if err != nil {
		c.logger.Error("ошибка при обновлении этапа", zap.Uint64("stageID", stageID), zap.Error(err))
		return utils.ErrorResponse(ctx, err)
	}

	return utils.SuccessResponse(ctx, stage, "Stage successfully updated", http.StatusOK)
}

func (c *ApprovalFlowController) DeleteStage(ctx echo.Context) error {
	stageID, err := strconv.ParseUint(ctx.Param("stageId"), 10, 64)
	if err != nil {
		return utils.ErrorResponse(ctx, echo.NewHTTPError(http.StatusBadRequest, "неверный ID этапа"))
	}

	if err := c.flowService.DeleteStage(ctx.Request().Context(), stageID); err != nil {
		c.logger.Error("ошибка при удалении этапа", zap.Uint64("stageID", stageID), zap.Error(err))
		return utils.ErrorResponse(ctx, err)
	}

	return utils.SuccessResponse(ctx, nil, "Stage successfully deleted", http.StatusOK)
}

package controllers

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"approval-system/internal/dto"
	"approval-system/internal/services"
	"approval-system/pkg/utils"
)

type ReportController struct {
	reportService services.ReportServiceInterface
	logger        *zap.Logger
}

func NewReportController(reportService services.ReportServiceInterface, logger *zap.Logger) *ReportController {
	return &ReportController{reportService: reportService, logger: logger}
}

func (c *ReportController) GetApprovalSummary(ctx echo.Context) error {
	var filter dto.ApprovalSummaryFilterDTO
	if err := ctx.Bind(&filter); err != nil {
		return utils.ErrorResponse(ctx, echo.NewHTTPError(http.StatusBadRequest, "некорректные параметры отчёта"))
	}
	if err := ctx.Validate(&filter); err != nil {
		return utils.ErrorResponse(ctx, err)
	}

	summary, err := c.reportService.GetApprovalSummary(ctx.Request().Context(), filter)
	if err != nil {
		c.logger.Error("ошибка при построении сводки согласований", zap.Error(err))
		return utils.ErrorResponse(ctx, err)
	}

	return utils.SuccessResponse(ctx, summary, "Successfully", http.StatusOK)
}

func (c *ReportController) ExportApprovalSummary(ctx echo.Context) error {
	var filter dto.ApprovalSummaryFilterDTO
	if err := ctx.Bind(&filter); err != nil {
		return utils.ErrorResponse(ctx, echo.NewHTTPError(http.StatusBadRequest, "некорректные параметры отчёта"))
	}
	if err := ctx.Validate(&filter); err != nil {
		return utils.ErrorResponse(ctx, err)
	}

	buffer, filename, err := c.reportService.ExportApprovalSummary(ctx.Request().Context(), filter)
	if err != nil {
		c.logger.Error("ошибка при выгрузке сводки согласований", zap.Error(err))
		return utils.ErrorResponse(ctx, err)
	}

	ctx.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, filename))
	return ctx.Blob(http.StatusOK,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		buffer.Bytes())
}

package controllers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"approval-system/internal/dto"
	"approval-system/internal/entities"
	"approval-system/internal/services"
	"approval-system/pkg/utils"
)

type OrderController struct {
	orderService    services.OrderServiceInterface
	approvalService services.ApprovalServiceInterface
	historyService  services.ApprovalHistoryServiceInterface
	logger          *zap.Logger
}

func NewOrderController(
	orderService services.OrderServiceInterface,
	approvalService services.ApprovalServiceInterface,
	historyService services.ApprovalHistoryServiceInterface,
	logger *zap.Logger,
) *OrderController {
	return &OrderController{
		orderService:    orderService,
		approvalService: approvalService,
		historyService:  historyService,
		logger:          logger,
	}
}

func (c *OrderController) GetOrders(ctx echo.Context) error {
	filter := utils.ParseFilterFromQuery(ctx.QueryParams())

	orders, total, err := c.orderService.GetOrders(ctx.Request().Context(), filter)
	if err != nil {
		c.logger.Error("ошибка при получении заказов", zap.Error(err))
		return utils.ErrorResponse(ctx, err)
	}

	return utils.SuccessResponse(ctx, orders, "Successfully", http.StatusOK, total)
}

func (c *OrderController) GetOrderByID(ctx echo.Context) error {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil {
		return utils.ErrorResponse(ctx, echo.NewHTTPError(http.StatusBadRequest, "неверный ID заказа"))
	}

	order, err := c.orderService.GetOrderByID(ctx.Request().Context(), id)
	if err != nil {
		return utils.ErrorResponse(ctx, err)
	}

	return utils.SuccessResponse(ctx, order, "Successfully", http.StatusOK)
}

func (c *OrderController) CreateOrder(ctx echo.Context) error {
	userID, err := utils.GetUserIDFromCtx(ctx.Request().Context())
	if err != nil {
		return utils.ErrorResponse(ctx, err)
	}

	var payload dto.CreateOrderDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx, echo.NewHTTPError(http.StatusBadRequest, "некорректное тело запроса"))
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err)
	}

	order, err := c.orderService.CreateOrder(ctx.Request().Context(), userID, payload)
	if err != nil {
		c.logger.Error("ошибка при создании заказа", zap.Error(err))
		return utils.ErrorResponse(ctx, err)
	}

	return utils.SuccessResponse(ctx, order, "Order successfully created", http.StatusCreated)
}

func (c *OrderController) RequestApproval(ctx echo.Context) error {
	orderID, actor, err := c.orderAndActor(ctx)
	if err != nil {
		return utils.ErrorResponse(ctx, err)
	}

	state, err := c.approvalService.RequestApproval(ctx.Request().Context(), orderID, actor)
	if err != nil {
		c.logger.Warn("запрос согласования отклонён",
			zap.Uint64("orderID", orderID), zap.Uint64("userID", actor.ID), zap.Error(err))
		return utils.ErrorResponse(ctx, err)
	}

	return utils.SuccessResponse(ctx, state, "Approval successfully requested", http.StatusOK)
}

func (c *OrderController) Approve(ctx echo.Context) error {
	orderID, actor, err := c.orderAndActor(ctx)
	if err != nil {
		return utils.ErrorResponse(ctx, err)
	}

	payload, err := c.bindAction(ctx)
	if err != nil {
		return utils.ErrorResponse(ctx, err)
	}

	state, err := c.approvalService.Approve(ctx.Request().Context(), orderID, actor, payload.Note)
	if err != nil {
		c.logger.Warn("согласование отклонено системой",
			zap.Uint64("orderID", orderID), zap.Uint64("userID", actor.ID), zap.Error(err))
		return utils.ErrorResponse(ctx, err)
	}

	return utils.SuccessResponse(ctx, state, "Order successfully approved", http.StatusOK)
}

func (c *OrderController) Reject(ctx echo.Context) error {
	orderID, actor, err := c.orderAndActor(ctx)
	if err != nil {
		return utils.ErrorResponse(ctx, err)
	}

	payload, err := c.bindAction(ctx)
	if err != nil {
		return utils.ErrorResponse(ctx, err)
	}

	state, err := c.approvalService.Reject(ctx.Request().Context(), orderID, actor, payload.Note)
	if err != nil {
		c.logger.Warn("отклонение заказа не выполнено",
			zap.Uint64("orderID", orderID), zap.Uint64("userID", actor.ID), zap.Error(err))
		return utils.ErrorResponse(ctx, err)
	}

	return utils.SuccessResponse(ctx, state, "Order successfully rejected", http.StatusOK)
}

func (c *OrderController) GetHistory(ctx echo.Context) error {
	orderID, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil {
		return utils.ErrorResponse(ctx, echo.NewHTTPError(http.StatusBadRequest, "неверный ID заказа"))
	}

	history, err := c.historyService.GetByOrderID(ctx.Request().Context(), orderID)
	if err != nil {
		return utils.ErrorResponse(ctx, err)
	}

	return utils.SuccessResponse(ctx, history, "Successfully", http.StatusOK)
}

func (c *OrderController) orderAndActor(ctx echo.Context) (uint64, entities.Actor, error) {
	orderID, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil {
		return 0, entities.Actor{}, echo.NewHTTPError(http.StatusBadRequest, "неверный ID заказа")
	}

	reqCtx := ctx.Request().Context()
	userID, err := utils.GetUserIDFromCtx(reqCtx)
	if err != nil {
		return 0, entities.Actor{}, err
	}
	roles, err := utils.GetUserRolesFromCtx(reqCtx)
	if err != nil {
		return 0, entities.Actor{}, err
	}

	return orderID, entities.Actor{ID: userID, Roles: roles}, nil
}

func (c *OrderController) bindAction(ctx echo.Context) (dto.ApprovalActionDTO, error) {
	var payload dto.ApprovalActionDTO
	// Тело опционально: approve/reject без комментария - валидный запрос.
	if err := ctx.Bind(&payload); err != nil {
		return payload, echo.NewHTTPError(http.StatusBadRequest, "некорректное тело запроса")
	}
	if err := ctx.Validate(&payload); err != nil {
		return payload, err
	}
	return payload, nil
}

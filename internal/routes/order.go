package routes

import (
	"github.com/labstack/echo/v4"

	"approval-system/internal/controllers"
)

func runOrderRouter(secureGroup *echo.Group, orderCtrl *controllers.OrderController) {
	{
		secureGroup.GET("/orders", orderCtrl.GetOrders)
		secureGroup.POST("/orders", orderCtrl.CreateOrder)
		secureGroup.GET("/orders/:id", orderCtrl.GetOrderByID)
		secureGroup.GET("/orders/:id/history", orderCtrl.GetHistory)

		secureGroup.POST("/orders/:id/request-approval", orderCtrl.RequestApproval)
		secureGroup.POST("/orders/:id/approve", orderCtrl.Approve)
		secureGroup.POST("/orders/:id/reject", orderCtrl.Reject)
	}
}

package routes

import (
	"github.com/labstack/echo/v4"

	"approval-system/internal/controllers"
)

func runApprovalFlowRouter(secureGroup *echo.Group, flowCtrl *controllers.ApprovalFlowController) {
	{
		secureGroup.GET("/approval-flows", flowCtrl.GetFlows)
		secureGroup.POST("/approval-flows", flowCtrl.CreateFlow)
		secureGroup.GET("/approval-flows/:id", flowCtrl.GetFlowByID)
		secureGroup.PUT("/approval-flows/:id", flowCtrl.UpdateFlow)
		secureGroup.DELETE("/approval-flows/:id", flowCtrl.DeleteFlow)

		secureGroup.POST("/approval-flows/:id/stages", flowCtrl.CreateStage)
		secureGroup.PUT("/approval-stages/:stageId", flowCtrl.UpdateStage)
		secureGroup.DELETE("/approval-stages/:stageId", flowCtrl.DeleteStage)
	}
}

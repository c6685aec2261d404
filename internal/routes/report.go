package routes

import (
	"github.com/labstack/echo/v4"

	"approval-system/internal/controllers"
)

func runReportRouter(secureGroup *echo.Group, reportCtrl *controllers.ReportController) {
	reports := secureGroup.Group("/reports")
	{
		reports.GET("/approval-summary", reportCtrl.GetApprovalSummary)
		reports.GET("/approval-summary/export", reportCtrl.ExportApprovalSummary)
	}
}

package services

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"approval-system/internal/dto"
	"approval-system/internal/repositories"
	"approval-system/pkg/constants"
	apperrors "approval-system/pkg/errors"
)

const reportDateLayout = "2006-01-02"

// ReportServiceInterface - сводки по процессу согласования за период.
type ReportServiceInterface interface {
	GetApprovalSummary(ctx context.Context, filter dto.ApprovalSummaryFilterDTO) (*dto.ApprovalSummaryDTO, error)
	ExportApprovalSummary(ctx context.Context, filter dto.ApprovalSummaryFilterDTO) (*bytes.Buffer, string, error)
}

type ReportService struct {
	reportRepo repositories.ReportRepositoryInterface
	logger     *zap.Logger
}

func NewReportService(reportRepo repositories.ReportRepositoryInterface, logger *zap.Logger) ReportServiceInterface {
	return &ReportService{reportRepo: reportRepo, logger: logger}
}

func (s *ReportService) GetApprovalSummary(ctx context.Context, filter dto.ApprovalSummaryFilterDTO) (*dto.ApprovalSummaryDTO, error) {
	dateFrom, dateTo, err := parseReportPeriod(filter)
	if err != nil {
		return nil, err
	}

	rows, err := s.reportRepo.GetApprovalSummary(ctx, dateFrom, dateTo, filter.DocumentType)
	if err != nil {
		return nil, err
	}

	summary := dto.ApprovalSummaryDTO{
		DateFrom: dateFrom.Format(reportDateLayout),
		DateTo:   dateTo.Format(reportDateLayout),
		Rows:     make([]dto.ApprovalSummaryRowDTO, 0, len(rows)),
	}

	for _, row := range rows {
		switch row.ApprovalStatus {
		case constants.ApprovalStatusDraft:
			summary.Draft++
		case constants.ApprovalStatusWaiting:
			summary.Waiting++
		case constants.ApprovalStatusApproved:
			summary.Approved++
		case constants.ApprovalStatusRejected:
			summary.Rejected++
		}

		item := dto.ApprovalSummaryRowDTO{
			OrderID:        row.OrderID,
			Number:         row.Number,
			DocumentType:   row.DocumentType,
			Amount:         row.Amount,
			ApprovalStatus: row.ApprovalStatus,
		}
		if row.StageName.Valid {
			item.StageName = row.StageName.String
		}
		if row.RequestedBy.Valid {
			item.RequestedBy = row.RequestedBy.String
		}
		if row.RequestedAt.Valid {
			item.RequestedAt = row.RequestedAt.Time.Format("2006-01-02 15:04:05")
		}
		if row.DecidedAt.Valid {
			item.DecidedAt = row.DecidedAt.Time.Format("2006-01-02 15:04:05")
		}
		summary.Rows = append(summary.Rows, item)
	}
	return &summary, nil
}

// ExportApprovalSummary выгружает сводку в xlsx. Возвращает буфер файла
// и имя для заголовка Content-Disposition.
func (s *ReportService) ExportApprovalSummary(ctx context.Context, filter dto.ApprovalSummaryFilterDTO) (*bytes.Buffer, string, error) {
	summary, err := s.GetApprovalSummary(ctx, filter)
	if err != nil {
		return nil, "", err
	}

	file := excelize.NewFile()
	defer func() {
		if err := file.Close(); err != nil {
			s.logger.Warn("не удалось закрыть xlsx-файл", zap.Error(err))
		}
	}()

	const sheet = "Согласования"
	index, err := file.NewSheet(sheet)
	if err != nil {
		return nil, "", err
	}
	file.SetActiveSheet(index)
	if err := file.DeleteSheet("Sheet1"); err != nil {
		s.logger.Warn("не удалось удалить лист по умолчанию", zap.Error(err))
	}

	headers := []string{"№", "Номер заказа", "Тип документа", "Сумма", "Статус", "Этап", "Инициатор", "Запрошено", "Решение принято"}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := file.SetCellValue(sheet, cell, header); err != nil {
			return nil, "", err
		}
	}

	headerStyle, err := file.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#DDDDDD"}, Pattern: 1},
	})
	if err == nil {
		lastHeaderCell, _ := excelize.CoordinatesToCellName(len(headers), 1)
		_ = file.SetCellStyle(sheet, "A1", lastHeaderCell, headerStyle)
	}

	for i, row := range summary.Rows {
		values := []interface{}{
			i + 1,
			row.Number,
			row.DocumentType,
			row.Amount,
			row.ApprovalStatus,
			row.StageName,
			row.RequestedBy,
			row.RequestedAt,
			row.DecidedAt,
		}
		for j, value := range values {
			cell, _ := excelize.CoordinatesToCellName(j+1, i+2)
			if err := file.SetCellValue(sheet, cell, value); err != nil {
				return nil, "", err
			}
		}
	}

	buffer, err := file.WriteToBuffer()
	if err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("approval_summary_%s_%s.xlsx", summary.DateFrom, summary.DateTo)
	return buffer, filename, nil
}

// parseReportPeriod разбирает границы периода; по умолчанию - последние
// 30 дней по дату запроса включительно.
func parseReportPeriod(filter dto.ApprovalSummaryFilterDTO) (time.Time, time.Time, error) {
	now := time.Now()
	dateFrom := now.AddDate(0, 0, -30)
	dateTo := now

	var err error
	if filter.DateFrom != "" {
		if dateFrom, err = time.Parse(reportDateLayout, filter.DateFrom); err != nil {
			return time.Time{}, time.Time{}, apperrors.NewInvalidInputError("неверный формат date_from: %q", filter.DateFrom)
		}
	}
	if filter.DateTo != "" {
		if dateTo, err = time.Parse(reportDateLayout, filter.DateTo); err != nil {
			return time.Time{}, time.Time{}, apperrors.NewInvalidInputError("неверный формат date_to: %q", filter.DateTo)
		}
		// Верхняя граница - конец дня.
		dateTo = dateTo.AddDate(0, 0, 1).Add(-time.Second)
	}
	if dateTo.Before(dateFrom) {
		return time.Time{}, time.Time{}, apperrors.NewInvalidInputError("date_to раньше date_from")
	}
	return dateFrom, dateTo, nil
}

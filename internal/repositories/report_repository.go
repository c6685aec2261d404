package repositories

import (
	"context"
	"database/sql"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ReportRow - одна строка сводки по согласованиям за период.
type ReportRow struct {
	OrderID        uint64
	Number         string
	DocumentType   string
	Amount         float64
	ApprovalStatus string
	StageName      sql.NullString
	RequestedBy    sql.NullString
	RequestedAt    sql.NullTime
	DecidedAt      sql.NullTime
}

type ReportRepositoryInterface interface {
	GetApprovalSummary(ctx context.Context, dateFrom, dateTo time.Time, documentType string) ([]ReportRow, error)
}

type reportRepository struct {
	storage *pgxpool.Pool
}

func NewReportRepository(storage *pgxpool.Pool) ReportRepositoryInterface {
	return &reportRepository{storage: storage}
}

// GetApprovalSummary выбирает заказы, по которым в журнале согласования
// есть записи за период. requested_at / decided_at агрегируются из журнала.
func (r *reportRepository) GetApprovalSummary(ctx context.Context, dateFrom, dateTo time.Time, documentType string) ([]ReportRow, error) {
	psql := sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

	builder := psql.Select(
		"o.id", "o.number", "o.document_type", "o.amount", "o.approval_status",
		"s.name AS stage_name",
		"u.fio AS requested_by",
		"MIN(h.created_at) FILTER (WHERE h.action = 'requested') AS requested_at",
		"MAX(h.created_at) FILTER (WHERE h.action IN ('approved', 'rejected')) AS decided_at",
	).
		From("orders o").
		Join("approval_history h ON h.order_id = o.id").
		LeftJoin("approval_stages s ON o.approval_stage_id = s.id").
		LeftJoin("users u ON o.created_by = u.id").
		Where(sq.GtOrEq{"h.created_at": dateFrom}).
		Where(sq.Lt{"h.created_at": dateTo}).
		GroupBy("o.id", "o.number", "o.document_type", "o.amount", "o.approval_status", "s.name", "u.fio").
		OrderBy("o.id ASC")

	if documentType != "" {
		builder = builder.Where(sq.Eq{"o.document_type": documentType})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []ReportRow
	for rows.Next() {
		var row ReportRow
		if err := rows.Scan(&row.OrderID, &row.Number, &row.DocumentType, &row.Amount,
			&row.ApprovalStatus, &row.StageName, &row.RequestedBy,
			&row.RequestedAt, &row.DecidedAt); err != nil {
			return nil, err
		}
		result = append(result, row)
	}
	return result, rows.Err()
}

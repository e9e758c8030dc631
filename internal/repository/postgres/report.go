package postgres

import (
	"context"

	"warehouse-service/internal/domain/report"
	apperrors "warehouse-service/pkg/errors"
)

type ReportRepository struct {
	db *DB
}

func NewReportRepository(db *DB) *ReportRepository {
	return &ReportRepository{db: db}
}

// GetByID loads a report and its fields in display order. Hidden reports
// are returned with Hidden set; visibility is enforced by the caller.
func (r *ReportRepository) GetByID(ctx context.Context, id string) (*report.Report, error) {
	query := `
		SELECT id, title, hidden, created_at
		FROM reports
		WHERE id = $1
	`

	rep := &report.Report{}
	err := r.db.Pool.QueryRow(ctx, query, id).Scan(
		&rep.ID,
		&rep.Title,
		&rep.Hidden,
		&rep.CreatedAt,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, apperrors.NotFound(errReportNotFound)
		}
		return nil, errFailedGetReport(err)
	}

	fields, err := r.listFields(ctx, id)
	if err != nil {
		return nil, err
	}
	rep.Fields = fields

	return rep, nil
}

func (r *ReportRepository) listFields(ctx context.Context, reportID string) ([]report.Field, error) {
	query := `
		SELECT label, value
		FROM report_fields
		WHERE report_id = $1
		ORDER BY position ASC
	`

	rows, err := r.db.Pool.Query(ctx, query, reportID)
	if err != nil {
		return nil, errFailedListReportFields(err)
	}
	defer rows.Close()

	var fields []report.Field
	for rows.Next() {
		var f report.Field
		if err := rows.Scan(&f.Label, &f.Value); err != nil {
			return nil, errFailedScanReportField(err)
		}
		fields = append(fields, f)
	}

	if err := rows.Err(); err != nil {
		return nil, errIterateReportFields(err)
	}

	return fields, nil
}

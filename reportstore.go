package main

import (
	"database/sql"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

const reportColumns = `id, user_id, site_id, date::text, site_name, work_type, company_name,
       workers, approvals, approval_titles, created_at::text`

func scanReport(row *sql.Row) (*Report, error) {
	var report Report
	err := row.Scan(&report.ID, &report.UserID, &report.SiteID, &report.Date,
		&report.SiteName, &report.WorkType, &report.CompanyName,
		&report.Workers, &report.Approvals, &report.ApprovalTitles, &report.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &report, nil
}

// reportByKey fetches the report for one site and day. The schema
// keeps (site_id, date) unique; ordering by created_at still resolves
// any duplicate rows that predate the constraint to the newest one.
func reportByKey(siteID, date string) (*Report, error) {
	return scanReport(db.QueryRow(`
        SELECT `+reportColumns+`
        FROM reports
        WHERE site_id = $1 AND date = $2
        ORDER BY created_at DESC
        LIMIT 1`, siteID, date))
}

// reportByID resolves a report only when its site belongs to ownerID,
// so a report id alone never crosses account boundaries.
func reportByID(id, ownerID string) (*Report, error) {
	return scanReport(db.QueryRow(`
        SELECT r.id, r.user_id, r.site_id, r.date::text, r.site_name, r.work_type, r.company_name,
               r.workers, r.approvals, r.approval_titles, r.created_at::text
        FROM reports r
        JOIN sites s ON s.id = r.site_id
        WHERE r.id = $1 AND s.user_id = $2`, id, ownerID))
}

func insertReport(report *Report) error {
	report.ID = uuid.NewString()
	err := db.QueryRow(`
        INSERT INTO reports (id, user_id, site_id, date, site_name, work_type, company_name,
                             workers, approvals, approval_titles)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
        RETURNING created_at::text`,
		report.ID, report.UserID, report.SiteID, report.Date, report.SiteName,
		report.WorkType, report.CompanyName,
		report.Workers, report.Approvals, report.ApprovalTitles).Scan(&report.CreatedAt)
	if pqErr, ok := err.(*pq.Error); ok && pqErr.Code.Name() == "unique_violation" {
		return errDuplicateReport
	}
	return err
}

func updateReport(report *Report, ownerID string) (bool, error) {
	res, err := db.Exec(`
        UPDATE reports
        SET site_name = $1, work_type = $2, company_name = $3,
            workers = $4, approvals = $5, approval_titles = $6
        WHERE id = $7 AND site_id IN (SELECT id FROM sites WHERE user_id = $8)`,
		report.SiteName, report.WorkType, report.CompanyName,
		report.Workers, report.Approvals, report.ApprovalTitles, report.ID, ownerID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// updateApprovals persists only the approvals column, scoped to the
// owner's sites. Confirming an approval must not drag along unsaved
// worker edits or re-run the save-time validation.
func updateApprovals(reportID string, approvals ApprovalList, ownerID string) (bool, error) {
	res, err := db.Exec(`
        UPDATE reports SET approvals = $1
        WHERE id = $2 AND site_id IN (SELECT id FROM sites WHERE user_id = $3)`,
		approvals, reportID, ownerID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// listReportDays returns every report's date and worker rows for a
// site, the input of the worker search aggregation.
func listReportDays(siteID string) ([]ReportDay, error) {
	rows, err := db.Query(`
        SELECT date::text, workers
        FROM reports
        WHERE site_id = $1`, siteID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var days []ReportDay
	for rows.Next() {
		var day ReportDay
		if err := rows.Scan(&day.Date, &day.Workers); err != nil {
			return nil, err
		}
		days = append(days, day)
	}
	return days, rows.Err()
}

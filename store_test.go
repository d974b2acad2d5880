package main

import (
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var reportCols = []string{
	"id", "user_id", "site_id", "date", "site_name", "work_type", "company_name",
	"workers", "approvals", "approval_titles", "created_at",
}

const selectReportByKey = `SELECT id, user_id, site_id, date::text, site_name, work_type, company_name, workers, approvals, approval_titles, created_at::text FROM reports WHERE site_id = \$1 AND date = \$2 ORDER BY created_at DESC LIMIT 1`

const siteOwnedQuery = `SELECT EXISTS \(SELECT 1 FROM sites WHERE id = \$1 AND user_id = \$2\)`

func expectSiteOwned(mock sqlmock.Sqlmock, siteID, userID string, owned bool) {
	mock.ExpectQuery(siteOwnedQuery).
		WithArgs(siteID, userID).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(owned))
}

func TestReportByKey(t *testing.T) {
	mock := useMockDB(t)

	mock.ExpectQuery(selectReportByKey).
		WithArgs("site-1", "2026-08-31").
		WillReturnRows(sqlmock.NewRows(reportCols).AddRow(
			"rep-1", "user-1", "site-1", "2026-08-31", "현장A", "철근", "대한건설",
			[]byte(`[{"name":"김철수","job":"철근공","work_day":1,"work_night":0,"work_full_night":0,"description":"기초"}]`),
			[]byte(`[{"name":"작성","date":"2026-08-31"},{"name":"","date":""}]`),
			[]byte(`["작성자","담당자"]`),
			"2026-08-31 09:00:00+00"))

	report, err := reportByKey("site-1", "2026-08-31")
	require.NoError(t, err)
	require.NotNil(t, report)
	assert.Equal(t, "rep-1", report.ID)
	assert.Equal(t, "2026-08-31", report.Date)
	require.Len(t, report.Workers, 1)
	assert.Equal(t, "김철수", report.Workers[0].Name)
	assert.Equal(t, 1.0, report.Workers[0].WorkDay)
	require.Len(t, report.Approvals, 2)
	assert.Equal(t, "작성", report.Approvals[0].Name)
	assert.Equal(t, TitleList{"작성자", "담당자"}, report.ApprovalTitles)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReportByKeyAbsent(t *testing.T) {
	mock := useMockDB(t)

	mock.ExpectQuery(selectReportByKey).
		WithArgs("site-1", "2026-08-31").
		WillReturnError(sql.ErrNoRows)

	report, err := reportByKey("site-1", "2026-08-31")
	require.NoError(t, err)
	assert.Nil(t, report)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInsertReportAssignsID(t *testing.T) {
	mock := useMockDB(t)

	mock.ExpectQuery(`INSERT INTO reports \(id, user_id, site_id, date, site_name, work_type, company_name, workers, approvals, approval_titles\) VALUES \(\$1, \$2, \$3, \$4, \$5, \$6, \$7, \$8, \$9, \$10\) RETURNING created_at::text`).
		WithArgs(sqlmock.AnyArg(), "user-1", "site-1", "2026-08-31", "현장A", "", "",
			sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow("2026-08-31 09:00:00+00"))

	report := &Report{
		UserID:         "user-1",
		SiteID:         "site-1",
		Date:           "2026-08-31",
		SiteName:       "현장A",
		Workers:        WorkerList{{Name: "김철수", WorkDay: 1}},
		Approvals:      ApprovalList{{}, {}, {}},
		ApprovalTitles: DefaultApprovalTitles,
	}
	require.NoError(t, insertReport(report))
	assert.NotEmpty(t, report.ID)
	assert.NotEmpty(t, report.CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInsertReportDuplicateDay(t *testing.T) {
	mock := useMockDB(t)

	mock.ExpectQuery(`INSERT INTO reports`).
		WithArgs(sqlmock.AnyArg(), "user-1", "site-1", "2026-08-31", "현장A", "", "",
			sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnError(&pq.Error{Code: "23505"})

	report := &Report{
		UserID:   "user-1",
		SiteID:   "site-1",
		Date:     "2026-08-31",
		SiteName: "현장A",
	}
	err := insertReport(report)
	assert.True(t, errors.Is(err, errDuplicateReport))
	assert.NoError(t, mock.ExpectationsWereMet())
}

const updateReportQuery = `UPDATE reports SET site_name = \$1, work_type = \$2, company_name = \$3, workers = \$4, approvals = \$5, approval_titles = \$6 WHERE id = \$7 AND site_id IN \(SELECT id FROM sites WHERE user_id = \$8\)`

func TestUpdateReportScopedToOwner(t *testing.T) {
	mock := useMockDB(t)

	mock.ExpectExec(updateReportQuery).
		WithArgs("현장A", "철근", "대한건설",
			sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), "rep-1", "user-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	report := &Report{
		ID:          "rep-1",
		SiteName:    "현장A",
		WorkType:    "철근",
		CompanyName: "대한건설",
	}
	updated, err := updateReport(report, "user-1")
	require.NoError(t, err)
	assert.True(t, updated)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateReportOtherOwnersReport(t *testing.T) {
	mock := useMockDB(t)

	mock.ExpectExec(updateReportQuery).
		WithArgs("현장A", "", "",
			sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), "rep-1", "intruder").
		WillReturnResult(sqlmock.NewResult(0, 0))

	updated, err := updateReport(&Report{ID: "rep-1", SiteName: "현장A"}, "intruder")
	require.NoError(t, err)
	assert.False(t, updated)
	assert.NoError(t, mock.ExpectationsWereMet())
}

const updateApprovalsQuery = `UPDATE reports SET approvals = \$1 WHERE id = \$2 AND site_id IN \(SELECT id FROM sites WHERE user_id = \$3\)`

func TestUpdateApprovalsTouchesOnlyApprovals(t *testing.T) {
	mock := useMockDB(t)

	mock.ExpectExec(updateApprovalsQuery).
		WithArgs([]byte(`[{"name":"이부장","date":"2026-08-31"}]`), "rep-1", "user-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	updated, err := updateApprovals("rep-1", ApprovalList{{Name: "이부장", Date: "2026-08-31"}}, "user-1")
	require.NoError(t, err)
	assert.True(t, updated)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListReportDays(t *testing.T) {
	mock := useMockDB(t)

	mock.ExpectQuery(`SELECT date::text, workers FROM reports WHERE site_id = \$1`).
		WithArgs("site-1").
		WillReturnRows(sqlmock.NewRows([]string{"date", "workers"}).
			AddRow("2026-08-30", []byte(`[{"name":"Kim","work_day":1}]`)).
			AddRow("2026-08-31", []byte(`[{"name":"Kim2","work_day":2}]`)))

	days, err := listReportDays("site-1")
	require.NoError(t, err)
	require.Len(t, days, 2)
	assert.Equal(t, "Kim", days[0].Workers[0].Name)
	assert.Equal(t, 2.0, days[1].Workers[0].WorkDay)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListSites(t *testing.T) {
	mock := useMockDB(t)

	mock.ExpectQuery(`SELECT id, name, user_id, created_at::text FROM sites WHERE user_id = \$1 ORDER BY created_at DESC`).
		WithArgs("user-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "user_id", "created_at"}).
			AddRow("site-2", "현장B", "user-1", "2026-08-20 09:00:00+00").
			AddRow("site-1", "현장A", "user-1", "2026-08-10 09:00:00+00"))

	sites, err := listSites("user-1")
	require.NoError(t, err)
	require.Len(t, sites, 2)
	assert.Equal(t, "현장B", sites[0].Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateSite(t *testing.T) {
	mock := useMockDB(t)

	mock.ExpectQuery(`INSERT INTO sites \(id, name, user_id\) VALUES \(\$1, \$2, \$3\) RETURNING created_at::text`).
		WithArgs(sqlmock.AnyArg(), "현장A", "user-1").
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow("2026-08-31 09:00:00+00"))

	site, err := createSite("현장A", "user-1")
	require.NoError(t, err)
	assert.NotEmpty(t, site.ID)
	assert.Equal(t, "현장A", site.Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteSite(t *testing.T) {
	mock := useMockDB(t)

	mock.ExpectExec(`DELETE FROM sites WHERE id = \$1 AND user_id = \$2`).
		WithArgs("site-1", "user-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	deleted, err := deleteSite("site-1", "user-1")
	require.NoError(t, err)
	assert.True(t, deleted)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteSiteOtherOwner(t *testing.T) {
	mock := useMockDB(t)

	mock.ExpectExec(`DELETE FROM sites WHERE id = \$1 AND user_id = \$2`).
		WithArgs("site-1", "intruder").
		WillReturnResult(sqlmock.NewResult(0, 0))

	deleted, err := deleteSite("site-1", "intruder")
	require.NoError(t, err)
	assert.False(t, deleted)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSiteOwned(t *testing.T) {
	mock := useMockDB(t)

	expectSiteOwned(mock, "site-1", "user-1", true)
	owned, err := siteOwned("site-1", "user-1")
	require.NoError(t, err)
	assert.True(t, owned)

	expectSiteOwned(mock, "site-1", "user-2", false)
	owned, err = siteOwned("site-1", "user-2")
	require.NoError(t, err)
	assert.False(t, owned)
	assert.NoError(t, mock.ExpectationsWereMet())
}

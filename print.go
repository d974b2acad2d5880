package main

import (
	"html/template"
	"net/http"
	"strconv"
)

// The print view renders the stored report as a standalone A4 page,
// read-only. It consumes the same padded shape the editor sees.

func formatHours(v float64) string {
	if v == 0 {
		return ""
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

var printTmpl = template.Must(template.New("print").Funcs(template.FuncMap{
	"hours": formatHours,
	"total": func(w Worker) string { return formatHours(w.totalHours()) },
	"inc":   func(i int) int { return i + 1 },
}).Parse(`<!DOCTYPE html>
<html lang="ko">
<head>
<meta charset="utf-8">
<title>출력일보 인쇄</title>
<style>
body { font-family: "Malgun Gothic", sans-serif; }
@page { size: A4; margin: 20mm; }
h2 { text-align: center; }
table { width: 100%; border-collapse: collapse; }
th, td { border: 1px solid #000; padding: 6px; text-align: center; font-size: 10px; }
th { background-color: #f2f2f2; }
.approval td { height: 50px; }
.info { font-size: 12px; margin-bottom: 8px; }
</style>
</head>
<body>
<h2>일 일 출 력 일 보</h2>
<div class="info">
<p><strong>일자:</strong> {{.Report.Date}}</p>
<p><strong>현장명:</strong> {{.Report.SiteName}}</p>
<p><strong>공종명:</strong> {{.Report.WorkType}}</p>
<p><strong>업체명:</strong> {{.Report.CompanyName}}</p>
</div>
<table class="approval">
<tr>{{range .Report.ApprovalTitles}}<th>{{.}}</th>{{end}}</tr>
<tr>{{range .Report.Approvals}}<td>{{.Name}}<br>{{.Date}}</td>{{end}}</tr>
</table>
<br>
<table>
<tr><th rowspan="2">번호</th><th rowspan="2">직종</th><th rowspan="2">성명</th><th colspan="4">근무시간</th><th rowspan="2">작업내용</th></tr>
<tr><th>주간</th><th>야간</th><th>철야</th><th>합계</th></tr>
{{range $i, $w := .Report.Workers}}
<tr>
<td>{{inc $i}}</td>
<td>{{$w.Job}}</td>
<td>{{$w.Name}}</td>
<td>{{hours $w.WorkDay}}</td>
<td>{{hours $w.WorkNight}}</td>
<td>{{hours $w.WorkFullNight}}</td>
<td>{{total $w}}</td>
<td>{{$w.Description}}</td>
</tr>
{{end}}
<tr>
<td colspan="3"><strong>합계</strong></td>
<td>{{hours .TotalDay}}</td>
<td>{{hours .TotalNight}}</td>
<td>{{hours .TotalFullNight}}</td>
<td>{{hours .GrandTotal}}</td>
<td></td>
</tr>
</table>
</body>
</html>
`))

func printHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := activeUserID(w, r)
	if !ok {
		return
	}

	siteID := r.URL.Query().Get("site_id")
	date := r.URL.Query().Get("date")
	if siteID == "" || date == "" {
		http.Error(w, "site_id and date are required", http.StatusBadRequest)
		return
	}
	if !requireSiteOwner(w, siteID, userID) {
		return
	}

	report, err := reportByKey(siteID, date)
	if err != nil {
		logger.Error().Err(err).Msg("fetching report for print failed")
		http.Error(w, "Database error", http.StatusInternalServerError)
		return
	}
	if report == nil {
		http.Error(w, "Report not found", http.StatusNotFound)
		return
	}
	if len(report.ApprovalTitles) == 0 {
		report.ApprovalTitles = DefaultApprovalTitles
	}
	report.Approvals = SyncApprovals(report.ApprovalTitles, report.Approvals)
	report.Workers = PadWorkers(report.Workers)

	day, night, fullNight := SumWorkerHours(report.Workers)
	data := struct {
		Report         *Report
		TotalDay       float64
		TotalNight     float64
		TotalFullNight float64
		GrandTotal     float64
	}{report, day, night, fullNight, day + night + fullNight}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := printTmpl.Execute(w, data); err != nil {
		logger.Error().Err(err).Msg("rendering print view failed")
	}
}

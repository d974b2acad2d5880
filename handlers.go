package main

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
)

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

// requireSiteOwner confirms the site belongs to the session user and
// writes the response itself when it does not. Another user's site and
// a missing site answer identically.
func requireSiteOwner(w http.ResponseWriter, siteID, userID string) bool {
	owned, err := siteOwned(siteID, userID)
	if err != nil {
		logger.Error().Err(err).Str("site_id", siteID).Msg("site ownership check failed")
		http.Error(w, "Database error", http.StatusInternalServerError)
		return false
	}
	if !owned {
		http.Error(w, "Site not found", http.StatusNotFound)
		return false
	}
	return true
}

// Site handlers

func getSitesHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := activeUserID(w, r)
	if !ok {
		return
	}

	sites, err := listSites(userID)
	if err != nil {
		logger.Error().Err(err).Msg("listing sites failed")
		http.Error(w, "Database error", http.StatusInternalServerError)
		return
	}
	if sites == nil {
		sites = []Site{}
	}
	writeJSON(w, sites)
}

func createSiteHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := activeUserID(w, r)
	if !ok {
		return
	}

	var body struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}
	body.Name = strings.TrimSpace(body.Name)
	if body.Name == "" {
		http.Error(w, "현장 이름을 입력하세요.", http.StatusUnprocessableEntity)
		return
	}

	site, err := createSite(body.Name, userID)
	if err != nil {
		logger.Error().Err(err).Msg("creating site failed")
		http.Error(w, "Error creating site", http.StatusInternalServerError)
		return
	}

	notifier.Publish(sitesTopic)
	writeJSON(w, site)
}

func deleteSiteHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := activeUserID(w, r)
	if !ok {
		return
	}
	id := mux.Vars(r)["id"]

	deleted, err := deleteSite(id, userID)
	if err != nil {
		logger.Error().Err(err).Str("site_id", id).Msg("deleting site failed")
		http.Error(w, "Error deleting site", http.StatusInternalServerError)
		return
	}
	if !deleted {
		http.Error(w, "Site not found", http.StatusNotFound)
		return
	}

	notifier.Publish(sitesTopic, reportTopic(id))
	w.WriteHeader(http.StatusOK)
}

// Report handlers

// getReportHandler returns the report for a site and day, shaped for
// the editor: workers padded to the minimum row count and approval
// slots synced to the titles. With no stored report it synthesizes an
// empty template (no id) instead of a 404.
func getReportHandler(w http.ResponseWriter, r *http.Request) {
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
		logger.Error().Err(err).Str("site_id", siteID).Str("date", date).Msg("fetching report failed")
		http.Error(w, "Database error", http.StatusInternalServerError)
		return
	}
	if report == nil {
		report = &Report{
			SiteID:         siteID,
			Date:           date,
			ApprovalTitles: DefaultApprovalTitles,
		}
	}
	if len(report.ApprovalTitles) == 0 {
		report.ApprovalTitles = DefaultApprovalTitles
	}
	report.Workers = PadWorkers(report.Workers)
	report.Approvals = SyncApprovals(report.ApprovalTitles, report.Approvals)

	writeJSON(w, report)
}

func saveReportHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := activeUserID(w, r)
	if !ok {
		return
	}

	var report Report
	if err := json.NewDecoder(r.Body).Decode(&report); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}
	if report.SiteID == "" || report.Date == "" {
		http.Error(w, "site_id and date are required", http.StatusBadRequest)
		return
	}

	workers, err := NormalizeWorkers(report.Workers)
	if isValidationErr(err) {
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}
	if err != nil {
		http.Error(w, "Error normalizing workers", http.StatusInternalServerError)
		return
	}

	if !requireSiteOwner(w, report.SiteID, userID) {
		return
	}

	if len(report.ApprovalTitles) == 0 {
		report.ApprovalTitles = DefaultApprovalTitles
	}
	report.UserID = userID
	report.Workers = workers
	report.Approvals = SyncApprovals(report.ApprovalTitles, report.Approvals)

	if report.ID == "" {
		err = insertReport(&report)
		if errors.Is(err, errDuplicateReport) {
			http.Error(w, "이미 해당 날짜의 일보가 저장되어 있습니다. 새로고침 후 다시 시도해주세요.",
				http.StatusConflict)
			return
		}
	} else {
		var updated bool
		updated, err = updateReport(&report, userID)
		if err == nil && !updated {
			http.Error(w, "Report not found", http.StatusNotFound)
			return
		}
	}
	if err != nil {
		logger.Error().Err(err).Str("site_id", report.SiteID).Str("date", report.Date).
			Msg("saving report failed")
		http.Error(w, "저장 중 오류가 발생했습니다.", http.StatusInternalServerError)
		return
	}

	notifier.Publish(reportTopic(report.SiteID))
	writeJSON(w, report)
}

// nextApprovalHandler reports which slot the next approval targets, or
// that the chain is already complete.
func nextApprovalHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := activeUserID(w, r)
	if !ok {
		return
	}

	report, err := reportByID(mux.Vars(r)["id"], userID)
	if err != nil {
		http.Error(w, "Database error", http.StatusInternalServerError)
		return
	}
	if report == nil {
		http.Error(w, "Report not found", http.StatusNotFound)
		return
	}

	index, ok := NextApprovalIndex(SyncApprovals(report.ApprovalTitles, report.Approvals))
	if !ok {
		writeJSON(w, map[string]interface{}{"complete": true, "message": "모든 결재가 완료되었습니다."})
		return
	}
	writeJSON(w, map[string]interface{}{"complete": false, "index": index})
}

// confirmApprovalHandler fills one approval slot and persists only the
// approvals column, independent of any unsaved worker edits. The
// response carries the canonical approvals re-read from the store so
// the client drops its optimistic copy either way.
func confirmApprovalHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := activeUserID(w, r)
	if !ok {
		return
	}
	id := mux.Vars(r)["id"]

	var body struct {
		Index int    `json:"index"`
		Name  string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	report, err := reportByID(id, userID)
	if err != nil {
		http.Error(w, "Database error", http.StatusInternalServerError)
		return
	}
	if report == nil {
		http.Error(w, "Report not found", http.StatusNotFound)
		return
	}

	approvals, err := ConfirmApproval(SyncApprovals(report.ApprovalTitles, report.Approvals),
		body.Index, body.Name, timeNow())
	if err != nil {
		if isValidationErr(err) {
			http.Error(w, err.Error(), http.StatusUnprocessableEntity)
			return
		}
		http.Error(w, "Error confirming approval", http.StatusInternalServerError)
		return
	}

	updated, err := updateApprovals(id, approvals, userID)
	if err != nil {
		logger.Error().Err(err).Str("report_id", id).Msg("approval update failed")
		// Surface the stored state so the client rolls back.
		if stored, ferr := reportByID(id, userID); ferr == nil && stored != nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusInternalServerError)
			json.NewEncoder(w).Encode(map[string]interface{}{
				"message":   "결재 처리 중 오류가 발생했습니다.",
				"approvals": stored.Approvals,
			})
			return
		}
		http.Error(w, "결재 처리 중 오류가 발생했습니다.", http.StatusInternalServerError)
		return
	}
	if !updated {
		http.Error(w, "Report not found", http.StatusNotFound)
		return
	}

	notifier.Publish(reportTopic(report.SiteID))
	writeJSON(w, map[string]interface{}{"approvals": approvals})
}

// approvalTitlesHandler parses a comma-delimited title string and
// returns the re-derived slot list. Staging only; the next report save
// persists the new shape.
func approvalTitlesHandler(w http.ResponseWriter, r *http.Request) {
	if _, ok := activeUserID(w, r); !ok {
		return
	}

	var body struct {
		Titles    string       `json:"titles"`
		Approvals ApprovalList `json:"approvals"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	titles, err := ParseApprovalTitles(body.Titles)
	if isValidationErr(err) {
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}

	writeJSON(w, map[string]interface{}{
		"approval_titles": titles,
		"approvals":       SyncApprovals(titles, body.Approvals),
	})
}

// workerSearchHandler aggregates a worker's hours over a site's report
// history. A blank query returns the empty result without a query.
func workerSearchHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := activeUserID(w, r)
	if !ok {
		return
	}

	siteID := r.URL.Query().Get("site_id")
	query := r.URL.Query().Get("q")
	if siteID == "" {
		http.Error(w, "site_id is required", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(query) == "" {
		writeJSON(w, WorkerSearchResult{Query: query, Days: []WorkerDayTotal{}})
		return
	}
	if !requireSiteOwner(w, siteID, userID) {
		return
	}

	days, err := listReportDays(siteID)
	if err != nil {
		logger.Error().Err(err).Str("site_id", siteID).Msg("worker search failed")
		http.Error(w, "Database error", http.StatusInternalServerError)
		return
	}

	result := AggregateWorkerHours(days, query)
	if result.Days == nil {
		result.Days = []WorkerDayTotal{}
	}
	writeJSON(w, result)
}

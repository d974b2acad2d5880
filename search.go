package main

import (
	"sort"
	"strings"
)

// ReportDay is the slice of a report the worker search reads: its date
// and worker rows.
type ReportDay struct {
	Date    string     `json:"date"`
	Workers WorkerList `json:"workers"`
}

// WorkerDayTotal is one result row: the summed hours of every matching
// worker on one report date.
type WorkerDayTotal struct {
	Date          string  `json:"date"`
	WorkDay       float64 `json:"work_day"`
	WorkNight     float64 `json:"work_night"`
	WorkFullNight float64 `json:"work_full_night"`
}

type WorkerSearchResult struct {
	Query         string           `json:"query"`
	Days          []WorkerDayTotal `json:"days"`
	WorkDay       float64          `json:"work_day"`
	WorkNight     float64          `json:"work_night"`
	WorkFullNight float64          `json:"work_full_night"`
}

// AggregateWorkerHours computes per-date hour totals for every worker
// whose name contains query, over a site's report history. Matching is
// a case-sensitive substring test, so "Kim" also counts "Kim2". A date
// contributes a row only if some total is positive. Rows come back
// most recent first. A blank query yields the empty result.
func AggregateWorkerHours(reports []ReportDay, query string) WorkerSearchResult {
	result := WorkerSearchResult{Query: query}
	if strings.TrimSpace(query) == "" {
		return result
	}

	for _, report := range reports {
		var day WorkerDayTotal
		for _, w := range report.Workers {
			if w.Name == "" || !strings.Contains(w.Name, query) {
				continue
			}
			day.WorkDay += w.WorkDay
			day.WorkNight += w.WorkNight
			day.WorkFullNight += w.WorkFullNight
		}
		if day.WorkDay > 0 || day.WorkNight > 0 || day.WorkFullNight > 0 {
			day.Date = report.Date
			result.Days = append(result.Days, day)
			result.WorkDay += day.WorkDay
			result.WorkNight += day.WorkNight
			result.WorkFullNight += day.WorkFullNight
		}
	}

	sort.SliceStable(result.Days, func(i, j int) bool {
		return result.Days[i].Date > result.Days[j].Date
	})
	return result
}

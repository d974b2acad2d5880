package main

import (
	"fmt"
	"strings"
)

// minWorkerRows is how many rows the editor always shows; blank rows
// beyond the saved workers are display padding only and never persist.
const minWorkerRows = 15

// PadWorkers extends a saved worker list with blank rows up to the
// editor's minimum row count. The saved rows keep their order.
func PadWorkers(workers []Worker) []Worker {
	padded := make([]Worker, 0, max(len(workers), minWorkerRows))
	padded = append(padded, workers...)
	for len(padded) < minWorkerRows {
		padded = append(padded, Worker{})
	}
	return padded
}

// NormalizeWorkers applies the save-time reconciliation pass to a raw
// worker list, in original row order:
//
//  1. rows without a name get all hour fields zeroed
//  2. job and description fill down from the nearest preceding
//     non-blank value into named rows that left them blank
//  3. every named row must record some hours
//  4. names must be unique after trimming
//  5. unnamed rows are dropped
//
// On a validation failure the input is untouched and nothing is
// returned; the caller aborts the save.
func NormalizeWorkers(workers []Worker) ([]Worker, error) {
	processed := make([]Worker, len(workers))
	copy(processed, workers)

	for i := range processed {
		if strings.TrimSpace(processed[i].Name) == "" {
			processed[i].WorkDay = 0
			processed[i].WorkNight = 0
			processed[i].WorkFullNight = 0
		}
	}

	// Fill-down tracks the last non-blank job/description over the
	// whole list, named or not, so a heading row can seed a group.
	var lastJob, lastDescription string
	for i := range processed {
		if strings.TrimSpace(processed[i].Job) != "" {
			lastJob = processed[i].Job
		}
		if strings.TrimSpace(processed[i].Description) != "" {
			lastDescription = processed[i].Description
		}
		if strings.TrimSpace(processed[i].Name) == "" {
			continue
		}
		if strings.TrimSpace(processed[i].Job) == "" {
			processed[i].Job = lastJob
		}
		if strings.TrimSpace(processed[i].Description) == "" {
			processed[i].Description = lastDescription
		}
	}

	seen := make(map[string]bool)
	active := make([]Worker, 0, len(processed))
	for _, w := range processed {
		name := strings.TrimSpace(w.Name)
		if name == "" {
			continue
		}
		if w.totalHours() == 0 {
			return nil, validationErr(fmt.Sprintf("%s님의 근무시간을 기재해주세요.", w.Name))
		}
		if seen[name] {
			return nil, validationErr("이름이 중복됩니다. 이름 출생연도로 기재해주세요. 예시: 홍길동60")
		}
		seen[name] = true
		active = append(active, w)
	}

	return active, nil
}

// SumWorkerHours totals the three shift columns over named rows, for
// the report footer and the print view.
func SumWorkerHours(workers []Worker) (day, night, fullNight float64) {
	for _, w := range workers {
		if w.Name == "" {
			continue
		}
		day += w.WorkDay
		night += w.WorkNight
		fullNight += w.WorkFullNight
	}
	return day, night, fullNight
}

package main

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
)

type User struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	CreatedAt string `json:"created_at"`
}

type Site struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	UserID    string `json:"user_id"`
	CreatedAt string `json:"created_at"`
}

// Worker is one row of a daily report: name, trade and shift counts.
// Hours are counted in shifts (0.5 steps in the editor, stored as-is).
type Worker struct {
	Name          string  `json:"name"`
	Job           string  `json:"job"`
	WorkDay       float64 `json:"work_day"`
	WorkNight     float64 `json:"work_night"`
	WorkFullNight float64 `json:"work_full_night"`
	Description   string  `json:"description"`
}

func (w Worker) totalHours() float64 {
	return w.WorkDay + w.WorkNight + w.WorkFullNight
}

// ApprovalSlot is one sign-off cell in the report's approval box. An
// empty slot has both fields blank; a filled slot is never cleared.
type ApprovalSlot struct {
	Name string `json:"name"`
	Date string `json:"date"`
}

func (a ApprovalSlot) filled() bool {
	return strings.TrimSpace(a.Name) != ""
}

type Report struct {
	ID             string       `json:"id,omitempty"`
	UserID         string       `json:"user_id,omitempty"`
	SiteID         string       `json:"site_id"`
	Date           string       `json:"date"`
	SiteName       string       `json:"site_name"`
	WorkType       string       `json:"work_type"`
	CompanyName    string       `json:"company_name"`
	Workers        WorkerList   `json:"workers"`
	Approvals      ApprovalList `json:"approvals"`
	ApprovalTitles TitleList    `json:"approval_titles"`
	CreatedAt      string       `json:"created_at,omitempty"`
}

// Worker rows, approval slots and titles live in jsonb columns, so the
// slice types double as their own column codecs.

type WorkerList []Worker

func (l WorkerList) Value() (driver.Value, error) {
	return json.Marshal(l)
}

func (l *WorkerList) Scan(src interface{}) error {
	return scanJSON(src, l)
}

type ApprovalList []ApprovalSlot

func (l ApprovalList) Value() (driver.Value, error) {
	return json.Marshal(l)
}

func (l *ApprovalList) Scan(src interface{}) error {
	return scanJSON(src, l)
}

type TitleList []string

func (l TitleList) Value() (driver.Value, error) {
	return json.Marshal(l)
}

func (l *TitleList) Scan(src interface{}) error {
	return scanJSON(src, l)
}

func scanJSON(src, dst interface{}) error {
	switch v := src.(type) {
	case nil:
		return nil
	case []byte:
		return json.Unmarshal(v, dst)
	case string:
		return json.Unmarshal([]byte(v), dst)
	default:
		return fmt.Errorf("cannot scan %T into jsonb column", src)
	}
}

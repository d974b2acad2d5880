package main

import (
	"strings"
	"time"
)

// DefaultApprovalTitles is the sign-off chain a new report starts with.
var DefaultApprovalTitles = TitleList{"작성자", "담당자", "현장소장"}

// NextApprovalIndex scans the slots in order and returns the index of
// the first empty one. ok is false when every slot is filled and the
// workflow is complete.
func NextApprovalIndex(approvals []ApprovalSlot) (index int, ok bool) {
	for i, a := range approvals {
		if !a.filled() {
			return i, true
		}
	}
	return -1, false
}

// ConfirmApproval writes the approver into slot index, stamped with the
// given time's date. It returns a new slice; the input is untouched.
// A blank approver name or an out-of-range index is a validation error.
func ConfirmApproval(approvals []ApprovalSlot, index int, approver string, now time.Time) ([]ApprovalSlot, error) {
	if strings.TrimSpace(approver) == "" {
		return nil, validationErr("결재자 이름을 입력하세요.")
	}
	if index < 0 || index >= len(approvals) {
		return nil, validationErr("결재란이 없습니다.")
	}
	updated := make([]ApprovalSlot, len(approvals))
	copy(updated, approvals)
	updated[index] = ApprovalSlot{Name: approver, Date: now.Format("2006-01-02")}
	return updated, nil
}

// ParseApprovalTitles splits a comma-delimited title string, trims each
// part and drops blanks. An empty result is a validation error.
func ParseApprovalTitles(s string) (TitleList, error) {
	var titles TitleList
	for _, part := range strings.Split(s, ",") {
		if t := strings.TrimSpace(part); t != "" {
			titles = append(titles, t)
		}
	}
	if len(titles) == 0 {
		return nil, validationErr("결재란 직책을 입력하세요.")
	}
	return titles, nil
}

// SyncApprovals re-derives the slot list for a title list: the slot at
// each index is kept if one existed, new indices get empty slots, and
// slots beyond the title count are dropped.
func SyncApprovals(titles []string, approvals []ApprovalSlot) ApprovalList {
	synced := make(ApprovalList, len(titles))
	for i := range titles {
		if i < len(approvals) {
			synced[i] = approvals[i]
		}
	}
	return synced
}

package dataprocessing

import (
	"strings"

	"qpulse/pkg/contracts/domain"
)

// StatusEntry is one row of a separately exported status extract.
type StatusEntry struct {
	NotificationNumber string
	StatusText         string
}

// DefaultStatusMapping is the alias table for status extracts.
var DefaultStatusMapping = ColumnMapping{
	"notification": {"notification no", "notification number", "notif no", "notification"},
	"status":       {"system status", "user status", "status text", "status"},
}

var statusRequired = []string{"notification", "status"}

// statusRule maps status-text evidence to a resolved status. Rules are
// evaluated in slice order, first match wins; the coded source-system tokens
// sit before the substring heuristics because they are unambiguous
// vocabulary, and that precedence must not change.
type statusRule struct {
	token     string
	substring bool
	status    domain.Status
}

var statusRules = []statusRule{
	{token: "NOCO", status: domain.StatusCompleted},
	{token: "OSNO", status: domain.StatusInProgress},
	{token: "closed", substring: true, status: domain.StatusCompleted},
	{token: "complete", substring: true, status: domain.StatusCompleted},
	{token: "done", substring: true, status: domain.StatusCompleted},
	{token: "finished", substring: true, status: domain.StatusCompleted},
	{token: "progress", substring: true, status: domain.StatusInProgress},
	{token: "ongoing", substring: true, status: domain.StatusInProgress},
	{token: "open", substring: true, status: domain.StatusInProgress},
	{token: "released", substring: true, status: domain.StatusInProgress},
}

// ResolveStatus resolves free-form status text to the status enum.
// Unrecognized but present text resolves to Pending; callers must not call
// this with empty text — absence of text means StatusUnknown, never a
// default.
func ResolveStatus(text string) domain.Status {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return domain.StatusUnknown
	}

	upper := strings.ToUpper(trimmed)
	lower := strings.ToLower(trimmed)
	for _, rule := range statusRules {
		if rule.substring {
			if strings.Contains(lower, rule.token) {
				return rule.status
			}
		} else if strings.Contains(upper, rule.token) {
			return rule.status
		}
	}
	return domain.StatusPending
}

// ParseStatusExtract decodes a status extract into entries keyed by
// notification number.
func ParseStatusExtract(data []byte, mapping ColumnMapping) ([]StatusEntry, []string, error) {
	if mapping == nil {
		mapping = DefaultStatusMapping
	}

	rows, cols, err := sheetTable(data, mapping, statusRequired)
	if err != nil {
		return nil, nil, err
	}

	var (
		entries []StatusEntry
		errs    []string
	)
	for i, row := range rows {
		if IsEmptyRow(row) {
			continue
		}

		number := CellValue(row, cols["notification"], "")
		if number == "" {
			errs = append(errs, rowError(i, "missing notification number"))
			continue
		}

		entries = append(entries, StatusEntry{
			NotificationNumber: strings.TrimSpace(number),
			StatusText:         CellValue(row, cols["status"], ""),
		})
	}
	return entries, errs, nil
}

// MergeStatuses joins a status extract onto base notifications by exact
// match on trimmed notification number. Matched records get the resolved
// status and raw text; unmatched records keep whatever status their own
// parser set inline, which may be none.
func MergeStatuses(base []domain.Notification, statuses []StatusEntry) []domain.Notification {
	if len(statuses) == 0 {
		return base
	}

	byNumber := make(map[string]StatusEntry, len(statuses))
	for _, entry := range statuses {
		byNumber[entry.NotificationNumber] = entry
	}

	merged := make([]domain.Notification, len(base))
	for i, record := range base {
		if entry, ok := byNumber[strings.TrimSpace(record.NotificationNumber)]; ok {
			record.StatusText = entry.StatusText
			record.Status = ResolveStatus(entry.StatusText)
		}
		merged[i] = record
	}
	return merged
}

// MergeCorrections applies corrected records over raw ones, last-write-wins
// by identifier set membership: a corrected record with a known ID replaces
// the raw record in place, unseen IDs are appended. Timestamps are never
// consulted.
func MergeCorrections(raw, corrected []domain.Notification) []domain.Notification {
	if len(corrected) == 0 {
		return raw
	}

	index := make(map[string]int, len(raw))
	merged := make([]domain.Notification, len(raw))
	copy(merged, raw)
	for i, record := range merged {
		index[record.ID] = i
	}

	for _, record := range corrected {
		if i, ok := index[record.ID]; ok {
			merged[i] = record
		} else {
			merged = append(merged, record)
		}
	}
	return merged
}

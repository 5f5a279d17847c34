// Package dataprocessing implements the tolerant tabular ingestion and KPI
// derivation engine for quality-system spreadsheet extracts.
//
// The package turns raw workbook buffers into typed domain records
// (notifications, deliveries, plants) and folds those records into monthly
// per-site KPI rows and global PPM figures. Parsing is deliberately
// forgiving: headers are resolved through alias lists, dates and numbers are
// parsed through ordered fallback chains, and a malformed row never discards
// the rest of its sheet.
//
// Processing flow:
//
//	workbook bytes -> record parsers -> typed collections -> status merge -> aggregation
//
// All functions here are pure and synchronous; callers may parse independent
// files concurrently.
package dataprocessing

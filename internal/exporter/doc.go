// Package exporter renders KPI aggregates as CSV and JSON. CSV output
// carries a UTF-8 BOM and fixed two-decimal formatting so the files
// open cleanly in Excel.
package exporter

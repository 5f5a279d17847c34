package exporter

import (
	"encoding/json"
	"fmt"
	"io"

	"qpulse/internal/dataprocessing"
	"qpulse/pkg/contracts/domain"
)

// KPIExporter renders aggregated KPI rows as CSV or JSON, either
// streamed to a writer or dropped as files in the export directory.
type KPIExporter struct {
	csvWriter *CSVWriter
}

// NewKPIExporter creates a new KPI exporter
func NewKPIExporter(exportDir string) *KPIExporter {
	return &KPIExporter{
		csvWriter: NewCSVWriter(exportDir),
	}
}

func kpiHeaders() []string {
	return []string{
		"site_code",
		"month",
		"customer_complaints",
		"supplier_complaints",
		"internal_complaints",
		"total_complaints",
		"customer_defects",
		"supplier_defects",
		"internal_defects",
		"customer_deliveries",
		"supplier_deliveries",
		"ppap_in_progress",
		"ppap_completed",
		"deviations",
	}
}

func kpiRow(row *domain.MonthlySiteKPI) []string {
	return []string{
		row.SiteCode,
		row.Month,
		formatInt(row.CustomerComplaints),
		formatInt(row.SupplierComplaints),
		formatInt(row.InternalComplaints),
		formatInt(row.TotalComplaints()),
		formatFloat(row.CustomerDefects),
		formatFloat(row.SupplierDefects),
		formatFloat(row.InternalDefects),
		formatFloat(row.CustomerDeliveries),
		formatFloat(row.SupplierDeliveries),
		formatInt(row.PPAPInProgress),
		formatInt(row.PPAPCompleted),
		formatInt(row.Deviations),
	}
}

// WriteRowsCSV streams the KPI rows as CSV
func (e *KPIExporter) WriteRowsCSV(w io.Writer, rows []domain.MonthlySiteKPI) error {
	records := make([][]string, 0, len(rows))
	for i := range rows {
		records = append(records, kpiRow(&rows[i]))
	}

	return e.csvWriter.Write(w, WriteOptions{
		Headers:   kpiHeaders(),
		Records:   records,
		BOMPrefix: true,
	})
}

// ExportRowsCSV writes the KPI rows to a CSV file in the export directory
func (e *KPIExporter) ExportRowsCSV(filename string, rows []domain.MonthlySiteKPI) error {
	records := make([][]string, 0, len(rows))
	for i := range rows {
		records = append(records, kpiRow(&rows[i]))
	}

	return e.csvWriter.WriteFile(filename, WriteOptions{
		Headers:   kpiHeaders(),
		Records:   records,
		BOMPrefix: true,
	})
}

// WriteSummaryCSV streams whole-input PPM and series insights as a
// two-column metric/value CSV.
func (e *KPIExporter) WriteSummaryCSV(w io.Writer, ppm domain.GlobalPPM, complaints, defects, customerPPM dataprocessing.SeriesInsights) error {
	records := [][]string{
		{"customer_ppm", formatPPM(ppm.CustomerPPM)},
		{"supplier_ppm", formatPPM(ppm.SupplierPPM)},
	}
	records = append(records, insightRecords("complaints", complaints)...)
	records = append(records, insightRecords("defects", defects)...)
	records = append(records, insightRecords("customer_ppm_series", customerPPM)...)

	return e.csvWriter.Write(w, WriteOptions{
		Headers:   []string{"metric", "value"},
		Records:   records,
		BOMPrefix: true,
	})
}

func insightRecords(prefix string, s dataprocessing.SeriesInsights) [][]string {
	return [][]string{
		{fmt.Sprintf("%s_mean", prefix), formatFloat(s.Mean)},
		{fmt.Sprintf("%s_median", prefix), formatFloat(s.Median)},
		{fmt.Sprintf("%s_min", prefix), formatFloat(s.Min)},
		{fmt.Sprintf("%s_max", prefix), formatFloat(s.Max)},
		{fmt.Sprintf("%s_trend_percent", prefix), formatFloat(s.Trend)},
	}
}

// WriteJSON streams any export payload as indented JSON
func (e *KPIExporter) WriteJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

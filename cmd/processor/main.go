package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"qpulse/internal/config"
	"qpulse/internal/exporter"
	"qpulse/internal/infrastructure"
	"qpulse/internal/services"
	"qpulse/internal/validation"
)

// sourceHints maps filename fragments to source types, checked in order
// so the more specific fragments win.
var sourceHints = []struct {
	fragment string
	source   services.SourceType
}{
	{"correction", services.SourceCorrections},
	{"status", services.SourceStatus},
	{"ppap", services.SourcePPAP},
	{"deviation", services.SourceDeviations},
	{"plant", services.SourcePlants},
	{"supplier_deliver", services.SourceSupplierDeliveries},
	{"customer_deliver", services.SourceCustomerDeliveries},
	{"complaint", services.SourceComplaints},
	{"supplier", services.SourceSupplierDeliveries},
	{"deliver", services.SourceCustomerDeliveries},
}

// inferSourceType guesses the source type from a workbook filename.
func inferSourceType(filename string) (services.SourceType, bool) {
	name := strings.ToLower(filepath.Base(filename))
	for _, hint := range sourceHints {
		if strings.Contains(name, hint.fragment) {
			return hint.source, true
		}
	}
	return "", false
}

func main() {
	inDir := flag.String("in", "", "input directory for .xlsx files (defaults to configured upload directory)")
	outDir := flag.String("out", "", "output directory for report files (defaults to configured export directory)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		slog.Warn("Failed to load config, using defaults", "error", err)
		cfg = config.Default()
	}

	if *inDir == "" {
		*inDir = cfg.Paths.UploadDir
	}
	if *outDir == "" {
		*outDir = cfg.Paths.ExportDir
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Warn("Failed to initialize logger, using default", "error", err)
		logger = slog.Default()
	}
	defer infrastructure.CloseLogFile()

	logger.Info("Starting quality data processing",
		slog.String("input_dir", *inDir),
		slog.String("output_dir", *outDir))

	validator := validation.NewFileValidator(logger)
	if err := validator.ValidateInputDirectory(*inDir, ""); err != nil {
		logger.Error("Input directory invalid", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if err := validator.ValidateOutputDirectory(*outDir); err != nil {
		logger.Error("Output directory invalid", slog.String("error", err.Error()))
		os.Exit(1)
	}

	reqs, skipped, err := collectRequests(*inDir, validator, logger)
	if err != nil {
		logger.Error("Failed to read input directory", slog.String("error", err.Error()))
		os.Exit(1)
	}

	fmt.Printf("Found %d workbooks (%d skipped)\n", len(reqs), skipped)

	if len(reqs) == 0 {
		logger.Warn("No recognizable workbooks found",
			slog.String("input_dir", *inDir))
		fmt.Println("Nothing to process")
		return
	}

	ctx := context.Background()
	service := services.NewDataService(cfg, logger, nil)

	dataset, err := service.IngestBatch(ctx, reqs)
	if err != nil {
		logger.Error("Ingest failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	for filename, errs := range dataset.RowErrors {
		for _, rowErr := range errs {
			logger.Warn("Row rejected",
				slog.String("filename", filename),
				slog.String("error", rowErr))
		}
	}

	report, err := service.BuildKPIs(ctx)
	if err != nil {
		logger.Error("KPI build failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	exp := exporter.NewKPIExporter(*outDir)

	if err := exp.ExportRowsCSV("kpi_rows.csv", report.Rows); err != nil {
		logger.Error("Error writing KPI rows CSV", slog.String("error", err.Error()))
		os.Exit(1)
	}

	summaryPath := filepath.Join(*outDir, "kpi_summary.csv")
	if err := writeSummary(exp, summaryPath, report); err != nil {
		logger.Error("Error writing KPI summary CSV", slog.String("error", err.Error()))
		os.Exit(1)
	}

	reportPath := filepath.Join(*outDir, "kpi_report.json")
	if err := writeJSONReport(exp, reportPath, report); err != nil {
		logger.Error("Error writing KPI report JSON", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("Processing complete",
		slog.Int("notifications", len(dataset.Notifications)),
		slog.Int("deliveries", len(dataset.Deliveries)),
		slog.Int("kpi_rows", len(report.Rows)))

	fmt.Printf("Processing complete: %d KPI rows\n", len(report.Rows))
}

// collectRequests discovers workbooks in dir and builds ingest requests,
// skipping files whose source type cannot be inferred from the name.
func collectRequests(dir string, validator *validation.FileValidator, logger *slog.Logger) ([]services.ParseRequest, int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, 0, err
	}

	var reqs []services.ParseRequest
	skipped := 0

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if err := validator.ValidateExcelFile(path); err != nil {
			skipped++
			continue
		}

		source, ok := inferSourceType(entry.Name())
		if !ok {
			logger.Warn("Cannot infer source type from filename, skipping",
				slog.String("filename", entry.Name()))
			skipped++
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, 0, fmt.Errorf("read %s: %w", entry.Name(), err)
		}

		reqs = append(reqs, services.ParseRequest{
			Filename:   entry.Name(),
			SourceType: source,
			Data:       data,
		})
	}

	// Stable ordering keeps logs and merge behavior deterministic.
	sort.Slice(reqs, func(i, j int) bool { return reqs[i].Filename < reqs[j].Filename })

	return reqs, skipped, nil
}

func writeSummary(exp *exporter.KPIExporter, path string, report *services.KPIReport) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return exp.WriteSummaryCSV(f, report.PPM, report.Complaints, report.Defects, report.CustomerPPM)
}

func writeJSONReport(exp *exporter.KPIExporter, path string, report *services.KPIReport) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return exp.WriteJSON(f, report)
}

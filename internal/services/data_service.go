package services

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"golang.org/x/sync/errgroup"

	"qpulse/internal/config"
	"qpulse/internal/dataprocessing"
	"qpulse/internal/infrastructure"
	"qpulse/internal/refcache"
	"qpulse/pkg/contracts/domain"
)

// SourceType identifies which parser handles an uploaded workbook.
type SourceType string

const (
	SourceComplaints         SourceType = "complaints"
	SourceCorrections        SourceType = "corrections"
	SourceStatus             SourceType = "status"
	SourceCustomerDeliveries SourceType = "deliveries_customer"
	SourceSupplierDeliveries SourceType = "deliveries_supplier"
	SourcePPAP               SourceType = "ppap"
	SourceDeviations         SourceType = "deviations"
	SourcePlants             SourceType = "plants"
)

// ParseRequest describes one uploaded workbook to ingest.
type ParseRequest struct {
	Filename   string     `validate:"required"`
	SourceType SourceType `validate:"required,oneof=complaints corrections status deliveries_customer deliveries_supplier ppap deviations plants"`
	Data       []byte     `validate:"required"`
}

// SourceResult holds the typed records extracted from a single workbook.
type SourceResult struct {
	Filename   string                       `json:"filename"`
	SourceType SourceType                   `json:"source_type"`
	Records    int                          `json:"records"`
	RowErrors  []string                     `json:"row_errors,omitempty"`
	Complaints []domain.Notification        `json:"-"`
	Statuses   []dataprocessing.StatusEntry `json:"-"`
	Deliveries []domain.Delivery            `json:"-"`
	Plants     []domain.Plant               `json:"-"`
}

// Dataset is the merged output of one ingest batch. It is the unit the
// KPI endpoints read, replaced wholesale on every successful ingest.
type Dataset struct {
	Notifications []domain.Notification `json:"notifications"`
	Deliveries    []domain.Delivery     `json:"deliveries"`
	Plants        []domain.Plant        `json:"plants"`
	RowErrors     map[string][]string   `json:"row_errors,omitempty"`
	IngestedAt    time.Time             `json:"ingested_at"`
}

// KPIReport is the aggregated result served to clients.
type KPIReport struct {
	Rows        []domain.MonthlySiteKPI        `json:"rows"`
	PPM         domain.GlobalPPM               `json:"ppm"`
	Complaints  dataprocessing.SeriesInsights  `json:"complaints"`
	Defects     dataprocessing.SeriesInsights  `json:"defects"`
	CustomerPPM dataprocessing.SeriesInsights  `json:"customer_ppm"`
	GeneratedAt time.Time                      `json:"generated_at"`
}

// DataService parses uploaded workbooks into typed records and serves
// KPI aggregates built from the most recent ingest.
type DataService struct {
	config   *config.Config
	logger   *slog.Logger
	metrics  *infrastructure.IngestMetrics
	validate *validator.Validate

	plantCache *refcache.Cache[[]domain.Plant]

	mu      sync.RWMutex
	current *Dataset
}

// NewDataService creates a new data service
func NewDataService(cfg *config.Config, logger *slog.Logger, metrics *infrastructure.IngestMetrics) *DataService {
	if logger == nil {
		logger = slog.Default()
	}

	logger.Info("DataService initialized",
		slog.String("upload_dir", cfg.Paths.UploadDir),
		slog.String("reference_dir", cfg.Paths.ReferenceDir),
		slog.Int("max_concurrent", cfg.Processing.MaxConcurrent))

	return &DataService{
		config:     cfg,
		logger:     logger,
		metrics:    metrics,
		validate:   validator.New(),
		plantCache: refcache.New[[]domain.Plant](logger, refcache.OSStat),
	}
}

// ParseSource parses a single workbook according to its source type.
// Row-level failures are reported in the result, not as errors; only
// structural failures (unreadable workbook, missing required columns)
// surface as an error.
func (ds *DataService) ParseSource(ctx context.Context, req ParseRequest) (*SourceResult, error) {
	if err := ds.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if len(req.Data) == 0 {
		return nil, fmt.Errorf("%s: %w", req.Filename, ErrEmptyUpload)
	}

	start := time.Now()
	result := &SourceResult{
		Filename:   req.Filename,
		SourceType: req.SourceType,
	}

	var err error
	switch req.SourceType {
	case SourceComplaints, SourceCorrections:
		result.Complaints, result.RowErrors, err = dataprocessing.ParseComplaints(req.Data, dataprocessing.DefaultComplaintMapping)
		result.Records = len(result.Complaints)
	case SourceStatus:
		result.Statuses, result.RowErrors, err = dataprocessing.ParseStatusExtract(req.Data, dataprocessing.DefaultStatusMapping)
		result.Records = len(result.Statuses)
	case SourceCustomerDeliveries:
		result.Deliveries, result.RowErrors, err = dataprocessing.ParseDeliveries(req.Data, domain.DirectionCustomer, dataprocessing.DefaultDeliveryMapping)
		result.Records = len(result.Deliveries)
	case SourceSupplierDeliveries:
		result.Deliveries, result.RowErrors, err = dataprocessing.ParseDeliveries(req.Data, domain.DirectionSupplier, dataprocessing.DefaultDeliveryMapping)
		result.Records = len(result.Deliveries)
	case SourcePPAP:
		result.Complaints, result.RowErrors, err = dataprocessing.ParsePPAP(req.Data, dataprocessing.DefaultPPAPMapping)
		result.Records = len(result.Complaints)
	case SourceDeviations:
		result.Complaints, result.RowErrors, err = dataprocessing.ParseDeviations(req.Data, dataprocessing.DefaultDeviationMapping)
		result.Records = len(result.Complaints)
	case SourcePlants:
		result.Plants, result.RowErrors, err = dataprocessing.ParsePlants(req.Data, dataprocessing.DefaultPlantMapping)
		result.Records = len(result.Plants)
	default:
		return nil, fmt.Errorf("%w %q", ErrUnknownSourceType, req.SourceType)
	}

	duration := time.Since(start)
	infrastructure.RecordParseMetrics(ctx, ds.metrics, string(req.SourceType),
		int64(result.Records), int64(len(result.RowErrors)), duration, err == nil)

	if err != nil {
		ds.logger.ErrorContext(ctx, "workbook parse failed",
			slog.String("filename", req.Filename),
			slog.String("source_type", string(req.SourceType)),
			slog.String("error", err.Error()))
		return nil, fmt.Errorf("%s: %w", req.Filename, err)
	}

	ds.logger.InfoContext(ctx, "workbook parsed",
		slog.String("filename", req.Filename),
		slog.String("source_type", string(req.SourceType)),
		slog.Int("records", result.Records),
		slog.Int("row_errors", len(result.RowErrors)),
		slog.Duration("duration", duration))

	return result, nil
}

// IngestBatch parses all requests concurrently and merges the results
// into a single dataset, which replaces the current one on success.
func (ds *DataService) IngestBatch(ctx context.Context, reqs []ParseRequest) (*Dataset, error) {
	if len(reqs) == 0 {
		return nil, fmt.Errorf("%w: no files supplied", ErrInvalidInput)
	}

	results := make([]*SourceResult, len(reqs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(ds.config.Processing.MaxConcurrent)
	for i, req := range reqs {
		g.Go(func() error {
			res, err := ds.ParseSource(gctx, req)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	dataset := ds.assemble(reqs, results)

	ds.mu.Lock()
	ds.current = dataset
	ds.mu.Unlock()

	ds.logger.InfoContext(ctx, "ingest batch complete",
		slog.Int("files", len(reqs)),
		slog.Int("notifications", len(dataset.Notifications)),
		slog.Int("deliveries", len(dataset.Deliveries)),
		slog.Int("plants", len(dataset.Plants)))

	return dataset, nil
}

// assemble merges per-file results into one dataset. Correction files
// override raw complaint rows by record ID, and the status extract is
// folded in last so it wins over inline status columns.
func (ds *DataService) assemble(reqs []ParseRequest, results []*SourceResult) *Dataset {
	var (
		complaints  []domain.Notification
		corrections []domain.Notification
		others      []domain.Notification
		statuses    []dataprocessing.StatusEntry
		deliveries  []domain.Delivery
		plants      []domain.Plant
	)
	rowErrors := make(map[string][]string)

	for i, res := range results {
		if res == nil {
			continue
		}
		if len(res.RowErrors) > 0 {
			rowErrors[res.Filename] = res.RowErrors
		}
		switch reqs[i].SourceType {
		case SourceComplaints:
			complaints = append(complaints, res.Complaints...)
		case SourceCorrections:
			corrections = append(corrections, res.Complaints...)
		case SourcePPAP, SourceDeviations:
			others = append(others, res.Complaints...)
		case SourceStatus:
			statuses = append(statuses, res.Statuses...)
		case SourceCustomerDeliveries, SourceSupplierDeliveries:
			deliveries = append(deliveries, res.Deliveries...)
		case SourcePlants:
			plants = append(plants, res.Plants...)
		}
	}

	notifications := dataprocessing.MergeCorrections(complaints, corrections)
	notifications = append(notifications, others...)
	notifications = dataprocessing.MergeStatuses(notifications, statuses)
	applyPlantInfo(notifications, plants)

	if len(rowErrors) == 0 {
		rowErrors = nil
	}

	return &Dataset{
		Notifications: notifications,
		Deliveries:    deliveries,
		Plants:        plants,
		RowErrors:     rowErrors,
		IngestedAt:    time.Now().UTC(),
	}
}

// applyPlantInfo fills in site names from the plant reference where the
// source workbook left them blank.
func applyPlantInfo(notifications []domain.Notification, plants []domain.Plant) {
	if len(plants) == 0 {
		return
	}
	byCode := make(map[string]domain.Plant, len(plants))
	for _, p := range plants {
		byCode[p.Code] = p
	}
	for i := range notifications {
		if notifications[i].SiteName != "" {
			continue
		}
		if p, ok := byCode[notifications[i].SiteCode]; ok {
			notifications[i].SiteName = p.Name
		} else if p, ok := byCode[notifications[i].Plant]; ok {
			notifications[i].SiteName = p.Name
		}
	}
}

// Current returns the most recently ingested dataset.
func (ds *DataService) Current(ctx context.Context) (*Dataset, error) {
	ds.mu.RLock()
	defer ds.mu.RUnlock()

	if ds.current == nil {
		return nil, ErrNoDataset
	}
	return ds.current, nil
}

// BuildKPIs aggregates the current dataset into monthly site KPI rows
// with whole-input PPM and series insights.
func (ds *DataService) BuildKPIs(ctx context.Context) (*KPIReport, error) {
	dataset, err := ds.Current(ctx)
	if err != nil {
		return nil, err
	}

	start := time.Now()

	rows, ppm := dataprocessing.Aggregate(dataset.Notifications, dataset.Deliveries)

	report := &KPIReport{
		Rows:        rows,
		PPM:         ppm,
		Complaints:  dataprocessing.Insights(dataprocessing.ComplaintSeries(rows)),
		Defects:     dataprocessing.Insights(dataprocessing.DefectSeries(rows)),
		CustomerPPM: dataprocessing.Insights(dataprocessing.CustomerPPMSeries(rows)),
		GeneratedAt: time.Now().UTC(),
	}

	infrastructure.RecordKPIBuild(ctx, ds.metrics, time.Since(start), true)

	ds.logger.DebugContext(ctx, "kpi report built",
		slog.Int("rows", len(rows)),
		slog.Duration("duration", time.Since(start)))

	return report, nil
}

// ReferencePlants loads the plant reference workbook through the
// signature-keyed cache, re-reading it only when the file changes.
func (ds *DataService) ReferencePlants(ctx context.Context) ([]domain.Plant, error) {
	path := ds.config.ReferencePath("plants.xlsx")

	plants, err := ds.plantCache.Load(path, func(p string) ([]domain.Plant, error) {
		data, err := os.ReadFile(p)
		if err != nil {
			return nil, err
		}
		parsed, rowErrs, err := dataprocessing.ParsePlants(data, dataprocessing.DefaultPlantMapping)
		if err != nil {
			return nil, err
		}
		if len(rowErrs) > 0 {
			ds.logger.WarnContext(ctx, "plant reference has rejected rows",
				slog.String("path", p),
				slog.Int("rejected", len(rowErrs)))
		}
		return parsed, nil
	})
	if err != nil {
		return nil, fmt.Errorf("load plant reference: %w", err)
	}
	if len(plants) == 0 {
		return nil, ErrNoPlants
	}
	return plants, nil
}

package http

import (
	"context"

	"qpulse/internal/services"
	"qpulse/pkg/contracts/domain"
)

// DataServiceInterface abstracts the data service for handler testing
type DataServiceInterface interface {
	ParseSource(ctx context.Context, req services.ParseRequest) (*services.SourceResult, error)
	IngestBatch(ctx context.Context, reqs []services.ParseRequest) (*services.Dataset, error)
	Current(ctx context.Context) (*services.Dataset, error)
	BuildKPIs(ctx context.Context) (*services.KPIReport, error)
	ReferencePlants(ctx context.Context) ([]domain.Plant, error)
}

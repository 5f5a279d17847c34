package services

import "errors"

// Data service errors
var (
	// Ingest errors
	ErrUnknownSourceType = errors.New("unknown source type")
	ErrEmptyUpload       = errors.New("uploaded file is empty")
	ErrNoDataset         = errors.New("dataset not found")

	// Reference errors
	ErrNoPlants = errors.New("no plants found")

	// General errors
	ErrInvalidInput       = errors.New("invalid input")
	ErrServiceUnavailable = errors.New("service temporarily unavailable")
)

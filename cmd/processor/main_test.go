package main

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"qpulse/internal/services"
)

func TestInferSourceType(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		want     services.SourceType
		ok       bool
	}{
		{"complaints export", "Q1_complaints_2024.xlsx", services.SourceComplaints, true},
		{"corrections beat complaints", "complaint_corrections.xlsx", services.SourceCorrections, true},
		{"status extract", "Status_Extract_March.xlsm", services.SourceStatus, true},
		{"ppap", "PPAP_open_items.xlsx", services.SourcePPAP, true},
		{"deviations", "deviation_requests.xlsx", services.SourceDeviations, true},
		{"plants", "plant_master.xlsx", services.SourcePlants, true},
		{"customer deliveries", "customer_deliveries_2024.xlsx", services.SourceCustomerDeliveries, true},
		{"supplier deliveries", "supplier_delivery_volumes.xlsx", services.SourceSupplierDeliveries, true},
		{"bare deliveries default to customer", "deliveries_march.xlsx", services.SourceCustomerDeliveries, true},
		{"supplier complaints stay complaints", "supplier_complaints_q2.xlsx", services.SourceComplaints, true},
		{"unknown", "random_notes.xlsx", "", false},
		{"case insensitive", "COMPLAINTS.XLSX", services.SourceComplaints, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := inferSourceType(tt.filename)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

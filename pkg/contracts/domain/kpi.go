package domain

// MonthlySiteKPI is one aggregated KPI row, keyed by (site code, month).
// Month uses the YYYY-MM form so rows sort chronologically as strings.
type MonthlySiteKPI struct {
	SiteCode string `json:"site_code"`
	Month    string `json:"month"`

	CustomerComplaints int `json:"customer_complaints"`
	SupplierComplaints int `json:"supplier_complaints"`
	InternalComplaints int `json:"internal_complaints"`

	CustomerDefects float64 `json:"customer_defects"`
	SupplierDefects float64 `json:"supplier_defects"`
	InternalDefects float64 `json:"internal_defects"`

	CustomerDeliveries float64 `json:"customer_deliveries"`
	SupplierDeliveries float64 `json:"supplier_deliveries"`

	PPAPInProgress int `json:"ppap_in_progress"`
	PPAPCompleted  int `json:"ppap_completed"`
	Deviations     int `json:"deviations"`
}

// TotalComplaints sums complaint counts across all categories.
func (k *MonthlySiteKPI) TotalComplaints() int {
	return k.CustomerComplaints + k.SupplierComplaints + k.InternalComplaints
}

// GlobalPPM holds whole-input parts-per-million defect rates.
// A nil scalar means the corresponding delivery denominator was zero.
type GlobalPPM struct {
	CustomerPPM *float64 `json:"customer_ppm"`
	SupplierPPM *float64 `json:"supplier_ppm"`
}

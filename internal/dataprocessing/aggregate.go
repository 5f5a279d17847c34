package dataprocessing

import (
	"sort"

	"qpulse/pkg/contracts/domain"
)

// kpiKey identifies one aggregation bucket.
type kpiKey struct {
	site  string
	month string
}

// Aggregate folds notifications and deliveries into monthly per-site KPI
// rows plus global PPM figures.
//
// Exactly one row exists per (site, month) present in the input; rows are
// sorted by site then month, so re-running on the same input — in any record
// order — yields an identical result.
func Aggregate(notifications []domain.Notification, deliveries []domain.Delivery) ([]domain.MonthlySiteKPI, domain.GlobalPPM) {
	buckets := make(map[kpiKey]*domain.MonthlySiteKPI)

	bucket := func(site, month string) *domain.MonthlySiteKPI {
		key := kpiKey{site: site, month: month}
		row, ok := buckets[key]
		if !ok {
			row = &domain.MonthlySiteKPI{SiteCode: site, Month: month}
			buckets[key] = row
		}
		return row
	}

	for _, n := range notifications {
		row := bucket(n.SiteCode, n.Month())
		switch n.Category {
		case domain.CategoryCustomer:
			row.CustomerComplaints++
			row.CustomerDefects += n.DefectiveQuantity
		case domain.CategorySupplier:
			row.SupplierComplaints++
			row.SupplierDefects += n.DefectiveQuantity
		case domain.CategoryInternal:
			row.InternalComplaints++
			row.InternalDefects += n.DefectiveQuantity
		case domain.CategoryDeviation:
			row.Deviations++
		case domain.CategoryPPAP:
			if n.Status == domain.StatusCompleted {
				row.PPAPCompleted++
			} else {
				row.PPAPInProgress++
			}
		}
	}

	for _, d := range deliveries {
		row := bucket(d.SiteCode, d.Month())
		switch d.Direction {
		case domain.DirectionCustomer:
			row.CustomerDeliveries += d.Quantity
		case domain.DirectionSupplier:
			row.SupplierDeliveries += d.Quantity
		}
	}

	rows := make([]domain.MonthlySiteKPI, 0, len(buckets))
	for _, row := range buckets {
		rows = append(rows, *row)
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].SiteCode != rows[j].SiteCode {
			return rows[i].SiteCode < rows[j].SiteCode
		}
		return rows[i].Month < rows[j].Month
	})

	return rows, globalPPM(notifications, deliveries)
}

// globalPPM computes whole-input PPM per direction. The sums run across the
// entire input, not a single month; a zero delivery denominator yields nil
// rather than a division.
func globalPPM(notifications []domain.Notification, deliveries []domain.Delivery) domain.GlobalPPM {
	var customerDefects, supplierDefects float64
	for _, n := range notifications {
		switch n.Category {
		case domain.CategoryCustomer:
			customerDefects += n.DefectiveQuantity
		case domain.CategorySupplier:
			supplierDefects += n.DefectiveQuantity
		}
	}

	var customerDelivered, supplierDelivered float64
	for _, d := range deliveries {
		switch d.Direction {
		case domain.DirectionCustomer:
			customerDelivered += d.Quantity
		case domain.DirectionSupplier:
			supplierDelivered += d.Quantity
		}
	}

	return domain.GlobalPPM{
		CustomerPPM: ppm(customerDefects, customerDelivered),
		SupplierPPM: ppm(supplierDefects, supplierDelivered),
	}
}

func ppm(defective, delivered float64) *float64 {
	if delivered == 0 {
		return nil
	}
	v := defective / delivered * 1_000_000
	return &v
}

// MonthlyPoint is one (month, value) sample of a metric series.
type MonthlyPoint struct {
	Month string  `json:"month"`
	Value float64 `json:"value"`
}

// Trend computes the percentage delta between current and previous. When
// previous is 0 the ratio is undefined, so the trend is pinned to 100 for
// any growth and 0 for none.
func Trend(current, previous float64) float64 {
	if previous == 0 {
		if current > 0 {
			return 100
		}
		return 0
	}
	return (current - previous) / previous * 100
}

// TrendForSeries computes the trailing trend of a monthly series.
//
// "Current" is the value of the latest month present. "Previous" is the sum
// of every month up to and including the one immediately before it — a
// year-to-date comparison, not a single-prior-month snapshot. The asymmetry
// is inherited source-system behavior and materially changes the trend's
// sign and magnitude, so it is preserved exactly.
func TrendForSeries(points []MonthlyPoint) float64 {
	if len(points) == 0 {
		return 0
	}

	sorted := make([]MonthlyPoint, len(points))
	copy(sorted, points)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Month < sorted[j].Month })

	latest := sorted[len(sorted)-1]
	var previous float64
	for _, p := range sorted[:len(sorted)-1] {
		previous += p.Value
	}
	return Trend(latest.Value, previous)
}

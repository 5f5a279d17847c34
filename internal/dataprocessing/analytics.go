package dataprocessing

import (
	"sort"

	"github.com/montanaflynn/stats"

	"qpulse/pkg/contracts/domain"
)

// SeriesInsights summarizes a monthly metric series for trend panels.
type SeriesInsights struct {
	Months      int     `json:"months"`
	Mean        float64 `json:"mean"`
	Median      float64 `json:"median"`
	Min         float64 `json:"min"`
	Max         float64 `json:"max"`
	LatestMonth string  `json:"latest_month,omitempty"`
	LatestValue float64 `json:"latest_value"`
	Trend       float64 `json:"trend"`
}

// ComplaintSeries folds KPI rows into a cross-site monthly total-complaint
// series, sorted by month.
func ComplaintSeries(rows []domain.MonthlySiteKPI) []MonthlyPoint {
	return monthlySeries(rows, func(k *domain.MonthlySiteKPI) float64 {
		return float64(k.TotalComplaints())
	})
}

// DefectSeries folds KPI rows into a cross-site monthly defective-part
// series, sorted by month.
func DefectSeries(rows []domain.MonthlySiteKPI) []MonthlyPoint {
	return monthlySeries(rows, func(k *domain.MonthlySiteKPI) float64 {
		return k.CustomerDefects + k.SupplierDefects + k.InternalDefects
	})
}

// CustomerPPMSeries folds KPI rows into a monthly customer PPM series.
// Months without customer deliveries are omitted, mirroring the nil
// semantics of the global figure.
func CustomerPPMSeries(rows []domain.MonthlySiteKPI) []MonthlyPoint {
	byMonth := make(map[string]*struct{ defects, delivered float64 })
	for i := range rows {
		row := &rows[i]
		acc, ok := byMonth[row.Month]
		if !ok {
			acc = &struct{ defects, delivered float64 }{}
			byMonth[row.Month] = acc
		}
		acc.defects += row.CustomerDefects
		acc.delivered += row.CustomerDeliveries
	}

	points := make([]MonthlyPoint, 0, len(byMonth))
	for month, acc := range byMonth {
		if v := ppm(acc.defects, acc.delivered); v != nil {
			points = append(points, MonthlyPoint{Month: month, Value: *v})
		}
	}
	sort.Slice(points, func(i, j int) bool { return points[i].Month < points[j].Month })
	return points
}

// Insights computes summary statistics and the trailing trend for a monthly
// series. An empty series yields the zero value.
func Insights(points []MonthlyPoint) SeriesInsights {
	if len(points) == 0 {
		return SeriesInsights{}
	}

	sorted := make([]MonthlyPoint, len(points))
	copy(sorted, points)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Month < sorted[j].Month })

	values := make(stats.Float64Data, len(sorted))
	for i, p := range sorted {
		values[i] = p.Value
	}

	// These cannot fail on a non-empty input.
	mean, _ := stats.Mean(values)
	median, _ := stats.Median(values)
	min, _ := stats.Min(values)
	max, _ := stats.Max(values)

	latest := sorted[len(sorted)-1]
	return SeriesInsights{
		Months:      len(sorted),
		Mean:        mean,
		Median:      median,
		Min:         min,
		Max:         max,
		LatestMonth: latest.Month,
		LatestValue: latest.Value,
		Trend:       TrendForSeries(sorted),
	}
}

func monthlySeries(rows []domain.MonthlySiteKPI, value func(*domain.MonthlySiteKPI) float64) []MonthlyPoint {
	byMonth := make(map[string]float64)
	for i := range rows {
		byMonth[rows[i].Month] += value(&rows[i])
	}

	points := make([]MonthlyPoint, 0, len(byMonth))
	for month, v := range byMonth {
		points = append(points, MonthlyPoint{Month: month, Value: v})
	}
	sort.Slice(points, func(i, j int) bool { return points[i].Month < points[j].Month })
	return points
}

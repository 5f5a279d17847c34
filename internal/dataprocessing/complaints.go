package dataprocessing

import (
	"log/slog"
	"strings"

	"qpulse/pkg/contracts/domain"
)

// DefaultComplaintMapping is the alias table for quality-notification
// (complaint) extracts. More specific aliases come first; parsing never
// mutates the mapping.
var DefaultComplaintMapping = ColumnMapping{
	"notification": {"notification no", "notification number", "notif no", "notification"},
	"type":         {"notification type", "notif type", "type"},
	"plant":        {"plant", "plnt"},
	"site":         {"site code", "site"},
	"site_name":    {"site name", "plant name"},
	"created":      {"created on", "creation date", "date created", "created"},
	"defective":    {"defective parts", "complaint quantity", "defect qty", "defective"},
	"defective_internal": {"defective quantity internal", "defective internal", "internal defect qty"},
	"defective_external": {"defective quantity external", "defective external", "external defect qty"},
	"unit":     {"unit of measure", "base unit", "uom", "unit"},
	"material": {"material description", "material desc", "description"},
}

// complaintRequired are the always-present fields; missing any of them fails
// the whole sheet structurally.
var complaintRequired = []string{"notification", "type", "created"}

// ParseComplaints decodes a complaint extract into notification records.
//
// Row errors (unparseable dates, unknown types) are collected and returned
// alongside the records — one malformed row never discards the sheet. A
// non-nil error is structural and comes with an empty collection.
func ParseComplaints(data []byte, mapping ColumnMapping) ([]domain.Notification, []string, error) {
	if mapping == nil {
		mapping = DefaultComplaintMapping
	}

	rows, cols, err := sheetTable(data, mapping, complaintRequired)
	if err != nil {
		return nil, nil, err
	}

	var (
		records []domain.Notification
		errs    []string
	)
	for i, row := range rows {
		if IsEmptyRow(row) {
			continue
		}

		record, rowErr := parseComplaintRow(row, cols)
		if rowErr != "" {
			errs = append(errs, rowError(i, "%s", rowErr))
			continue
		}
		records = append(records, record)
	}
	return records, errs, nil
}

func parseComplaintRow(row []string, cols map[string]int) (domain.Notification, string) {
	number := CellValue(row, cols["notification"], "")
	if number == "" {
		return domain.Notification{}, "missing notification number"
	}

	typ, ok := complaintType(CellValue(row, cols["type"], ""))
	if !ok {
		return domain.Notification{}, "unrecognized notification type " + CellValue(row, cols["type"], "<blank>")
	}

	created, ok := ParseDate(CellValue(row, cols["created"], ""))
	if !ok {
		return domain.Notification{}, "unparseable creation date " + CellValue(row, cols["created"], "<blank>")
	}

	plant := CellValue(row, cols["plant"], "")
	site := CellValue(row, cols["site"], plant)

	record := domain.Notification{
		ID:                  domain.NotificationID(number, plant),
		NotificationNumber:  number,
		Type:                typ,
		Category:            domain.CategoryForType(typ),
		Plant:               plant,
		SiteCode:            site,
		SiteName:            CellValue(row, cols["site_name"], ""),
		CreatedAt:           created,
		Unit:                CellValue(row, cols["unit"], ""),
		MaterialDescription: CellValue(row, cols["material"], ""),
	}

	quantity := defectiveQuantity(row, cols, typ)
	if quantity < 0 {
		quantity = 0
	}
	record.DefectiveQuantity = quantity

	// Volume/length/area quantities are normalized to pieces when the
	// material description carries a usable dimension; otherwise the raw
	// quantity stands unchanged and the record is kept.
	if quantity > 0 && (typ == domain.TypeQ1 || typ == domain.TypeQ2) && !IsPieceUnit(record.Unit) {
		if conv, ok := ConvertToPieces(quantity, record.Unit, record.MaterialDescription); ok {
			record.Conversion = &conv
			record.DefectiveQuantity = conv.ConvertedValue
		} else {
			slog.Warn("unit conversion not applicable, keeping raw quantity",
				slog.String("notification", number),
				slog.String("unit", record.Unit),
				slog.Float64("quantity", quantity))
		}
	}

	return record, ""
}

// defectiveQuantity picks the defect-count column for a complaint row. Q1
// prefers the internal-defect column and Q2 the external one whenever that
// cell is non-blank — an explicit zero there overrides the generic column.
func defectiveQuantity(row []string, cols map[string]int, typ domain.NotificationType) float64 {
	switch typ {
	case domain.TypeQ1:
		if v := CellValue(row, cols["defective_internal"], ""); v != "" {
			return ParseNumber(v)
		}
	case domain.TypeQ2:
		if v := CellValue(row, cols["defective_external"], ""); v != "" {
			return ParseNumber(v)
		}
	}
	return ParseNumber(CellValue(row, cols["defective"], ""))
}

// complaintType normalizes raw type text to a Q1/Q2/Q3 code.
func complaintType(raw string) (domain.NotificationType, bool) {
	t := strings.ToUpper(strings.TrimSpace(raw))
	for _, typ := range []domain.NotificationType{domain.TypeQ1, domain.TypeQ2, domain.TypeQ3} {
		if strings.HasPrefix(t, string(typ)) {
			return typ, true
		}
	}
	return "", false
}

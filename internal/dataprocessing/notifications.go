package dataprocessing

import (
	"strings"

	"qpulse/pkg/contracts/domain"
)

// DefaultPPAPMapping is the alias table for PPAP notification extracts.
var DefaultPPAPMapping = ColumnMapping{
	"notification": {"notification no", "notification number", "notif no", "notification"},
	"type":         {"notification type", "notif type", "type"},
	"plant":        {"plant", "plnt"},
	"site":         {"site code", "site"},
	"site_name":    {"site name", "plant name"},
	"created":      {"created on", "creation date", "date created", "created"},
	"status":       {"system status", "user status", "status"},
}

// DefaultDeviationMapping is the alias table for deviation extracts. It
// shares the PPAP shape; the type column distinguishes D1/D2/D3.
var DefaultDeviationMapping = DefaultPPAPMapping

var notificationRequired = []string{"notification", "created"}

// ParsePPAP decodes a PPAP notification extract. The P1/P2/P3 subtype is
// derived from the raw type text by heuristics, defaulting to P1 when the
// text is ambiguous. A status column, when present, is resolved inline.
func ParsePPAP(data []byte, mapping ColumnMapping) ([]domain.Notification, []string, error) {
	if mapping == nil {
		mapping = DefaultPPAPMapping
	}
	return parseNotifications(data, mapping, ppapType)
}

// ParseDeviations decodes a deviation notification extract (D1/D2/D3).
func ParseDeviations(data []byte, mapping ColumnMapping) ([]domain.Notification, []string, error) {
	if mapping == nil {
		mapping = DefaultDeviationMapping
	}
	return parseNotifications(data, mapping, deviationType)
}

func parseNotifications(data []byte, mapping ColumnMapping, typeOf func(string) domain.NotificationType) ([]domain.Notification, []string, error) {
	rows, cols, err := sheetTable(data, mapping, notificationRequired)
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

		number := CellValue(row, cols["notification"], "")
		if number == "" {
			errs = append(errs, rowError(i, "missing notification number"))
			continue
		}

		created, ok := ParseDate(CellValue(row, cols["created"], ""))
		if !ok {
			errs = append(errs, rowError(i, "unparseable creation date %s", CellValue(row, cols["created"], "<blank>")))
			continue
		}

		typ := typeOf(CellValue(row, cols["type"], ""))
		plant := CellValue(row, cols["plant"], "")

		record := domain.Notification{
			ID:                 domain.NotificationID(number, plant),
			NotificationNumber: number,
			Type:               typ,
			Category:           domain.CategoryForType(typ),
			Plant:              plant,
			SiteCode:           CellValue(row, cols["site"], plant),
			SiteName:           CellValue(row, cols["site_name"], ""),
			CreatedAt:          created,
			// Deviations and PPAP carry no defect quantity.
			DefectiveQuantity: 0,
		}

		if text := CellValue(row, cols["status"], ""); text != "" {
			record.StatusText = text
			record.Status = ResolveStatus(text)
		}

		records = append(records, record)
	}
	return records, errs, nil
}

// ppapType derives the PPAP approval stage from free-form type text.
// Ambiguous text defaults to P1, the earliest stage.
func ppapType(raw string) domain.NotificationType {
	t := strings.ToUpper(strings.TrimSpace(raw))
	switch {
	case strings.HasPrefix(t, "P3") || strings.Contains(t, "FINAL"):
		return domain.TypeP3
	case strings.HasPrefix(t, "P2") || strings.Contains(t, "INTERIM"):
		return domain.TypeP2
	default:
		return domain.TypeP1
	}
}

// deviationType maps raw type text to D1/D2/D3, defaulting to D1.
func deviationType(raw string) domain.NotificationType {
	t := strings.ToUpper(strings.TrimSpace(raw))
	for _, typ := range []domain.NotificationType{domain.TypeD3, domain.TypeD2, domain.TypeD1} {
		if strings.HasPrefix(t, string(typ)) {
			return typ
		}
	}
	return domain.TypeD1
}

package dataprocessing

import (
	"qpulse/pkg/contracts/domain"
)

// DefaultDeliveryMapping is the alias table for delivery-log extracts.
// Inbound and outbound logs share the same shape.
var DefaultDeliveryMapping = ColumnMapping{
	"plant":    {"plant", "plnt", "shipping plant"},
	"site":     {"site code", "site"},
	"date":     {"delivery date", "posting date", "goods movement date", "date"},
	"quantity": {"delivered quantity", "delivery quantity", "quantity", "qty"},
}

var deliveryRequired = []string{"date", "quantity"}

// ParseDeliveries decodes a delivery log. The direction (customer outbound
// vs supplier inbound) is a property of the source file, so the caller
// supplies it rather than the sheet.
func ParseDeliveries(data []byte, direction domain.Direction, mapping ColumnMapping) ([]domain.Delivery, []string, error) {
	if mapping == nil {
		mapping = DefaultDeliveryMapping
	}

	rows, cols, err := sheetTable(data, mapping, deliveryRequired)
	if err != nil {
		return nil, nil, err
	}

	var (
		records []domain.Delivery
		errs    []string
	)
	for i, row := range rows {
		if IsEmptyRow(row) {
			continue
		}

		date, ok := ParseDate(CellValue(row, cols["date"], ""))
		if !ok {
			errs = append(errs, rowError(i, "unparseable delivery date %s", CellValue(row, cols["date"], "<blank>")))
			continue
		}

		plant := CellValue(row, cols["plant"], "")
		records = append(records, domain.Delivery{
			Plant:     plant,
			SiteCode:  CellValue(row, cols["site"], plant),
			Date:      date,
			Quantity:  ParseNumber(CellValue(row, cols["quantity"], "")),
			Direction: direction,
		})
	}
	return records, errs, nil
}

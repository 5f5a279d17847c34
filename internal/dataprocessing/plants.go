package dataprocessing

import (
	"qpulse/pkg/contracts/domain"
)

// DefaultPlantMapping is the alias table for the plant reference sheet.
var DefaultPlantMapping = ColumnMapping{
	"code":         {"plant code", "plant", "code"},
	"name":         {"plant name", "name 1", "name"},
	"erp":          {"erp system", "erp", "system"},
	"city":         {"city", "location city"},
	"abbreviation": {"abbreviation", "abbrev", "short name"},
	"country":      {"country", "country key"},
}

var plantRequired = []string{"code"}

// ParsePlants decodes the plant reference table. Numeric plant codes stay
// opaque strings: excelize already yields the raw cell text, so 106 arrives
// as "106" and is never reformatted, since codes are compared as strings
// downstream.
func ParsePlants(data []byte, mapping ColumnMapping) ([]domain.Plant, []string, error) {
	if mapping == nil {
		mapping = DefaultPlantMapping
	}

	rows, cols, err := sheetTable(data, mapping, plantRequired)
	if err != nil {
		return nil, nil, err
	}

	var (
		records []domain.Plant
		errs    []string
	)
	for i, row := range rows {
		if IsEmptyRow(row) {
			continue
		}

		code := CellValue(row, cols["code"], "")
		if code == "" {
			errs = append(errs, rowError(i, "missing plant code"))
			continue
		}

		city := CellValue(row, cols["city"], "")
		country := CellValue(row, cols["country"], "")

		records = append(records, domain.Plant{
			Code:         code,
			Name:         CellValue(row, cols["name"], ""),
			ERPSystem:    CellValue(row, cols["erp"], ""),
			City:         city,
			Abbreviation: CellValue(row, cols["abbreviation"], ""),
			Country:      country,
			Location:     domain.DeriveLocation(city, country),
		})
	}
	return records, errs, nil
}

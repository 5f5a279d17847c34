package dataprocessing

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"qpulse/pkg/contracts/domain"
)

// The conversion rules below are ordered, first-match-wins configuration.
// Rule order is load-bearing: the more specific patterns sit before the
// permissive fallbacks, and tests pin the order down.

// bottleSizePatterns extract a bottle volume in milliliters from a material
// description, e.g. "BOTTLE 600 ML" or "Flasche 330ml".
var bottleSizePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(\d+(?:[.,]\d+)?)\s*ML\b`),
}

// lengthPatterns extract a per-piece length in millimeters, e.g. "L2500MM",
// "LENGTH 1200 MM", "LEN 800MM" or a bare "L2500".
var lengthPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\bL\s*(\d+(?:[.,]\d+)?)\s*MM\b`),
	regexp.MustCompile(`\bLENGTH\s*[:=]?\s*(\d+(?:[.,]\d+)?)\s*MM\b`),
	regexp.MustCompile(`\bLEN\s*[:=]?\s*(\d+(?:[.,]\d+)?)\s*MM\b`),
	regexp.MustCompile(`\bL(\d{3,})\b`),
}

// areaPatterns extract width and height in millimeters, e.g.
// "W600MM H400MM", "WIDTH 600 MM HEIGHT 400 MM" or "600MM x 400MM".
var areaPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\bW\s*(\d+(?:[.,]\d+)?)\s*MM\b.*?\bH\s*(\d+(?:[.,]\d+)?)\s*MM\b`),
	regexp.MustCompile(`\bWIDTH\s*[:=]?\s*(\d+(?:[.,]\d+)?)\s*MM\b.*?\bHEIGHT\s*[:=]?\s*(\d+(?:[.,]\d+)?)\s*MM\b`),
	regexp.MustCompile(`\b(\d+(?:[.,]\d+)?)\s*MM\s*[xX×]\s*(\d+(?:[.,]\d+)?)\s*MM\b`),
}

// pieceUnits are the unit spellings already counted in pieces; quantities in
// these units pass through unconverted.
var pieceUnits = map[string]bool{
	"":    true,
	"PC":  true,
	"PCS": true,
	"ST":  true,
	"STK": true,
	"EA":  true,
}

// IsPieceUnit reports whether the unit (or a blank unit) already denotes
// pieces.
func IsPieceUnit(unit string) bool {
	return pieceUnits[strings.ToUpper(strings.TrimSpace(unit))]
}

// ConvertToPieces infers a piece-equivalent count for a volume, length or
// area quantity using dimension hints mined from the material description.
//
// The boolean is false when the unit is not convertible, the quantity is not
// positive, or no dimension could be extracted; the caller then falls back
// to the raw quantity. The function is pure: identical inputs always yield
// identical output, and converted values are rounded to 2 decimals.
func ConvertToPieces(quantity float64, unit, materialDescription string) (domain.UnitConversion, bool) {
	if quantity <= 0 {
		return domain.UnitConversion{}, false
	}

	desc := strings.ToUpper(materialDescription)

	switch strings.ToUpper(strings.TrimSpace(unit)) {
	case "ML":
		size, ok := extractSingle(desc, bottleSizePatterns)
		if !ok || size <= 0 {
			return domain.UnitConversion{}, false
		}
		return conversion(quantity, unit, materialDescription, domain.DimensionBottleSize, size, quantity/size), true

	case "M", "METER", "METERS":
		lengthMM, ok := extractSingle(desc, lengthPatterns)
		if !ok || lengthMM <= 0 {
			return domain.UnitConversion{}, false
		}
		lengthM := lengthMM / 1000.0
		return conversion(quantity, unit, materialDescription, domain.DimensionLength, lengthM, quantity/lengthM), true

	case "M2", "M²", "SQ M", "SQ M2":
		widthMM, heightMM, ok := extractPair(desc, areaPatterns)
		if !ok || widthMM <= 0 || heightMM <= 0 {
			return domain.UnitConversion{}, false
		}
		areaM2 := (widthMM / 1000.0) * (heightMM / 1000.0)
		return conversion(quantity, unit, materialDescription, domain.DimensionArea, areaM2, quantity/areaM2), true
	}

	return domain.UnitConversion{}, false
}

func conversion(quantity float64, unit, desc string, kind domain.DimensionKind, dim, converted float64) domain.UnitConversion {
	return domain.UnitConversion{
		OriginalValue:       quantity,
		OriginalUnit:        unit,
		ConvertedValue:      round2(converted),
		Dimension:           kind,
		DimensionValue:      round2(dim),
		MaterialDescription: desc,
		WasConverted:        true,
	}
}

// round2 rounds half away from zero to 2 decimal places. decimal arithmetic
// keeps the rounding deterministic across platforms.
func round2(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}

func extractSingle(desc string, patterns []*regexp.Regexp) (float64, bool) {
	for _, re := range patterns {
		m := re.FindStringSubmatch(desc)
		if len(m) < 2 {
			continue
		}
		if v, err := parseDimension(m[1]); err == nil {
			return v, true
		}
	}
	return 0, false
}

func extractPair(desc string, patterns []*regexp.Regexp) (float64, float64, bool) {
	for _, re := range patterns {
		m := re.FindStringSubmatch(desc)
		if len(m) < 3 {
			continue
		}
		a, errA := parseDimension(m[1])
		b, errB := parseDimension(m[2])
		if errA == nil && errB == nil {
			return a, b, true
		}
	}
	return 0, 0, false
}

func parseDimension(s string) (float64, error) {
	return strconv.ParseFloat(strings.ReplaceAll(s, ",", "."), 64)
}

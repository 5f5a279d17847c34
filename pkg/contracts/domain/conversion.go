package domain

// DimensionKind names the per-piece dimension a unit conversion was based on.
type DimensionKind string

const (
	DimensionBottleSize DimensionKind = "bottle_size_ml"
	DimensionLength     DimensionKind = "length_m"
	DimensionArea       DimensionKind = "area_m2"
)

// UnitConversion records how a volume/length/area defect quantity was turned
// into a piece-equivalent count. WasConverted is false when the module gave
// up and the caller fell back to the original value.
type UnitConversion struct {
	OriginalValue       float64       `json:"original_value"`
	OriginalUnit        string        `json:"original_unit"`
	ConvertedValue      float64       `json:"converted_value"`
	Dimension           DimensionKind `json:"dimension,omitempty"`
	DimensionValue      float64       `json:"dimension_value,omitempty"`
	MaterialDescription string        `json:"material_description,omitempty"`
	WasConverted        bool          `json:"was_converted"`
}

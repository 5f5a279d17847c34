package domain

// Plant is a reference row describing a manufacturing location.
// Codes are opaque strings: a numeric cell value 106 must surface as "106".
type Plant struct {
	Code         string `json:"code" validate:"required"`
	Name         string `json:"name"`
	ERPSystem    string `json:"erp_system,omitempty"`
	City         string `json:"city,omitempty"`
	Abbreviation string `json:"abbreviation,omitempty"`
	Country      string `json:"country,omitempty"`
	Location     string `json:"location,omitempty"`
}

// DeriveLocation combines city and country into a display label.
// Either part may be missing; both missing yields an empty string.
func DeriveLocation(city, country string) string {
	switch {
	case city != "" && country != "":
		return city + ", " + country
	case city != "":
		return city
	default:
		return country
	}
}

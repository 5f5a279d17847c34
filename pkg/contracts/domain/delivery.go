package domain

import (
	"time"
)

// Direction distinguishes outbound (customer) from inbound (supplier)
// deliveries.
type Direction string

const (
	DirectionCustomer Direction = "customer"
	DirectionSupplier Direction = "supplier"
)

// Delivery is a single delivery-log row.
type Delivery struct {
	Plant     string    `json:"plant"`
	SiteCode  string    `json:"site_code"`
	Date      time.Time `json:"date"`
	Quantity  float64   `json:"quantity"`
	Direction Direction `json:"direction"`
}

// Month returns the delivery's calendar month key (YYYY-MM).
func (d *Delivery) Month() string {
	return d.Date.Format("2006-01")
}

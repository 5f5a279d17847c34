package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// notificationNamespace is the fixed UUIDv5 namespace for notification IDs.
// IDs must be stable across re-parses of the same extract, so they are
// derived from the natural key rather than generated randomly.
var notificationNamespace = uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8")

// NotificationType is the source-system notification type code.
type NotificationType string

const (
	TypeQ1 NotificationType = "Q1"
	TypeQ2 NotificationType = "Q2"
	TypeQ3 NotificationType = "Q3"
	TypeD1 NotificationType = "D1"
	TypeD2 NotificationType = "D2"
	TypeD3 NotificationType = "D3"
	TypeP1 NotificationType = "P1"
	TypeP2 NotificationType = "P2"
	TypeP3 NotificationType = "P3"
)

// Category groups notification types for KPI counting.
type Category string

const (
	CategoryCustomer  Category = "Customer"
	CategorySupplier  Category = "Supplier"
	CategoryInternal  Category = "Internal"
	CategoryDeviation Category = "Deviation"
	CategoryPPAP      Category = "PPAP"
	CategoryUnknown   Category = "Unknown"
)

// Status is the merged processing status of a notification.
// StatusUnknown means no status text existed at all; it is distinct from
// StatusPending, which means text was present but unrecognized.
type Status string

const (
	StatusInProgress Status = "In Progress"
	StatusCompleted  Status = "Completed"
	StatusPending    Status = "Pending"
	StatusUnknown    Status = ""
)

// Notification is a quality event record parsed from a source extract.
// Complaints carry a defective quantity; deviations and PPAP carry zero.
type Notification struct {
	ID                  string           `json:"id" validate:"required,uuid"`
	NotificationNumber  string           `json:"notification_number" validate:"required"`
	Type                NotificationType `json:"type" validate:"required"`
	Category            Category         `json:"category"`
	Plant               string           `json:"plant"`
	SiteCode            string           `json:"site_code"`
	SiteName            string           `json:"site_name,omitempty"`
	CreatedAt           time.Time        `json:"created_at"`
	DefectiveQuantity   float64          `json:"defective_quantity"`
	Unit                string           `json:"unit,omitempty"`
	MaterialDescription string           `json:"material_description,omitempty"`
	Conversion          *UnitConversion  `json:"conversion,omitempty"`
	Status              Status           `json:"status,omitempty"`
	StatusText          string           `json:"status_text,omitempty"`
}

// NotificationID derives the deterministic record identifier from the
// notification number and plant code.
func NotificationID(notificationNumber, plant string) string {
	key := strings.TrimSpace(notificationNumber) + "|" + strings.TrimSpace(plant)
	return uuid.NewSHA1(notificationNamespace, []byte(key)).String()
}

// CategoryForType maps a notification type to its KPI category.
func CategoryForType(t NotificationType) Category {
	switch t {
	case TypeQ1:
		return CategoryCustomer
	case TypeQ2:
		return CategorySupplier
	case TypeQ3:
		return CategoryInternal
	case TypeD1, TypeD2, TypeD3:
		return CategoryDeviation
	case TypeP1, TypeP2, TypeP3:
		return CategoryPPAP
	default:
		return CategoryUnknown
	}
}

// IsComplaint reports whether the notification is a Q-type complaint.
func (n *Notification) IsComplaint() bool {
	switch n.Type {
	case TypeQ1, TypeQ2, TypeQ3:
		return true
	}
	return false
}

// Month returns the notification's calendar month key (YYYY-MM).
func (n *Notification) Month() string {
	return n.CreatedAt.Format("2006-01")
}

// Package services contains the business logic between the HTTP
// transport and the parsing layer. The DataService owns the current
// dataset: uploads replace it atomically and the KPI endpoints read it.
package services

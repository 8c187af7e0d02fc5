// Package domain contains the core data types for the traveler registration
// application. This package has no dependencies on other internal packages and
// is imported by every other one (repo, service, handler, controller).
package domain

import (
	"strings"
	"time"
)

// DateTimeFormat is the wire format for registration and departure timestamps.
const DateTimeFormat = "2006-01-02 15:04:05"

// HouseNumbers is the fixed set of houses a traveler can be registered to.
var HouseNumbers = []int{1, 2, 3, 4}

// ValidHouse reports whether n is one of HouseNumbers.
func ValidHouse(n int) bool {
	for _, h := range HouseNumbers {
		if h == n {
			return true
		}
	}
	return false
}

// Traveler is a single registered guest.
// DepartureDate is nil while the traveler is still staying.
type Traveler struct {
	ID               int64
	FirstName        string
	LastName         string
	Telephone        string
	Email            string
	HouseNumber      int
	BookingSites     []BookingSite
	RegistrationDate time.Time
	DepartureDate    *time.Time
	IsActive         bool
}

// Status is "Active" until the traveler has been marked departed.
func (t Traveler) Status() string {
	if t.IsActive {
		return "Active"
	}
	return "Departed"
}

// SiteNames returns the names of the traveler's booking sites in stored order.
func (t Traveler) SiteNames() []string {
	names := make([]string, 0, len(t.BookingSites))
	for _, s := range t.BookingSites {
		names = append(names, s.Name)
	}
	return names
}

// Row flattens t into the shape served by GET /get_travelers.
func (t Traveler) Row() TravelerRow {
	row := TravelerRow{
		ID:               t.ID,
		FirstName:        t.FirstName,
		LastName:         t.LastName,
		Telephone:        t.Telephone,
		Email:            t.Email,
		HouseNumber:      t.HouseNumber,
		BookingSites:     strings.Join(t.SiteNames(), ", "),
		RegistrationDate: t.RegistrationDate.Format(DateTimeFormat),
		Status:           t.Status(),
	}
	if t.DepartureDate != nil {
		row.DepartureDate = t.DepartureDate.Format(DateTimeFormat)
	}
	return row
}

// TravelerRow is the flat JSON record exchanged between the server and the
// controller. Every consumer of /get_travelers decodes into this type.
//
// Field order matters: exports use it for column order.
type TravelerRow struct {
	ID               int64  `json:"id" yaml:"id" parquet:"id"`
	FirstName        string `json:"first_name" yaml:"first_name" parquet:"first_name"`
	LastName         string `json:"last_name" yaml:"last_name" parquet:"last_name"`
	Telephone        string `json:"telephone" yaml:"telephone" parquet:"telephone"`
	Email            string `json:"email" yaml:"email" parquet:"email"`
	HouseNumber      int    `json:"house_number" yaml:"house_number" parquet:"house_number"`
	BookingSites     string `json:"booking_sites" yaml:"booking_sites" parquet:"booking_sites"`
	RegistrationDate string `json:"registration_date" yaml:"registration_date" parquet:"registration_date"`
	DepartureDate    string `json:"departure_date" yaml:"departure_date" parquet:"departure_date"`
	Status           string `json:"status" yaml:"status" parquet:"status"`
}

// RowKeys lists the JSON keys of TravelerRow in declaration order.
var RowKeys = []string{
	"id", "first_name", "last_name", "telephone", "email",
	"house_number", "booking_sites", "registration_date", "departure_date", "status",
}

// Values returns the row's values in RowKeys order.
func (r TravelerRow) Values() []any {
	return []any{
		r.ID, r.FirstName, r.LastName, r.Telephone, r.Email,
		r.HouseNumber, r.BookingSites, r.RegistrationDate, r.DepartureDate, r.Status,
	}
}

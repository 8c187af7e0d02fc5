package domain

import "time"

// Backup is the JSON document written by the backup endpoint and read back
// by restore. User password hashes are deliberately absent.
type Backup struct {
	Travelers    []BackupTraveler `json:"travelers"`
	BookingSites []BookingSite    `json:"booking_sites"`
	Users        []BackupUser     `json:"users"`
	BackupDate   time.Time        `json:"backup_date"`
}

// BackupTraveler is a traveler with its booking sites kept as objects so a
// restore can re-link them by name. IsActive is a pointer so backups written
// before departures were tracked restore as active.
type BackupTraveler struct {
	ID               int64         `json:"id"`
	FirstName        string        `json:"first_name"`
	LastName         string        `json:"last_name"`
	Telephone        string        `json:"telephone"`
	Email            string        `json:"email"`
	HouseNumber      int           `json:"house_number"`
	RegistrationDate time.Time     `json:"registration_date"`
	DepartureDate    *time.Time    `json:"departure_date"`
	IsActive         *bool         `json:"is_active"`
	BookingSites     []BookingSite `json:"booking_sites"`
}

// BackupUser is the non-secret part of a User.
type BackupUser struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// BackupFile describes one backup available on disk.
type BackupFile struct {
	Name       string    `json:"name"`
	Size       int64     `json:"size"`
	ModifiedAt time.Time `json:"modified_at"`
}

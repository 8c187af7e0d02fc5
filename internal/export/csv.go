package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"

	"github.com/pkordes/traveler-registration/internal/domain"
)

// csvHeaders defines the column names written as the first row of any CSV export.
var csvHeaders = []string{
	"ID", "First Name", "Last Name", "Telephone", "Email",
	"House Number", "Booking Sites", "Registration Date", "Departure Date", "Status",
}

// CSV encodes rows with a header line. Booking sites stay comma-joined inside
// one quoted cell.
func CSV(rows []domain.TravelerRow) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(csvHeaders); err != nil {
		return nil, fmt.Errorf("export.CSV: header: %w", err)
	}
	for _, r := range rows {
		if err := w.Write(csvRecord(r)); err != nil {
			return nil, fmt.Errorf("export.CSV: row %d: %w", r.ID, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("export.CSV: flush: %w", err)
	}
	return buf.Bytes(), nil
}

func csvRecord(r domain.TravelerRow) []string {
	return []string{
		strconv.FormatInt(r.ID, 10),
		r.FirstName,
		r.LastName,
		r.Telephone,
		r.Email,
		strconv.Itoa(r.HouseNumber),
		r.BookingSites,
		r.RegistrationDate,
		r.DepartureDate,
		r.Status,
	}
}

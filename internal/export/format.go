package export

import (
	"fmt"
	"strings"

	"github.com/pkordes/traveler-registration/internal/domain"
)

// Format selects a file encoding.
type Format string

const (
	FormatXLSX    Format = "xlsx"
	FormatCSV     Format = "csv"
	FormatParquet Format = "parquet"
)

// ParseFormat accepts a case-insensitive format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatXLSX, FormatCSV, FormatParquet:
		return f, nil
	default:
		return "", fmt.Errorf("%w: unsupported export format %q", domain.ErrValidation, s)
	}
}

// FileName is the download name for f.
func (f Format) FileName() string {
	switch f {
	case FormatCSV:
		return CSVFileName
	case FormatParquet:
		return ParquetFileName
	default:
		return XLSXFileName
	}
}

// ContentType is the MIME type served for f.
func (f Format) ContentType() string {
	switch f {
	case FormatCSV:
		return "text/csv"
	case FormatParquet:
		return "application/vnd.apache.parquet"
	default:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
}

// Encode encodes rows in format f.
func (f Format) Encode(rows []domain.TravelerRow) ([]byte, error) {
	switch f {
	case FormatCSV:
		return CSV(rows)
	case FormatParquet:
		return Parquet(rows)
	default:
		return Workbook(rows)
	}
}

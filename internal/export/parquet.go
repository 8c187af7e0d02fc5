package export

import (
	"bytes"
	"fmt"

	"github.com/parquet-go/parquet-go"

	"github.com/pkordes/traveler-registration/internal/domain"
)

// Parquet encodes rows as a single parquet file using the parquet struct
// tags on domain.TravelerRow as the schema.
func Parquet(rows []domain.TravelerRow) ([]byte, error) {
	var buf bytes.Buffer
	w := parquet.NewGenericWriter[domain.TravelerRow](&buf)
	if _, err := w.Write(rows); err != nil {
		return nil, fmt.Errorf("export.Parquet: write: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("export.Parquet: close: %w", err)
	}
	return buf.Bytes(), nil
}

// Package export encodes traveler rows as downloadable files.
// The same encoders back the server's GET /export and the client-side exporter.
package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/pkordes/traveler-registration/internal/domain"
)

// SheetName is the single worksheet every workbook contains.
const SheetName = "Travelers"

// File names offered to the browser or written by the CLI.
const (
	XLSXFileName    = "travelers_data.xlsx"
	CSVFileName     = "travelers_data.csv"
	ParquetFileName = "travelers_data.parquet"
)

// Workbook builds an .xlsx document with one header row of record keys
// followed by one row per record, and returns its bytes.
// The workbook only lives for the duration of the call.
func Workbook(rows []domain.TravelerRow) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return nil, fmt.Errorf("export.Workbook: rename sheet: %w", err)
	}

	header := make([]any, 0, len(domain.RowKeys))
	for _, k := range domain.RowKeys {
		header = append(header, k)
	}
	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		return nil, fmt.Errorf("export.Workbook: header: %w", err)
	}

	for i, r := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, fmt.Errorf("export.Workbook: row %d: %w", i, err)
		}
		values := r.Values()
		if err := f.SetSheetRow(SheetName, cell, &values); err != nil {
			return nil, fmt.Errorf("export.Workbook: row %d: %w", i, err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("export.Workbook: write: %w", err)
	}
	return buf.Bytes(), nil
}

package handler_test

import (
	"bytes"
	"context"
	"encoding/csv"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/pkordes/traveler-registration/internal/domain"
	"github.com/pkordes/traveler-registration/internal/handler"
)

func exportHandler(t *testing.T, rows []domain.TravelerRow) (http.Handler, func(target string) *httptest.ResponseRecorder) {
	t.Helper()
	h := newHTTPHandler(handler.Deps{Export: &mockExportServicer{
		rows: func(_ context.Context) ([]domain.TravelerRow, error) { return rows, nil },
	}})
	cookies := signIn(t, h)
	return h, func(target string) *httptest.ResponseRecorder {
		return do(h, httptest.NewRequest(http.MethodGet, target, nil), cookies)
	}
}

func TestExport_JSONByDefault(t *testing.T) {
	_, get := exportHandler(t, rowsFixture(2))

	rec := get("/export")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Empty(t, rec.Header().Get("Content-Disposition"))
	assert.Contains(t, rec.Body.String(), `"first_name":"T1"`)
}

func TestExport_CSVAttachment(t *testing.T) {
	for _, path := range []string{"/export?format=csv", "/export_csv"} {
		t.Run(path, func(t *testing.T) {
			_, get := exportHandler(t, rowsFixture(2))

			rec := get(path)

			require.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, "text/csv", rec.Header().Get("Content-Type"))
			assert.Equal(t, "attachment; filename=travelers_data.csv", rec.Header().Get("Content-Disposition"))

			records, err := csv.NewReader(rec.Body).ReadAll()
			require.NoError(t, err)
			assert.Len(t, records, 3, "header plus one line per traveler")
		})
	}
}

func TestExport_XLSXAttachment(t *testing.T) {
	_, get := exportHandler(t, rowsFixture(3))

	rec := get("/export?format=xlsx")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "attachment; filename=travelers_data.xlsx", rec.Header().Get("Content-Disposition"))

	f, err := excelize.OpenReader(bytes.NewReader(rec.Body.Bytes()))
	require.NoError(t, err)
	defer f.Close()
	sheetRows, err := f.GetRows("Travelers")
	require.NoError(t, err)
	assert.Len(t, sheetRows, 4)
}

func TestExport_422_UnknownFormat(t *testing.T) {
	_, get := exportHandler(t, rowsFixture(1))

	rec := get("/export?format=pdf")

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), `unsupported export format`)
}

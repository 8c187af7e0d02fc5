package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/oapi-codegen/runtime"

	"github.com/pkordes/traveler-registration/internal/domain"
	"github.com/pkordes/traveler-registration/internal/export"
)

// exportTravelers handles GET /export.
// ?format=json (default) returns the rows inline; csv, xlsx and parquet are
// sent as a travelers_data.* attachment.
func (s *Server) exportTravelers(w http.ResponseWriter, r *http.Request) {
	var format *string
	if err := runtime.BindQueryParameter("form", true, false, "format", r.URL.Query(), &format); err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, requestBody("invalid format parameter"))
		return
	}

	rows, err := s.export.Rows(r.Context())
	if err != nil {
		s.writeServiceError(w, r, "traveler", err)
		return
	}

	if format == nil || *format == "" || *format == "json" {
		writeJSON(w, http.StatusOK, rows)
		return
	}

	f, err := export.ParseFormat(*format)
	if err != nil {
		s.writeServiceError(w, r, "format", err)
		return
	}
	s.sendExport(w, r, f, rows)
}

// exportCSV handles GET /export_csv, the older spelling of /export?format=csv.
func (s *Server) exportCSV(w http.ResponseWriter, r *http.Request) {
	rows, err := s.export.Rows(r.Context())
	if err != nil {
		s.writeServiceError(w, r, "traveler", err)
		return
	}
	s.sendExport(w, r, export.FormatCSV, rows)
}

// sendExport encodes rows as f and sends them as a travelers_data.* attachment.
func (s *Server) sendExport(w http.ResponseWriter, r *http.Request, f export.Format, rows []domain.TravelerRow) {
	data, err := f.Encode(rows)
	if err != nil {
		s.writeServiceError(w, r, "export", fmt.Errorf("handler.sendExport: %w", err))
		return
	}

	w.Header().Set("Content-Type", f.ContentType())
	w.Header().Set("Content-Disposition", attachment(f.FileName()))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

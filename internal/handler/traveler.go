package handler

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"
	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/pkordes/traveler-registration/internal/domain"
	"github.com/pkordes/traveler-registration/internal/form"
)

// listBookingSites handles GET /booking_sites.
func (s *Server) listBookingSites(w http.ResponseWriter, r *http.Request) {
	sites, err := s.travelers.BookingSites(r.Context())
	if err != nil {
		s.writeServiceError(w, r, "booking site", err)
		return
	}
	writeJSON(w, http.StatusOK, sites)
}

// addTraveler handles POST /add_traveler.
// The posted form goes through the same validator the registration page
// uses, so every rejected field is reported at once.
func (s *Server) addTraveler(w http.ResponseWriter, r *http.Request) {
	if !parseForm(w, r) {
		return
	}
	sub := form.FromValues(r.PostForm)
	if !sub.Validate() {
		writeJSON(w, http.StatusUnprocessableEntity, fieldsBody("invalid registration form", sub.Errors()))
		return
	}

	house, err := strconv.Atoi(sub.House.Checked[0])
	if err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, fieldsBody("invalid registration form",
			map[string]string{form.NameHouse: "Please select a house."}))
		return
	}
	siteIDs := make([]int64, 0, len(sub.BookingSites.Checked))
	for _, v := range sub.BookingSites.Checked {
		var id int64
		if err := runtime.BindStringToObject(v, &id); err != nil {
			writeJSON(w, http.StatusUnprocessableEntity, fieldsBody("invalid registration form",
				map[string]string{form.NameBookingSites: "Unknown booking site."}))
			return
		}
		siteIDs = append(siteIDs, id)
	}

	t := domain.Traveler{
		FirstName:   strings.TrimSpace(sub.FirstName.Val),
		LastName:    strings.TrimSpace(sub.LastName.Val),
		Telephone:   strings.TrimSpace(sub.Telephone.Val),
		Email:       strings.TrimSpace(sub.Email.Val),
		HouseNumber: house,
	}
	created, err := s.travelers.Register(r.Context(), t, siteIDs)
	if err != nil {
		s.writeServiceError(w, r, "traveler", err)
		return
	}
	s.log.InfoContext(r.Context(), "traveler registered", "traveler_id", created.ID, "house", created.HouseNumber)
	writeJSON(w, http.StatusCreated, created.Row())
}

// getTravelers handles GET /get_travelers.
// Without ?page= or ?limit= every traveler is returned; with either, the
// usual pagination defaults apply (page=1, limit=20, max=100).
// X-Total-Count always carries the unpaged total.
func (s *Server) getTravelers(w http.ResponseWriter, r *http.Request) {
	var page, limit *int
	if err := runtime.BindQueryParameter("form", true, false, "page", r.URL.Query(), &page); err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, requestBody("page must be an integer"))
		return
	}
	if err := runtime.BindQueryParameter("form", true, false, "limit", r.URL.Query(), &limit); err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, requestBody("limit must be an integer"))
		return
	}

	rows, err := s.travelers.Rows(r.Context())
	if err != nil {
		s.writeServiceError(w, r, "traveler", err)
		return
	}

	w.Header().Set("X-Total-Count", strconv.Itoa(len(rows)))
	if page != nil || limit != nil {
		start, end := domain.NewPaginationParams(page, limit).Bounds(len(rows))
		rows = rows[start:end]
	}
	writeJSON(w, http.StatusOK, rows)
}

// markDeparted handles POST /mark_departed/{id}.
// departure_date is optional. When it is missing or not a YYYY-MM-DD date
// the traveler departs now.
func (s *Server) markDeparted(w http.ResponseWriter, r *http.Request) {
	var id int64
	if err := runtime.BindStringToObject(chi.URLParam(r, "id"), &id); err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, requestBody("id must be an integer"))
		return
	}
	if !parseForm(w, r) {
		return
	}

	var at *time.Time
	if v := strings.TrimSpace(r.PostForm.Get("departure_date")); v != "" {
		var d openapi_types.Date
		if err := runtime.BindStringToObject(v, &d); err != nil {
			s.log.WarnContext(r.Context(), "unparsable departure_date, using now", "departure_date", v, "error", err)
		} else {
			at = &d.Time
		}
	}

	t, err := s.travelers.MarkDeparted(r.Context(), id, at)
	if err != nil {
		s.writeServiceError(w, r, "traveler", err)
		return
	}
	s.log.InfoContext(r.Context(), "traveler departed", "traveler_id", t.ID)
	writeJSON(w, http.StatusOK, t.Row())
}

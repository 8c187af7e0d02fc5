// Package grid holds the searchable, sortable, paginated traveler table.
//
// A Grid owns the rows last loaded into it. Loading always replaces the full
// row set, so reloading any number of times never leaves duplicate travelers.
package grid

import (
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/pkordes/traveler-registration/internal/domain"
)

// EmptyMessage is drawn instead of an empty table.
const EmptyMessage = "No travelers registered yet"

// Columns are the table headers in display order.
var Columns = []string{
	"ID", "First Name", "Last Name", "Telephone", "Email",
	"House", "Booking Sites", "Registration Date",
}

// View is the surface a Grid draws onto.
type View interface {
	// Draw replaces whatever the view shows with header and rows.
	Draw(header []string, rows [][]string)
	// Placeholder replaces whatever the view shows with a single message.
	Placeholder(msg string)
}

// Grid is safe for concurrent use. Concurrent Replace calls are not ordered:
// whichever runs last determines the contents.
type Grid struct {
	mu   sync.RWMutex
	rows []domain.TravelerRow
}

// New returns an empty Grid.
func New() *Grid {
	return &Grid{}
}

// Replace clears the grid and loads rows. Rows sharing an identifier collapse
// to the last one given. The result is ordered by identifier, descending.
func (g *Grid) Replace(rows []domain.TravelerRow) {
	byID := make(map[int64]domain.TravelerRow, len(rows))
	for _, r := range rows {
		byID[r.ID] = r
	}
	out := make([]domain.TravelerRow, 0, len(byID))
	for _, r := range byID {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })

	g.mu.Lock()
	g.rows = out
	g.mu.Unlock()
}

// Len returns the number of rows loaded.
func (g *Grid) Len() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.rows)
}

// Rows returns a copy of the loaded rows in display order.
func (g *Grid) Rows() []domain.TravelerRow {
	g.mu.RLock()
	defer g.mu.RUnlock()
	out := make([]domain.TravelerRow, len(g.rows))
	copy(out, g.rows)
	return out
}

// Search returns the rows whose rendered cells contain query,
// case-insensitively. An empty query matches everything.
func (g *Grid) Search(query string) []domain.TravelerRow {
	rows := g.Rows()
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return rows
	}
	var out []domain.TravelerRow
	for _, r := range rows {
		for _, cell := range Cells(r) {
			if strings.Contains(strings.ToLower(cell), q) {
				out = append(out, r)
				break
			}
		}
	}
	return out
}

// Page returns one page of the rows matching query.
func (g *Grid) Page(query string, p domain.PaginationParams) (rows []domain.TravelerRow, total int) {
	matched := g.Search(query)
	start, end := p.Bounds(len(matched))
	return matched[start:end], len(matched)
}

// Render draws all rows onto v, or the empty placeholder.
func (g *Grid) Render(v View) {
	RenderRows(v, g.Rows())
}

// RenderRows draws rows onto v in the given order, or the empty placeholder.
func RenderRows(v View, rows []domain.TravelerRow) {
	if len(rows) == 0 {
		v.Placeholder(EmptyMessage)
		return
	}
	cells := make([][]string, 0, len(rows))
	for _, r := range rows {
		cells = append(cells, Cells(r))
	}
	v.Draw(Columns, cells)
}

// Cells renders r as one table line matching Columns.
func Cells(r domain.TravelerRow) []string {
	return []string{
		strconv.FormatInt(r.ID, 10),
		r.FirstName,
		r.LastName,
		r.Telephone,
		r.Email,
		"House " + strconv.Itoa(r.HouseNumber),
		r.BookingSites,
		r.RegistrationDate,
	}
}

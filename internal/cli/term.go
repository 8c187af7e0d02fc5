package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
)

// tableView draws the traveler grid as aligned columns.
type tableView struct {
	w io.Writer
}

func (v tableView) Draw(header []string, rows [][]string) {
	tw := tabwriter.NewWriter(v.w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(header, "\t"))
	for _, r := range rows {
		fmt.Fprintln(tw, strings.Join(r, "\t"))
	}
	tw.Flush()
}

func (v tableView) Placeholder(msg string) {
	fmt.Fprintln(v.w, msg)
}

// discardView swallows renders when the caller prints rows itself.
type discardView struct{}

func (discardView) Draw([]string, [][]string) {}
func (discardView) Placeholder(string) {}

// lineNotifier prints notifications on their own line.
type lineNotifier struct {
	w io.Writer
}

func (n lineNotifier) Notify(msg string) {
	fmt.Fprintln(n.w, msg)
}

// statusLine prints the status badge.
type statusLine struct {
	w io.Writer
}

func (s statusLine) SetOnline(label string) {
	fmt.Fprintf(s.w, "Status: %s\n", label)
}

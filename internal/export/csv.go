// Package export renders a page of guest entries as a CSV download.
//
// Only the entries passed in are written; callers hand over the page the
// admin is looking at, not the whole filtered result set.
package export

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/AnshRaj112/bellaciao-guestbook/internal/models"
)

const (
	ContentType = "text/csv; charset=utf-8"
	TimeLayout  = "2006-01-02 15:04"
)

// Columns is the fixed header row.
var Columns = []string{"Name", "Phone", "Area", "Rating", "Tags", "Feedback", "Time"}

// Rows converts entries into the text grid written by WriteCSV, header first.
// Absent optional fields become empty cells.
func Rows(entries []models.GuestEntry, loc *time.Location) [][]string {
	if loc == nil {
		loc = time.Local
	}
	rows := make([][]string, 0, len(entries)+1)
	rows = append(rows, Columns)
	for _, e := range entries {
		rows = append(rows, []string{
			e.Name,
			e.PhoneNumber,
			deref(e.Area),
			rating(e.Rating),
			deref(e.Tags),
			deref(e.Feedback),
			e.CreatedAt.In(loc).Format(TimeLayout),
		})
	}
	return rows
}

// WriteCSV writes the header row unquoted and every data cell quoted, with
// embedded quotes doubled. Lines end in "\n".
func WriteCSV(w io.Writer, entries []models.GuestEntry, loc *time.Location) error {
	bw := bufio.NewWriter(w)
	for i, row := range Rows(entries, loc) {
		if i > 0 {
			if err := bw.WriteByte('\n'); err != nil {
				return err
			}
		}
		for j, cell := range row {
			if j > 0 {
				bw.WriteByte(',')
			}
			if i == 0 {
				bw.WriteString(cell)
				continue
			}
			bw.WriteString(quote(cell))
		}
	}
	return bw.Flush()
}

// Filename is <prefix>-entries-<yyyy-MM-dd>.csv for the given day.
func Filename(prefix string, now time.Time) string {
	if prefix == "" {
		return fmt.Sprintf("entries-%s.csv", now.Format("2006-01-02"))
	}
	return fmt.Sprintf("%s-entries-%s.csv", prefix, now.Format("2006-01-02"))
}

func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func rating(r *int) string {
	if r == nil {
		return ""
	}
	return strconv.Itoa(*r)
}

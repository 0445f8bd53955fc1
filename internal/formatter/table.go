package formatter

import (
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/amityadav/policyfeed/internal/feed"
)

// maxTitleWidth bounds the title column in display cells
const maxTitleWidth = 48

// WriteRecords renders records as an aligned text table. Widths are measured in
// terminal cells so CJK titles line up.
func WriteRecords(w io.Writer, records []feed.Record) error {
	headers := []string{"#", "DATE", "SOURCE", "TITLE"}
	rows := make([][]string, 0, len(records))
	for i, r := range records {
		rows = append(rows, []string{
			fmt.Sprintf("%d", i+1),
			r.Date,
			r.Source,
			runewidth.Truncate(r.Title, maxTitleWidth, "…"),
		})
	}
	return writeTable(w, headers, rows)
}

func writeTable(w io.Writer, headers []string, rows [][]string) error {
	colWidths := make([]int, len(headers))
	for i, h := range headers {
		colWidths[i] = runewidth.StringWidth(h)
	}
	for _, row := range rows {
		for i := range row {
			if width := runewidth.StringWidth(row[i]); width > colWidths[i] {
				colWidths[i] = width
			}
		}
	}

	var sb strings.Builder
	writeRow := func(cells []string) {
		for i, cell := range cells {
			if i > 0 {
				sb.WriteString("  ")
			}
			sb.WriteString(cell)
			if i < len(cells)-1 {
				if padding := colWidths[i] - runewidth.StringWidth(cell); padding > 0 {
					sb.WriteString(strings.Repeat(" ", padding))
				}
			}
		}
		sb.WriteString("\n")
	}

	writeRow(headers)
	sep := make([]string, len(headers))
	for i, width := range colWidths {
		sep[i] = strings.Repeat("-", width)
	}
	writeRow(sep)
	for _, row := range rows {
		writeRow(row)
	}

	_, err := io.WriteString(w, sb.String())
	return err
}

package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/ruslano69/tdtp-rowreader/pkg/reader"
	"github.com/ruslano69/tdtp-rowreader/pkg/xlsx"
)

// PrintResults prints the current and all following result sets as aligned text tables
func PrintResults(w io.Writer, r *reader.Reader) error {
	for set := 1; ; set++ {
		if set > 1 {
			fmt.Fprintln(w)
		}

		rows, err := printResultSet(w, r)
		if err != nil {
			return fmt.Errorf("result set %d: %w", set, err)
		}
		fmt.Fprintf(w, "(%d rows)\n", rows)

		more, err := r.NextResult()
		if err != nil {
			return fmt.Errorf("failed to advance result set: %w", err)
		}
		if !more {
			break
		}
	}

	if affected := r.RecordsAffected(); affected >= 0 {
		fmt.Fprintf(w, "%d records affected\n", affected)
	}
	return nil
}

func printResultSet(w io.Writer, r *reader.Reader) (int, error) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	names := r.FieldNames()
	if len(names) > 0 {
		fmt.Fprintln(tw, strings.Join(names, "\t"))
		dashes := make([]string, len(names))
		for i, name := range names {
			dashes[i] = strings.Repeat("-", max(len(name), 4))
		}
		fmt.Fprintln(tw, strings.Join(dashes, "\t"))
	}

	rows := 0
	cells := make([]string, len(names))
	for r.Read() {
		for i := range names {
			s, err := formatValue(r, i)
			if err != nil {
				return rows, fmt.Errorf("row %d: %w", rows+1, err)
			}
			cells[i] = s
		}
		fmt.Fprintln(tw, strings.Join(cells, "\t"))
		rows++
	}
	if err := r.Err(); err != nil {
		return rows, fmt.Errorf("failed to read rows: %w", err)
	}

	return rows, tw.Flush()
}

// formatValue returns the text form of a column of the current row.
// Columns are read by position so duplicate and unnamed columns print their own values.
func formatValue(r *reader.Reader, ordinal int) (string, error) {
	v, err := xlsx.CellValueAt(r, ordinal)
	if err != nil {
		return "", err
	}

	switch t := v.(type) {
	case nil:
		return "NULL", nil
	case string:
		return strings.NewReplacer("\t", " ", "\n", " ", "\r", "").Replace(t), nil
	case float64:
		// Decimal columns keep their exact text
		if d, err := r.RequiredDecimalAt(ordinal); err == nil {
			return d.String(), nil
		}
		return strconv.FormatFloat(t, 'f', -1, 64), nil
	case time.Time:
		if t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 && t.Nanosecond() == 0 {
			return t.Format("2006-01-02"), nil
		}
		return t.Format("2006-01-02 15:04:05"), nil
	case bool:
		return strconv.FormatBool(t), nil
	case int64:
		return strconv.FormatInt(t, 10), nil
	}
	return fmt.Sprint(v), nil
}

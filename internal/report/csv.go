// Package report serializes verification reports to CSV.
package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"dot5/internal/model"
)

// Columns is the fixed CSV column order.
var Columns = []string{
	"input",
	"normalized_proxy",
	"status",
	"http_status",
	"elapsed_ms",
	"final_url",
	"error",
	"source",
	"ports_tried",
	"fake_source_url",
}

// WriteCSV writes typed reports with a header row.
func WriteCSV(w io.Writer, reports []model.Report) error {
	records := make([]map[string]any, 0, len(reports))
	for _, r := range reports {
		records = append(records, ToRecord(r))
	}
	return WriteRecordsCSV(w, records)
}

// WriteRecordsCSV writes loosely typed records, such as results echoed back
// by a browser. Keys outside Columns are ignored and missing keys render as
// empty cells.
func WriteRecordsCSV(w io.Writer, records []map[string]any) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Columns); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	row := make([]string, len(Columns))
	for i, rec := range records {
		for j, col := range Columns {
			row[j] = cell(rec[col])
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write csv row %d: %w", i, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// ToRecord flattens a report into a column-keyed map.
func ToRecord(r model.Report) map[string]any {
	rec := map[string]any{
		"input":            r.Input,
		"normalized_proxy": r.NormalizedProxy,
		"status":           string(r.Status),
		"http_status":      nil,
		"elapsed_ms":       r.ElapsedMs,
		"final_url":        r.FinalURL,
		"error":            r.Error,
		"source":           string(r.Source),
		"ports_tried":      r.PortsTried,
		"fake_source_url":  r.FakeSourceURL,
	}
	if r.HTTPStatus != nil {
		rec["http_status"] = *r.HTTPStatus
	}
	return rec
}

func cell(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case json.Number:
		return t.String()
	case []int:
		parts := make([]string, len(t))
		for i, p := range t {
			parts[i] = strconv.Itoa(p)
		}
		return strings.Join(parts, ";")
	case []any:
		parts := make([]string, len(t))
		for i, p := range t {
			parts[i] = cell(p)
		}
		return strings.Join(parts, ";")
	default:
		return fmt.Sprint(t)
	}
}

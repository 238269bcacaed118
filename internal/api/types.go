package api

import "time"

// CheckBulkRequest is the body of POST /api/check-bulk. Zero or missing
// numeric fields use the server defaults; a missing try_ports uses the
// default port list while an explicit [] means no ports.
type CheckBulkRequest struct {
	IPs        []string `json:"ips"`
	Timeout    float64  `json:"timeout"` // seconds
	MaxWorkers int      `json:"max_workers"`
	TryPorts   []int    `json:"try_ports"`
	TargetURLs []string `json:"target_urls,omitempty"`
}

// ExportCSVRequest is the body of POST /api/export-csv. Results are kept as
// plain maps so that anything the browser echoes back can be exported.
type ExportCSVRequest struct {
	Results []map[string]any `json:"results"`
}

// APIError is a standard error payload.
type APIError struct {
	Error     string `json:"error"`
	Timestamp string `json:"timestamp"` // RFC3339
}

// TimeNow abstracts time for tests.
var TimeNow = func() time.Time { return time.Now() }

func newAPIError(msg string) APIError {
	return APIError{Error: msg, Timestamp: TimeNow().UTC().Format(time.RFC3339)}
}

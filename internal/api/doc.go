// Package api exposes bulk proxy verification over HTTP.
//
// # Endpoints
//
//   - POST /api/check-bulk: body CheckBulkRequest, response is a JSON array
//     of model.Report, one per input line that parsed.
//   - POST /api/export-csv: body ExportCSVRequest, response is a CSV
//     attachment with the fixed report columns.
//   - GET /api/healthz: liveness.
//
// # Error Model
//
// Only request-level problems are errors: wrong method (405) and bodies
// that do not decode (400), both answered with APIError. Per-proxy failures
// are data inside the reports and never fail the request.
//
// # Server
//
// NewServer fills ServerOptions defaults and wires the routes. Start runs
// ListenAndServe in a goroutine; Stop shuts down gracefully. A check-bulk
// request is bounded by its own context, so a disconnecting client stops
// the remaining probes quickly.
package api

package api

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"

	"dot5/internal/checker"
	"dot5/internal/model"
)

type recordingChecker struct {
	inputs []string
	opts   checker.Options
	out    []model.Report
}

func (c *recordingChecker) CheckBulk(_ context.Context, raw []string, opts checker.Options) []model.Report {
	c.inputs = raw
	c.opts = opts
	return c.out
}

func newTestServer(t *testing.T, c BulkChecker) *httptest.Server {
	t.Helper()
	logger, _ := test.NewNullLogger()
	srv := httptest.NewServer(NewServer(c, ServerOptions{Logger: logger}).Handler())
	t.Cleanup(srv.Close)
	return srv
}

func TestCheckBulkMapsRequest(t *testing.T) {
	code := 200
	rc := &recordingChecker{out: []model.Report{{
		Input: "1.1.1.1:80", NormalizedProxy: "http://1.1.1.1:80", Status: model.StatusReal,
		HTTPStatus: &code, ElapsedMs: 10, Source: model.SourceProvided, PortsTried: []int{80},
	}}}
	srv := newTestServer(t, rc)

	body := `{"ips":["1.1.1.1:80","junk"],"timeout":2.5,"max_workers":4,"try_ports":[3128]}`
	resp, err := http.Post(srv.URL+"/api/check-bulk", "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, []string{"1.1.1.1:80", "junk"}, rc.inputs)
	require.Equal(t, 2500*time.Millisecond, rc.opts.Timeout)
	require.Equal(t, 4, rc.opts.MaxWorkers)
	require.Equal(t, []int{3128}, rc.opts.TryPorts)

	var got []map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	require.Len(t, got, 1)
	require.Equal(t, "real", got[0]["status"])
	require.Equal(t, "", got[0]["fake_source_url"])
	require.EqualValues(t, 200, got[0]["http_status"])
}

func TestCheckBulkDefaultsAndEmptyResult(t *testing.T) {
	rc := &recordingChecker{out: []model.Report{}}
	srv := newTestServer(t, rc)

	resp, err := http.Post(srv.URL+"/api/check-bulk", "application/json", strings.NewReader(`{"ips":[]}`))
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Nil(t, rc.opts.TryPorts)
	require.Zero(t, rc.opts.Timeout)

	var got []any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	require.NotNil(t, got)
	require.Empty(t, got)
}

func TestCheckBulkRejectsMalformedBody(t *testing.T) {
	srv := newTestServer(t, &recordingChecker{})

	resp, err := http.Post(srv.URL+"/api/check-bulk", "application/json", strings.NewReader(`{"ips":`))
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	var apiErr APIError
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&apiErr))
	require.Contains(t, apiErr.Error, "invalid JSON")
	require.NotEmpty(t, apiErr.Timestamp)
}

func TestMethodNotAllowed(t *testing.T) {
	srv := newTestServer(t, &recordingChecker{})
	for _, path := range []string{"/api/check-bulk", "/api/export-csv"} {
		resp, err := http.Get(srv.URL + path)
		require.NoError(t, err)
		resp.Body.Close()
		require.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode, path)
	}
}

func TestExportCSV(t *testing.T) {
	srv := newTestServer(t, &recordingChecker{})

	body := `{"results":[
		{"input":"1.1.1.1","normalized_proxy":"http://1.1.1.1:80","status":"fake","http_status":null,
		 "elapsed_ms":31,"error":"refused","source":"generated","ports_tried":[80,8080],
		 "fake_source_url":"https://free-proxy-list.net/","color":"red"}
	]}`
	resp, err := http.Post(srv.URL+"/api/export-csv", "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "text/csv; charset=utf-8", resp.Header.Get("Content-Type"))
	require.Equal(t, "attachment; filename=dot5_results.csv", resp.Header.Get("Content-Disposition"))

	rows, err := csv.NewReader(resp.Body).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)
	require.Equal(t, "input", rows[0][0])
	require.Equal(t, []string{
		"1.1.1.1", "http://1.1.1.1:80", "fake", "", "31", "", "refused", "generated", "80;8080", "https://free-proxy-list.net/",
	}, rows[1])
}

func TestHealthz(t *testing.T) {
	srv := newTestServer(t, &recordingChecker{})
	resp, err := http.Get(srv.URL + "/api/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "application/json; charset=utf-8", resp.Header.Get("Content-Type"))
}

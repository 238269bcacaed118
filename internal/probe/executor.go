package probe

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/corpix/uarand"
	"github.com/sirupsen/logrus"

	"dot5/internal/model"
)

// DefaultUserAgent is sent with every probe unless overridden.
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36"

// maxBodyBytes bounds how much of a GET body is drained.
const maxBodyBytes = 1 << 20

// Options configures an Executor.
type Options struct {
	// UserAgent is the fixed User-Agent header. Empty means DefaultUserAgent.
	UserAgent string
	// RandomUserAgent picks a fresh browser User-Agent per request instead.
	RandomUserAgent bool
	// Fingerprint selects the TLS client used for HTTPS targets:
	// FingerprintGo (default) or FingerprintRandomized.
	Fingerprint string
	Logger      logrus.FieldLogger
}

// Executor runs the HEAD-then-GET check for one proxy and one target.
type Executor struct {
	opts Options
	log  logrus.FieldLogger
}

// NewExecutor returns an Executor with defaults filled in.
func NewExecutor(opts Options) *Executor {
	if opts.UserAgent == "" {
		opts.UserAgent = DefaultUserAgent
	}
	if opts.Fingerprint == "" {
		opts.Fingerprint = FingerprintGo
	}
	log := opts.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Executor{opts: opts, log: log}
}

type stage string

const (
	attemptHead stage = http.MethodHead
	attemptGet  stage = http.MethodGet
)

// stageResult is the tagged outcome of one request.
type stageResult struct {
	stage     stage
	status    int
	finalURL  string
	elapsedMs int64
	err       error
}

func (r stageResult) reachable() bool {
	return r.err == nil && r.status >= 200 && r.status < 400
}

// Probe checks target through proxyURL. Only NormalizedProxy, Status,
// HTTPStatus, ElapsedMs, FinalURL and Error are set on the result.
func (e *Executor) Probe(ctx context.Context, target, proxyURL string, timeout time.Duration) model.Report {
	rep := model.Report{NormalizedProxy: proxyURL, Status: model.StatusFake}

	pu, err := url.Parse(proxyURL)
	if err != nil {
		rep.Error = err.Error()
		return rep
	}
	tr := newTransport(pu, timeout, e.opts.Fingerprint)
	defer tr.CloseIdleConnections()
	client := &http.Client{Transport: tr, Timeout: timeout}

	head := e.attempt(ctx, client, attemptHead, target)
	if head.reachable() {
		return e.finish(rep, head, target)
	}
	var headErr string
	if head.err != nil {
		headErr = head.err.Error()
	}

	get := e.attempt(ctx, client, attemptGet, target)
	if get.err != nil && get.err.Error() == "" && headErr != "" {
		get.err = stageError(headErr)
	}
	return e.finish(rep, get, target)
}

func (e *Executor) finish(rep model.Report, r stageResult, target string) model.Report {
	rep.ElapsedMs = r.elapsedMs
	switch {
	case r.reachable():
		rep.Status = model.StatusReal
		rep.HTTPStatus = intPtr(r.status)
		rep.FinalURL = r.finalURL
	case r.err == nil:
		rep.HTTPStatus = intPtr(r.status)
		rep.FinalURL = r.finalURL
	default:
		rep.Error = r.err.Error()
	}
	e.log.WithFields(logrus.Fields{
		"proxy":  rep.NormalizedProxy,
		"target": target,
		"stage":  r.stage,
		"status": rep.Status,
	}).Debug("probe finished")
	return rep
}

func (e *Executor) attempt(ctx context.Context, client *http.Client, s stage, target string) stageResult {
	start := time.Now()
	res := stageResult{stage: s}

	req, err := http.NewRequestWithContext(ctx, string(s), target, nil)
	if err != nil {
		res.err = err
		res.elapsedMs = time.Since(start).Milliseconds()
		return res
	}
	req.Header.Set("User-Agent", e.userAgent())

	resp, err := client.Do(req)
	if err != nil {
		res.err = err
		res.elapsedMs = time.Since(start).Milliseconds()
		return res
	}
	defer resp.Body.Close()

	if s == attemptGet {
		if _, err := io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes)); err != nil {
			res.err = err
			res.elapsedMs = time.Since(start).Milliseconds()
			return res
		}
	}

	res.status = resp.StatusCode
	res.finalURL = resp.Request.URL.String()
	res.elapsedMs = time.Since(start).Milliseconds()
	return res
}

func (e *Executor) userAgent() string {
	if e.opts.RandomUserAgent {
		return uarand.GetRandom()
	}
	return e.opts.UserAgent
}

type stageError string

func (s stageError) Error() string { return string(s) }

func intPtr(v int) *int { return &v }

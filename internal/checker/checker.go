package checker

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"dot5/internal/candidate"
	"dot5/internal/model"
)

const (
	DefaultTimeout = 6 * time.Second
	DefaultWorkers = 20
)

// DefaultTryPorts are the ports tried for input lines without a port.
var DefaultTryPorts = []int{80, 8080, 3128, 8000, 8888}

// Options are the per-batch knobs. Zero values fall back to the Checker's
// defaults. A nil TryPorts means "use defaults"; an empty one means none.
type Options struct {
	TargetURLs []string
	Timeout    time.Duration
	MaxWorkers int
	TryPorts   []int
	// Progress is called as each candidate finishes.
	Progress func(model.Report)
}

// Config wires a Checker.
type Config struct {
	Executor      Executor
	Sources       *SourcePicker
	Scheme        string  // proxy scheme for generated URLs, "http" if empty
	RatePerSecond float64 // 0 disables pacing
	Defaults      Options
	Logger        logrus.FieldLogger
}

// Checker is the bulk verification entrypoint.
type Checker struct {
	exec     Executor
	sources  *SourcePicker
	scheme   string
	limit    rate.Limit
	defaults Options
	log      logrus.FieldLogger
}

// New builds a Checker. Executor is required.
func New(cfg Config) *Checker {
	if cfg.Executor == nil {
		panic("checker.New: executor is nil")
	}
	if cfg.Sources == nil {
		cfg.Sources = NewSourcePicker(nil, nil)
	}
	if cfg.Logger == nil {
		cfg.Logger = logrus.StandardLogger()
	}
	d := cfg.Defaults
	if d.Timeout <= 0 {
		d.Timeout = DefaultTimeout
	}
	if d.MaxWorkers <= 0 {
		d.MaxWorkers = DefaultWorkers
	}
	if d.TryPorts == nil {
		d.TryPorts = DefaultTryPorts
	}
	return &Checker{
		exec:     cfg.Executor,
		sources:  cfg.Sources,
		scheme:   cfg.Scheme,
		limit:    rate.Limit(cfg.RatePerSecond),
		defaults: d,
		log:      cfg.Logger,
	}
}

// Resolve fills unset fields of opts from the Checker's defaults.
func (c *Checker) Resolve(opts Options) Options {
	if len(opts.TargetURLs) == 0 {
		opts.TargetURLs = c.defaults.TargetURLs
	}
	if opts.Timeout <= 0 {
		opts.Timeout = c.defaults.Timeout
	}
	if opts.MaxWorkers <= 0 {
		opts.MaxWorkers = c.defaults.MaxWorkers
	}
	if opts.TryPorts == nil {
		opts.TryPorts = c.defaults.TryPorts
	}
	return opts
}

// Sources exposes the attribution catalog.
func (c *Checker) Sources() *SourcePicker { return c.sources }

// CheckBulk verifies every proxy described by rawInputs and returns one
// report per input line that parsed. Lines that do not parse are dropped.
func (c *Checker) CheckBulk(ctx context.Context, rawInputs []string, opts Options) []model.Report {
	opts = c.Resolve(opts)
	cands := candidate.NormalizeScheme(rawInputs, opts.TryPorts, c.scheme)

	log := c.log.WithFields(logrus.Fields{
		"inputs":     len(rawInputs),
		"candidates": len(cands),
		"targets":    len(opts.TargetURLs),
		"workers":    opts.MaxWorkers,
	})
	log.Info("bulk check started")
	start := time.Now()

	prober := &Prober{
		Exec:    c.exec,
		Targets: opts.TargetURLs,
		Timeout: opts.Timeout,
		Sources: c.sources,
	}
	sched := &Scheduler{Workers: opts.MaxWorkers, OnResult: opts.Progress}
	if c.limit > 0 {
		sched.Limiter = rate.NewLimiter(c.limit, 1)
	}

	reports := Collapse(sched.Run(ctx, cands, prober.Check))

	alive := 0
	for _, r := range reports {
		if r.Real() {
			alive++
		}
	}
	log.WithFields(logrus.Fields{
		"reports": len(reports),
		"real":    alive,
		"took":    time.Since(start).Round(time.Millisecond).String(),
	}).Info("bulk check finished")
	return reports
}

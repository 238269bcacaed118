package checker

import (
	"context"
	"slices"
	"time"

	"dot5/internal/model"
)

// Executor performs one HEAD-then-GET probe. *probe.Executor implements it.
type Executor interface {
	Probe(ctx context.Context, target, proxyURL string, timeout time.Duration) model.Report
}

// Prober checks one candidate against an ordered list of targets.
type Prober struct {
	Exec    Executor
	Targets []string
	Timeout time.Duration
	Sources *SourcePicker
}

// Check tries each target in order and returns the first real outcome, or
// the outcome of the last target when none is real. A generated candidate
// that ends up fake is given a fake-source attribution.
func (p *Prober) Check(ctx context.Context, c model.Candidate) model.Report {
	rep := model.Report{NormalizedProxy: c.Proxy, Status: model.StatusFake}
	for _, target := range p.Targets {
		rep = p.Exec.Probe(ctx, target, c.Proxy, p.Timeout)
		if rep.Real() {
			break
		}
	}
	if len(p.Targets) == 0 {
		rep.Error = "no target urls configured"
	}

	rep.Input = c.Input
	rep.Source = c.Source
	rep.PortsTried = slices.Clone(c.PortsTried)
	rep.FakeSourceURL = ""
	if c.Source == model.SourceGenerated && !rep.Real() && p.Sources != nil {
		rep.FakeSourceURL = p.Sources.Pick()
	}
	return rep
}

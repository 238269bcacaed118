// Package checker runs bulk proxy verification: it probes every candidate
// against the configured targets on a bounded worker pool and collapses the
// outcomes into one report per input line.
//
// Outcomes arrive in completion order. When every candidate of an input is
// fake, the reported one is whichever finished first, so that choice is not
// deterministic across runs.
package checker

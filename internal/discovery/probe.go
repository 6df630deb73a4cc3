package discovery

import "context"

// Probe is one independent bridge discovery technique.
//
// A probe performs its search and reports whatever it found. Transport
// errors never cross this boundary: a failed probe is indistinguishable
// from one that found nothing, and failures are observable only through
// the logging side channel. The context is the cooperative stop signal -
// a well-behaved probe selects on ctx.Done() and returns promptly (with
// partial or empty results) once it fires.
type Probe interface {
	// Name identifies the probe in logs and progress reporting
	Name() string

	// Run executes the probe to completion or early cancellation
	Run(ctx context.Context) []Bridge
}

// ProbeFunc adapts a function to the Probe interface
type ProbeFunc struct {
	ProbeName string
	RunFunc   func(ctx context.Context) []Bridge
}

// Name returns the probe name
func (p ProbeFunc) Name() string { return p.ProbeName }

// Run invokes the wrapped function
func (p ProbeFunc) Run(ctx context.Context) []Bridge { return p.RunFunc(ctx) }

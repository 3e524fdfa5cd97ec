package tree

import (
	"fmt"
	"runtime"
)

// DefaultParallelThreshold is the record count from which parent resolution
// fans out across goroutines.
const DefaultParallelThreshold = 1000

// Option configures Build and BuildForest via functional arguments.
// An invalid Option is recorded and surfaced as ErrOptionViolation when the
// builder is invoked.
type Option func(*Options)

// Options holds the tunables of forest construction. None of them changes
// the shape of the result except CyclePolicy.
type Options struct {
	// ParallelThreshold is the minimum record count for parent resolution
	// to run concurrently.
	ParallelThreshold int

	// Workers limits the goroutines used by concurrent resolution.
	Workers int

	// CyclePolicy decides how records below a parent cycle surface.
	CyclePolicy CyclePolicy

	// Sequential disables concurrent resolution entirely.
	Sequential bool

	err error
}

// DefaultOptions returns Options with:
//   - ParallelThreshold = DefaultParallelThreshold
//   - Workers = runtime.GOMAXPROCS(0)
//   - CyclePolicy = CycleBreak
func DefaultOptions() Options {
	return Options{
		ParallelThreshold: DefaultParallelThreshold,
		Workers:           runtime.GOMAXPROCS(0),
		CyclePolicy:       CycleBreak,
	}
}

// WithParallelThreshold sets the record count from which parents resolve
// concurrently. n < 1 → ErrOptionViolation.
func WithParallelThreshold(n int) Option {
	return func(o *Options) {
		if n < 1 {
			o.err = fmt.Errorf("%w: ParallelThreshold must be positive (%d)", ErrOptionViolation, n)
			return
		}
		o.ParallelThreshold = n
	}
}

// WithWorkers limits the goroutines of concurrent resolution.
// n < 1 → ErrOptionViolation.
func WithWorkers(n int) Option {
	return func(o *Options) {
		if n < 1 {
			o.err = fmt.Errorf("%w: Workers must be positive (%d)", ErrOptionViolation, n)
			return
		}
		o.Workers = n
	}
}

// WithCyclePolicy selects the straggler policy.
func WithCyclePolicy(p CyclePolicy) Option {
	return func(o *Options) {
		switch p {
		case CycleAsRoots, CycleBreak:
			o.CyclePolicy = p
		default:
			o.err = fmt.Errorf("%w: unknown cycle policy %d", ErrOptionViolation, int(p))
		}
	}
}

// WithSequential resolves every parent on the calling goroutine.
func WithSequential() Option {
	return func(o *Options) {
		o.Sequential = true
	}
}

// buildOptions applies opts over the defaults and reports a recorded violation.
func buildOptions(opts []Option) (Options, error) {
	o := DefaultOptions()
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	if o.err != nil {
		return o, o.err
	}

	return o, nil
}

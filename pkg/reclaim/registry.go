package reclaim

import (
	"context"
	"errors"
	"fmt"
	"iter"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/randalmurphal/reclaim/pkg/reclaim/observability"
	"github.com/randalmurphal/reclaim/pkg/reclaim/report"
)

// State is the lifecycle state of a Registry.
type State int

// Registry states.
const (
	StateEmpty State = iota
	StatePopulated
	StateReleased
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateEmpty:
		return "empty"
	case StatePopulated:
		return "populated"
	case StateReleased:
		return "released"
	default:
		return "unknown"
	}
}

// Registry owns registered values and destroys each exactly once at Shutdown.
//
// A Registry has a single owner and is not safe for concurrent use.
type Registry struct {
	opts options

	// entries is in registration order; traversal and teardown walk it
	// from the end, most recent first.
	entries  []*entry
	seq      uint64
	released bool
}

// New creates an empty registry.
func New(opts ...Option) *Registry {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.id == "" {
		o.id = uuid.New().String()
	}
	o.logger = observability.EnrichLogger(o.logger, o.id)

	return &Registry{opts: o}
}

// ID returns the registry's identifier.
func (r *Registry) ID() string {
	return r.opts.id
}

// Len returns the number of live entries.
func (r *Registry) Len() int {
	return len(r.entries)
}

// State returns the registry's lifecycle state.
func (r *Registry) State() State {
	switch {
	case r.released:
		return StateReleased
	case len(r.entries) == 0:
		return StateEmpty
	default:
		return StatePopulated
	}
}

// Register runs construct(input) once and takes ownership of the result,
// which destroy will release at Shutdown. It returns the stored value.
//
// The registry cannot check that construct and destroy belong together;
// use Kind with the package-level Register to bind them by type.
func (r *Registry) Register(input any, construct Constructor, destroy Destructor) (any, error) {
	return r.RegisterBinding(Binding{Construct: construct, Destroy: destroy}, input)
}

// RegisterBinding is Register for a named Binding.
func (r *Registry) RegisterBinding(b Binding, input any) (any, error) {
	if r.released {
		return nil, ErrReleased
	}
	if b.Construct == nil || b.Destroy == nil {
		return nil, ErrNilCapability
	}

	ctx := context.Background()

	value, err := b.Construct(input)
	if err != nil {
		err = &ConstructorError{Kind: b.Name, Err: err}
	} else if isEmpty(value) {
		err = ErrAllocationFailure
	}

	r.opts.metrics.RecordRegister(ctx, b.Name, err)

	if err != nil {
		if r.opts.retainFailed {
			r.push(b, nil)
		}
		observability.LogRegisterFailed(r.opts.logger, b.Name, err, r.opts.retainFailed)
		return nil, err
	}

	e := r.push(b, value)
	observability.LogRegistered(r.opts.logger, b.Name, e.seq, len(r.entries))
	return value, nil
}

func (r *Registry) push(b Binding, value any) *entry {
	r.seq++
	e := &entry{
		value:   value,
		destroy: b.Destroy,
		kind:    b.Name,
		seq:     r.seq,
	}
	r.entries = append(r.entries, e)
	return e
}

// Values yields the stored values, most recently registered first.
// Entries retained after a failed construction yield nil.
func (r *Registry) Values() iter.Seq[any] {
	return func(yield func(any) bool) {
		for i := len(r.entries) - 1; i >= 0; i-- {
			if !yield(r.entries[i].value) {
				return
			}
		}
	}
}

// Shutdown destroys every stored value exactly once, most recently
// registered first, and releases the registry. ctx carries tracing only;
// teardown always runs to completion.
//
// A destructor that panics is recovered and reported in the returned error
// as a *DestroyError; the remaining values are still destroyed. A failure to
// save the report is also returned. Neither undoes the teardown.
//
// Calling Shutdown again returns ErrReleased without destroying anything.
func (r *Registry) Shutdown(ctx context.Context) (*report.Report, error) {
	if r.released {
		return nil, ErrReleased
	}
	if ctx == nil {
		ctx = context.Background()
	}

	// Detach before any destructor runs. Destructors that call back into
	// the registry see it released and empty.
	entries := r.entries
	r.entries = nil
	r.released = true

	rep := report.New(r.opts.id)
	ctx, span := r.opts.spans.StartShutdownSpan(ctx, r.opts.id, len(entries))
	observability.LogShutdownStart(r.opts.logger, len(entries))
	done := observability.TimedOperation()

	var errs []error
	for i := len(entries) - 1; i >= 0; i-- {
		e := entries[i]
		entries[i] = nil
		rep.Count(e.kind)

		err := e.release()
		if err != nil {
			rep.Faults++
			errs = append(errs, err)
			observability.LogDestroyFault(r.opts.logger, e.kind, e.seq, err)
			r.opts.metrics.RecordDestroyFault(ctx, e.kind)
		} else {
			rep.Destroyed++
		}
		r.opts.spans.AddSpanEvent(ctx, "entry.destroyed",
			attribute.String("kind", e.kind),
			attribute.Int64("seq", int64(e.seq)),
			attribute.Bool("fault", err != nil),
		)
	}

	rep.Finish()
	r.opts.metrics.RecordShutdown(ctx, rep.Destroyed, rep.Faults, rep.Duration)
	observability.LogShutdownComplete(r.opts.logger, rep.Destroyed, rep.Faults, done())

	if r.opts.store != nil {
		if err := r.opts.store.Save(rep); err != nil {
			observability.LogReportError(r.opts.logger, err)
			errs = append(errs, fmt.Errorf("save report: %w", err))
		}
	}

	err := errors.Join(errs...)
	r.opts.spans.EndSpanWithError(span, err)
	return rep, err
}

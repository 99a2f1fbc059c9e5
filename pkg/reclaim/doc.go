/*
Package reclaim provides a registry that owns heterogeneous values and
destroys each of them exactly once when the registry shuts down.

# Overview

Callers hand the registry a value's constructor together with the
destructor that releases it. The registry runs the constructor, keeps the
result, and at Shutdown runs every destructor, most recently registered
first. Teardown of unrelated resources is centralized in one place.

# Basic Usage

	r := reclaim.New()

	conn, err := r.Register(addr,
	    func(in any) (any, error) { return net.Dial("tcp", in.(string)) },
	    func(v any) { v.(net.Conn).Close() },
	)
	if err != nil {
	    return err
	}

	// ... use conn ...

	if _, err := r.Shutdown(ctx); err != nil {
	    log.Println(err)
	}

# Typed Kinds

Register accepts any constructor and any destructor, and cannot tell when
they don't match. A Kind binds both to the same types:

	var textKind = reclaim.Kind[string, *strings.Builder]{
	    Name: "text",
	    Construct: func(s string) (*strings.Builder, error) {
	        var b strings.Builder
	        b.WriteString(s)
	        return &b, nil
	    },
	    Destroy: func(b *strings.Builder) { b.Reset() },
	}

	b, err := reclaim.Register(r, textKind, "hello")

# Failures

A constructor error is returned as a *ConstructorError and nothing is
registered. A constructor that returns a nil value without an error fails
with ErrAllocationFailure. WithRetainFailed keeps an entry holding nil
for either case instead; its destructor then receives nil.

Use after Shutdown fails with ErrReleased. Shutdown itself may be called
once; a second call is a caller error and also returns ErrReleased.

# Lifecycle

	Empty -> (Register)* -> Populated -> (Shutdown) -> Released

A Registry has a single owner and no internal locking.
*/
package reclaim

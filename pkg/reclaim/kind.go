package reclaim

import (
	"fmt"
	"reflect"
)

// Constructor produces a new owned value from raw input. It must not retain
// input past the call unless it copies it.
type Constructor func(input any) (any, error)

// Destructor releases everything the matching Constructor allocated. It may
// receive nil when the registry retains failed constructions.
type Destructor func(value any)

// Binding is a type-erased constructor/destructor pair.
type Binding struct {
	// Name labels entries in logs, metrics, and shutdown reports.
	Name      string
	Construct Constructor
	Destroy   Destructor
}

// Kind binds a typed constructor to the destructor for the values it
// produces, so the two cannot be mismatched.
//
// Example:
//
//	var bufferKind = reclaim.Kind[int, *bytes.Buffer]{
//	    Name:      "buffer",
//	    Construct: func(n int) (*bytes.Buffer, error) { return bytes.NewBuffer(make([]byte, 0, n)), nil },
//	    Destroy:   func(b *bytes.Buffer) { b.Reset() },
//	}
//
//	buf, err := reclaim.Register(r, bufferKind, 1024)
type Kind[In, V any] struct {
	Name      string
	Construct func(In) (V, error)
	Destroy   func(V)
}

// Binding erases the kind's types. The returned constructor rejects input
// that is not an In with ErrInputType.
func (k Kind[In, V]) Binding() Binding {
	b := Binding{Name: k.Name}
	if k.Construct != nil {
		b.Construct = func(input any) (any, error) {
			// nil input stands for the zero In.
			in, ok := input.(In)
			if !ok && input != nil {
				return nil, fmt.Errorf("%w: want %v, got %T", ErrInputType, reflect.TypeFor[In](), input)
			}
			v, err := k.Construct(in)
			if err != nil {
				return nil, err
			}
			return v, nil
		}
	}
	if k.Destroy != nil {
		b.Destroy = func(value any) {
			// A retained failed construction arrives as nil; hand the zero V over.
			v, _ := value.(V)
			k.Destroy(v)
		}
	}
	return b
}

// Register constructs a value through k and hands its ownership to r.
// It returns the stored value, which stays valid until r shuts down.
func Register[In, V any](r *Registry, k Kind[In, V], in In) (V, error) {
	var zero V
	value, err := r.RegisterBinding(k.Binding(), in)
	if err != nil {
		return zero, err
	}
	return value.(V), nil
}

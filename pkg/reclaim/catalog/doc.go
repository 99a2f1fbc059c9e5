// Package catalog indexes constructor/destructor bindings by name.
//
// A Catalog lets callers that only know a kind's name (from configuration,
// a command line, or a wire message) register values without holding the
// typed Kind themselves.
//
// # Basic Usage
//
//	c := catalog.New()
//	c.MustAdd(payload.TextKind.Binding())
//	c.MustAdd(payload.RecordKind.Binding())
//
//	r := reclaim.New()
//	v, err := catalog.Register(r, c, "text", []byte("hello"))
//
// The catalog indexes kinds, never the values a registry holds.
//
// # Thread Safety
//
// All Catalog methods are safe for concurrent use. Range iterates over a
// snapshot, so Add may be called from inside the callback.
package catalog

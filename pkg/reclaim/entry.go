package reclaim

import "reflect"

// entry is one owned slot: a value and the capability that releases it.
// value stays valid until release runs; the registry drops the entry right after.
type entry struct {
	value   any
	destroy Destructor
	kind    string
	seq     uint64
}

// release invokes the destructor exactly once. A panic is converted into a
// *DestroyError so the remaining entries can still be released.
func (e *entry) release() (err error) {
	destroy, value := e.destroy, e.value
	e.destroy, e.value = nil, nil

	defer func() {
		if p := recover(); p != nil {
			err = &DestroyError{Kind: e.kind, Seq: e.seq, Panic: p}
		}
	}()
	destroy(value)
	return nil
}

// isEmpty reports whether a constructed value carries nothing to own.
func isEmpty(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Interface, reflect.UnsafePointer:
		return rv.IsNil()
	default:
		return false
	}
}

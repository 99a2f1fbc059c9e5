// Package payload provides two sample kinds for a reclaim registry: a text
// buffer and a record holding a buffer and an id.
package payload

import (
	"errors"
	"fmt"

	"github.com/randalmurphal/reclaim/pkg/reclaim"
)

// MaxBuffer is the largest buffer either kind will copy.
const MaxBuffer = 1024

// ErrTooLarge indicates an input buffer exceeds MaxBuffer.
var ErrTooLarge = errors.New("buffer exceeds maximum size")

// Text is an owned copy of a byte string.
type Text struct {
	buf      []byte
	released bool
}

// String returns the stored text.
func (t *Text) String() string {
	return string(t.buf)
}

// Bytes returns the stored buffer. It aliases the owned storage.
func (t *Text) Bytes() []byte {
	return t.buf
}

// Released reports whether the destructor has run.
func (t *Text) Released() bool {
	return t.released
}

// TextKind copies its input into a new Text.
var TextKind = reclaim.Kind[[]byte, *Text]{
	Name:      "text",
	Construct: newText,
	Destroy:   (*Text).release,
}

func newText(in []byte) (*Text, error) {
	buf, err := copyBuffer(in)
	if err != nil {
		return nil, err
	}
	return &Text{buf: buf}, nil
}

func (t *Text) release() {
	if t == nil {
		return
	}
	clear(t.buf)
	t.buf = nil
	t.released = true
}

// RecordInput is the raw input for RecordKind.
type RecordInput struct {
	Buffer string
	ID     int
}

// Record is an owned buffer paired with an id.
type Record struct {
	Buffer   []byte
	ID       int
	released bool
}

// Released reports whether the destructor has run.
func (r *Record) Released() bool {
	return r.released
}

// String formats the record for display.
func (r *Record) String() string {
	return fmt.Sprintf("record %d: %s", r.ID, r.Buffer)
}

// RecordKind builds a Record with its own copy of the input buffer.
var RecordKind = reclaim.Kind[RecordInput, *Record]{
	Name:      "record",
	Construct: newRecord,
	Destroy:   (*Record).release,
}

func newRecord(in RecordInput) (*Record, error) {
	buf, err := copyBuffer([]byte(in.Buffer))
	if err != nil {
		return nil, err
	}
	return &Record{Buffer: buf, ID: in.ID}, nil
}

func (r *Record) release() {
	if r == nil {
		return
	}
	clear(r.Buffer)
	r.Buffer = nil
	r.released = true
}

func copyBuffer(in []byte) ([]byte, error) {
	if len(in) > MaxBuffer {
		return nil, fmt.Errorf("%w: %d > %d", ErrTooLarge, len(in), MaxBuffer)
	}
	buf := make([]byte, len(in))
	copy(buf, in)
	return buf, nil
}

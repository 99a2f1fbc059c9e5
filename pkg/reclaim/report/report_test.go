package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReport_CountAndFinish(t *testing.T) {
	r := New("reg-1")
	r.Count("text")
	r.Count("record")
	r.Count("text")
	r.Destroyed = 3
	r.Finish()

	assert.Equal(t, Version, r.Version)
	assert.Equal(t, 3, r.Registered)
	assert.Equal(t, map[string]int{"text": 2, "record": 1}, r.Kinds)
	assert.False(t, r.FinishedAt.Before(r.StartedAt))
	assert.GreaterOrEqual(t, int64(r.Duration), int64(0))
	assert.True(t, r.Clean())
}

func TestReport_CountOnZeroValue(t *testing.T) {
	var r Report
	r.Count("")
	assert.Equal(t, 1, r.Registered)
	assert.Equal(t, 1, r.Kinds[""])
}

func TestReport_Clean(t *testing.T) {
	tests := []struct {
		name       string
		registered int
		destroyed  int
		faults     int
		want       bool
	}{
		{"empty", 0, 0, 0, true},
		{"all destroyed", 2, 2, 0, true},
		{"one fault", 2, 1, 1, false},
		{"missing destroy", 2, 1, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := Report{Registered: tt.registered, Destroyed: tt.destroyed, Faults: tt.faults}
			assert.Equal(t, tt.want, r.Clean())
		})
	}
}

func TestUnmarshal_Invalid(t *testing.T) {
	_, err := Unmarshal([]byte("not json"))
	require.Error(t, err)
}

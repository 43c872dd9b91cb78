package codec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type payload struct {
	Name   string   `json:"name"`
	Counts []int    `json:"counts"`
	Rate   float64  `json:"rate"`
	Tags   []string `json:"tags,omitempty"`
}

func TestCodecsAreWireCompatible(t *testing.T) {
	in := payload{
		Name:   "run-1",
		Counts: []int{3, 1, 2},
		Rate:   0.375,
	}

	for _, c := range []Codec{JSON{}, GoJSON{}} {
		t.Run(c.Name(), func(t *testing.T) {
			data, err := c.Marshal(in)
			require.NoError(t, err)

			// A payload written by one codec must decode with the other.
			for _, dec := range []Codec{JSON{}, GoJSON{}} {
				var out payload
				require.NoError(t, dec.Unmarshal(data, &out))
				assert.Equal(t, in, out)
			}
		})
	}
}

func TestByName(t *testing.T) {
	tests := []struct {
		name string
		ok   bool
	}{
		{name: "json", ok: true},
		{name: "go-json", ok: true},
		{name: "gob", ok: false},
		{name: "", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, ok := ByName(tt.name)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.name, c.Name())
			}
		})
	}
}

func TestDefaultIsRegistered(t *testing.T) {
	c, ok := ByName(Default.Name())
	require.True(t, ok)
	assert.Equal(t, Default.Name(), c.Name())
}

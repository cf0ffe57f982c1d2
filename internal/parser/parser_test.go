package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_DefaultPolicy(t *testing.T) {
	tests := []struct {
		name  string
		line  []byte
		want  float64
		found bool
	}{
		{"garbage", []byte("garbage\x00\xff no numbers here"), 0, false},
		{"value with unit", []byte("reading: 3.14 V"), 3.14, true},
		{"negative rejected", []byte("-2.5"), 0, false},
		{"zero rejected", []byte("0.00\r\n"), 0, false},
		{"integer only", []byte("42\r\n"), 0, false},
		{"first of many", []byte("t=1.50 h=2.75"), 1.5, true},
		{"invalid bytes around number", []byte("\xfe\xff12.5\xc3\x28\n"), 12.5, true},
		{"partial line", []byte("7.2"), 7.2, true},
		{"empty", nil, 0, false},
		{"trailing dot", []byte("5."), 0, false},
		{"hyphenated name", []byte("sensor-1.5"), 1.5, true},
		{"channel prefix", []byte("A0-3.14V"), 3.14, true},
		{"range separator", []byte("range 10-20.5"), 20.5, true},
		{"signed after space", []byte("temp -4.5"), 0, false},
	}

	p := New(nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := p.Parse(tt.line)
			assert.Equal(t, tt.found, ok)
			assert.InDelta(t, tt.want, got, 1e-12)
		})
	}
}

func TestParse_Policies(t *testing.T) {
	tests := []struct {
		policy string
		line   string
		want   float64
		found  bool
	}{
		{"non_negative", "0.0", 0, true},
		{"non_negative", "-0.5", 0, false},
		{"any", "-2.5", -2.5, true},
		{"any", "temp: -10.25C", -10.25, true},
		{"any", "A0-3.14V", 3.14, true},
		{"any", "range 10-20.5", 20.5, true},
		{"any", "x=-0.5;y=1.0", -0.5, true},
		{"positive", "1.0", 1, true},
	}

	for _, tt := range tests {
		t.Run(tt.policy+"/"+tt.line, func(t *testing.T) {
			pred, err := PredicateByName(tt.policy)
			require.NoError(t, err)

			got, ok := New(pred).Parse([]byte(tt.line))
			assert.Equal(t, tt.found, ok)
			assert.InDelta(t, tt.want, got, 1e-12)
		})
	}
}

func TestPredicateByName_Unknown(t *testing.T) {
	_, err := PredicateByName("truthy")
	assert.Error(t, err)
}

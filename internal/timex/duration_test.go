package timex

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

type holder struct {
	Interval Duration `json:"interval" yaml:"interval"`
}

func TestDuration_JSON(t *testing.T) {
	tests := []struct {
		in   string
		want time.Duration
	}{
		{`{"interval":"3s"}`, 3 * time.Second},
		{`{"interval":"1m30s"}`, 90 * time.Second},
		{`{"interval":10}`, 10 * time.Second},
		{`{"interval":0.5}`, 500 * time.Millisecond},
	}

	for _, tt := range tests {
		var h holder
		require.NoError(t, json.Unmarshal([]byte(tt.in), &h), tt.in)
		assert.Equal(t, tt.want, h.Interval.Duration, tt.in)
	}
}

func TestDuration_JSONErrors(t *testing.T) {
	for _, in := range []string{`{"interval":"soon"}`, `{"interval":true}`, `{"interval":"-1s"}`} {
		var h holder
		require.Error(t, json.Unmarshal([]byte(in), &h), in)
	}
}

func TestDuration_JSONMarshal(t *testing.T) {
	b, err := json.Marshal(holder{Interval: Duration{10 * time.Second}})
	require.NoError(t, err)
	assert.JSONEq(t, `{"interval":"10s"}`, string(b))
}

func TestDuration_YAML(t *testing.T) {
	var h holder
	require.NoError(t, yaml.Unmarshal([]byte("interval: 2s\n"), &h))
	assert.Equal(t, 2*time.Second, h.Interval.Duration)

	require.NoError(t, yaml.Unmarshal([]byte("interval: 7\n"), &h))
	assert.Equal(t, 7*time.Second, h.Interval.Duration)

	require.Error(t, yaml.Unmarshal([]byte("interval: later\n"), &h))

	out, err := yaml.Marshal(holder{Interval: Duration{time.Minute}})
	require.NoError(t, err)
	assert.Equal(t, "interval: 1m0s\n", string(out))
}

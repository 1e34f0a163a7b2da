// ABOUTME: Tests for timestamp normalization
// ABOUTME: Covers every supported wire format and the fallback-to-now contract
package timeutil

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nativeStamp struct {
	t time.Time
}

func (s nativeStamp) Time() time.Time {
	return s.t
}

func TestNormalizeSupportedFormats(t *testing.T) {
	// One instant, every wire shape.
	instant := time.Date(2024, 3, 15, 10, 30, 0, 500*int(time.Millisecond), time.UTC)
	wantMillis := instant.UnixMilli()

	tests := []struct {
		name  string
		input interface{}
	}{
		{"native time", instant},
		{"time pointer", &instant},
		{"store-native timestamp", nativeStamp{t: instant}},
		{"rfc3339 string", instant.Format(time.RFC3339Nano)},
		{"epoch millis", float64(wantMillis)},
		{"epoch millis int64", wantMillis},
		{"rpc seconds object", map[string]interface{}{
			"_seconds":     float64(instant.Unix()),
			"_nanoseconds": float64(500_000_000),
		}},
		{"legacy seconds object", map[string]interface{}{
			"seconds":     float64(instant.Unix()),
			"nanoseconds": float64(500_000_000),
		}},
		{"json number", json.Number("1710498600500")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(tt.input)
			assert.Equal(t, wantMillis, got.UnixMilli())
			assert.Equal(t, wantMillis, ToEpochMillis(tt.input))
		})
	}
}

func TestNormalizeEpochSeconds(t *testing.T) {
	// Numbers below 1e11 are interpreted as epoch seconds.
	got := Normalize(float64(1710498600))
	assert.Equal(t, int64(1710498600000), got.UnixMilli())
}

func TestNormalizeFallsBackToNow(t *testing.T) {
	inputs := []interface{}{
		nil,
		"",
		"not a date",
		map[string]interface{}{"foo": "bar"},
		map[string]interface{}{"_seconds": "not a number"},
		float64(-5),
		struct{}{},
		time.Time{},
		(*time.Time)(nil),
	}

	for _, input := range inputs {
		before := time.Now()
		got := Normalize(input)
		after := time.Now()

		require.False(t, got.Before(before.Add(-time.Second)), "input %#v: got %v", input, got)
		require.False(t, got.After(after.Add(time.Second)), "input %#v: got %v", input, got)
	}
}

func TestToEpochMillisFallsBackToNow(t *testing.T) {
	before := time.Now().UnixMilli()
	got := ToEpochMillis("garbage")
	after := time.Now().UnixMilli()

	assert.GreaterOrEqual(t, got, before)
	assert.LessOrEqual(t, got, after)
}

func TestNormalizeStringLayouts(t *testing.T) {
	tests := []struct {
		input string
		want  time.Time
	}{
		{"2024-01-01T12:00:00Z", time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)},
		{"2024-01-01T12:00:00", time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)},
		{"2024-01-01", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		got := Normalize(tt.input)
		assert.Equal(t, tt.want.UnixMilli(), got.UnixMilli(), "input %q", tt.input)
	}
}

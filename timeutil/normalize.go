// ABOUTME: Timestamp normalization for heterogeneous wire formats
// ABOUTME: Single choke point for every sort/compare/format on CRM dates
package timeutil

import (
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"
)

var log = zap.NewNop()

// SetLogger installs the logger used for fallback diagnostics. The zero
// logger is a nop, so normalization works without any setup.
func SetLogger(l *zap.Logger) {
	if l != nil {
		log = l
	}
}

// timeConvertible covers store-native timestamp objects that know how to
// turn themselves into a time.Time.
type timeConvertible interface {
	Time() time.Time
}

type toTimeConvertible interface {
	ToTime() time.Time
}

// Layouts tried for string input, most specific first.
var stringLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Normalize converts any supported timestamp representation into a single
// absolute instant with millisecond precision. Supported shapes, in priority
// order: a native time.Time (or pointer), a store-native timestamp exposing
// Time()/ToTime(), an RPC-serialized {_seconds,_nanoseconds} object, a legacy
// {seconds,nanoseconds} object, an ISO-8601 string, and an epoch number.
// Normalize is total: unparseable input falls back to time.Now() with a
// logged diagnostic rather than an error, so rendering stays resilient at
// the cost of potentially masking bad data.
func Normalize(v interface{}) time.Time {
	if t, ok := normalize(v); ok {
		return t
	}
	log.Warn("unparseable timestamp, falling back to now",
		zap.String("type", fmt.Sprintf("%T", v)),
		zap.Any("value", v))
	return time.Now()
}

// ToEpochMillis is Normalize with an integer result, for sort comparators
// that should not allocate time.Time values in hot paths. Same fallback
// contract as Normalize.
func ToEpochMillis(v interface{}) int64 {
	if t, ok := normalize(v); ok {
		return t.UnixMilli()
	}
	log.Warn("unparseable timestamp, falling back to now",
		zap.String("type", fmt.Sprintf("%T", v)),
		zap.Any("value", v))
	return time.Now().UnixMilli()
}

func normalize(v interface{}) (time.Time, bool) {
	switch t := v.(type) {
	case nil:
		return time.Time{}, false
	case time.Time:
		return valid(t)
	case *time.Time:
		if t == nil {
			return time.Time{}, false
		}
		return valid(*t)
	case timeConvertible:
		return valid(t.Time())
	case toTimeConvertible:
		return valid(t.ToTime())
	case string:
		return parseString(t)
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return time.Time{}, false
		}
		return fromEpoch(f)
	case float64:
		return fromEpoch(t)
	case float32:
		return fromEpoch(float64(t))
	case int:
		return fromEpoch(float64(t))
	case int64:
		return fromEpoch(float64(t))
	case map[string]interface{}:
		return fromSecondsMap(t)
	case map[string]int64:
		m := make(map[string]interface{}, len(t))
		for k, n := range t {
			m[k] = n
		}
		return fromSecondsMap(m)
	case map[string]float64:
		m := make(map[string]interface{}, len(t))
		for k, n := range t {
			m[k] = n
		}
		return fromSecondsMap(m)
	}
	return time.Time{}, false
}

func valid(t time.Time) (time.Time, bool) {
	if t.IsZero() {
		return time.Time{}, false
	}
	return t, true
}

func parseString(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range stringLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return valid(t)
		}
	}
	return time.Time{}, false
}

// fromEpoch interprets a numeric timestamp. Values at or above 1e11 are
// epoch milliseconds; smaller positive values are epoch seconds.
func fromEpoch(f float64) (time.Time, bool) {
	if f <= 0 {
		return time.Time{}, false
	}
	millis := int64(f)
	if f < 1e11 {
		millis = int64(f * 1000)
	}
	return valid(time.UnixMilli(millis))
}

// fromSecondsMap handles RPC-serialized ({_seconds,_nanoseconds}) and legacy
// ({seconds,nanoseconds}) timestamp objects as decoded from JSON. The RPC
// form wins when both are present.
func fromSecondsMap(m map[string]interface{}) (time.Time, bool) {
	if sec, ok := numberField(m, "_seconds"); ok {
		nanos, _ := numberField(m, "_nanoseconds")
		return fromSecNanos(sec, nanos)
	}
	if sec, ok := numberField(m, "seconds"); ok {
		nanos, _ := numberField(m, "nanoseconds")
		return fromSecNanos(sec, nanos)
	}
	return time.Time{}, false
}

func fromSecNanos(sec, nanos int64) (time.Time, bool) {
	if sec <= 0 {
		return time.Time{}, false
	}
	return valid(time.UnixMilli(sec*1000 + nanos/1e6))
}

func numberField(m map[string]interface{}, key string) (int64, bool) {
	v, ok := m[key]
	if !ok {
		return 0, false
	}
	switch n := v.(type) {
	case float64:
		return int64(n), true
	case int64:
		return n, true
	case int:
		return int64(n), true
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return 0, false
		}
		return int64(f), true
	}
	return 0, false
}

// Package ingest builds interval collections from external records.
//
// A Schema names the accessors that pull a key, time span, optional spatial
// box and payload out of an arbitrary record type. Record is the flat row
// format used for YAML and Parquet interval files.
package ingest

import (
	"github.com/gitrdm/gorekall/pkg/rekall"
)

// Schema describes how to read one interval out of a record of type R.
//
// Key, T and Payload are required. X and Y are optional; when either is set
// every interval gets Bounds3D, and a missing axis spans the whole frame.
// Otherwise intervals get Bounds1D. An accessor returning ok=false for X or
// Y also leaves that axis at the full frame.
type Schema[R any, K comparable, P any] struct {
	Key     func(R) K
	T       func(R) rekall.Span
	X       func(R) (rekall.Span, bool)
	Y       func(R) (rekall.Span, bool)
	Payload func(R) P
}

func (s Schema[R, K, P]) spatial() bool { return s.X != nil || s.Y != nil }

// Interval reads one interval from r.
func (s Schema[R, K, P]) Interval(r R) rekall.Interval[P] {
	t := s.T(r)
	var payload P
	if s.Payload != nil {
		payload = s.Payload(r)
	}
	if !s.spatial() {
		return rekall.NewInterval[P](rekall.NewBounds1D(t.Lo, t.Hi), payload)
	}
	b := rekall.NewBounds3D(t.Lo, t.Hi)
	if s.X != nil {
		if x, ok := s.X(r); ok {
			b.X1, b.X2 = x.Lo, x.Hi
		}
	}
	if s.Y != nil {
		if y, ok := s.Y(r); ok {
			b.Y1, b.Y2 = y.Lo, y.Hi
		}
	}
	return rekall.NewInterval[P](b, payload)
}

// FromRecords groups records by key and returns one sorted IntervalSet per
// key.
func FromRecords[R any, K comparable, P any](records []R, schema Schema[R, K, P]) *rekall.IntervalSetMapping[K, P] {
	groups := make(map[K][]rekall.Interval[P])
	for _, r := range records {
		k := schema.Key(r)
		groups[k] = append(groups[k], schema.Interval(r))
	}
	sets := make(map[K]*rekall.IntervalSet[P], len(groups))
	for k, ivs := range groups {
		sets[k] = rekall.NewIntervalSet(ivs)
	}
	return rekall.NewIntervalSetMapping(sets)
}

// SetFromRecords ignores keys and returns every record as one IntervalSet.
func SetFromRecords[R any, K comparable, P any](records []R, schema Schema[R, K, P]) *rekall.IntervalSet[P] {
	ivs := make([]rekall.Interval[P], len(records))
	for i, r := range records {
		ivs[i] = schema.Interval(r)
	}
	return rekall.NewIntervalSet(ivs)
}

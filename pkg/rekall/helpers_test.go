package rekall

// span is a compact (t1, t2, payload) view of a 1-D interval for assertions.
type span struct {
	T1, T2 float64
	P      int
}

func iv(t1, t2 float64, p int) Interval[int] {
	return NewInterval[int](NewBounds1D(t1, t2), p)
}

func box(t1, t2, x1, x2, y1, y2 float64, p int) Interval[int] {
	return NewInterval[int](NewBounds3DBox(t1, t2, x1, x2, y1, y2), p)
}

func set1D(spans ...span) *IntervalSet[int] {
	ivs := make([]Interval[int], len(spans))
	for i, s := range spans {
		ivs[i] = iv(s.T1, s.T2, s.P)
	}
	return NewIntervalSet(ivs)
}

func spansOf(s *IntervalSet[int]) []span {
	out := make([]span, s.Len())
	for i := range out {
		iv := s.At(i)
		out[i] = span{T1: iv.Get(T1), T2: iv.Get(T2), P: iv.Payload}
	}
	return out
}

func payloadsOf[P any](s *IntervalSet[P]) []P {
	out := make([]P, s.Len())
	for i := range out {
		out[i] = s.At(i).Payload
	}
	return out
}

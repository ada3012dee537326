package rekall

// Payload merge operators for Combine, Merge, Coalesce and Minus.

// Number is the set of payload types PayloadPlus can add.
type Number interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 |
		~float32 | ~float64
}

// PayloadFirst keeps the first payload.
func PayloadFirst[P any](a, _ P) P { return a }

// PayloadSecond keeps the second payload.
func PayloadSecond[P any](_, b P) P { return b }

// PayloadPlus adds numeric payloads.
func PayloadPlus[P Number](a, b P) P { return a + b }

// MergeNamedPayload merges map payloads field by field. Fields with a merger
// are combined with it; fields present on one side only are copied; any other
// conflict keeps the first value.
func MergeNamedPayload[K comparable, V any](mergers map[K]func(a, b V) V) func(a, b map[K]V) map[K]V {
	return func(a, b map[K]V) map[K]V {
		out := make(map[K]V, len(a)+len(b))
		for k, v := range a {
			out[k] = v
		}
		for k, v := range b {
			prev, ok := out[k]
			if !ok {
				out[k] = v
				continue
			}
			if fn, ok := mergers[k]; ok {
				out[k] = fn(prev, v)
			}
		}
		return out
	}
}

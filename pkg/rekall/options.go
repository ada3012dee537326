package rekall

// OpOption configures a binary operator or minus.
type OpOption func(*opConfig)

type opConfig struct {
	window    float64
	hasWindow bool
	axis      Axis
	hasAxis   bool
	audit     int
	bounds    BoundsCombiner
}

// WithWindow overrides the set's optimization window. Only pairs whose
// primary-axis ranges come within w of each other are examined; pass
// math.Inf(1) for a full cross product.
func WithWindow(w float64) OpOption {
	return func(c *opConfig) {
		c.window = w
		c.hasWindow = true
	}
}

// WithAxis selects the axis Minus subtracts along. Defaults to the primary axis.
func WithAxis(a Axis) OpOption {
	return func(c *opConfig) {
		c.axis = a
		c.hasAxis = true
	}
}

// WithWindowAudit cross-checks the first n left intervals against every right
// interval and logs a warning for each accepted pair the window excluded.
// Results are unchanged.
func WithWindowAudit(n int) OpOption {
	return func(c *opConfig) { c.audit = n }
}

// WithBoundsCombiner replaces the bounds merge used by Merge. Defaults to SpanAll.
func WithBoundsCombiner(fn BoundsCombiner) OpOption {
	return func(c *opConfig) { c.bounds = fn }
}

func newOpConfig(opts []OpOption) opConfig {
	var c opConfig
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

package rekall

import "math"

// Spatial predicates read the X and Y axes of a Bounds3D-style bounds.

func width(b Bounds) float64  { return b.Get(X2) - b.Get(X1) }
func height(b Bounds) float64 { return b.Get(Y2) - b.Get(Y1) }
func area(b Bounds) float64   { return width(b) * height(b) }

// LeftOf holds when a ends horizontally before b begins.
func LeftOf() BinaryPredicate[Bounds] {
	return func(a, b Bounds) bool { return a.Get(X2) < b.Get(X1) }
}

// RightOf holds when a begins horizontally after b ends.
func RightOf() BinaryPredicate[Bounds] {
	return func(a, b Bounds) bool { return a.Get(X1) > b.Get(X2) }
}

// Above holds when a ends vertically before b begins. Y grows downwards.
func Above() BinaryPredicate[Bounds] {
	return func(a, b Bounds) bool { return a.Get(Y2) < b.Get(Y1) }
}

// Below holds when a begins vertically after b ends.
func Below() BinaryPredicate[Bounds] {
	return func(a, b Bounds) bool { return a.Get(Y1) > b.Get(Y2) }
}

// Inside holds when a's box lies within b's box, edges included.
func Inside() BinaryPredicate[Bounds] {
	return func(a, b Bounds) bool {
		return a.Get(X1) >= b.Get(X1) && a.Get(X2) <= b.Get(X2) &&
			a.Get(Y1) >= b.Get(Y1) && a.Get(Y2) <= b.Get(Y2)
	}
}

// Contains holds when b's box lies within a's box.
func Contains() BinaryPredicate[Bounds] {
	inside := Inside()
	return func(a, b Bounds) bool { return inside(b, a) }
}

// SameArea holds when the box areas differ by less than epsilon.
func SameArea(epsilon float64) BinaryPredicate[Bounds] {
	return func(a, b Bounds) bool { return math.Abs(area(a)-area(b)) < epsilon }
}

// MoreArea holds when a's box is larger than b's.
func MoreArea() BinaryPredicate[Bounds] {
	return func(a, b Bounds) bool { return area(a) > area(b) }
}

// LessArea holds when a's box is smaller than b's.
func LessArea() BinaryPredicate[Bounds] {
	return func(a, b Bounds) bool { return area(a) < area(b) }
}

// SameWidth holds when the box widths differ by less than epsilon.
func SameWidth(epsilon float64) BinaryPredicate[Bounds] {
	return func(a, b Bounds) bool { return math.Abs(width(a)-width(b)) < epsilon }
}

// SameHeight holds when the box heights differ by less than epsilon.
func SameHeight(epsilon float64) BinaryPredicate[Bounds] {
	return func(a, b Bounds) bool { return math.Abs(height(a)-height(b)) < epsilon }
}

// AreaAtLeast, AreaAtMost, AreaBetween and AreaExactly test the box area.
func AreaAtLeast(v float64) Predicate[Bounds] {
	return func(b Bounds) bool { return area(b) >= v }
}

func AreaAtMost(v float64) Predicate[Bounds] {
	return func(b Bounds) bool { return area(b) <= v }
}

func AreaBetween(lo, hi float64) Predicate[Bounds] {
	return func(b Bounds) bool { return area(b) >= lo && area(b) <= hi }
}

func AreaExactly(v, epsilon float64) Predicate[Bounds] {
	return func(b Bounds) bool { return math.Abs(area(b)-v) < epsilon }
}

// WidthAtLeast, WidthAtMost, WidthBetween and WidthExactly test the box width.
func WidthAtLeast(v float64) Predicate[Bounds] {
	return func(b Bounds) bool { return width(b) >= v }
}

func WidthAtMost(v float64) Predicate[Bounds] {
	return func(b Bounds) bool { return width(b) <= v }
}

func WidthBetween(lo, hi float64) Predicate[Bounds] {
	return func(b Bounds) bool { return width(b) >= lo && width(b) <= hi }
}

func WidthExactly(v, epsilon float64) Predicate[Bounds] {
	return func(b Bounds) bool { return math.Abs(width(b)-v) < epsilon }
}

// HeightAtLeast, HeightAtMost, HeightBetween and HeightExactly test the box height.
func HeightAtLeast(v float64) Predicate[Bounds] {
	return func(b Bounds) bool { return height(b) >= v }
}

func HeightAtMost(v float64) Predicate[Bounds] {
	return func(b Bounds) bool { return height(b) <= v }
}

func HeightBetween(lo, hi float64) Predicate[Bounds] {
	return func(b Bounds) bool { return height(b) >= lo && height(b) <= hi }
}

func HeightExactly(v, epsilon float64) Predicate[Bounds] {
	return func(b Bounds) bool { return math.Abs(height(b)-v) < epsilon }
}

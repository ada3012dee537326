// Package rekall provides a spatiotemporal interval algebra.
//
// An Interval is a Bounds (a time range, optionally with a normalized 2-D
// box) carrying a payload. An IntervalSet holds intervals sorted by their
// bounds and offers unary operators (Map, Filter, Split, Dilate, folds),
// windowed binary operators (Join, Merge, FilterAgainst, CollectByInterval),
// subtraction (Minus), merging of nearby intervals (Coalesce) and pattern
// matching over named variables (Match). An IntervalSetMapping lifts all of
// them over a keyed collection of sets, such as one set per video.
//
// Binary operators only examine pairs whose primary-axis ranges come within
// a window of each other. The default is the set's OptimizationWindow; a
// predicate that accepts pairs further apart than that needs an explicit
// WithWindow, up to math.Inf(1) for a full cross product.
//
//	speech := rekall.NewIntervalSet(speechIntervals)
//	faces := rekall.NewIntervalSet(faceIntervals)
//	talking := faces.FilterAgainst(speech, rekall.OnBounds[string](rekall.Overlaps()))
package rekall

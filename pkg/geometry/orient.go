package geometry

// OrientLoop returns a copy of loop in which every line and arc is turned so that it chains
// from the end of its predecessor. The input loop is never modified.
//
// A single forward pass is made over the original indices. The predecessor of curve i is
// curve (i-1) mod n taken from the pass output, so curve 0 is compared with the untouched
// last curve and every later curve with its already fixed predecessor. Curve i is reversed when
//
//   - the predecessor's end coincides with its end, or
//   - the predecessor's start coincides with its end and the loop has more than two curves.
//
// With only two curves (two half arcs, say) the second test would flip both of them, so it is
// not applied. Circles are skipped, as is any curve whose predecessor is a circle. A loop
// that cannot be chained is returned with whatever orientation the pass produces.
//
// A loop of fewer than two curves is returned as it is. Read literally, the modular rule
// makes a lone line or arc its own predecessor, so its end always matches and it would be
// flipped; that case is deliberately left out.
func OrientLoop(loop Loop) Loop {
	n := len(loop.Curves)
	out := make([]Curve, n)
	copy(out, loop.Curves)
	if n < 2 {
		// a lone curve would be its own predecessor
		return Loop{Curves: out, IsOuter: loop.IsOuter}
	}

	for i := 0; i < n; i++ {
		cur, ok := out[i].(directed)
		if !ok {
			continue
		}
		last, ok := out[(i-1+n)%n].(directed)
		if !ok {
			continue
		}
		lastStart, lastEnd := last.Endpoints()
		_, curEnd := cur.Endpoints()
		if AlmostEqual(lastEnd, curEnd) || (AlmostEqual(lastStart, curEnd) && n > 2) {
			out[i] = cur.Reversed()
		}
	}
	return Loop{Curves: out, IsOuter: loop.IsOuter}
}

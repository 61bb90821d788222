// Copyright 2016 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package wave

// Combine time-merges a previously combined multi-pin timeline (prev) with
// a freshly generated single-pin timeline (next) into a new combined
// timeline, per §4.4. Both are event streams whose timestamps are the
// cumulative sum of preceding DelayUS values; at equal timestamps prev's
// event is placed before next's.
//
// On the first call of a transmit batch (firstWave), the combiner
// degenerates to a copy of next.
func Combine(prev, next []Transition, firstWave bool) []Transition {
	if firstWave {
		out := make([]Transition, len(next))
		copy(out, next)
		return out
	}

	out := make([]Transition, 0, len(prev)+len(next))
	var elapsed, prevAt, nextAt uint32
	pi, ni := 0, 0

	flush := func(upTo uint32) {
		if len(out) > 0 && elapsed < upTo {
			out[len(out)-1].DelayUS += upTo - elapsed
			elapsed = upTo
		}
	}

	for pi < len(prev) || ni < len(next) {
		switch {
		case pi < len(prev) && ni < len(next) && prevAt == nextAt:
			flush(prevAt)
			out = append(out, Transition{OnMask: prev[pi].OnMask, OffMask: prev[pi].OffMask})
			prevAt += prev[pi].DelayUS
			pi++

			flush(nextAt)
			out = append(out, Transition{OnMask: next[ni].OnMask, OffMask: next[ni].OffMask})
			nextAt += next[ni].DelayUS
			ni++

		case ni < len(next) && (pi >= len(prev) || nextAt < prevAt):
			flush(nextAt)
			out = append(out, Transition{OnMask: next[ni].OnMask, OffMask: next[ni].OffMask})
			nextAt += next[ni].DelayUS
			ni++

		default:
			flush(prevAt)
			out = append(out, Transition{OnMask: prev[pi].OnMask, OffMask: prev[pi].OffMask})
			prevAt += prev[pi].DelayUS
			pi++
		}
	}
	return out
}

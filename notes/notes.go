// Copyright 2016 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package notes provides the equal-temperament note frequency table
// (a4 = 440Hz) that the wave and player packages use to turn a note name
// into a frequency in Hz.
package notes

// A4 is the tuning reference: the frequency of a4 in Hz.
const A4 = 440.000

// Frequencies maps note names to their frequency in Hz, c0 through b8,
// equal temperament tuned to A4. Lower-case names are the natural note;
// the upper-case form of the same letter is that note's sharp, a semitone
// above the natural note of the same letter and octave (e.g. "c4" is
// middle C, "C4" is C-sharp 4, a semitone above it).
//
// Silence has no entry: callers represent "no note" with a frequency of 0,
// exactly as the voice/beat arrays do.
var Frequencies = map[string]float64{
	"c0": 16.351, "C0": 17.324, "d0": 18.354, "D0": 19.445, "e0": 20.601,
	"f0": 21.827, "F0": 23.124, "g0": 24.499, "G0": 25.956, "a0": 27.500,
	"A0": 29.135, "b0": 30.868,

	"c1": 32.703, "C1": 34.648, "d1": 36.708, "D1": 38.891, "e1": 41.203,
	"f1": 43.654, "F1": 46.249, "g1": 48.999, "G1": 51.913, "a1": 55.000,
	"A1": 58.270, "b1": 61.735,

	"c2": 65.406, "C2": 69.296, "d2": 73.416, "D2": 77.782, "e2": 82.407,
	"f2": 87.307, "F2": 92.499, "g2": 97.999, "G2": 103.826, "a2": 110.000,
	"A2": 116.541, "b2": 123.471,

	"c3": 130.813, "C3": 138.591, "d3": 146.832, "D3": 155.563, "e3": 164.814,
	"f3": 174.614, "F3": 184.997, "g3": 195.998, "G3": 207.652, "a3": 220.000,
	"A3": 233.082, "b3": 246.942,

	"c4": 261.626, "C4": 277.183, "d4": 293.665, "D4": 311.127, "e4": 329.628,
	"f4": 349.228, "F4": 369.994, "g4": 391.995, "G4": 415.305, "a4": 440.000,
	"A4": 466.164, "b4": 493.883,

	"c5": 523.251, "C5": 554.365, "d5": 587.330, "D5": 622.254, "e5": 659.255,
	"f5": 698.456, "F5": 739.989, "g5": 783.991, "G5": 830.609, "a5": 880.000,
	"A5": 932.328, "b5": 987.767,

	"c6": 1046.502, "C6": 1108.731, "d6": 1174.659, "D6": 1244.508, "e6": 1318.510,
	"f6": 1396.913, "F6": 1479.978, "g6": 1567.982, "G6": 1661.219, "a6": 1760.000,
	"A6": 1864.655, "b6": 1975.533,

	"c7": 2093.005, "C7": 2217.461, "d7": 2349.318, "D7": 2489.016, "e7": 2637.021,
	"f7": 2793.826, "F7": 2959.955, "g7": 3135.964, "G7": 3322.438, "a7": 3520.000,
	"A7": 3729.310, "b7": 3951.066,

	"c8": 4186.009, "C8": 4434.922, "d8": 4698.636, "D8": 4978.032, "e8": 5274.042,
	"f8": 5587.652, "F8": 5919.910, "g8": 6271.928, "G8": 6644.876, "a8": 7040.000,
	"A8": 7458.620, "b8": 7902.132,
}

// Hz looks up a note name in Frequencies. It returns 0, false for an
// unrecognized name; callers treat a zero frequency as silence the same
// way they would for a literal 0 in a voice's frequency sequence.
func Hz(name string) (float64, bool) {
	f, ok := Frequencies[name]
	return f, ok
}

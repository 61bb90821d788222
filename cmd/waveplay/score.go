// Copyright 2016 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/gpiowave/player/notes"
	"github.com/gpiowave/player/player"
)

// scoreFile is the on-disk JSON shape for a --score file: one beat length
// and a set of voices, each a per-beat sequence of notes and duty cycles.
type scoreFile struct {
	BeatUS uint32       `json:"beat_us"`
	Beats  int          `json:"beats"`
	Voices []scoreVoice `json:"voices"`
}

type scoreVoice struct {
	Pin   int          `json:"pin"`
	Notes []scoreBeat  `json:"notes"`
	Misc  []*scoreMisc `json:"misc,omitempty"`
}

// scoreBeat names a beat either by note name (resolved through notes.Hz)
// or by an explicit frequency in Hz (used when the note is ""); a beat
// with no note and a freq of 0 is silence. Duty defaults to 0.5 when unset.
type scoreBeat struct {
	Note string  `json:"note,omitempty"`
	Freq float64 `json:"freq,omitempty"`
	Duty float64 `json:"duty,omitempty"`
}

type scoreMisc struct {
	Value float64 `json:"value,omitempty"`

	SlideFreq  float64 `json:"slide_freq,omitempty"`
	SlideStart float64 `json:"slide_start,omitempty"`
	SlideEnd   float64 `json:"slide_end,omitempty"`

	SlideDuty      float64 `json:"slide_duty,omitempty"`
	DutySlideStart float64 `json:"duty_slide_start,omitempty"`
	DutySlideEnd   float64 `json:"duty_slide_end,omitempty"`

	VibratoIntensity float64 `json:"vibrato_intensity,omitempty"`
	VibratoWidth     uint32  `json:"vibrato_width,omitempty"`

	TremoloIntensity float64 `json:"tremolo_intensity,omitempty"`
	TremoloWidth     uint32  `json:"tremolo_width,omitempty"`

	BeatUS uint32 `json:"beat_us,omitempty"`
}

func loadScore(path string) (*scoreFile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var s scoreFile
	if err := json.NewDecoder(f).Decode(&s); err != nil {
		return nil, fmt.Errorf("parsing score %s: %w", path, err)
	}
	if s.BeatUS == 0 {
		return nil, fmt.Errorf("score %s: beat_us must be non-zero", path)
	}
	if len(s.Voices) == 0 {
		return nil, fmt.Errorf("score %s: at least one voice is required", path)
	}
	return &s, nil
}

// pins returns every GPIO pin number the score drives, in voice order.
func (s *scoreFile) pins() []int {
	pins := make([]int, len(s.Voices))
	for i, v := range s.Voices {
		pins[i] = v.Pin
	}
	return pins
}

// apply registers every voice in the score against an already-Open'd Queue.
func (s *scoreFile) apply(q *player.Queue) error {
	for _, v := range s.Voices {
		freqs := make([]float64, len(v.Notes))
		duties := make([]float64, len(v.Notes))
		for i, n := range v.Notes {
			f := n.Freq
			if n.Note != "" {
				hz, ok := notes.Hz(n.Note)
				if !ok {
					return fmt.Errorf("pin %d beat %d: unknown note %q", v.Pin, i, n.Note)
				}
				f = hz
			}
			d := n.Duty
			if d == 0 {
				d = 0.5
			}
			freqs[i] = f
			duties[i] = d
		}
		misc := make([]*player.Misc, len(v.Misc))
		for i, m := range v.Misc {
			if m == nil {
				continue
			}
			misc[i] = &player.Misc{
				Value:            m.Value,
				UsingPitchSlide:  m.SlideFreq != 0,
				SlideFreq:        m.SlideFreq,
				SlideStart:       m.SlideStart,
				SlideEnd:         m.SlideEnd,
				UsingDutySlide:   m.SlideDuty != 0,
				SlideDuty:        m.SlideDuty,
				DutySlideStart:   m.DutySlideStart,
				DutySlideEnd:     m.DutySlideEnd,
				UsingVibrato:     m.VibratoIntensity != 0,
				VibratoIntensity: m.VibratoIntensity,
				VibratoWidth:     m.VibratoWidth,
				UsingTremolo:     m.TremoloIntensity != 0,
				TremoloIntensity: m.TremoloIntensity,
				TremoloWidth:     m.TremoloWidth,
				BeatUS:           m.BeatUS,
			}
		}
		if err := q.Add(v.Pin, freqs, duties, misc); err != nil {
			return err
		}
	}
	return nil
}

// Copyright 2016 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package main

import (
	"errors"
	"fmt"
	"io/ioutil"
	"log"

	"github.com/spf13/cobra"

	"github.com/gpiowave/player/host"
	"github.com/gpiowave/player/notes"
	"github.com/gpiowave/player/player"
)

func newPlayCmd() *cobra.Command {
	var (
		scorePath string
		pin       int
		note      string
		freq      float64
		duty      float64
		beatUS    uint32
		beats     int
		verbose   bool
	)

	cmd := &cobra.Command{
		Use:   "play",
		Short: "Render and stream a score (or a single test tone) out of GPIO",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !verbose {
				log.SetOutput(ioutil.Discard)
			}
			log.SetFlags(log.Lmicroseconds)

			if _, err := host.Init(); err != nil {
				return err
			}

			var s *scoreFile
			if scorePath != "" {
				var err error
				s, err = loadScore(scorePath)
				if err != nil {
					return err
				}
			} else {
				f := freq
				if note != "" {
					hz, ok := notes.Hz(note)
					if !ok {
						return fmt.Errorf("unknown note %q", note)
					}
					f = hz
				}
				if f == 0 {
					return errors.New("specify --score, or --note/--freq for a single tone")
				}
				s = &scoreFile{
					BeatUS: beatUS,
					Beats:  beats,
					Voices: []scoreVoice{{
						Pin:   pin,
						Notes: []scoreBeat{{Freq: f, Duty: duty}},
					}},
				}
			}
			if s.Beats == 0 {
				s.Beats = 1
				for _, v := range s.Voices {
					if len(v.Notes) > s.Beats {
						s.Beats = len(v.Notes)
					}
				}
			}

			q, err := player.Open(s.pins()...)
			if err != nil {
				return err
			}
			if err := s.apply(q); err != nil {
				return err
			}
			return q.Play(s.BeatUS, s.Beats)
		},
	}

	cmd.Flags().StringVar(&scorePath, "score", "", "path to a JSON score file")
	cmd.Flags().IntVar(&pin, "pin", 18, "GPIO pin number for a single test tone")
	cmd.Flags().StringVar(&note, "note", "", "note name for a single test tone (e.g. a4), overrides --freq")
	cmd.Flags().Float64Var(&freq, "freq", 0, "frequency in Hz for a single test tone")
	cmd.Flags().Float64Var(&duty, "duty", 0.5, "duty cycle (0,1) for a single test tone")
	cmd.Flags().Uint32Var(&beatUS, "beat-us", 500000, "beat length in microseconds")
	cmd.Flags().IntVar(&beats, "beats", 0, "number of beats to play (0: derive from --score, or 1 for a single tone)")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logs")
	return cmd
}

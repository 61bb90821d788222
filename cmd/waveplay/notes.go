// Copyright 2016 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/gpiowave/player/notes"
)

func newNotesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "notes",
		Short: "Print the note name to frequency table",
		RunE: func(cmd *cobra.Command, args []string) error {
			names := make([]string, 0, len(notes.Frequencies))
			for n := range notes.Frequencies {
				names = append(names, n)
			}
			sort.Strings(names)
			for _, n := range names {
				fmt.Printf("%-3s %9.3f Hz\n", n, notes.Frequencies[n])
			}
			return nil
		},
	}
}

// Copyright 2016 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// waveplay drives GPIO-connected speakers or piezo buzzers from a scored
// beat/voice sequence, using the bcm283x DMA engine to generate square
// waves with accurate timing.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	root := &cobra.Command{
		Use:   "waveplay",
		Short: "Play square-wave tunes out of Raspberry Pi GPIO pins",
	}
	root.AddCommand(newPlayCmd(), newNotesCmd(), newDevicesCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "waveplay: %s.\n", err)
		os.Exit(1)
	}
}

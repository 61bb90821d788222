// Copyright 2016 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package main

import (
	"fmt"
	"io/ioutil"
	"log"

	"github.com/spf13/cobra"

	"github.com/gpiowave/player/conn/gpio"
	"github.com/gpiowave/player/host"
)

func newDevicesCmd() *cobra.Command {
	var verbose bool
	cmd := &cobra.Command{
		Use:   "devices",
		Short: "List the GPIO pins available to drive with play --pin",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !verbose {
				log.SetOutput(ioutil.Discard)
			}
			log.SetFlags(0)

			if _, err := host.Init(); err != nil {
				return err
			}

			pins := gpio.All()
			maxName := 0
			for _, p := range pins {
				if l := len(p.String()); l > maxName {
					maxName = l
				}
			}
			for _, p := range pins {
				fmt.Printf("%-*s: %s\n", maxName, p, p.Function())
			}
			return nil
		},
	}
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logs")
	return cmd
}

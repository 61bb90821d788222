// Copyright 2016 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package host

import (
	// Make sure the bcm283x GPIO/DMA/PWM driver is registered.
	_ "github.com/gpiowave/player/host/bcm283x"
)

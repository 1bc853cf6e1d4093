package kernels

import "runtime"

func archName() string { return runtime.GOARCH }

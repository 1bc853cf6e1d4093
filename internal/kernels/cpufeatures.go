package kernels

import "golang.org/x/sys/cpu"

/// SIMDReport summarises which vector extensions the host CPU offers
/// for the fused multiply-add pattern the one-qubit kernel's inner loop
/// exercises. It doesn't change the kernel's behaviour — Go's compiler
/// decides vectorisation, not this code — it's diagnostic, surfaced by
/// the CLI so operators can tell whether the hardware they're running
/// on can accelerate the hot loop the design calls out as SIMD-amenable.
type SIMDReport struct {
	Arch    string
	AVX     bool
	AVX2    bool
	FMA     bool
	NEON    bool
	NEONFMA bool
}

/// DetectSIMD inspects cpu.X86 / cpu.ARM64 feature flags for the
/// current host.
func DetectSIMD() SIMDReport {
	return SIMDReport{
		Arch:    archName(),
		AVX:     cpu.X86.HasAVX,
		AVX2:    cpu.X86.HasAVX2,
		FMA:     cpu.X86.HasFMA,
		NEON:    cpu.ARM64.HasASIMD,
		NEONFMA: cpu.ARM64.HasASIMDFHM,
	}
}

package kernels

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"qpaging/internal/gateset"
)

/// Pool bounds the concurrency of the kernels' worker pool to the
/// number of available cores, mirroring the design's "data-parallel
/// across chunks via a worker pool sized to available cores."
/// Reusing one Pool across gate applications in a run avoids
/// reconstructing the semaphore per gate.
type Pool struct {
	sem *semaphore.Weighted
	n   int64
}

/// NewPool sizes a worker pool to runtime.GOMAXPROCS(0). It does not
/// inspect or log CPU features; DetectSIMD (cpufeatures.go) does that,
/// and the Controller logs its report at initialization.
func NewPool() *Pool {
	n := int64(runtime.GOMAXPROCS(0))
	return &Pool{sem: semaphore.NewWeighted(n), n: n}
}

/// ApplyOneQubit applies the 2x2 unitary u to target qubit q over
/// region, reinterpreted as a contiguous complex128 array. Chunks of
/// block = 2*stride amplitudes are independent and run in parallel
/// across p's worker pool; within a chunk the inner loop applies the
/// fused multiply-add pattern the design calls out as SIMD-amenable.
func (p *Pool) ApplyOneQubit(region []byte, q int, u gateset.Matrix2x2) error {
	amps := bytesToAmplitudes(region)
	if err := checkTarget(len(amps), q); err != nil {
		return err
	}

	stride := 1 << uint(q)
	block := 2 * stride
	numBlocks := len(amps) / block

	g, ctx := errgroup.WithContext(context.Background())
	chunks := splitBlocks(numBlocks, int(p.n))
	for _, c := range chunks {
		c := c
		if err := p.sem.Acquire(ctx, 1); err != nil {
			break
		}
		g.Go(func() error {
			defer p.sem.Release(1)
			applyOneQubitRange(amps, stride, block, c.lo, c.hi, u)
			return nil
		})
	}
	return g.Wait()
}

func applyOneQubitRange(amps []complex128, stride, block, loBlock, hiBlock int, u gateset.Matrix2x2) {
	u00, u01, u10, u11 := u[0], u[1], u[2], u[3]
	for b := loBlock; b < hiBlock; b++ {
		base := b * block
		lower := amps[base : base+stride]
		upper := amps[base+stride : base+block]
		for i := 0; i < stride; i++ {
			a0, a1 := lower[i], upper[i]
			lower[i] = u00*a0 + u01*a1
			upper[i] = u10*a0 + u11*a1
		}
	}
}

type blockRange struct{ lo, hi int }

// splitBlocks partitions [0, numBlocks) into up to workers contiguous,
// roughly equal ranges so each worker touches disjoint chunks.
func splitBlocks(numBlocks, workers int) []blockRange {
	if workers < 1 {
		workers = 1
	}
	if numBlocks < workers {
		workers = numBlocks
	}
	if workers == 0 {
		return nil
	}
	ranges := make([]blockRange, 0, workers)
	base := numBlocks / workers
	rem := numBlocks % workers
	lo := 0
	for i := 0; i < workers; i++ {
		size := base
		if i < rem {
			size++
		}
		hi := lo + size
		if size > 0 {
			ranges = append(ranges, blockRange{lo, hi})
		}
		lo = hi
	}
	return ranges
}
